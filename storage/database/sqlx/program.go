package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/program"
	"github.com/trezcool/tawjih/core/score"
)

const programColumns = `id, university_id, name, field, degree, code, duration, specialization, special_note,
	last_score, description, created_at, updated_at`

var programOrdering = map[string]string{
	"name":       "name",
	"code":       "code",
	"field":      "field",
	"last_score": "last_score",
	"created_at": "created_at",
}

type programRow struct {
	ID             string              `db:"id"`
	UniversityID   string              `db:"university_id"`
	Name           string              `db:"name"`
	Field          string              `db:"field"`
	Degree         string              `db:"degree"`
	Code           null.String         `db:"code"`
	Duration       null.String         `db:"duration"`
	Specialization null.String         `db:"specialization"`
	SpecialNote    null.String         `db:"special_note"`
	LastScore      decimal.NullDecimal `db:"last_score"`
	Description    string              `db:"description"`
	CreatedAt      time.Time           `db:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at"`
}

func toProgramRow(p program.Program) programRow {
	row := programRow{
		ID:             p.ID,
		UniversityID:   p.UniversityID,
		Name:           p.Name,
		Field:          string(p.Field),
		Degree:         p.Degree,
		Code:           null.NewString(p.Code, p.Code != ""),
		Duration:       p.Duration,
		Specialization: p.Specialization,
		SpecialNote:    p.SpecialNote,
		Description:    p.Description,
		CreatedAt:      p.CreatedAt.UTC(),
		UpdatedAt:      p.UpdatedAt.UTC(),
	}
	if p.LastScore.Valid {
		row.LastScore = decimal.NewNullDecimal(decimal.NewFromFloat(p.LastScore.Float64).Round(2))
	}
	return row
}

func (r programRow) program() program.Program {
	p := program.Program{
		ID:             r.ID,
		UniversityID:   r.UniversityID,
		Name:           r.Name,
		Field:          score.Stream(r.Field),
		Degree:         r.Degree,
		Code:           r.Code.String,
		Duration:       r.Duration,
		Specialization: r.Specialization,
		SpecialNote:    r.SpecialNote,
		Description:    r.Description,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
	if r.LastScore.Valid {
		p.LastScore = null.Float64From(r.LastScore.Decimal.InexactFloat64())
	}
	return p
}

type programRepository struct {
	db *sqlx.DB
}

var _ program.Repository = (*programRepository)(nil) // interface compliance check

func NewProgramRepository(db *sqlx.DB) program.Repository {
	return &programRepository{db: db}
}

func (repo *programRepository) CheckCodeUniqueness(ctx context.Context, code string, excluded ...program.Program) error {
	if code == "" {
		return nil
	}
	var w where
	w.add("code = ?", code)
	ids := make([]string, 0, len(excluded))
	for _, p := range excluded {
		ids = append(ids, p.ID)
	}
	w.notIn("id", ids)

	found, err := exists(ctx, repo.db, "program"+w.String(), w.args...)
	if err != nil {
		return errors.Wrap(err, "checking program uniqueness")
	}
	if found {
		return program.ErrCodeExists
	}
	return nil
}

func (repo *programRepository) CreateProgram(ctx context.Context, p program.Program) (program.Program, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	q := `INSERT INTO program (` + programColumns + `)
		VALUES (:id, :university_id, :name, :field, :degree, :code, :duration, :specialization, :special_note,
		:last_score, :description, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, toProgramRow(p)); err != nil {
		return program.Program{}, errors.Wrap(err, "inserting program")
	}
	return p, nil
}

func (repo *programRepository) QueryPrograms(ctx context.Context, filter *program.QueryFilter, ordering ...core.DBOrdering) ([]program.Program, error) {
	var w where
	if filter != nil {
		if filter.Field != "" {
			w.add("field = ?", filter.Field)
		}
		if filter.UniversityID != "" {
			w.add("university_id = ?", filter.UniversityID)
		}
		if filter.Search != "" {
			val := like(filter.Search)
			w.add("name ILIKE ? OR degree ILIKE ? OR code ILIKE ? OR specialization ILIKE ? OR description ILIKE ?",
				val, val, val, val, val)
		}
	}
	q := `SELECT ` + programColumns + ` FROM program` + w.String() +
		` ORDER BY ` + core.OrderingClause(ordering, programOrdering, "name ASC")

	var rows []programRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), w.args...); err != nil {
		return nil, errors.Wrap(err, "querying programs")
	}
	progs := make([]program.Program, 0, len(rows))
	for _, r := range rows {
		progs = append(progs, r.program())
	}
	return progs, nil
}

func (repo *programRepository) GetProgram(ctx context.Context, id string) (program.Program, error) {
	if _, err := uuid.Parse(id); err != nil {
		return program.Program{}, program.ErrNotFound
	}
	var row programRow
	q := `SELECT ` + programColumns + ` FROM program WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return program.Program{}, trapNoRowsErr(err, program.ErrNotFound, "finding program")
	}
	return row.program(), nil
}

func (repo *programRepository) UpdateProgram(ctx context.Context, p program.Program) (program.Program, error) {
	q := `UPDATE program SET university_id = :university_id, name = :name, field = :field, degree = :degree,
		code = :code, duration = :duration, specialization = :specialization, special_note = :special_note,
		last_score = :last_score, description = :description, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, toProgramRow(p))
	if err != nil {
		return program.Program{}, errors.Wrap(err, "updating program")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return program.Program{}, program.ErrNotFound
	}
	return p, nil
}

func (repo *programRepository) DeletePrograms(ctx context.Context, ids ...string) error {
	if err := deleteIn(ctx, repo.db, "program", ids); err != nil {
		return errors.Wrap(err, "deleting programs")
	}
	return nil
}
