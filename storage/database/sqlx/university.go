package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/score"
	"github.com/trezcool/tawjih/core/university"
)

const universityColumns = `id, name, name_fr, website, email, phone, address, region, region_fr, created_at, updated_at`

var universityOrdering = map[string]string{
	"name":       "name",
	"name_fr":    "name_fr",
	"region":     "region",
	"created_at": "created_at",
}

type universityRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	NameFr    string    `db:"name_fr"`
	Website   string    `db:"website"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Address   string    `db:"address"`
	Region    string    `db:"region"`
	RegionFr  string    `db:"region_fr"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toUniversityRow(u university.University) universityRow {
	return universityRow{
		ID:        u.ID,
		Name:      u.Name,
		NameFr:    u.NameFr,
		Website:   u.Website,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Region:    string(u.Region),
		RegionFr:  u.RegionFr,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func (r universityRow) university() university.University {
	return university.University{
		ID:        r.ID,
		Name:      r.Name,
		NameFr:    r.NameFr,
		Website:   r.Website,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		Region:    score.Region(r.Region),
		RegionFr:  r.RegionFr,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type universityRepository struct {
	db *sqlx.DB
}

var _ university.Repository = (*universityRepository)(nil) // interface compliance check

func NewUniversityRepository(db *sqlx.DB) university.Repository {
	return &universityRepository{db: db}
}

func (repo *universityRepository) CheckNameUniqueness(ctx context.Context, name, nameFr string, excluded ...university.University) error {
	var w where
	w.add("LOWER(name) = LOWER(?) OR LOWER(name_fr) = LOWER(?)", name, nameFr)
	ids := make([]string, 0, len(excluded))
	for _, u := range excluded {
		ids = append(ids, u.ID)
	}
	w.notIn("id", ids)

	found, err := exists(ctx, repo.db, "university"+w.String(), w.args...)
	if err != nil {
		return errors.Wrap(err, "checking university uniqueness")
	}
	if found {
		return university.ErrNameExists
	}
	return nil
}

func (repo *universityRepository) CreateUniversity(ctx context.Context, uni university.University) (university.University, error) {
	q := `INSERT INTO university (` + universityColumns + `)
		VALUES (:id, :name, :name_fr, :website, :email, :phone, :address, :region, :region_fr, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, toUniversityRow(uni)); err != nil {
		return university.University{}, errors.Wrap(err, "inserting university")
	}
	return uni, nil
}

func (repo *universityRepository) QueryUniversities(ctx context.Context, filter *university.QueryFilter, ordering ...core.DBOrdering) ([]university.University, error) {
	var w where
	if filter != nil {
		if filter.Region != "" {
			w.add("region = ?", filter.Region)
		}
		if filter.Search != "" {
			val := like(filter.Search)
			w.add("name ILIKE ? OR name_fr ILIKE ? OR address ILIKE ?", val, val, val)
		}
	}
	q := `SELECT ` + universityColumns + ` FROM university` + w.String() +
		` ORDER BY ` + core.OrderingClause(ordering, universityOrdering, "name ASC")

	var rows []universityRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), w.args...); err != nil {
		return nil, errors.Wrap(err, "querying universities")
	}
	unis := make([]university.University, 0, len(rows))
	for _, r := range rows {
		unis = append(unis, r.university())
	}
	return unis, nil
}

func (repo *universityRepository) GetUniversity(ctx context.Context, id string) (university.University, error) {
	var row universityRow
	q := `SELECT ` + universityColumns + ` FROM university WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return university.University{}, trapNoRowsErr(err, university.ErrNotFound, "finding university")
	}
	return row.university(), nil
}

func (repo *universityRepository) UpdateUniversity(ctx context.Context, uni university.University) (university.University, error) {
	q := `UPDATE university SET name = :name, name_fr = :name_fr, website = :website, email = :email,
		phone = :phone, address = :address, region = :region, region_fr = :region_fr, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, toUniversityRow(uni))
	if err != nil {
		return university.University{}, errors.Wrap(err, "updating university")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return university.University{}, university.ErrNotFound
	}
	return uni, nil
}

func (repo *universityRepository) DeleteUniversities(ctx context.Context, ids ...string) error {
	if err := deleteIn(ctx, repo.db, "university", ids); err != nil {
		return errors.Wrap(err, "deleting universities")
	}
	return nil
}
