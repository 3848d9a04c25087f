package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/calendar"
)

const eventColumns = `id, title, title_fr, date, description, description_fr, category, created_at, updated_at`

var eventOrdering = map[string]string{
	"date":     "date",
	"title":    "title",
	"category": "category",
}

type eventRow struct {
	ID            string    `db:"id"`
	Title         string    `db:"title"`
	TitleFr       string    `db:"title_fr"`
	Date          time.Time `db:"date"`
	Description   string    `db:"description"`
	DescriptionFr string    `db:"description_fr"`
	Category      string    `db:"category"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func toEventRow(ev calendar.Event) eventRow {
	return eventRow{
		ID:            ev.ID,
		Title:         ev.Title,
		TitleFr:       ev.TitleFr,
		Date:          ev.Date.UTC(),
		Description:   ev.Description,
		DescriptionFr: ev.DescriptionFr,
		Category:      string(ev.Category),
		CreatedAt:     ev.CreatedAt.UTC(),
		UpdatedAt:     ev.UpdatedAt.UTC(),
	}
}

func (r eventRow) event() calendar.Event {
	y, m, d := r.Date.Date()
	return calendar.Event{
		ID:            r.ID,
		Title:         r.Title,
		TitleFr:       r.TitleFr,
		Date:          time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Description:   r.Description,
		DescriptionFr: r.DescriptionFr,
		Category:      calendar.Category(r.Category),
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

type eventRepository struct {
	db *sqlx.DB
}

var _ calendar.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) calendar.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, error) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	q := `INSERT INTO event (` + eventColumns + `)
		VALUES (:id, :title, :title_fr, :date, :description, :description_fr, :category, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, toEventRow(ev)); err != nil {
		return calendar.Event{}, errors.Wrap(err, "inserting event")
	}
	return ev, nil
}

func (repo *eventRepository) QueryEvents(ctx context.Context, filter *calendar.QueryFilter, ordering ...core.DBOrdering) ([]calendar.Event, error) {
	var w where
	if filter != nil {
		if filter.Category != "" {
			w.add("category = ?", filter.Category)
		}
		if filter.Month != 0 {
			w.add("EXTRACT(MONTH FROM date) = ?", filter.Month)
		}
		if filter.Year != 0 {
			w.add("EXTRACT(YEAR FROM date) = ?", filter.Year)
		}
	}
	q := `SELECT ` + eventColumns + ` FROM event` + w.String() +
		` ORDER BY ` + core.OrderingClause(ordering, eventOrdering, "date ASC")

	var rows []eventRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), w.args...); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]calendar.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.event())
	}
	return events, nil
}

func (repo *eventRepository) GetEvent(ctx context.Context, id string) (calendar.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return calendar.Event{}, calendar.ErrNotFound
	}
	var row eventRow
	q := `SELECT ` + eventColumns + ` FROM event WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return calendar.Event{}, trapNoRowsErr(err, calendar.ErrNotFound, "finding event")
	}
	return row.event(), nil
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, error) {
	q := `UPDATE event SET title = :title, title_fr = :title_fr, date = :date, description = :description,
		description_fr = :description_fr, category = :category, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, toEventRow(ev))
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "updating event")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return calendar.Event{}, calendar.ErrNotFound
	}
	return ev, nil
}

func (repo *eventRepository) DeleteEvents(ctx context.Context, ids ...string) error {
	if err := deleteIn(ctx, repo.db, "event", ids); err != nil {
		return errors.Wrap(err, "deleting events")
	}
	return nil
}
