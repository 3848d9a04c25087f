package inmemdb

import (
	"context"
	"strings"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/calendar"
)

type eventRepository struct {
	db *eventTable
}

var _ calendar.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) calendar.Repository {
	return &eventRepository{db: db.event}
}

var eventFields = map[string]comparer[calendar.Event]{
	"date":     func(a, b calendar.Event) int { return compareTime(a.Date, b.Date) },
	"title":    func(a, b calendar.Event) int { return strings.Compare(a.Title, b.Title) },
	"category": func(a, b calendar.Event) int { return strings.Compare(string(a.Category), string(b.Category)) },
}

func (repo *eventRepository) CreateEvent(_ context.Context, ev calendar.Event) (calendar.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[ev.ID] = &ev
	return ev, nil
}

func (repo *eventRepository) QueryEvents(_ context.Context, filter *calendar.QueryFilter, ordering ...core.DBOrdering) ([]calendar.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]calendar.Event, 0, len(repo.db.table))
	for _, ev := range repo.db.table {
		if filter == nil || filter.Match(*ev) {
			events = append(events, *ev)
		}
	}
	sortRows(events, ordering, eventFields, core.DBOrdering{Field: "date", Ascending: true})
	return events, nil
}

func (repo *eventRepository) GetEvent(_ context.Context, id string) (calendar.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ev, ok := repo.db.table[id]; ok {
		return *ev, nil
	}
	return calendar.Event{}, calendar.ErrNotFound
}

func (repo *eventRepository) UpdateEvent(_ context.Context, ev calendar.Event) (calendar.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[ev.ID]; !ok {
		return calendar.Event{}, calendar.ErrNotFound
	}
	repo.db.table[ev.ID] = &ev
	return ev, nil
}

func (repo *eventRepository) DeleteEvents(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
