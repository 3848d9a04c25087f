package inmemdb

import (
	"context"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/program"
)

type programRepository struct {
	db *programTable
}

var _ program.Repository = (*programRepository)(nil) // interface compliance check

func NewProgramRepository(db *DB) program.Repository {
	return &programRepository{db: db.program}
}

var programFields = map[string]comparer[program.Program]{
	"name":       func(a, b program.Program) int { return strings.Compare(a.Name, b.Name) },
	"code":       func(a, b program.Program) int { return strings.Compare(a.Code, b.Code) },
	"field":      func(a, b program.Program) int { return strings.Compare(string(a.Field), string(b.Field)) },
	"last_score": func(a, b program.Program) int { return compareNullFloat(a.LastScore, b.LastScore) },
	"created_at": func(a, b program.Program) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}

func (repo *programRepository) CheckCodeUniqueness(_ context.Context, code string, excluded ...program.Program) error {
	if code == "" {
		return nil
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	excl := excludedIDs(excluded, func(p program.Program) string { return p.ID })
	for _, p := range repo.db.table {
		if p.Code == code && !excl[p.ID] {
			return program.ErrCodeExists
		}
	}
	return nil
}

func (repo *programRepository) CreateProgram(_ context.Context, p program.Program) (program.Program, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *programRepository) QueryPrograms(_ context.Context, filter *program.QueryFilter, ordering ...core.DBOrdering) ([]program.Program, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	progs := make([]program.Program, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		if filter == nil || filter.Match(*p) {
			progs = append(progs, *p)
		}
	}
	sortRows(progs, ordering, programFields, core.DBOrdering{Field: "name", Ascending: true})
	return progs, nil
}

func (repo *programRepository) GetProgram(_ context.Context, id string) (program.Program, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[id]; ok {
		return *p, nil
	}
	return program.Program{}, program.ErrNotFound
}

func (repo *programRepository) UpdateProgram(_ context.Context, p program.Program) (program.Program, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[p.ID]; !ok {
		return program.Program{}, program.ErrNotFound
	}
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *programRepository) DeletePrograms(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

// compareNullFloat sorts missing values first.
func compareNullFloat(a, b null.Float64) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return -1
	case !b.Valid:
		return 1
	case a.Float64 < b.Float64:
		return -1
	case a.Float64 > b.Float64:
		return 1
	}
	return 0
}
