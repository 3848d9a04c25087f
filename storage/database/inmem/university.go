package inmemdb

import (
	"context"
	"strings"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/university"
)

type universityRepository struct {
	db *universityTable
}

var _ university.Repository = (*universityRepository)(nil) // interface compliance check

func NewUniversityRepository(db *DB) university.Repository {
	return &universityRepository{db: db.university}
}

var universityFields = map[string]comparer[university.University]{
	"name":       func(a, b university.University) int { return strings.Compare(a.Name, b.Name) },
	"name_fr":    func(a, b university.University) int { return strings.Compare(a.NameFr, b.NameFr) },
	"region":     func(a, b university.University) int { return strings.Compare(string(a.Region), string(b.Region)) },
	"created_at": func(a, b university.University) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}

func (repo *universityRepository) CheckNameUniqueness(_ context.Context, name, nameFr string, excluded ...university.University) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excl := excludedIDs(excluded, func(u university.University) string { return u.ID })
	for _, uni := range repo.db.table {
		if excl[uni.ID] {
			continue
		}
		if equalFold(uni.Name, name) || equalFold(uni.NameFr, nameFr) {
			return university.ErrNameExists
		}
	}
	return nil
}

func (repo *universityRepository) CreateUniversity(_ context.Context, uni university.University) (university.University, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[uni.ID] = &uni
	return uni, nil
}

func (repo *universityRepository) QueryUniversities(_ context.Context, filter *university.QueryFilter, ordering ...core.DBOrdering) ([]university.University, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	unis := make([]university.University, 0, len(repo.db.table))
	for _, uni := range repo.db.table {
		if filter == nil || filter.Match(*uni) {
			unis = append(unis, *uni)
		}
	}
	sortRows(unis, ordering, universityFields, core.DBOrdering{Field: "name", Ascending: true})
	return unis, nil
}

func (repo *universityRepository) GetUniversity(_ context.Context, id string) (university.University, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if uni, ok := repo.db.table[id]; ok {
		return *uni, nil
	}
	return university.University{}, university.ErrNotFound
}

func (repo *universityRepository) UpdateUniversity(_ context.Context, uni university.University) (university.University, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[uni.ID]; !ok {
		return university.University{}, university.ErrNotFound
	}
	repo.db.table[uni.ID] = &uni
	return uni, nil
}

func (repo *universityRepository) DeleteUniversities(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
