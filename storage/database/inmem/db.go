// Package inmemdb holds repositories backed by in-memory tables.
// They are used by tests and by the API when no database is configured.
package inmemdb

import (
	"sort"
	"strings"
	"sync"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/calendar"
	"github.com/trezcool/tawjih/core/program"
	"github.com/trezcool/tawjih/core/university"
	"github.com/trezcool/tawjih/core/user"
)

type (
	DB struct {
		user       *userTable
		university *universityTable
		program    *programTable
		event      *eventTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	universityTable struct {
		sync.RWMutex
		table map[string]*university.University
	}

	programTable struct {
		sync.RWMutex
		table map[string]*program.Program
	}

	eventTable struct {
		sync.RWMutex
		table map[string]*calendar.Event
	}
)

func Open() *DB {
	return &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		university: &universityTable{table: make(map[string]*university.University)},
		program:    &programTable{table: make(map[string]*program.Program)},
		event:      &eventTable{table: make(map[string]*calendar.Event)},
	}
}

// comparer returns <0, 0 or >0 when a sorts before, with or after b in ascending order.
type comparer[T any] func(a, b T) int

// sortRows sorts rows by the known orderings, falling back to `fallback` when none applies.
func sortRows[T any](rows []T, ordering []core.DBOrdering, fields map[string]comparer[T], fallback ...core.DBOrdering) {
	known := make([]core.DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		if _, ok := fields[ord.Field]; ok {
			known = append(known, ord)
		}
	}
	if len(known) == 0 {
		known = fallback
	}
	if len(known) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, ord := range known {
			c := fields[ord.Field](rows[i], rows[j])
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func excludedIDs[T any](excluded []T, id func(T) string) map[string]bool {
	ids := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		ids[id(e)] = true
	}
	return ids
}

func equalFold(a, b string) bool {
	return a != "" && strings.EqualFold(core.FoldText(a), core.FoldText(b))
}
