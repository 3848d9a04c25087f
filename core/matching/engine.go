// Package matching ranks the admission catalogue against a student's score.
package matching

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/score"
	"github.com/trezcool/tawjih/core/university"
)

const (
	DefaultLimit      = 20
	DefaultFieldLimit = 10
)

var ErrCatalogueUnavailable = errors.New("programs catalogue unavailable")

type (
	// Loader reads the whole catalogue.
	Loader func() ([]Program, error)

	// WebsiteFinder looks a university up by (part of) its name.
	WebsiteFinder interface {
		Find(name string) (university.University, bool)
	}

	Recommendation struct {
		Program     Program  `json:"program"`
		MatchScore  float64  `json:"match_score"`
		Category    Category `json:"category"`
		Probability string   `json:"probability"`
		Gap         float64  `json:"gap"`
	}

	// FieldProgram is a catalogue row enriched with its university's details.
	FieldProgram struct {
		Program
		Website      string `json:"website"`
		UniversityAr string `json:"university_ar"`
		UniversityFr string `json:"university_fr"`
	}

	Stats struct {
		Excellent int `json:"excellent"`
		Good      int `json:"good"`
		Reach     int `json:"reach"`
		Safety    int `json:"safety"`
		Total     int `json:"total"`
	}
)

// FromReader decodes a JSON array of programs.
func FromReader(r io.Reader) Loader {
	return func() ([]Program, error) {
		var progs []Program
		if err := json.NewDecoder(r).Decode(&progs); err != nil {
			return nil, errors.Wrap(err, "decoding catalogue")
		}
		return progs, nil
	}
}

// FromFS reads the JSON catalogue `name` from fsys.
func FromFS(fsys fs.FS, name string) Loader {
	return func() ([]Program, error) {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", name)
		}
		defer f.Close()
		return FromReader(f)()
	}
}

func FromPrograms(progs []Program) Loader {
	return func() ([]Program, error) {
		out := make([]Program, len(progs))
		copy(out, progs)
		return out, nil
	}
}

// Engine holds the catalogue, loaded once on first use and never modified afterwards.
type Engine struct {
	load   Loader
	finder WebsiteFinder
	logger core.Logger

	once     sync.Once
	programs []Program
	err      error
}

// NewEngine returns an Engine over the catalogue read by `load`. logger may be nil.
func NewEngine(load Loader, finder WebsiteFinder, logger core.Logger) *Engine {
	return &Engine{load: load, finder: finder, logger: logger}
}

func (e *Engine) catalogue() ([]Program, error) {
	e.once.Do(func() {
		if e.load == nil {
			e.err = ErrCatalogueUnavailable
			return
		}
		e.programs, e.err = e.load()
		if e.err != nil {
			e.err = errors.Wrap(ErrCatalogueUnavailable, e.err.Error())
			if e.logger != nil {
				e.logger.Error(fmt.Sprintf("loading catalogue: %v", e.err), e.err)
			}
		}
	})
	return e.programs, e.err
}

// Err reports whether the catalogue could be loaded.
func (e *Engine) Err() error {
	_, err := e.catalogue()
	return err
}

// Programs returns a copy of the whole catalogue; empty if it failed to load.
func (e *Engine) Programs() []Program {
	progs, err := e.catalogue()
	if err != nil {
		return []Program{}
	}
	out := make([]Program, len(progs))
	copy(out, progs)
	return out
}

// Recommend ranks the programs of `stream` by how close their threshold is to userScore.
// Rows with a blank or non-numeric score are skipped. The result holds at most `limit`
// recommendations (DefaultLimit when limit <= 0) and is never nil.
func (e *Engine) Recommend(userScore float64, stream score.Stream, limit int) []Recommendation {
	if limit <= 0 {
		limit = DefaultLimit
	}
	recs := make([]Recommendation, 0)
	progs, err := e.catalogue()
	if err != nil {
		return recs
	}

	for _, p := range progs {
		if p.Field != string(stream) {
			continue
		}
		threshold, ok := p.Score.Value()
		if !ok {
			continue
		}
		gap := userScore - threshold
		cat := Categorize(gap)
		recs = append(recs, Recommendation{
			Program:     p,
			MatchScore:  score.Round(MatchQuality(gap)),
			Category:    cat,
			Probability: cat.Probability(),
			Gap:         score.Round(gap),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].MatchScore > recs[j].MatchScore })
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// ByCategory groups recommendations per category, keeping their order. Every category has a (possibly empty) list.
func ByCategory(recs []Recommendation) map[Category][]Recommendation {
	groups := make(map[Category][]Recommendation, len(Categories))
	for _, c := range Categories {
		groups[c] = make([]Recommendation, 0)
	}
	for _, r := range recs {
		groups[r.Category] = append(groups[r.Category], r)
	}
	return groups
}

func CategoryStats(recs []Recommendation) Stats {
	st := Stats{Total: len(recs)}
	for _, r := range recs {
		switch r.Category {
		case Excellent:
			st.Excellent++
		case Good:
			st.Good++
		case Reach:
			st.Reach++
		case Safety:
			st.Safety++
		}
	}
	return st
}

// ProgramsByField returns the first `limit` programs of `field` (DefaultFieldLimit when limit <= 0)
// that name a degree and a university, along with the university website and names.
func (e *Engine) ProgramsByField(field string, limit int) []FieldProgram {
	if limit <= 0 {
		limit = DefaultFieldLimit
	}
	out := make([]FieldProgram, 0)
	progs, err := e.catalogue()
	if err != nil {
		return out
	}

	for _, p := range progs {
		if len(out) == limit {
			break
		}
		if p.Field != field || p.Degree == "" || p.University == "" {
			continue
		}
		fp := FieldProgram{Program: p, UniversityAr: p.University, UniversityFr: p.University}
		if e.finder != nil {
			if uni, ok := e.finder.Find(p.University); ok {
				fp.Website = uni.Website
				fp.UniversityAr = uni.Name
				fp.UniversityFr = uni.NameFr
			}
		}
		out = append(out, fp)
	}
	return out
}
