package calendar

import (
	"time"

	"github.com/trezcool/tawjih/core"
)

// Category of an orientation event.
type Category string

const (
	FGPublishing       Category = "fg_publishing"
	PrimaryOrientation Category = "primary_orientation"
	FinalOrientation   Category = "final_orientation"
	ForeignBac         Category = "foreign_bac"
	ReOrientation      Category = "re_orientation"
	TestPrograms       Category = "test_programs"
)

var Categories = []Category{FGPublishing, PrimaryOrientation, FinalOrientation, ForeignBac, ReOrientation, TestPrograms}

var categoryLabels = map[Category]struct{ ar, fr string }{
	FGPublishing:       {"نشر صيغ المجموع العام", "Publication des formules FG"},
	PrimaryOrientation: {"التوجيه الأولي", "Orientation principale"},
	FinalOrientation:   {"التوجيه النهائي", "Orientation finale"},
	ForeignBac:         {"الباكالوريا الأجنبية", "Bac étranger"},
	ReOrientation:      {"إعادة التوجيه", "Réorientation"},
	TestPrograms:       {"الاختبارات والبرامج", "Tests et programmes"},
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the category name in `lang` (ar or fr).
func (c Category) Label(lang string) string {
	l := categoryLabels[c]
	return core.Pick(lang, l.ar, l.fr)
}

type Event struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	TitleFr       string    `json:"title_fr" yaml:"title_fr"`
	Date          time.Time `json:"date" yaml:"date"` // UTC midnight
	Description   string    `json:"description" yaml:"description"`
	DescriptionFr string    `json:"description_fr" yaml:"description_fr"`
	Category      Category  `json:"category" yaml:"category"`
	CreatedAt     time.Time `json:"created_at" yaml:"-"` // UTC
	UpdatedAt     time.Time `json:"updated_at" yaml:"-"` // UTC
}

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	Title         string `json:"title" validate:"required"`
	TitleFr       string `json:"title_fr" validate:"required"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Description   string `json:"description"`
	DescriptionFr string `json:"description_fr"`
	Category      string `json:"category" validate:"required,eventcategory"`
}

func (ne *NewEvent) clean() {
	ne.Title = core.CleanString(ne.Title)
	ne.TitleFr = core.CleanString(ne.TitleFr)
	ne.Date = core.CleanString(ne.Date)
	ne.Description = core.CleanString(ne.Description)
	ne.DescriptionFr = core.CleanString(ne.DescriptionFr)
	ne.Category = core.CleanString(ne.Category, true /* lower */)
}

// UpdateEvent defines what information may be provided to modify an existing Event.
type UpdateEvent struct {
	Title         string `json:"title"`
	TitleFr       string `json:"title_fr"`
	Date          string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description   string `json:"description"`
	DescriptionFr string `json:"description_fr"`
	Category      string `json:"category" validate:"omitempty,eventcategory"`
}

func (ue *UpdateEvent) apply(ev Event) Event {
	pick := func(val, orig string) string {
		if val = core.CleanString(val); val != "" {
			return val
		}
		return orig
	}
	ev.Title = pick(ue.Title, ev.Title)
	ev.TitleFr = pick(ue.TitleFr, ev.TitleFr)
	if d, err := ParseDate(ue.Date); err == nil {
		ev.Date = d
	}
	ev.Description = pick(ue.Description, ev.Description)
	ev.DescriptionFr = pick(ue.DescriptionFr, ev.DescriptionFr)
	if c := Category(core.CleanString(ue.Category, true /* lower */)); c.Valid() {
		ev.Category = c
	}
	return ev
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, core.CleanString(s), time.UTC)
}

const DateLayout = "2006-01-02"

type QueryFilter struct {
	Category string `query:"category"`
	Month    int    `query:"month"` // 1-12
	Year     int    `query:"year"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Category == "" && qf.Month == 0 && qf.Year == 0
}

func (qf *QueryFilter) Clean() {
	qf.Category = core.CleanString(qf.Category, true /* lower */)
	if qf.Month < 0 || qf.Month > 12 {
		qf.Month = 0
	}
	if qf.Year < 0 {
		qf.Year = 0
	}
}

// Match reports whether `ev` satisfies the filter; used by non-SQL repositories.
func (qf QueryFilter) Match(ev Event) bool {
	if qf.Category != "" && string(ev.Category) != qf.Category {
		return false
	}
	if qf.Month != 0 && int(ev.Date.Month()) != qf.Month {
		return false
	}
	if qf.Year != 0 && ev.Date.Year() != qf.Year {
		return false
	}
	return true
}
