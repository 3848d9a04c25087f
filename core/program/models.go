package program

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/score"
)

// Program is a university program managed by admins.
type Program struct {
	ID             string       `json:"id"`
	UniversityID   string       `json:"university_id"`
	Name           string       `json:"name"`
	Field          score.Stream `json:"field"`
	Degree         string       `json:"degree"`
	Code           string       `json:"code"`
	Duration       null.String  `json:"duration"`
	Specialization null.String  `json:"specialization"`
	SpecialNote    null.String  `json:"special_note"`
	LastScore      null.Float64 `json:"last_score"`
	Description    string       `json:"description"`
	CreatedAt      time.Time    `json:"created_at"` // UTC
	UpdatedAt      time.Time    `json:"updated_at"` // UTC
}

// NewProgram contains information needed to create a new Program.
type NewProgram struct {
	UniversityID   string   `json:"university_id" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	Field          string   `json:"field" validate:"required,bacstream"`
	Degree         string   `json:"degree" validate:"required"`
	Code           string   `json:"code" validate:"omitempty,alphanum_"`
	Duration       string   `json:"duration"`
	Specialization string   `json:"specialization"`
	SpecialNote    string   `json:"special_note"`
	LastScore      *float64 `json:"last_score" validate:"omitempty,gte=0,lte=250"`
	Description    string   `json:"description"`
}

func (np *NewProgram) clean() {
	np.UniversityID = core.CleanString(np.UniversityID)
	np.Name = core.CleanString(np.Name)
	np.Field = core.CleanString(np.Field)
	if st, err := score.ParseStream(np.Field); err == nil {
		np.Field = string(st)
	}
	np.Degree = core.CleanString(np.Degree)
	np.Code = core.CleanString(np.Code)
	np.Duration = core.CleanString(np.Duration)
	np.Specialization = core.CleanString(np.Specialization)
	np.SpecialNote = core.CleanString(np.SpecialNote)
	np.Description = core.CleanString(np.Description)
}

// UpdateProgram defines what information may be provided to modify an existing Program.
// Blank fields keep their current value.
type UpdateProgram struct {
	UniversityID   string   `json:"university_id"`
	Name           string   `json:"name"`
	Field          string   `json:"field" validate:"omitempty,bacstream"`
	Degree         string   `json:"degree"`
	Code           string   `json:"code" validate:"omitempty,alphanum_"`
	Duration       string   `json:"duration"`
	Specialization string   `json:"specialization"`
	SpecialNote    string   `json:"special_note"`
	LastScore      *float64 `json:"last_score" validate:"omitempty,gte=0,lte=250"`
	Description    string   `json:"description"`
}

func (up *UpdateProgram) apply(p Program) Program {
	pick := func(val, orig string) string {
		if val = core.CleanString(val); val != "" {
			return val
		}
		return orig
	}
	pickNull := func(val string, orig null.String) null.String {
		if val = core.CleanString(val); val != "" {
			return null.StringFrom(val)
		}
		return orig
	}

	p.UniversityID = pick(up.UniversityID, p.UniversityID)
	p.Name = pick(up.Name, p.Name)
	if st, err := score.ParseStream(up.Field); err == nil {
		p.Field = st
	}
	p.Degree = pick(up.Degree, p.Degree)
	p.Code = pick(up.Code, p.Code)
	p.Duration = pickNull(up.Duration, p.Duration)
	p.Specialization = pickNull(up.Specialization, p.Specialization)
	p.SpecialNote = pickNull(up.SpecialNote, p.SpecialNote)
	if up.LastScore != nil {
		p.LastScore = null.Float64From(score.Round(*up.LastScore))
	}
	p.Description = pick(up.Description, p.Description)
	return p
}

type QueryFilter struct {
	Search       string `query:"search"`
	Field        string `query:"field"`
	UniversityID string `query:"university_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Field == "" && qf.UniversityID == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Field = core.CleanString(qf.Field)
	if st, err := score.ParseStream(qf.Field); err == nil {
		qf.Field = string(st)
	}
	qf.UniversityID = core.CleanString(qf.UniversityID)
}

// Match reports whether `p` satisfies the filter; used by non-SQL repositories.
func (qf QueryFilter) Match(p Program) bool {
	if qf.Field != "" && string(p.Field) != qf.Field {
		return false
	}
	if qf.UniversityID != "" && p.UniversityID != qf.UniversityID {
		return false
	}
	if qf.Search != "" &&
		!(core.ContainsFold(p.Name, qf.Search) ||
			core.ContainsFold(p.Degree, qf.Search) ||
			core.ContainsFold(p.Code, qf.Search) ||
			core.ContainsFold(p.Specialization.String, qf.Search) ||
			core.ContainsFold(p.Description, qf.Search)) {
		return false
	}
	return true
}
