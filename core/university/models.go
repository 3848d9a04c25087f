package university

import (
	"time"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/score"
)

type University struct {
	ID        string       `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	NameFr    string       `json:"name_fr" yaml:"name_fr"`
	Website   string       `json:"website" yaml:"website"`
	Email     string       `json:"email" yaml:"email"`
	Phone     string       `json:"phone" yaml:"phone"`
	Address   string       `json:"address" yaml:"address"`
	Region    score.Region `json:"region" yaml:"region"`
	RegionFr  string       `json:"region_fr" yaml:"region_fr"`
	CreatedAt time.Time    `json:"created_at" yaml:"-"` // UTC
	UpdatedAt time.Time    `json:"updated_at" yaml:"-"` // UTC
}

// InstitutionType of a located establishment.
type InstitutionType string

const (
	TypeUniversity      InstitutionType = "جامعة"
	TypeHigherInstitute InstitutionType = "معهد عالي"
	TypeFaculty         InstitutionType = "كلية"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a university (or institute) placed on the map.
type Location struct {
	ID        string          `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	NameFr    string          `json:"name_fr" yaml:"name_fr"`
	Latitude  float64         `json:"latitude" yaml:"latitude"`
	Longitude float64         `json:"longitude" yaml:"longitude"`
	Region    score.Region    `json:"region" yaml:"region"`
	RegionFr  string          `json:"region_fr" yaml:"region_fr"`
	City      string          `json:"city" yaml:"city"`
	CityFr    string          `json:"city_fr" yaml:"city_fr"`
	Address   string          `json:"address" yaml:"address"`
	Website   string          `json:"website,omitempty" yaml:"website"`
	Email     string          `json:"email,omitempty" yaml:"email"`
	Phone     string          `json:"phone,omitempty" yaml:"phone"`
	Type      InstitutionType `json:"type" yaml:"type"`
	TypeFr    string          `json:"type_fr" yaml:"type_fr"`
}

// NewUniversity contains information needed to create a new University.
type NewUniversity struct {
	Name    string `json:"name" validate:"required"`
	NameFr  string `json:"name_fr" validate:"required"`
	Website string `json:"website" validate:"omitempty,url"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Region  string `json:"region" validate:"required,region"`
}

func (nu *NewUniversity) clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.NameFr = core.CleanString(nu.NameFr)
	nu.Website = core.CleanString(nu.Website)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Phone = core.CleanString(nu.Phone)
	nu.Address = core.CleanString(nu.Address)
	nu.Region = core.CleanString(nu.Region)
}

// UpdateUniversity defines what information may be provided to modify an existing University.
type UpdateUniversity struct {
	Name    string `json:"name"`
	NameFr  string `json:"name_fr"`
	Website string `json:"website" validate:"omitempty,url"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Region  string `json:"region" validate:"omitempty,region"`
}

// merge fills blank fields from the original University.
func (uu *UpdateUniversity) merge(orig University) {
	pick := func(val, origVal string) string {
		if val = core.CleanString(val); val != "" {
			return val
		}
		return origVal
	}
	uu.Name = pick(uu.Name, orig.Name)
	uu.NameFr = pick(uu.NameFr, orig.NameFr)
	uu.Website = pick(uu.Website, orig.Website)
	uu.Email = pick(core.CleanString(uu.Email, true /* lower */), orig.Email)
	uu.Phone = pick(uu.Phone, orig.Phone)
	uu.Address = pick(uu.Address, orig.Address)
	uu.Region = pick(uu.Region, string(orig.Region))
}

type QueryFilter struct {
	Search string `query:"search"`
	Region string `query:"region"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Region == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Region = core.CleanString(qf.Region)
	if r, ok := score.ParseRegion(qf.Region); ok {
		qf.Region = string(r)
	}
}

// Match reports whether `u` satisfies the filter; used by non-SQL repositories.
func (qf QueryFilter) Match(u University) bool {
	if qf.Region != "" && string(u.Region) != qf.Region {
		return false
	}
	if qf.Search != "" &&
		!(core.ContainsFold(u.Name, qf.Search) ||
			core.ContainsFold(u.NameFr, qf.Search) ||
			core.ContainsFold(u.Address, qf.Search)) {
		return false
	}
	return true
}
