package university

import (
	"io/fs"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/score"
)

// mapCenter is the point the universities map opens on (Sousse).
var mapCenter = Coordinates{Latitude: 35.8617, Longitude: 10.5369}

// MapCenter returns the default center of the universities map.
func MapCenter() Coordinates { return mapCenter }

// Directory is the read-only reference list of universities and their map locations.
type Directory struct {
	universities []University
	locations    []Location
}

func NewDirectory(universities []University, locations []Location) *Directory {
	d := &Directory{
		universities: make([]University, len(universities)),
		locations:    make([]Location, len(locations)),
	}
	copy(d.universities, universities)
	copy(d.locations, locations)
	for i := range d.universities {
		if d.universities[i].RegionFr == "" {
			d.universities[i].RegionFr = d.universities[i].Region.Fr()
		}
	}
	for i := range d.locations {
		if d.locations[i].RegionFr == "" {
			d.locations[i].RegionFr = d.locations[i].Region.Fr()
		}
	}
	return d
}

// LoadDirectory reads the YAML universities and locations files from fsys.
func LoadDirectory(fsys fs.FS, universitiesPath, locationsPath string) (*Directory, error) {
	var unis []University
	if err := decodeYAML(fsys, universitiesPath, &unis); err != nil {
		return nil, err
	}
	var locs []Location
	if err := decodeYAML(fsys, locationsPath, &locs); err != nil {
		return nil, err
	}
	return NewDirectory(unis, locs), nil
}

func decodeYAML(fsys fs.FS, name string, out interface{}) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return errors.Wrapf(err, "reading %s", name)
	}
	if err = yaml.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decoding %s", name)
	}
	return nil
}

func (d *Directory) Universities() []University {
	out := make([]University, len(d.universities))
	copy(out, d.universities)
	return out
}

// Find returns the university whose Arabic or French name matches `name`, ignoring case and accents.
// An exact match wins, then the longest name that contains or is contained in `name`.
func (d *Directory) Find(name string) (University, bool) {
	needle := core.FoldText(core.CleanString(name))
	if needle == "" {
		return University{}, false
	}
	best, bestLen := -1, 0
	for i, u := range d.universities {
		for _, n := range []string{u.Name, u.NameFr} {
			hay := core.FoldText(n)
			if hay == "" {
				continue
			}
			if hay == needle {
				return u, true
			}
			if containsEither(hay, needle) && len(hay) > bestLen {
				best, bestLen = i, len(hay)
			}
		}
	}
	if best < 0 {
		return University{}, false
	}
	return d.universities[best], true
}

// ByRegion accepts the Arabic or French region name.
func (d *Directory) ByRegion(region string) []University {
	r, ok := score.ParseRegion(core.CleanString(region))
	out := make([]University, 0)
	if !ok {
		return out
	}
	for _, u := range d.universities {
		if u.Region == r {
			out = append(out, u)
		}
	}
	return out
}

// Search matches `term` against the names and address. An empty term returns everything.
func (d *Directory) Search(term string) []University {
	term = core.CleanString(term)
	out := make([]University, 0)
	for _, u := range d.universities {
		if term == "" ||
			core.ContainsFold(u.Name, term) ||
			core.ContainsFold(u.NameFr, term) ||
			core.ContainsFold(u.Address, term) {
			out = append(out, u)
		}
	}
	return out
}

func (d *Directory) Locations() []Location {
	out := make([]Location, len(d.locations))
	copy(out, d.locations)
	return out
}

// LocationsByCity matches the Arabic or French city name exactly, ignoring case and accents.
func (d *Directory) LocationsByCity(city string) []Location {
	city = core.FoldText(core.CleanString(city))
	out := make([]Location, 0)
	for _, l := range d.locations {
		if core.FoldText(l.City) == city || core.FoldText(l.CityFr) == city {
			out = append(out, l)
		}
	}
	return out
}

func (d *Directory) LocationsByRegion(region string) []Location {
	r, ok := score.ParseRegion(core.CleanString(region))
	out := make([]Location, 0)
	if !ok {
		return out
	}
	for _, l := range d.locations {
		if l.Region == r {
			out = append(out, l)
		}
	}
	return out
}

// SearchLocations matches `term` against names, cities and address.
func (d *Directory) SearchLocations(term string) []Location {
	term = core.CleanString(term)
	out := make([]Location, 0)
	for _, l := range d.locations {
		if term == "" ||
			core.ContainsFold(l.Name, term) ||
			core.ContainsFold(l.NameFr, term) ||
			core.ContainsFold(l.City, term) ||
			core.ContainsFold(l.CityFr, term) ||
			core.ContainsFold(l.Address, term) {
			out = append(out, l)
		}
	}
	return out
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
