package score

// BonusProvider returns the geographic bonus points granted to students of a governorate.
type BonusProvider interface {
	GeographicBonus(governorate string) float64
}

// NoGeographicBonus grants no bonus anywhere.
// It stands in until the official geographic bonus tables are supplied.
type NoGeographicBonus struct{}

func (NoGeographicBonus) GeographicBonus(string) float64 { return 0 }

// GeographicBonus is the default provider's bonus for `governorate`: always 0.
func GeographicBonus(governorate string) float64 {
	return NoGeographicBonus{}.GeographicBonus(governorate)
}

// Region of Tunisia.
type Region string

const (
	North  Region = "الشمال"
	Centre Region = "الوسط"
	South  Region = "الجنوب"
)

var regionFr = map[Region]string{North: "Nord", Centre: "Centre", South: "Sud"}

func (r Region) Fr() string { return regionFr[r] }

func (r Region) Valid() bool {
	_, ok := regionFr[r]
	return ok
}

// ParseRegion accepts the Arabic or French region name.
func ParseRegion(s string) (Region, bool) {
	if r := Region(s); r.Valid() {
		return r, true
	}
	for r, fr := range regionFr {
		if s == fr {
			return r, true
		}
	}
	return "", false
}

// Governorate is a key of the geographic bonus tables.
type Governorate struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	NameFr   string `json:"name_fr" yaml:"name_fr"`
	Region   Region `json:"region" yaml:"region"`
	RegionFr string `json:"region_fr" yaml:"region_fr"`
	// HasGeographicBonus is false everywhere until the official tables are supplied.
	HasGeographicBonus bool `json:"has_geographic_bonus" yaml:"has_geographic_bonus"`
}

func gov(id, name, nameFr string, r Region) Governorate {
	return Governorate{ID: id, Name: name, NameFr: nameFr, Region: r, RegionFr: r.Fr()}
}

var governorates = []Governorate{
	gov("tunis", "تونس", "Tunis", North),
	gov("ariana", "أريانة", "Ariana", North),
	gov("ben-arous", "بن عروس", "Ben Arous", North),
	gov("manouba", "منوبة", "Manouba", North),
	gov("nabeul", "نابل", "Nabeul", North),
	gov("zaghouan", "زغوان", "Zaghouan", North),
	gov("bizerte", "بنزرت", "Bizerte", North),
	gov("beja", "باجة", "Béja", North),
	gov("jendouba", "جندوبة", "Jendouba", North),
	gov("kef", "الكاف", "Le Kef", North),
	gov("siliana", "سليانة", "Siliana", North),
	gov("sousse", "سوسة", "Sousse", Centre),
	gov("monastir", "المنستير", "Monastir", Centre),
	gov("mahdia", "المهدية", "Mahdia", Centre),
	gov("sfax", "صفاقس", "Sfax", Centre),
	gov("kairouan", "القيروان", "Kairouan", Centre),
	gov("kasserine", "القصرين", "Kasserine", Centre),
	gov("sidi-bouzid", "سيدي بوزيد", "Sidi Bouzid", Centre),
	gov("gabes", "قابس", "Gabès", South),
	gov("medenine", "مدنين", "Médenine", South),
	gov("tataouine", "تطاوين", "Tataouine", South),
	gov("gafsa", "قفصة", "Gafsa", South),
	gov("tozeur", "توزر", "Tozeur", South),
	gov("kebili", "قبلي", "Kébili", South),
}

// Governorates returns the 24 governorates of Tunisia.
func Governorates() []Governorate {
	out := make([]Governorate, len(governorates))
	copy(out, governorates)
	return out
}
