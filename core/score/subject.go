package score

// Subject is a bac subject code.
type Subject string

const (
	MG      Subject = "MG" // final bac average
	A       Subject = "A"  // Arabic
	PH      Subject = "PH" // philosophy
	HG      Subject = "HG" // history & geography
	F       Subject = "F"  // French
	Ang     Subject = "Ang"
	M       Subject = "M"
	SP      Subject = "SP"  // physics
	SVT     Subject = "SVT" // life & earth sciences
	Algo    Subject = "Algo"
	STI     Subject = "STI"
	Ec      Subject = "Ec"
	Ge      Subject = "Ge"
	TE      Subject = "TE" // technology
	SB      Subject = "SB" // biology (sports stream)
	EP      Subject = "EP" // physical education
	SpSport Subject = "Sp-sport"

	// language electives
	IT  Subject = "IT"
	All Subject = "All"
	ESP Subject = "ESP"
)

var subjectLabels = map[Subject]string{
	MG:      "المعدل النهائي للبكالوريا",
	A:       "العربية",
	PH:      "الفلسفة",
	HG:      "التاريخ والجغرافيا",
	F:       "الفرنسية",
	Ang:     "الإنجليزية",
	M:       "الرياضيات",
	SP:      "العلوم الفيزيائية",
	SVT:     "علوم الحياة والأرض",
	Algo:    "الخوارزميات والبرمجة",
	STI:     "أنظمة وتكنولوجيات المعلوماتية",
	Ec:      "الاقتصاد",
	Ge:      "التصرف",
	TE:      "التكنولوجيا",
	SB:      "علوم الحياة",
	EP:      "التربية البدنية",
	SpSport: "الاختصاص الرياضي",
	IT:      "الإيطالية",
	All:     "الألمانية",
	ESP:     "الإسبانية",
}

func (s Subject) Valid() bool {
	_, ok := subjectLabels[s]
	return ok
}

// Label returns the Arabic name of the subject.
func (s Subject) Label() string { return subjectLabels[s] }

// Scores maps subject codes to grades out of 20.
type Scores map[Subject]float64

// Has reports whether `s` holds a usable (non-zero) grade.
// A zero grade counts as missing, as on the official forms.
func (sc Scores) Has(s Subject) bool {
	return sc[s] != 0
}
