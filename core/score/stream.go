package score

import "strings"

// Stream is a bac stream (شعبة). It determines which subjects and coefficients enter the FG formula.
type Stream string

// Bac streams, named as in the official guide.
const (
	Arts                 Stream = "آداب"
	Mathematics          Stream = "رياضيات"
	TechnicalSciences    Stream = "علوم تقنية"
	ExperimentalSciences Stream = "علوم تجريبية"
	EconomicsManagement  Stream = "إقتصاد وتصرف"
	ComputerScience      Stream = "علوم الإعلامية"
	Sports               Stream = "رياضة"
)

// Streams lists every bac stream in guide order.
var Streams = []Stream{
	Arts,
	Mathematics,
	ExperimentalSciences,
	TechnicalSciences,
	EconomicsManagement,
	ComputerScience,
	Sports,
}

type streamNames struct {
	fr    string
	en    string
	label string // as used in "لشعبة ..."
}

var names = map[Stream]streamNames{
	Arts:                 {fr: "Lettres", en: "Arts", label: "الآداب"},
	Mathematics:          {fr: "Mathématiques", en: "Mathematics", label: "الرياضيات"},
	ExperimentalSciences: {fr: "Sciences expérimentales", en: "Experimental Sciences", label: "العلوم التجريبية"},
	TechnicalSciences:    {fr: "Sciences techniques", en: "Technical Sciences", label: "العلوم التقنية"},
	EconomicsManagement:  {fr: "Économie et gestion", en: "Economics and Management", label: "الاقتصاد والتصرف"},
	ComputerScience:      {fr: "Sciences de l'informatique", en: "Computer Science", label: "علوم الإعلامية"},
	Sports:               {fr: "Sport", en: "Sports", label: "الرياضة"},
}

func (s Stream) Valid() bool {
	_, ok := names[s]
	return ok
}

func (s Stream) String() string { return string(s) }

// NameFr returns the French name of the stream.
func (s Stream) NameFr() string { return names[s].fr }

// NameEn returns the English name of the stream.
func (s Stream) NameEn() string { return names[s].en }

// Label returns the Arabic stream name as it reads after "شعبة".
func (s Stream) Label() string { return names[s].label }

// ParseStream accepts the Arabic, French or English name of a stream.
func ParseStream(name string) (Stream, error) {
	name = strings.TrimSpace(name)
	if st := Stream(name); st.Valid() {
		return st, nil
	}
	for st, n := range names {
		if strings.EqualFold(name, n.fr) || strings.EqualFold(name, n.en) || name == n.label {
			return st, nil
		}
	}
	return "", unknownStreamError(Stream(name))
}
