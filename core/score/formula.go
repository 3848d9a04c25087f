package score

import (
	"strconv"
	"strings"
)

// Term is one weighted subject of an FG formula.
type Term struct {
	Subject Subject
	Coef    float64
}

// Formula is the FG formula of a bac stream.
// The same table drives calculation, validation and the displayed formula text.
type Formula struct {
	Stream Stream
	Terms  []Term
}

// common subjects required by every stream
var common = []Subject{MG, F, Ang}

var formulas = map[Stream]Formula{
	Arts: {Arts, []Term{
		{MG, 4}, {A, 1.5}, {PH, 1.5}, {HG, 1}, {F, 1}, {Ang, 1},
	}},
	Mathematics: {Mathematics, []Term{
		{MG, 4}, {M, 2}, {SP, 1.5}, {SVT, 0.5}, {F, 1}, {Ang, 1},
	}},
	ExperimentalSciences: {ExperimentalSciences, []Term{
		{MG, 4}, {M, 1}, {SP, 1.5}, {SVT, 1.5}, {F, 1}, {Ang, 1},
	}},
	TechnicalSciences: {TechnicalSciences, []Term{
		{MG, 4}, {TE, 1.5}, {M, 1.5}, {SP, 1}, {F, 1}, {Ang, 1},
	}},
	EconomicsManagement: {EconomicsManagement, []Term{
		{MG, 4}, {Ec, 1.5}, {Ge, 1.5}, {M, 0.5}, {HG, 0.5}, {F, 1}, {Ang, 1},
	}},
	ComputerScience: {ComputerScience, []Term{
		{MG, 4}, {M, 1.5}, {Algo, 1.5}, {SP, 0.5}, {STI, 0.5}, {F, 1}, {Ang, 1},
	}},
	Sports: {Sports, []Term{
		{MG, 4}, {SB, 1.5}, {SpSport, 1}, {EP, 0.5}, {SP, 0.5}, {PH, 0.5}, {F, 1}, {Ang, 1},
	}},
}

// FormulaFor returns the FG formula of `stream`.
func FormulaFor(stream Stream) (Formula, error) {
	f, ok := formulas[stream]
	if !ok {
		return Formula{}, unknownStreamError(stream)
	}
	return f, nil
}

// Formulas returns the formulas of every stream, in guide order.
func Formulas() []Formula {
	all := make([]Formula, 0, len(Streams))
	for _, st := range Streams {
		all = append(all, formulas[st])
	}
	return all
}

// Required returns the subjects the formula needs: MG, F and Ang first, then the stream subjects in formula order.
func (f Formula) Required() []Subject {
	req := make([]Subject, 0, len(f.Terms))
	req = append(req, common...)
	for _, t := range f.Terms {
		if !isCommon(t.Subject) {
			req = append(req, t.Subject)
		}
	}
	return req
}

// String renders the formula, e.g. "FG = 4MG + 2M + 1.5SP + 0.5SVT + 1F + 1Ang".
func (f Formula) String() string {
	parts := make([]string, 0, len(f.Terms))
	for _, t := range f.Terms {
		parts = append(parts, strconv.FormatFloat(t.Coef, 'f', -1, 64)+string(t.Subject))
	}
	return "FG = " + strings.Join(parts, " + ")
}

// Description returns the Arabic caption of the formula.
func (f Formula) Description() string {
	return "صيغة الإجمالية لشعبة " + f.Stream.Label()
}

// FormulaText returns the rendered formula of `stream`, empty for an unknown stream.
func FormulaText(stream Stream) string {
	f, err := FormulaFor(stream)
	if err != nil {
		return ""
	}
	return f.String()
}

func isCommon(s Subject) bool {
	for _, c := range common {
		if s == c {
			return true
		}
	}
	return false
}
