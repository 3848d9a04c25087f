package score

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormulaText(t *testing.T) {
	tests := []struct {
		stream Stream
		want   string
	}{
		{Arts, "FG = 4MG + 1.5A + 1.5PH + 1HG + 1F + 1Ang"},
		{Mathematics, "FG = 4MG + 2M + 1.5SP + 0.5SVT + 1F + 1Ang"},
		{ExperimentalSciences, "FG = 4MG + 1M + 1.5SP + 1.5SVT + 1F + 1Ang"},
		{TechnicalSciences, "FG = 4MG + 1.5TE + 1.5M + 1SP + 1F + 1Ang"},
		{EconomicsManagement, "FG = 4MG + 1.5Ec + 1.5Ge + 0.5M + 0.5HG + 1F + 1Ang"},
		{ComputerScience, "FG = 4MG + 1.5M + 1.5Algo + 0.5SP + 0.5STI + 1F + 1Ang"},
		{Sports, "FG = 4MG + 1.5SB + 1Sp-sport + 0.5EP + 0.5SP + 0.5PH + 1F + 1Ang"},
		{Stream("lol"), ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.stream), func(t *testing.T) {
			assert.Equal(t, tt.want, FormulaText(tt.stream))
		})
	}
}

func TestFormulas(t *testing.T) {
	all := Formulas()
	require.Len(t, all, 7)
	for i, f := range all {
		assert.Equal(t, Streams[i], f.Stream)
		assert.Equal(t, 4.0, f.Terms[0].Coef, "MG weighs 4 in every stream")
		assert.Contains(t, f.Description(), f.Stream.Label())
		// every required subject appears exactly once in the formula
		seen := make(map[Subject]int)
		for _, term := range f.Terms {
			seen[term.Subject]++
		}
		for _, sub := range f.Required() {
			assert.Equal(t, 1, seen[sub], "%s %s", f.Stream, sub)
		}
		assert.Len(t, f.Required(), len(f.Terms))
	}
}

func TestParseStream(t *testing.T) {
	tests := []struct {
		in      string
		want    Stream
		wantErr error
	}{
		{in: "رياضيات", want: Mathematics},
		{in: "  علوم الإعلامية ", want: ComputerScience},
		{in: "Mathématiques", want: Mathematics},
		{in: "computer science", want: ComputerScience},
		{in: "Economics and Management", want: EconomicsManagement},
		{in: "الآداب", want: Arts},
		{in: "lol", wantErr: ErrUnknownStream},
		{in: "", wantErr: ErrUnknownStream},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStream(tt.in)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
