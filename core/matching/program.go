package matching

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"
)

// Program is one row of the admission catalogue: a program of a university
// with the last admission score of its field.
type Program struct {
	University     string      `json:"university"`
	Degree         string      `json:"degree"`
	Duration       null.String `json:"duration"`
	SpecialNote    null.String `json:"special_note"`
	Field          string      `json:"field"`
	Score          Threshold   `json:"score"`
	Code           string      `json:"code"`
	Specialization null.String `json:"specialization"`
}

// Threshold is the last admitted score as published: free text that may be blank.
type Threshold string

// UnmarshalJSON accepts a JSON string, number or null.
func (th *Threshold) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*th = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*th = Threshold(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*th = Threshold(n.String())
	return nil
}

// Value parses the threshold. ok is false for blank, non-numeric or non-finite scores.
func (th Threshold) Value() (v float64, ok bool) {
	s := strings.TrimSpace(string(th))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
