// Package score computes the official orientation scores: the FG ("Formule Générale")
// aggregate of a student's bac grades, and the final T score used for admission ranking.
package score

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownStream  = errors.New("unknown bac stream")
	ErrMissingSubject = errors.New("missing required subject")
)

// MissingSubjectError reports a subject the stream formula needs but was not provided.
type MissingSubjectError struct {
	Stream  Stream
	Subject Subject
}

func (e *MissingSubjectError) Error() string {
	return fmt.Sprintf("%v: %s for %s stream", ErrMissingSubject, e.Subject, e.Stream)
}

func (e *MissingSubjectError) Unwrap() error { return ErrMissingSubject }

func (e *MissingSubjectError) Cause() error { return ErrMissingSubject }

// Message returns the Arabic message shown to students.
func (e *MissingSubjectError) Message() string {
	return missingMessage(e.Stream, e.Subject)
}

func unknownStreamError(stream Stream) error {
	return errors.Wrapf(ErrUnknownStream, "%q", string(stream))
}

// ComputeFG applies the FG formula of `stream` to `scores`, rounded to 3 decimals.
func ComputeFG(stream Stream, scores Scores) (float64, error) {
	f, err := FormulaFor(stream)
	if err != nil {
		return 0, err
	}
	for _, sub := range f.Required() {
		if !scores.Has(sub) {
			return 0, &MissingSubjectError{Stream: stream, Subject: sub}
		}
	}

	fg := decimal.Zero
	for _, t := range f.Terms {
		fg = fg.Add(decimal.NewFromFloat(t.Coef).Mul(decimal.NewFromFloat(scores[t.Subject])))
	}
	return round(fg), nil
}

// ComputeT returns the final score: FG plus the specialization and geographic bonuses, rounded to 3 decimals.
func ComputeT(fg, specializationBonus, geographicBonus float64) float64 {
	t := decimal.NewFromFloat(fg).
		Add(decimal.NewFromFloat(specializationBonus)).
		Add(decimal.NewFromFloat(geographicBonus))
	return round(t)
}

// Validate returns one message per subject missing for `stream`.
// It is empty iff ComputeFG would succeed with the same inputs.
func Validate(stream Stream, scores Scores) []string {
	f, err := FormulaFor(stream)
	if err != nil {
		return []string{fmt.Sprintf("شعبة غير معروفة: %s", stream)}
	}
	msgs := make([]string, 0)
	for _, sub := range f.Required() {
		if !scores.Has(sub) {
			msgs = append(msgs, missingMessage(stream, sub))
		}
	}
	return msgs
}

// Round rounds `v` to 3 decimals, half away from zero.
func Round(v float64) float64 {
	return round(decimal.NewFromFloat(v))
}

func round(d decimal.Decimal) float64 {
	f, _ := d.Round(3).Float64()
	return f
}

func missingMessage(stream Stream, sub Subject) string {
	switch {
	case sub == MG:
		return fmt.Sprintf("%s (%s) مطلوب", sub.Label(), sub)
	case isCommon(sub):
		return fmt.Sprintf("معدل %s (%s) مطلوب", sub.Label(), sub)
	default:
		return fmt.Sprintf("معدل %s (%s) مطلوب لشعبة %s", sub.Label(), sub, stream.Label())
	}
}
