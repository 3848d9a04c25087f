package matching

// Category ranks how likely a student is to be admitted to a program.
type Category string

const (
	Excellent Category = "excellent"
	Good      Category = "good"
	Reach     Category = "reach"
	Safety    Category = "safety"
)

// Categories in display order.
var Categories = []Category{Excellent, Good, Reach, Safety}

var categoryInfo = map[Category]struct{ probability, icon string }{
	Excellent: {"احتمالية عالية جداً", "🎯"},
	Good:      {"احتمالية عالية", "✅"},
	Reach:     {"احتمالية متوسطة", "🎲"},
	Safety:    {"احتمالية منخفضة", "⚠️"},
}

// Probability returns the Arabic admission-probability label.
func (c Category) Probability() string { return categoryInfo[c].probability }

func (c Category) Icon() string {
	if info, ok := categoryInfo[c]; ok {
		return info.icon
	}
	return "📚"
}

func (c Category) Valid() bool {
	_, ok := categoryInfo[c]
	return ok
}

// Categorize maps the gap between the student's score and the program threshold to a Category.
func Categorize(gap float64) Category {
	switch {
	case gap >= 10:
		return Excellent
	case gap >= 0:
		return Good
	case gap >= -5:
		return Reach
	default:
		return Safety
	}
}

// MatchQuality is 100 for an exact match and loses 2 points per point of gap, down to 0.
func MatchQuality(gap float64) float64 {
	if gap < 0 {
		gap = -gap
	}
	q := 100 - 2*gap
	if q < 0 {
		return 0
	}
	return q
}
