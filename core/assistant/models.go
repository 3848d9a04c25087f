package assistant

import (
	"time"

	"github.com/trezcool/tawjih/core/matching"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Response sources
const (
	SourceLLM   = "llm"
	SourceRules = "rules"
)

// Profile is what the assistant knows about a student.
type Profile struct {
	Name        string   `json:"name"`
	Interests   []string `json:"interests"`
	Skills      []string `json:"skills"`
	Subjects    []string `json:"subjects"`
	Goals       []string `json:"goals"`
	Personality []string `json:"personality"`
	Location    string   `json:"location"`
}

func (p *Profile) has(list []string, val string) bool {
	for _, v := range list {
		if v == val {
			return true
		}
	}
	return false
}

type Message struct {
	Type      string    `json:"type" validate:"required,oneof=user assistant"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatRequest struct {
	Message  string    `json:"message" validate:"required"`
	Language string    `json:"language" validate:"omitempty,lang"`
	Profile  *Profile  `json:"student_profile"`
	History  []Message `json:"conversation_history" validate:"omitempty,dive"`
}

type ChatResponse struct {
	Success   bool                    `json:"success"`
	Response  string                  `json:"response"`
	Source    string                  `json:"source"`
	Intent    Intent                  `json:"intent,omitempty"`
	Programs  []matching.FieldProgram `json:"programs,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
}

type RecommendationsRequest struct {
	Profile  Profile `json:"student_profile"`
	Language string  `json:"language" validate:"omitempty,lang"`
}

// FieldPrograms lists the catalogue programs of a suggested field.
type FieldPrograms struct {
	Field    string                  `json:"field"`
	Title    string                  `json:"title"`
	Programs []matching.FieldProgram `json:"programs"`
}

type RecommendationsResponse struct {
	Success         bool            `json:"success"`
	Recommendations string          `json:"recommendations"`
	Source          string          `json:"source"`
	Fields          []FieldPrograms `json:"fields"`
	FollowUp        string          `json:"follow_up"`
	Timestamp       time.Time       `json:"timestamp"`
}
