package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trezcool/tawjih/core"
)

const DefaultHistoryLimit = 5

var instructions = []string{
	"Be helpful, friendly, and encouraging",
	"Provide specific advice about Tunisian universities and programs",
	"Use emojis to make responses engaging",
	"If asked about specific fields, provide detailed information",
	"Always maintain a supportive tone",
	"Keep responses concise but informative",
}

// BuildPrompt lays out the orientation prompt sent to the LLM.
// Only the last `historyLimit` messages of the conversation are included.
func BuildPrompt(req ChatRequest, historyLimit int) string {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	var b strings.Builder

	b.WriteString("You are an intelligent university orientation assistant for Tunisian students. ")
	b.WriteString(core.Pick(req.Language, "Respond in Arabic. ", "Respond in French. "))
	b.WriteString("\n\nContext: You help students choose the best university path based on their interests, skills, and goals.")

	if p := req.Profile; p != nil {
		b.WriteString("\n\nStudent Profile:")
		fmt.Fprintf(&b, "\n- Interests: %s", strings.Join(p.Interests, ", "))
		fmt.Fprintf(&b, "\n- Skills: %s", strings.Join(p.Skills, ", "))
		fmt.Fprintf(&b, "\n- Subjects: %s", strings.Join(p.Subjects, ", "))
		fmt.Fprintf(&b, "\n- Goals: %s", strings.Join(p.Goals, ", "))
		fmt.Fprintf(&b, "\n- Personality: %s", strings.Join(p.Personality, ", "))
		fmt.Fprintf(&b, "\n- Location: %s", p.Location)
	}

	if hist := req.History; len(hist) > 0 {
		if len(hist) > historyLimit {
			hist = hist[len(hist)-historyLimit:]
		}
		b.WriteString("\n\nRecent conversation:")
		for _, msg := range hist {
			speaker := "Assistant"
			if msg.Type == RoleUser {
				speaker = "Student"
			}
			fmt.Fprintf(&b, "\n%s: %s", speaker, msg.Content)
		}
	}

	fmt.Fprintf(&b, "\n\nCurrent message: %s", req.Message)

	b.WriteString("\n\nInstructions:")
	for i, ins := range instructions {
		fmt.Fprintf(&b, "\n%d. %s", i+1, ins)
	}
	return b.String()
}

func recommendationsMessage(p Profile) string {
	data, err := json.Marshal(p)
	if err != nil {
		data = []byte("{}")
	}
	return "Generate personalized university recommendations for this student profile: " + string(data)
}
