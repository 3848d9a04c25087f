package tests

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tawjih/apps/api/echo"
	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/assistant"
	"github.com/trezcool/tawjih/core/score"
)

func withLLM(llm assistant.LLM) func(deps *echoapi.Deps) {
	return func(deps *echoapi.Deps) {
		deps.AssistantSvc = assistant.NewService(llm, deps.Engine, deps.Conf, nil)
	}
}

func chat(t *testing.T, req assistant.ChatRequest) assistant.ChatResponse {
	t.Helper()
	rec := serve(httpTest{method: http.MethodPost, path: "/api/ai/chat", body: marshallObj(t, req)})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp assistant.ChatResponse
	unmarshall(t, rec, &resp)
	return resp
}

func Test_assistantApi_validation(t *testing.T) {
	setup(t)

	tests := []httpTest{
		{
			name: "chat, empty message", method: http.MethodPost, path: "/api/ai/chat",
			body:     marshallObj(t, assistant.ChatRequest{Message: "   "}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"message": "this field is required"}),
		},
		{
			name: "profile, empty answer", method: http.MethodPost, path: "/api/ai/assessment/profile",
			body:     marshallObj(t, echoapi.ProfileRequest{}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"answer": "this field is required"}),
		},
		{
			name: "assessment", path: "/api/ai/assessment",
			wantData: marshallObj(t, echoapi.AssessmentResponse{
				Greeting:  assistant.Greeting(core.LangAr),
				Questions: assistant.Questions(core.LangAr),
			}),
		},
		{
			name: "assessment (fr)", path: "/api/ai/assessment?lang=FR",
			wantData: marshallObj(t, echoapi.AssessmentResponse{
				Greeting:  assistant.Greeting(core.LangFr),
				Questions: assistant.Questions(core.LangFr),
			}),
		},
		{
			name: "profile", method: http.MethodPost, path: "/api/ai/assessment/profile",
			body:     marshallObj(t, echoapi.ProfileRequest{Answer: "أحب التكنولوجيا والرياضيات"}),
			wantData: marshallObj(t, assistant.ExtractProfile("أحب التكنولوجيا والرياضيات")),
		},
	}
	runTests(t, tests)
}

func Test_assistantApi_rules(t *testing.T) {
	setup(t)

	t.Run("field question", func(t *testing.T) {
		resp := chat(t, assistant.ChatRequest{Message: "أريد دراسة الإعلامية"})
		assert.True(t, resp.Success)
		assert.Equal(t, assistant.SourceRules, resp.Source)
		assert.Equal(t, assistant.IntentField, resp.Intent)
		require.Len(t, resp.Programs, 1)
		assert.Equal(t, "60101", resp.Programs[0].Code)
		assert.Equal(t, "Université de Tunis El Manar", resp.Programs[0].UniversityFr)
		assert.Equal(t, "https://www.utm.rnu.tn", resp.Programs[0].Website)
		assert.Contains(t, resp.Response, "https://www.utm.rnu.tn")
	})

	t.Run("field question (fr)", func(t *testing.T) {
		resp := chat(t, assistant.ChatRequest{Message: "Je veux étudier l'INFORMATIQUE", Language: "fr"})
		assert.Equal(t, assistant.IntentField, resp.Intent)
		assert.Contains(t, resp.Response, "Voici les meilleurs programmes universitaires")
	})

	t.Run("map", func(t *testing.T) {
		resp := chat(t, assistant.ChatRequest{Message: "أين الخريطة؟"})
		assert.Equal(t, assistant.IntentMap, resp.Intent)
		assert.Empty(t, resp.Programs)
	})

	t.Run("recommendations", func(t *testing.T) {
		rec := serve(httpTest{
			method: http.MethodPost, path: "/api/ai/recommendations",
			body: marshallObj(t, assistant.RecommendationsRequest{
				Profile:  assistant.Profile{Interests: []string{"technology"}},
				Language: "fr",
			}),
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp assistant.RecommendationsResponse
		unmarshall(t, rec, &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, assistant.SourceRules, resp.Source)
		assert.Contains(t, resp.Recommendations, "Informatique")
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, string(score.ComputerScience), resp.Fields[0].Field)
		require.Len(t, resp.Fields[0].Programs, 1)
		assert.Equal(t, "60101", resp.Fields[0].Programs[0].Code)
		assert.NotEmpty(t, resp.FollowUp)
	})
}

func Test_assistantApi_llm(t *testing.T) {
	t.Run("answers", func(t *testing.T) {
		setup(t, withLLM(llmStub{answer: "مرحبا! كيف يمكنني مساعدتك؟"}))

		resp := chat(t, assistant.ChatRequest{Message: "مرحبا"})
		assert.True(t, resp.Success)
		assert.Equal(t, assistant.SourceLLM, resp.Source)
		assert.Equal(t, "مرحبا! كيف يمكنني مساعدتك؟", resp.Response)

		rec := serve(httpTest{
			method: http.MethodPost, path: "/api/ai/recommendations",
			body: marshallObj(t, assistant.RecommendationsRequest{Profile: assistant.Profile{Subjects: []string{"math"}}}),
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var recs assistant.RecommendationsResponse
		unmarshall(t, rec, &recs)
		assert.Equal(t, assistant.SourceLLM, recs.Source)
		assert.Equal(t, "مرحبا! كيف يمكنني مساعدتك؟", recs.Recommendations)
		require.Len(t, recs.Fields, 1)
	})

	t.Run("fails", func(t *testing.T) {
		setup(t, withLLM(llmStub{err: errors.New("quota exceeded")}))

		resp := chat(t, assistant.ChatRequest{Message: "أريد حساب النقاط"})
		assert.True(t, resp.Success)
		assert.Equal(t, assistant.SourceRules, resp.Source)
		assert.Equal(t, assistant.IntentCalculator, resp.Intent)
	})

	t.Run("answers nothing", func(t *testing.T) {
		setup(t, withLLM(llmStub{answer: "  "}))

		resp := chat(t, assistant.ChatRequest{Message: "مرحبا"})
		assert.Equal(t, assistant.SourceRules, resp.Source)
	})
}
