// Package assistant answers orientation questions, through an LLM when one is reachable
// and through a keyword rule table otherwise.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
)

var NowFunc = time.Now // mockable

// ErrEmptyAnswer is returned by LLMs that answered with no text.
var ErrEmptyAnswer = errors.New("empty answer")

// LLM generates a text answer to a prompt.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type (
	Service interface {
		Chat(ctx context.Context, req ChatRequest) ChatResponse
		Recommendations(ctx context.Context, req RecommendationsRequest) RecommendationsResponse
	}

	service struct {
		llm          LLM
		finder       ProgramFinder
		historyLimit int
		logger       core.Logger
	}
)

var _ Service = (*service)(nil)

// NewService returns an assistant. `llm` may be nil, in which case only the rules answer.
func NewService(llm LLM, finder ProgramFinder, conf *core.Config, logger core.Logger) Service {
	return &service{
		llm:          llm,
		finder:       finder,
		historyLimit: conf.Assistant.HistoryLimit,
		logger:       logger,
	}
}

func (svc *service) ask(ctx context.Context, req ChatRequest) (string, error) {
	if svc.llm == nil {
		return "", errors.New("no LLM configured")
	}
	answer, err := svc.llm.Generate(ctx, BuildPrompt(req, svc.historyLimit))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}

func (svc *service) warn(msg string, err error) {
	if svc.logger != nil && svc.llm != nil {
		svc.logger.Warn(fmt.Sprintf("%s: %v", msg, err))
	}
}

// Chat answers a message with the LLM, falling back to the rules when it fails.
func (svc *service) Chat(ctx context.Context, req ChatRequest) ChatResponse {
	req.Language = core.CleanLang(req.Language)
	resp := ChatResponse{Success: true, Timestamp: NowFunc().UTC()}

	answer, err := svc.ask(ctx, req)
	if err == nil {
		resp.Response = answer
		resp.Source = SourceLLM
		return resp
	}
	svc.warn("assistant.Chat: falling back to rules", err)

	if ctx.Err() != nil {
		resp.Success = false
		resp.Response = ErrorMessage(req.Language)
		resp.Source = SourceRules
		return resp
	}

	det := Detect(req.Message)
	resp.Response, resp.Programs = Reply(det, req.Language, svc.finder)
	resp.Intent = det.Intent
	resp.Source = SourceRules
	if det.Intent == IntentFallback && isGreetingStage(req.History) {
		resp.Response = core.Pick(req.Language,
			"أفهم. يمكنك أيضاً أن تسألني مباشرة عن التخصصات أو الجامعات التي تهمك. ما الذي تريد معرفته؟",
			"Je comprends. Vous pouvez aussi me demander directement des informations sur les spécialisations ou universités qui vous intéressent. Que voulez-vous savoir?",
		)
	}
	return resp
}

// isGreetingStage reports whether the student has not said anything yet.
func isGreetingStage(history []Message) bool {
	for _, msg := range history {
		if msg.Type == RoleUser {
			return false
		}
	}
	return true
}

// Recommendations advises a student on fields to study, and lists up to 10 programs per suggested field.
func (svc *service) Recommendations(ctx context.Context, req RecommendationsRequest) RecommendationsResponse {
	lang := core.CleanLang(req.Language)
	profile := req.Profile
	resp := RecommendationsResponse{
		Success:   true,
		Fields:    make([]FieldPrograms, 0),
		FollowUp:  followUp(lang),
		Timestamp: NowFunc().UTC(),
	}

	answer, err := svc.ask(ctx, ChatRequest{
		Message:  recommendationsMessage(profile),
		Language: lang,
		Profile:  &profile,
	})
	if err == nil {
		resp.Recommendations = answer
		resp.Source = SourceLLM
	} else {
		svc.warn("assistant.Recommendations: falling back to rules", err)
		resp.Recommendations = strings.Join(FallbackRecommendations(profile, lang), "\n\n")
		resp.Source = SourceRules
	}

	if svc.finder == nil {
		return resp
	}
	for _, field := range SuggestFields(profile) {
		progs := svc.finder.ProgramsByField(string(field), 10)
		if len(progs) == 0 {
			continue
		}
		resp.Fields = append(resp.Fields, FieldPrograms{
			Field:    string(field),
			Title:    fieldTitle(field, lang),
			Programs: progs,
		})
	}
	return resp
}
