package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/assistant"
)

type assistantApi struct {
	svc      assistant.Service
	validate *validator.Validate
	metrics  *metrics
}

func registerAssistantAPI(g *echo.Group, limit echo.MiddlewareFunc, deps *Deps, m *metrics) {
	api := assistantApi{svc: deps.AssistantSvc, validate: deps.Validate, metrics: m}

	ag := g.Group("/ai")
	ag.POST("/chat", api.chat, limit)
	ag.POST("/recommendations", api.recommendations, limit)
	ag.GET("/assessment", api.assessment)
	ag.POST("/assessment/profile", api.extractProfile)
}

type (
	AssessmentResponse struct {
		Greeting  string               `json:"greeting"`
		Questions []assistant.Question `json:"questions"`
	}

	ProfileRequest struct {
		Answer string `json:"answer" validate:"required"`
	}
)

// Handlers

func (api *assistantApi) chat(ctx echo.Context) error {
	var data assistant.ChatRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}
	data.Message = core.CleanString(data.Message)
	data.Language = core.CleanLang(data.Language)
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	resp := api.svc.Chat(ctx.Request().Context(), data)
	api.metrics.observeAnswer("chat", resp.Source)
	return ctx.JSON(http.StatusOK, resp)
}

func (api *assistantApi) recommendations(ctx echo.Context) error {
	var data assistant.RecommendationsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RecommendationsRequest")
	}
	data.Language = core.CleanLang(data.Language)
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	resp := api.svc.Recommendations(ctx.Request().Context(), data)
	api.metrics.observeAnswer("recommendations", resp.Source)
	return ctx.JSON(http.StatusOK, resp)
}

// assessment returns the greeting and the questionnaire in `?lang=` (ar by default).
func (api *assistantApi) assessment(ctx echo.Context) error {
	lang := core.CleanLang(ctx.QueryParam("lang"))
	return ctx.JSON(http.StatusOK, AssessmentResponse{
		Greeting:  assistant.Greeting(lang),
		Questions: assistant.Questions(lang),
	})
}

func (api *assistantApi) extractProfile(ctx echo.Context) error {
	var data ProfileRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProfileRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assistant.ExtractProfile(data.Answer))
}
