package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/score"
)

type scoreApi struct {
	bonus    score.BonusProvider
	validate *validator.Validate
}

func registerScoreAPI(g *echo.Group, deps *Deps) {
	api := scoreApi{bonus: deps.Bonus, validate: deps.Validate}

	sg := g.Group("/score")
	sg.POST("/fg", api.computeFG)
	sg.POST("/validate", api.validateScores)
	sg.GET("/formulas", api.formulas)
	sg.GET("/governorates", api.governorates)
}

type (
	ScoreRequest struct {
		Stream              string       `json:"stream" validate:"required,bacstream"`
		Scores              score.Scores `json:"scores" validate:"required,subjects"`
		SpecializationBonus float64      `json:"specialization_bonus" validate:"gte=0"`
		Governorate         string       `json:"governorate"`
	}

	ScoreResponse struct {
		Stream              score.Stream `json:"stream"`
		FG                  float64      `json:"fg"`
		T                   float64      `json:"t"`
		SpecializationBonus float64      `json:"specialization_bonus"`
		GeographicBonus     float64      `json:"geographic_bonus"`
		Formula             string       `json:"formula"`
	}

	ValidateScoresResponse struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}

	FormulaResponse struct {
		Stream      score.Stream    `json:"stream"`
		StreamFr    string          `json:"stream_fr"`
		Formula     string          `json:"formula"`
		Description string          `json:"description"`
		Subjects    []score.Subject `json:"subjects"`
	}
)

// Validate checks the payload and returns the parsed stream.
func (sr *ScoreRequest) Validate(validate *validator.Validate) (score.Stream, error) {
	sr.Stream = core.CleanString(sr.Stream)
	sr.Governorate = core.CleanString(sr.Governorate)
	if err := validate.Struct(sr); err != nil {
		return "", err
	}
	return score.ParseStream(sr.Stream)
}

func (api *scoreApi) computeFG(ctx echo.Context) error {
	var data ScoreRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScoreRequest")
	}
	stream, err := data.Validate(api.validate)
	if err != nil {
		return err
	}

	fg, err := score.ComputeFG(stream, data.Scores)
	if err != nil {
		return errors.Wrap(err, "computing FG")
	}
	geo := api.bonus.GeographicBonus(data.Governorate)

	return ctx.JSON(http.StatusOK, ScoreResponse{
		Stream:              stream,
		FG:                  fg,
		T:                   score.ComputeT(fg, data.SpecializationBonus, geo),
		SpecializationBonus: data.SpecializationBonus,
		GeographicBonus:     geo,
		Formula:             score.FormulaText(stream),
	})
}

func (api *scoreApi) validateScores(ctx echo.Context) error {
	var data ScoreRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScoreRequest")
	}
	stream, err := data.Validate(api.validate)
	if err != nil {
		return err
	}

	msgs := score.Validate(stream, data.Scores)
	return ctx.JSON(http.StatusOK, ValidateScoresResponse{Valid: len(msgs) == 0, Errors: msgs})
}

func (api *scoreApi) formulas(ctx echo.Context) error {
	all := score.Formulas()
	resp := make([]FormulaResponse, 0, len(all))
	for _, f := range all {
		resp = append(resp, FormulaResponse{
			Stream:      f.Stream,
			StreamFr:    f.Stream.NameFr(),
			Formula:     f.String(),
			Description: f.Description(),
			Subjects:    f.Required(),
		})
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *scoreApi) governorates(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, score.Governorates())
}
