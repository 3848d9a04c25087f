package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/matching"
	"github.com/trezcool/tawjih/core/score"
)

type recommendationApi struct {
	engine  *matching.Engine
	metrics *metrics
}

func registerRecommendationAPI(g *echo.Group, deps *Deps, m *metrics) {
	api := recommendationApi{engine: deps.Engine, metrics: m}

	rg := g.Group("/recommendations")
	rg.GET("", api.recommend)
	rg.GET("/categories", api.byCategory)
	rg.GET("/stats", api.stats)

	g.GET("/catalogue", api.catalogue)
}

type RecommendationsResponse struct {
	Score           float64                   `json:"score"`
	Stream          score.Stream              `json:"stream"`
	Recommendations []matching.Recommendation `json:"recommendations"`
	Stats           matching.Stats            `json:"stats"`
}

var errScoreParam = core.NewValidationError(nil, core.FieldError{Field: "score", Error: "score must be a number"})

// recommendations runs the engine on `?score=&stream=&limit=`.
// An unavailable catalogue yields no recommendations rather than an error.
func (api *recommendationApi) recommendations(ctx echo.Context) (float64, score.Stream, []matching.Recommendation, error) {
	userScore, ok := floatParam(ctx, "score")
	if !ok {
		return 0, "", nil, errScoreParam
	}
	stream, err := score.ParseStream(ctx.QueryParam("stream"))
	if err != nil {
		return 0, "", nil, core.NewValidationError(err, core.FieldError{Field: "stream", Error: "unknown bac stream"})
	}
	recs := api.engine.Recommend(userScore, stream, intParam(ctx, "limit", matching.DefaultLimit))
	api.metrics.observeRecommendations(len(recs))
	return userScore, stream, recs, nil
}

func (api *recommendationApi) recommend(ctx echo.Context) error {
	userScore, stream, recs, err := api.recommendations(ctx)
	if err != nil {
		return errors.Wrap(err, "recommending programs")
	}
	return ctx.JSON(http.StatusOK, RecommendationsResponse{
		Score:           userScore,
		Stream:          stream,
		Recommendations: recs,
		Stats:           matching.CategoryStats(recs),
	})
}

func (api *recommendationApi) byCategory(ctx echo.Context) error {
	_, _, recs, err := api.recommendations(ctx)
	if err != nil {
		return errors.Wrap(err, "recommending programs")
	}
	return ctx.JSON(http.StatusOK, matching.ByCategory(recs))
}

func (api *recommendationApi) stats(ctx echo.Context) error {
	_, _, recs, err := api.recommendations(ctx)
	if err != nil {
		return errors.Wrap(err, "recommending programs")
	}
	return ctx.JSON(http.StatusOK, matching.CategoryStats(recs))
}

// catalogue lists `?field=` programs enriched with their university, or the whole catalogue without a field.
func (api *recommendationApi) catalogue(ctx echo.Context) error {
	if err := api.engine.Err(); err != nil {
		return errors.Wrap(err, "loading catalogue")
	}

	field := core.CleanString(ctx.QueryParam("field"))
	if field == "" {
		progs := api.engine.Programs()
		if limit := intParam(ctx, "limit", 0); limit > 0 && len(progs) > limit {
			progs = progs[:limit]
		}
		return ctx.JSON(http.StatusOK, progs)
	}
	if st, err := score.ParseStream(field); err == nil {
		field = string(st)
	}
	return ctx.JSON(http.StatusOK, api.engine.ProgramsByField(field, intParam(ctx, "limit", matching.DefaultFieldLimit)))
}
