package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/appstate"
	"github.com/trezcool/tawjih/core/score"
)

type stateApi struct {
	store    *appstate.Store
	bonus    score.BonusProvider
	validate *validator.Validate
}

func registerStateAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := stateApi{store: deps.StateStore, bonus: deps.Bonus, validate: deps.Validate}

	sg := g.Group("/state", jwt)
	sg.GET("", api.get)
	sg.PUT("/language", api.setLanguage)
	sg.PUT("/profile", api.setProfile)
	sg.POST("/scores", api.calculateScores)
	sg.POST("/favorites", api.addFavorite)
	sg.DELETE("/favorites/:id", api.removeFavorite)
}

type (
	LanguageRequest struct {
		Language string `json:"language" validate:"required,lang"`
	}

	ProfileStateRequest struct {
		Name      string       `json:"name"`
		Email     string       `json:"email" validate:"omitempty,email"`
		BacStream string       `json:"bac_stream" validate:"omitempty,bacstream"`
		BacYear   int          `json:"bac_year" validate:"omitempty,gte=1990,lte=2100"`
		Scores    score.Scores `json:"scores" validate:"omitempty,subjects"`
	}

	CalculateScoresRequest struct {
		Stream      string       `json:"stream" validate:"required,bacstream"`
		Scores      score.Scores `json:"scores" validate:"required,subjects"`
		Governorate string       `json:"governorate"`
	}
)

// stateKey is the authenticated user ID.
func stateKey(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// update applies `fn` to the state of the authenticated user and renders the result.
func (api *stateApi) update(ctx echo.Context, code int, fn func(s *appstate.State) error) error {
	key, err := stateKey(ctx)
	if err != nil {
		return errors.Wrap(err, "getting state key")
	}
	s, err := api.store.Update(ctx.Request().Context(), key, fn)
	if err != nil {
		return errors.Wrap(err, "updating state")
	}
	return ctx.JSON(code, s)
}

// Handlers

func (api *stateApi) get(ctx echo.Context) error {
	key, err := stateKey(ctx)
	if err != nil {
		return errors.Wrap(err, "getting state key")
	}
	s, err := api.store.Get(ctx.Request().Context(), key)
	if err != nil {
		return errors.Wrap(err, "getting state")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *stateApi) setLanguage(ctx echo.Context) error {
	var data LanguageRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LanguageRequest")
	}
	data.Language = core.CleanString(data.Language, true /* lower */)
	if err := api.validate.Struct(&data); err != nil {
		return err
	}
	return api.update(ctx, http.StatusOK, func(s *appstate.State) error {
		return s.SetLanguage(data.Language)
	})
}

func (api *stateApi) setProfile(ctx echo.Context) error {
	var data ProfileStateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProfileStateRequest")
	}
	data.Name = core.CleanString(data.Name)
	data.Email = core.CleanString(data.Email, true /* lower */)
	data.BacStream = core.CleanString(data.BacStream)
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	return api.update(ctx, http.StatusOK, func(s *appstate.State) error {
		p := s.Profile
		p.Name = data.Name
		p.Email = data.Email
		if st, err := score.ParseStream(data.BacStream); err == nil {
			p.BacStream = st
		}
		if data.BacYear != 0 {
			p.BacYear = data.BacYear
		}
		if data.Scores != nil {
			p.Scores = data.Scores
		}
		s.SetProfile(p)
		return nil
	})
}

func (api *stateApi) calculateScores(ctx echo.Context) error {
	var data CalculateScoresRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CalculateScoresRequest")
	}
	data.Stream = core.CleanString(data.Stream)
	if err := api.validate.Struct(&data); err != nil {
		return err
	}
	stream, err := score.ParseStream(data.Stream)
	if err != nil {
		return err
	}
	return api.update(ctx, http.StatusOK, func(s *appstate.State) error {
		return s.CalculateScores(stream, data.Scores, api.bonus, core.CleanString(data.Governorate))
	})
}

func (api *stateApi) addFavorite(ctx echo.Context) error {
	var data appstate.Favorite
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Favorite")
	}
	data.ID = core.CleanString(data.ID)
	data.ProgramID = core.CleanString(data.ProgramID)
	data.Notes = core.CleanString(data.Notes)
	data.AddedAt = data.AddedAt.UTC()

	return api.update(ctx, http.StatusCreated, func(s *appstate.State) error {
		_, err := s.AddFavorite(data)
		return err
	})
}

func (api *stateApi) removeFavorite(ctx echo.Context) error {
	return api.update(ctx, http.StatusOK, func(s *appstate.State) error {
		return s.RemoveFavorite(ctx.Param("id"))
	})
}
