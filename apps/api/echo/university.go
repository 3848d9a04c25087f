package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/university"
)

type universityApi struct {
	svc       university.Service
	directory *university.Directory
	validate  *validator.Validate
}

func registerUniversityAPI(g *echo.Group, deps *Deps) {
	api := universityApi{svc: deps.UniversitySvc, directory: deps.Directory}

	g.GET("/universities", api.query)
	g.GET("/universities/:id", api.retrieve)

	lg := g.Group("/locations")
	lg.GET("", api.locations)
	lg.GET("/center", api.mapCenter)
}

func registerAdminUniversityAPI(g *echo.Group, deps *Deps) {
	api := universityApi{svc: deps.UniversitySvc, validate: deps.Validate}

	ug := g.Group("/universities")
	ug.POST("", api.create)
	ug.GET("", api.query)
	ug.DELETE("", api.destroyMultiple)
	ug.GET("/:id", api.retrieve)
	ug.PUT("/:id", api.update)
	ug.DELETE("/:id", api.destroy)
}

// Handlers

func (api *universityApi) query(ctx echo.Context) error {
	filter := new(university.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []university.University{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	unis, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying universities")
	}
	if unis == nil {
		unis = []university.University{}
	}
	return ctx.JSON(http.StatusOK, unis)
}

func (api *universityApi) retrieve(ctx echo.Context) error {
	uni, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding university by ID")
	}
	return ctx.JSON(http.StatusOK, uni)
}

// locations lists the mapped establishments, filtered by `?city=` then `?search=`.
func (api *universityApi) locations(ctx echo.Context) error {
	city := core.CleanString(ctx.QueryParam("city"))
	search := core.CleanString(ctx.QueryParam("search"))

	var locs []university.Location
	switch {
	case city != "":
		locs = api.directory.LocationsByCity(city)
	case search != "":
		locs = api.directory.SearchLocations(search)
	default:
		locs = api.directory.Locations()
	}
	if city != "" && search != "" {
		found := make(map[string]bool)
		for _, l := range api.directory.SearchLocations(search) {
			found[l.ID] = true
		}
		filtered := make([]university.Location, 0, len(locs))
		for _, l := range locs {
			if found[l.ID] {
				filtered = append(filtered, l)
			}
		}
		locs = filtered
	}
	if locs == nil {
		locs = []university.Location{}
	}
	return ctx.JSON(http.StatusOK, locs)
}

func (api *universityApi) mapCenter(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, university.MapCenter())
}

func (api *universityApi) create(ctx echo.Context) error {
	var data university.NewUniversity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUniversity")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	uni, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating university")
	}
	return ctx.JSON(http.StatusCreated, uni)
}

func (api *universityApi) update(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	uni, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding university by ID")
	}

	var data university.UpdateUniversity
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUniversity")
	}
	if err = data.Validate(rctx, uni, api.validate, api.svc); err != nil {
		return err
	}

	uni, err = api.svc.Update(rctx, uni.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating university")
	}
	return ctx.JSON(http.StatusOK, uni)
}

func (api *universityApi) destroy(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	uni, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding university by ID")
	}
	if err = api.svc.Delete(rctx, uni.ID); err != nil {
		return errors.Wrap(err, "deleting university")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *universityApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting universities")
	}
	return ctx.NoContent(http.StatusNoContent)
}
