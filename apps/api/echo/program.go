package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core/program"
)

type programApi struct {
	svc      program.Service
	validate *validator.Validate
}

func registerProgramAPI(g *echo.Group, deps *Deps) {
	api := programApi{svc: deps.ProgramSvc}

	pg := g.Group("/programs")
	pg.GET("", api.query)
	pg.GET("/search", api.search)
	pg.GET("/university/:id", api.listByUniversity)
	pg.GET("/:id", api.retrieve)
}

func registerAdminProgramAPI(g *echo.Group, deps *Deps) {
	api := programApi{svc: deps.ProgramSvc, validate: deps.Validate}

	pg := g.Group("/programs")
	pg.POST("", api.create)
	pg.GET("", api.query)
	pg.DELETE("", api.destroyMultiple)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)
}

func emptyIfNil(progs []program.Program) []program.Program {
	if progs == nil {
		return []program.Program{}
	}
	return progs
}

// Handlers

func (api *programApi) query(ctx echo.Context) error {
	filter := new(program.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []program.Program{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	progs, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying programs")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(progs))
}

func (api *programApi) search(ctx echo.Context) error {
	progs, err := api.svc.Search(ctx.Request().Context(), ctx.QueryParam("q"))
	if err != nil {
		return errors.Wrap(err, "searching programs")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(progs))
}

func (api *programApi) listByUniversity(ctx echo.Context) error {
	progs, err := api.svc.ListByUniversity(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing programs by university")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(progs))
}

func (api *programApi) retrieve(ctx echo.Context) error {
	p, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding program by ID")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *programApi) create(ctx echo.Context) error {
	var data program.NewProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProgram")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating program")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *programApi) update(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	p, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding program by ID")
	}

	var data program.UpdateProgram
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProgram")
	}
	if err = data.Validate(rctx, p, api.validate, api.svc); err != nil {
		return err
	}

	p, err = api.svc.Update(rctx, p.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating program")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *programApi) destroy(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	p, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding program by ID")
	}
	if err = api.svc.Delete(rctx, p.ID); err != nil {
		return errors.Wrap(err, "deleting program")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *programApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting programs")
	}
	return ctx.NoContent(http.StatusNoContent)
}
