package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tawjih/core"
	"github.com/trezcool/tawjih/core/calendar"
)

const defaultReminderWindow = 72 * time.Hour

type calendarApi struct {
	svc      calendar.Service
	validate *validator.Validate
}

func registerCalendarAPI(g *echo.Group, deps *Deps) {
	api := calendarApi{svc: deps.CalendarSvc}

	cg := g.Group("/calendar")
	cg.GET("", api.query)
	cg.GET("/upcoming", api.upcoming)
	cg.GET("/current", api.currentMonth)
	cg.GET("/categories", api.categories)
}

func registerAdminCalendarAPI(g *echo.Group, deps *Deps) {
	api := calendarApi{svc: deps.CalendarSvc, validate: deps.Validate}

	cg := g.Group("/calendar")
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.DELETE("", api.destroyMultiple)
	cg.POST("/reminders", api.sendReminders)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

type (
	CategoryResponse struct {
		Value   calendar.Category `json:"value"`
		Label   string            `json:"label"`
		LabelFr string            `json:"label_fr"`
	}

	RemindersResponse struct {
		Events int `json:"events"`
	}
)

func emptyEvents(events []calendar.Event) []calendar.Event {
	if events == nil {
		return []calendar.Event{}
	}
	return events
}

// Handlers

func (api *calendarApi) query(ctx echo.Context) error {
	filter := new(calendar.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []calendar.Event{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	events, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	return ctx.JSON(http.StatusOK, emptyEvents(events))
}

func (api *calendarApi) upcoming(ctx echo.Context) error {
	events, err := api.svc.Upcoming(ctx.Request().Context(), intParam(ctx, "limit", calendar.DefaultUpcomingLimit))
	if err != nil {
		return errors.Wrap(err, "listing upcoming events")
	}
	return ctx.JSON(http.StatusOK, emptyEvents(events))
}

func (api *calendarApi) currentMonth(ctx echo.Context) error {
	events, err := api.svc.CurrentMonth(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing events of the month")
	}
	return ctx.JSON(http.StatusOK, emptyEvents(events))
}

func (api *calendarApi) categories(ctx echo.Context) error {
	resp := make([]CategoryResponse, 0, len(calendar.Categories))
	for _, c := range calendar.Categories {
		resp = append(resp, CategoryResponse{Value: c, Label: c.Label(core.LangAr), LabelFr: c.Label(core.LangFr)})
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *calendarApi) retrieve(ctx echo.Context) error {
	ev, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding event by ID")
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *calendarApi) create(ctx echo.Context) error {
	var data calendar.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ev, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, ev)
}

func (api *calendarApi) update(ctx echo.Context) error {
	var data calendar.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ev, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating event")
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *calendarApi) destroy(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	ev, err := api.svc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding event by ID")
	}
	if err = api.svc.Delete(rctx, ev.ID); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *calendarApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting events")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// sendReminders emails the events due within `?within=` (a duration, 72h by default).
func (api *calendarApi) sendReminders(ctx echo.Context) error {
	within := defaultReminderWindow
	if w := ctx.QueryParam("within"); w != "" {
		d, err := time.ParseDuration(w)
		if err != nil || d <= 0 {
			return core.NewValidationError(err, core.FieldError{Field: "within", Error: "within must be a positive duration, e.g. 72h"})
		}
		within = d
	}

	n, err := api.svc.SendReminders(ctx.Request().Context(), within)
	if err != nil {
		return errors.Wrap(err, "sending reminders")
	}
	return ctx.JSON(http.StatusOK, RemindersResponse{Events: n})
}
