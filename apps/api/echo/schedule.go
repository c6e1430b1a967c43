package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/projection"
	"github.com/kwachira/ratiba/core/schedule"
)

type scheduleApi struct {
	opts *Options
}

func registerScheduleAPI(g *echo.Group, opts *Options) {
	api := scheduleApi{opts: opts}

	g.GET("/schedule/projection", api.project)
	g.GET("/schedule/grid/:parity", api.grid)

	og := g.Group("/overrides")
	og.POST("", api.createOverride)
	og.POST("/import", api.importCandidate)
	og.DELETE("/:date", api.deactivateOverride)
}

// Handlers

func (api *scheduleApi) project(ctx echo.Context) error {
	userID, err := queryUser(ctx)
	if err != nil {
		return err
	}
	parity, err := queryParity(ctx, ctx.QueryParam("parity"))
	if err != nil {
		return err
	}
	at, err := queryTime(ctx, api.opts.Conf)
	if err != nil {
		return err
	}

	svc := projection.NewService(
		api.opts.ScheduleSvc,
		api.opts.RosterSvc,
		api.opts.Resolver,
		api.opts.Profiles(userID),
		api.opts.Logger,
	)
	view, err := svc.Project(ctx.Request().Context(), at, parity, userID)
	if err != nil {
		return errors.Wrap(err, "projecting schedule")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *scheduleApi) grid(ctx echo.Context) error {
	parity, err := queryParity(ctx, ctx.Param("parity"))
	if err != nil {
		return err
	}
	week := make(map[string][]schedule.TimeBlock, 7)
	for d := schedule.Sunday; d <= schedule.Saturday; d++ {
		week[d.String()] = schedule.ScheduleForDay(d, parity)
	}
	return ctx.JSON(http.StatusOK, week)
}

func (api *scheduleApi) createOverride(ctx echo.Context) error {
	var data OverrideRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OverrideRequest")
	}
	date, err := queryDate(ctx, data.Date, api.opts.Conf)
	if err != nil {
		return err
	}

	ov, err := api.opts.ScheduleSvc.SetOverride(ctx.Request().Context(), schedule.DayOverride{
		Date:      date,
		Title:     data.Title,
		Blocks:    data.Blocks,
		CreatedBy: data.CreatedBy,
		Active:    true,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ov)
}

// importCandidate accepts the output of the image-to-schedule transformer,
// a weekday-keyed block map, and installs the named date's day as an override.
func (api *scheduleApi) importCandidate(ctx echo.Context) error {
	var data ImportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImportRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	date, err := queryDate(ctx, data.Date, api.opts.Conf)
	if err != nil {
		return err
	}

	candidate := make(map[schedule.Weekday][]schedule.TimeBlock, len(data.Candidate))
	for name, blocks := range data.Candidate {
		day, err := schedule.ParseWeekday(name)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "candidate", Error: err.Error()})
		}
		parsed := make([]schedule.TimeBlock, 0, len(blocks))
		for _, b := range blocks {
			start, err := schedule.ParseBlockTime(b.Start)
			if err != nil {
				return core.NewValidationError(err, core.FieldError{Field: "start", Error: err.Error()})
			}
			end, err := schedule.ParseBlockTime(b.End)
			if err != nil {
				return core.NewValidationError(err, core.FieldError{Field: "end", Error: err.Error()})
			}
			parsed = append(parsed, schedule.TimeBlock{Label: b.Label, Start: start, End: end})
		}
		candidate[day] = parsed
	}

	ov, err := api.opts.ScheduleSvc.ImportCandidate(ctx.Request().Context(), candidate, date, data.Title, data.CreatedBy)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ov)
}

func (api *scheduleApi) deactivateOverride(ctx echo.Context) error {
	date, err := queryDate(ctx, ctx.Param("date"), api.opts.Conf)
	if err != nil {
		return err
	}
	if err := api.opts.ScheduleSvc.DeactivateOverride(ctx.Request().Context(), date); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
