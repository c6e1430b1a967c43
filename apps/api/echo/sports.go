package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/sports"
)

type sportsApi struct {
	opts *Options
}

func registerSportsAPI(g *echo.Group, opts *Options) {
	api := sportsApi{opts: opts}

	sg := g.Group("/sports/:id")
	sg.PUT("", api.upsertEvent)
	sg.GET("/status", api.status)
	sg.GET("/stream", api.stream)
	sg.PATCH("/status", api.update)
	sg.POST("/claim", api.claim)
	sg.POST("/release", api.release)
}

// Handlers

func (api *sportsApi) upsertEvent(ctx echo.Context) error {
	var data sports.Event
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Event")
	}
	data.EventID = ctx.Param("id")

	ev, err := api.opts.SportsSvc.UpsertEvent(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *sportsApi) status(ctx echo.Context) error {
	st, err := api.opts.SportsSvc.StatusNow(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *sportsApi) claim(ctx echo.Context) error {
	var data ClaimRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ClaimRequest")
	}
	if data.ReporterID == "" || data.ReporterName == "" {
		return core.NewValidationError(nil,
			core.FieldError{Field: "reporter_id", Error: "required"},
			core.FieldError{Field: "reporter_name", Error: "required"})
	}

	claim, err := api.opts.SportsSvc.Claim(ctx.Request().Context(), ctx.Param("id"), data.ReporterID, data.ReporterName)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, claim)
}

func (api *sportsApi) release(ctx echo.Context) error {
	var data ReleaseRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReleaseRequest")
	}

	if err := api.opts.SportsSvc.Release(ctx.Request().Context(), ctx.Param("id"), data.ReporterID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// update applies a reporter's sparse status change. With ?queued=1 rapid
// edits are coalesced through the debouncer instead of published inline.
func (api *sportsApi) update(ctx echo.Context) error {
	reporterID := ctx.QueryParam("reporter")
	if reporterID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "reporter", Error: "required"})
	}

	var data sports.Update
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Update")
	}

	if ctx.QueryParam("queued") == "1" {
		api.opts.SportsSvc.QueueUpdate(ctx.Param("id"), reporterID, data)
		return ctx.NoContent(http.StatusAccepted)
	}

	st, err := api.opts.SportsSvc.PublishUpdate(ctx.Request().Context(), ctx.Param("id"), reporterID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

// stream is the SSE feed of one event's status changes.
func (api *sportsApi) stream(ctx echo.Context) error {
	eventID := ctx.Param("id")

	ch := api.opts.SportsSvc.Subscribe(eventID)
	defer api.opts.SportsSvc.Unsubscribe(eventID, ch)

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	// seed with the stored status when one exists
	if st, err := api.opts.SportsSvc.StatusNow(ctx.Request().Context(), eventID); err == nil {
		if err := writeSSE(res, st); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case st, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeSSE(res, st); err != nil {
				return err
			}
		}
	}
}
