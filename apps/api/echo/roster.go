package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core/roster"
)

type rosterApi struct {
	opts *Options
}

func registerRosterAPI(g *echo.Group, opts *Options) {
	api := rosterApi{opts: opts}

	ag := g.Group("/assignments/:parity")
	ag.GET("", api.query)
	ag.PUT("/:letter", api.set)
	ag.DELETE("/:letter", api.remove)
}

// Handlers

func (api *rosterApi) query(ctx echo.Context) error {
	userID, err := queryUser(ctx)
	if err != nil {
		return err
	}
	parity, err := queryParity(ctx, ctx.Param("parity"))
	if err != nil {
		return err
	}

	assignments, err := api.opts.RosterSvc.Map(ctx.Request().Context(), userID, parity)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *rosterApi) set(ctx echo.Context) error {
	userID, err := queryUser(ctx)
	if err != nil {
		return err
	}
	parity, err := queryParity(ctx, ctx.Param("parity"))
	if err != nil {
		return err
	}

	var data roster.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	data.BlockLetter = ctx.Param("letter")

	a, err := api.opts.RosterSvc.Set(ctx.Request().Context(), userID, parity, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *rosterApi) remove(ctx echo.Context) error {
	userID, err := queryUser(ctx)
	if err != nil {
		return err
	}
	parity, err := queryParity(ctx, ctx.Param("parity"))
	if err != nil {
		return err
	}
	letter, err := roster.ParseBlockLetter(ctx.Param("letter"))
	if err != nil {
		return err
	}

	if err := api.opts.RosterSvc.Remove(ctx.Request().Context(), userID, parity, letter); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
