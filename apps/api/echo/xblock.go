package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core/xblock"
)

type xblockApi struct {
	opts *Options
}

func registerXBlockAPI(g *echo.Group, opts *Options) {
	api := xblockApi{opts: opts}

	xg := g.Group("/xblock")
	xg.POST("/votes", api.vote)
	xg.GET("/candidate", api.candidate)
}

// Handlers

func (api *xblockApi) vote(ctx echo.Context) error {
	userID, err := queryUser(ctx)
	if err != nil {
		return err
	}

	var data xblock.NewVote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVote")
	}

	rec, err := api.opts.Consensus.SubmitOrIncrement(ctx.Request().Context(), data, userID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

// candidate returns the crowd day set once it has enough votes to
// auto-populate; 404 below the threshold.
func (api *xblockApi) candidate(ctx echo.Context) error {
	parity, err := queryParity(ctx, ctx.QueryParam("parity"))
	if err != nil {
		return err
	}
	className := ctx.QueryParam("class")
	teacherName := ctx.QueryParam("teacher")

	xDays, err := api.opts.Consensus.AutoPopulateCandidate(ctx.Request().Context(), className, teacherName, parity)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"x_days": xDays})
}
