package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kwachira/ratiba/core/livestatus"
	"github.com/kwachira/ratiba/core/projection"
	"github.com/kwachira/ratiba/core/schedule"
)

type (
	liveKey struct {
		userID string
		parity schedule.Parity
	}

	liveEntry struct {
		machine *livestatus.Machine
		cancel  context.CancelFunc
	}

	// liveManager owns one live-status machine per (student, rotation),
	// created lazily on the first stream request and run until shutdown.
	liveManager struct {
		opts *Options

		mu      sync.Mutex
		entries map[liveKey]*liveEntry
	}
)

func newLiveManager(opts *Options) *liveManager {
	return &liveManager{
		opts:    opts,
		entries: make(map[liveKey]*liveEntry),
	}
}

func (m *liveManager) machineFor(userID string, parity schedule.Parity) *livestatus.Machine {
	key := liveKey{userID: userID, parity: parity}

	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[key]; ok {
		return entry.machine
	}

	projSvc := projection.NewService(
		m.opts.ScheduleSvc,
		m.opts.RosterSvc,
		m.opts.Resolver,
		m.opts.Profiles(userID),
		m.opts.Logger,
	)
	projector := livestatus.ProjectorFunc(func(ctx context.Context, now time.Time) (projection.CurrentBlockView, error) {
		return projSvc.Project(ctx, now, parity, userID)
	})

	machine := livestatus.NewMachine(
		m.opts.Conf,
		projector,
		m.opts.NewPublisher(userID),
		m.opts.NewPush(),
		m.opts.Logger,
	)
	ctx, cancel := context.WithCancel(context.Background())
	go machine.Run(ctx)

	m.entries[key] = &liveEntry{machine: machine, cancel: cancel}
	return machine
}

func (m *liveManager) stopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, entry := range m.entries {
		entry.cancel()
		delete(m.entries, key)
	}
}

type liveApi struct {
	opts *Options
	mgr  *liveManager
}

func registerLiveAPI(g *echo.Group, opts *Options, mgr *liveManager) {
	api := liveApi{opts: opts, mgr: mgr}

	lg := g.Group("/live")
	lg.GET("/stream", api.stream)
	lg.GET("/current", api.current)
	lg.POST("/wake", api.wake)
}

// Handlers

// stream is the SSE feed of the student's live-status records.
func (api *liveApi) stream(ctx echo.Context) error {
	userID, err := queryUser(ctx)
	if err != nil {
		return err
	}
	parity, err := queryParity(ctx, ctx.QueryParam("parity"))
	if err != nil {
		return err
	}

	machine := api.mgr.machineFor(userID, parity)
	ch := machine.Subscribe()
	defer machine.Unsubscribe(ch)

	// seed the stream with the current slot before waiting on changes
	if err := machine.Wake(ctx.Request().Context()); err != nil {
		return err
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	if rec := machine.Current(); rec != nil {
		if err := writeSSE(res, *rec); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case rec, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeSSE(res, rec); err != nil {
				return err
			}
		}
	}
}

func (api *liveApi) current(ctx echo.Context) error {
	userID, err := queryUser(ctx)
	if err != nil {
		return err
	}
	parity, err := queryParity(ctx, ctx.QueryParam("parity"))
	if err != nil {
		return err
	}

	machine := api.mgr.machineFor(userID, parity)
	if err := machine.Wake(ctx.Request().Context()); err != nil {
		return err
	}
	rec := machine.Current()
	if rec == nil {
		return ctx.JSON(http.StatusOK, echo.Map{"state": machine.State()})
	}
	return ctx.JSON(http.StatusOK, echo.Map{"state": machine.State(), "record": rec})
}

// wake is the push-delivery callback entry point.
func (api *liveApi) wake(ctx echo.Context) error {
	userID, err := queryUser(ctx)
	if err != nil {
		return err
	}
	parity, err := queryParity(ctx, ctx.QueryParam("parity"))
	if err != nil {
		return err
	}

	if err := api.mgr.machineFor(userID, parity).Wake(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusAccepted)
}

func writeSSE(res *echo.Response, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
		return err
	}
	res.Flush()
	return nil
}
