package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/livestatus"
	"github.com/kwachira/ratiba/core/roster"
	"github.com/kwachira/ratiba/core/schedule"
	"github.com/kwachira/ratiba/core/sports"
	"github.com/kwachira/ratiba/core/xblock"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		ScheduleSvc *schedule.Service
		RosterSvc   *roster.Service
		Consensus   *xblock.Consensus
		Resolver    *xblock.Resolver
		SportsSvc   *sports.Service

		// Profiles resolves a student's extracurricular profile; a nil
		// profile is a valid answer (participates in nothing).
		Profiles func(userID string) roster.ExtracurricularProfile

		// NewPublisher builds the live-status store writer for one student.
		NewPublisher func(userID string) livestatus.Publisher

		// NewPush builds the silent-push channel backing one student's
		// boundary wakes.
		NewPush func() core.PushChannel
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
		live *liveManager
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
		live: newLiveManager(opts),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerScheduleAPI(v1, s.opts)
	registerRosterAPI(v1, s.opts)
	registerXBlockAPI(v1, s.opts)
	registerLiveAPI(v1, s.opts, s.live)
	registerSportsAPI(v1, s.opts)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Conf.ServerAddress()))
}

func (s *server) Stop(ctx context.Context) error {
	s.live.stopAll()
	s.opts.SportsSvc.Close()
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Ratiba API!")
}
