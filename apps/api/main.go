package main

import (
	"log"
	"os"

	echoapi "github.com/kwachira/ratiba/apps/api/echo"
	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/livestatus"
	"github.com/kwachira/ratiba/core/roster"
	"github.com/kwachira/ratiba/core/schedule"
	"github.com/kwachira/ratiba/core/sports"
	"github.com/kwachira/ratiba/core/xblock"
	logsvc "github.com/kwachira/ratiba/services/logger"
	pushsvc "github.com/kwachira/ratiba/services/push"
	"github.com/kwachira/ratiba/storage/database"
	"github.com/kwachira/ratiba/storage/inmem"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stdout, conf.AppName+" ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if conf.Debug || conf.TestMode {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	var (
		scheduleRepo schedule.Repository
		rosterRepo   roster.Repository
		votesRepo    xblock.Repository
		sportsRepo   sports.Repository
		newPublisher func(userID string) livestatus.Publisher
	)
	if conf.Debug {
		mem := inmem.Open()
		scheduleRepo = inmem.NewOverrideRepository(mem)
		rosterRepo = inmem.NewAssignmentRepository(mem)
		votesRepo = inmem.NewConsensusRepository(mem)
		sportsRepo = inmem.NewSportsRepository(mem)
		newPublisher = func(string) livestatus.Publisher { return inmem.NewLiveStatusPublisher(mem) }
	} else {
		db, err := database.Open(conf)
		errAndDie(err)
		defer func() { _ = db.Close() }()

		scheduleRepo = database.NewOverrideRepository(db)
		rosterRepo = database.NewAssignmentRepository(db)
		votesRepo = database.NewConsensusRepository(db)
		sportsRepo = database.NewSportsRepository(db)
		newPublisher = func(userID string) livestatus.Publisher { return database.NewLiveStatusPublisher(db, userID) }
	}

	consensus := xblock.NewConsensus(votesRepo)

	app := echoapi.NewServer(
		&echoapi.Options{
			Conf:        conf,
			Logger:      logger,
			ScheduleSvc: schedule.NewService(scheduleRepo, logger),
			RosterSvc:   roster.NewService(rosterRepo),
			Consensus:   consensus,
			Resolver:    xblock.NewResolver(consensus, logger),
			SportsSvc:   sports.NewService(conf, sportsRepo, logger),
			Profiles: func(userID string) roster.ExtracurricularProfile {
				// opt-in activity membership lives on the device; the server
				// side defaults to non-participation
				return &roster.Profile{UserID: userID}
			},
			NewPublisher: newPublisher,
			NewPush:      func() core.PushChannel { return pushsvc.NewConsoleChannel(logger) },
		},
	)
	app.Start()
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
