package main

import (
	"log"
	"os"

	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/schedule"
	logsvc "github.com/kwachira/ratiba/services/logger"
	"github.com/kwachira/ratiba/storage/database"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()

	// start CLI
	cli := commandLine{
		conf:        conf,
		db:          db,
		scheduleSvc: schedule.NewService(database.NewOverrideRepository(db), logsvc.NewConsoleLogger(logger)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
