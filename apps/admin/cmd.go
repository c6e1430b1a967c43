package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/schedule"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf        *core.Config
	db          *sqlx.DB
	scheduleSvc *schedule.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - apply pending database migrations")
	fmt.Println("  setoverride -date YYYY-MM-DD -title TITLE -file BLOCKS.json - install a day override")
	fmt.Println("  deactivateoverride -date YYYY-MM-DD - restore the standard grid for a date")
	fmt.Println("  showgrid -parity red|white - print the standard weekly grid")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	setCmd := flag.NewFlagSet("setoverride", flag.ExitOnError)
	setDate := setCmd.String("date", "", "The override date, YYYY-MM-DD in the school timezone.")
	setTitle := setCmd.String("title", "", "A short label shown with the special schedule.")
	setFile := setCmd.String("file", "", "Path to a JSON array of {label, start, end} blocks.")

	deactivateCmd := flag.NewFlagSet("deactivateoverride", flag.ExitOnError)
	deactivateDate := deactivateCmd.String("date", "", "The override date, YYYY-MM-DD in the school timezone.")

	showCmd := flag.NewFlagSet("showgrid", flag.ExitOnError)
	showParity := showCmd.String("parity", "red", "The rotation to print, red or white.")

	switch args[1] {
	case "migrate":
		return cli.migrate()
	case "setoverride":
		if err := setCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setDate == "" || *setFile == "" {
			setCmd.Usage()
			return errHelp
		}
		return cli.setOverride(*setDate, *setTitle, *setFile)
	case "deactivateoverride":
		if err := deactivateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deactivateDate == "" {
			deactivateCmd.Usage()
			return errHelp
		}
		return cli.deactivateOverride(*deactivateDate)
	case "showgrid":
		if err := showCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.showGrid(*showParity)
	default:
		cli.printUsage()
		return errHelp
	}
}
