package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core/schedule"
)

func (cli *commandLine) parseDate(raw string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", raw, cli.conf.Location())
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parsing date")
	}
	return date, nil
}

func (cli *commandLine) setOverride(rawDate, title, file string) error {
	date, err := cli.parseDate(rawDate)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "reading blocks file")
	}
	var blocks []schedule.TimeBlock
	if err = json.Unmarshal(data, &blocks); err != nil {
		return errors.Wrap(err, "decoding blocks file")
	}

	ov, err := cli.scheduleSvc.SetOverride(context.Background(), schedule.DayOverride{
		Date:      date,
		Title:     title,
		Blocks:    blocks,
		CreatedBy: "admin",
		Active:    true,
	})
	if err != nil {
		return err
	}
	logger.Printf("override %s installed for %s (%d blocks)", ov.ID, rawDate, len(ov.Blocks))
	return nil
}

func (cli *commandLine) deactivateOverride(rawDate string) error {
	date, err := cli.parseDate(rawDate)
	if err != nil {
		return err
	}
	if err := cli.scheduleSvc.DeactivateOverride(context.Background(), date); err != nil {
		return err
	}
	logger.Printf("override for %s deactivated", rawDate)
	return nil
}

func (cli *commandLine) showGrid(rawParity string) error {
	parity, err := schedule.ParseParity(rawParity)
	if err != nil {
		return err
	}
	for d := schedule.Sunday; d <= schedule.Saturday; d++ {
		fmt.Printf("%s:\n", d)
		for _, b := range schedule.ScheduleForDay(d, parity) {
			fmt.Printf("  %-16s %s - %s\n", b.Label, b.Start, b.End)
		}
	}
	return nil
}
