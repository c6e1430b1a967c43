package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/schedule"
	logsvc "github.com/kwachira/ratiba/services/logger"
	"github.com/kwachira/ratiba/storage/inmem"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags)
	conf := &core.Config{Env: "TEST", TestMode: true}

	return &commandLine{
		conf:        conf,
		scheduleSvc: schedule.NewService(inmem.NewOverrideRepository(inmem.Open()), logsvc.NewConsoleLogger(logger)),
	}
}

func writeBlocksFile(t *testing.T, blocks []schedule.TimeBlock) string {
	t.Helper()
	data, err := json.Marshal(blocks)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "blocks.json")
	if err = os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runTests(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				if tt.wantErr != nil || tt.wantErrStr != "" {
					t.Errorf("cli.run() succeeded, want error %v%s", tt.wantErr, tt.wantErrStr)
				}
				return
			}
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			} else if tt.wantErrStr != "" {
				if err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %q, want %q", err.Error(), tt.wantErrStr)
				}
			} else {
				t.Errorf("cli.run() failed: %v", err)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	cli := setup(t)

	migrateFunc = func(db *sqlx.DB) error { return nil }

	blocksPath := writeBlocksFile(t, []schedule.TimeBlock{
		{Label: "Assembly", Start: schedule.MustBlockTime("9:00"), End: schedule.MustBlockTime("10:00")},
	})
	badBlocksPath := writeBlocksFile(t, nil)

	tests := []cliTest{
		{name: "no subcommand", args: nil, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"lol"}, wantErr: errHelp},
		{name: "migrate", args: []string{"migrate"}},
		{name: "setoverride: no flags", args: []string{"setoverride"}, wantErr: errHelp},
		{name: "setoverride: no file", args: []string{"setoverride", "-date", "2026-08-31"}, wantErr: errHelp},
		{name: "setoverride", args: []string{"setoverride", "-date", "2026-08-31", "-title", "Spirit Day", "-file", blocksPath}},
		{name: "setoverride: empty blocks", args: []string{"setoverride", "-date", "2026-08-31", "-file", badBlocksPath}, wantErrStr: "empty block list"},
		{name: "deactivateoverride: no date", args: []string{"deactivateoverride"}, wantErr: errHelp},
		{name: "deactivateoverride", args: []string{"deactivateoverride", "-date", "2026-08-31"}},
		{name: "deactivateoverride: unknown date", args: []string{"deactivateoverride", "-date", "2030-01-01"}, wantErr: schedule.ErrNotFound},
		{name: "showgrid", args: []string{"showgrid", "-parity", "white"}},
		{name: "showgrid: bad parity", args: []string{"showgrid", "-parity", "green"}, wantErrStr: `unknown parity "green"`},
	}
	runTests(t, cli, tests)
}
