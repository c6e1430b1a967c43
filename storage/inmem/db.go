// Package inmem provides map-backed repositories used by tests and the
// no-database debug wiring.
package inmem

import (
	"sync"
	"time"

	"github.com/kwachira/ratiba/core/livestatus"
	"github.com/kwachira/ratiba/core/roster"
	"github.com/kwachira/ratiba/core/schedule"
	"github.com/kwachira/ratiba/core/sports"
	"github.com/kwachira/ratiba/core/xblock"
)

type (
	DB struct {
		overrides   *overrideTable
		assignments *assignmentTable
		votes       *voteTable
		sports      *sportsTable
		live        *liveTable
	}

	overrideTable struct {
		t     map[time.Time]schedule.DayOverride // keyed by midnight
		mutex sync.RWMutex
	}

	assignmentKey struct {
		userID string
		parity schedule.Parity
		letter roster.BlockLetter
	}

	assignmentTable struct {
		t     map[assignmentKey]roster.ClassAssignment
		mutex sync.RWMutex
	}

	voteTable struct {
		t     map[string]xblock.ConsensusRecord // keyed by record id
		ord   []string                          // insertion order, for stable tie-breaks
		mutex sync.RWMutex
	}

	sportsTable struct {
		events   map[string]sports.Event
		statuses map[string]sports.Status
		claims   map[string]sports.ReporterClaim
		mutex    sync.RWMutex
	}

	liveTable struct {
		t     map[string]livestatus.Record // keyed by activity id
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		overrides:   &overrideTable{t: make(map[time.Time]schedule.DayOverride)},
		assignments: &assignmentTable{t: make(map[assignmentKey]roster.ClassAssignment)},
		votes:       &voteTable{t: make(map[string]xblock.ConsensusRecord)},
		sports: &sportsTable{
			events:   make(map[string]sports.Event),
			statuses: make(map[string]sports.Status),
			claims:   make(map[string]sports.ReporterClaim),
		},
		live: &liveTable{t: make(map[string]livestatus.Record)},
	}
}
