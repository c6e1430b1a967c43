package echoapi

import (
	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/schedule"
)

type (
	OverrideRequest struct {
		Date      string               `json:"date"` // YYYY-MM-DD, school timezone
		Title     string               `json:"title"`
		Blocks    []schedule.TimeBlock `json:"blocks"`
		CreatedBy string               `json:"created_by"`
	}

	// ImportRequest carries a transformer candidate: a weekday-name-keyed
	// block map as produced by the image-to-schedule pipeline. Times arrive
	// in the compact H:MM table form and are parsed server-side.
	ImportRequest struct {
		Date      string                   `json:"date" validate:"required"`
		Title     string                   `json:"title"`
		CreatedBy string                   `json:"created_by"`
		Candidate map[string][]ImportBlock `json:"candidate" validate:"required,dive,dive"`
	}

	ImportBlock struct {
		Label string `json:"label" validate:"required"`
		Start string `json:"start" validate:"required,hmm"`
		End   string `json:"end" validate:"required,hmm"`
	}

	ClaimRequest struct {
		ReporterID   string `json:"reporter_id"`
		ReporterName string `json:"reporter_name"`
	}

	ReleaseRequest struct {
		ReporterID string `json:"reporter_id"`
	}
)

func (r *ImportRequest) Validate() error { return core.Validate.Struct(r) }
