package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwachira/ratiba/core"
	"github.com/kwachira/ratiba/core/schedule"
)

// queryUser pulls the student id; the deployment's auth proxy guarantees it.
func queryUser(ctx echo.Context) (string, error) {
	user := ctx.QueryParam("user")
	if user == "" {
		return "", core.NewValidationError(nil, core.FieldError{Field: "user", Error: "required"})
	}
	return user, nil
}

func queryParity(ctx echo.Context, param string) (schedule.Parity, error) {
	parity, err := schedule.ParseParity(param)
	if err != nil {
		return "", core.NewValidationError(err, core.FieldError{Field: "parity", Error: err.Error()})
	}
	return parity, nil
}

// queryTime parses the optional "at" instant in the school timezone;
// defaults to now.
func queryTime(ctx echo.Context, conf *core.Config) (time.Time, error) {
	raw := ctx.QueryParam("at")
	if raw == "" {
		return time.Now().In(conf.Location()), nil
	}
	at, err := time.ParseInLocation(time.RFC3339, raw, conf.Location())
	if err != nil {
		return time.Time{}, core.NewValidationError(errors.Wrap(err, "parsing at"),
			core.FieldError{Field: "at", Error: "must be RFC3339"})
	}
	return at.In(conf.Location()), nil
}

func queryDate(ctx echo.Context, raw string, conf *core.Config) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", raw, conf.Location())
	if err != nil {
		return time.Time{}, core.NewValidationError(errors.Wrap(err, "parsing date"),
			core.FieldError{Field: "date", Error: "must be YYYY-MM-DD"})
	}
	return date, nil
}
