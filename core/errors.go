package core

import (
	"errors"
	"fmt"
	"strings"
)

// Error conditions surfaced by the client and the export reader.
var (
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrInvalidAthlete      = errors.New("invalid athlete")
	ErrInvalidRequestShape = errors.New("invalid request shape")
	ErrUnsupportedFormat   = errors.New("unsupported activity format")
	ErrMissingRides        = errors.New("summary file has no RIDES collection")
)

// InvalidAthleteError reports an athlete missing from the current roster.
// Known holds every known id, sorted.
type InvalidAthleteError struct {
	Athlete string
	Known   []string
}

func (e *InvalidAthleteError) Error() string {
	return fmt.Sprintf("invalid athlete %q. Choose from: %s", e.Athlete, strings.Join(e.Known, ", "))
}

// Is makes errors.Is(err, ErrInvalidAthlete) hold.
func (e *InvalidAthleteError) Is(target error) bool {
	return target == ErrInvalidAthlete
}

// StatusError is returned when a data call gets a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 120 {
		body = body[:120] + "..."
	}
	if body == "" {
		return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s returned status %d: %s", e.URL, e.StatusCode, body)
}
