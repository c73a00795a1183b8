package usecase

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/season"
)

var (
	ErrMalformedLocator     = season.ErrMalformedLocator
	ErrFetchFailed          = crerr.New("fetch failed")
	ErrDecodeFailed         = crerr.New("decode failed")
	ErrInvalidFixtureToken  = gameweek.ErrInvalidFixtureToken
	ErrInvalidTemporalValue = crerr.New("invalid temporal value")
	ErrMissingIdentity      = crerr.New("missing record identity")
	ErrPersistenceFailure   = crerr.New("persistence failure")
)

// FetchError is returned when the season payload could not be retrieved.
// StatusCode is zero when no HTTP response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Body       string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch failed: status=%d url=%s body=%s", e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("fetch failed: url=%s: %v", e.URL, e.Cause)
}

// Unwrap exposes both ErrFetchFailed and the transport cause, so callers can
// match context.DeadlineExceeded on a timed out fetch.
func (e *FetchError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrFetchFailed}
	}
	return []error{ErrFetchFailed, e.Cause}
}

// TemporalValueError names a date or timestamp field whose raw value did not
// match the expected layout.
type TemporalValueError struct {
	Field string
	Raw   string
}

func (e *TemporalValueError) Error() string {
	return fmt.Sprintf("invalid temporal value: field=%s raw=%q", e.Field, e.Raw)
}

func (e *TemporalValueError) Unwrap() error {
	return ErrInvalidTemporalValue
}

// RecordIssue describes one source record that was left out of a batch.
type RecordIssue struct {
	Entity string
	Index  int
	Key    string
	Err    error
}

func (i RecordIssue) Error() string {
	if i.Key != "" {
		return fmt.Sprintf("%s[%d] key=%s: %v", i.Entity, i.Index, i.Key, i.Err)
	}
	return fmt.Sprintf("%s[%d]: %v", i.Entity, i.Index, i.Err)
}

func (i RecordIssue) Unwrap() error {
	return i.Err
}
