package reports

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownReport is returned when a requested report has no configuration
	ErrUnknownReport = errors.New("report is not configured")

	// ErrNoRefreshProcedure is returned when refreshing a report without a refresh procedure
	ErrNoRefreshProcedure = errors.New("report has no refresh procedure")
)

// ExecutionError is returned when fetching one report fails. It aborts the whole request.
type ExecutionError struct {
	Report string
	Query  string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to fetch report %s: %v", e.Report, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func unknownReport(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownReport, name)
}
