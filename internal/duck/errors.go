package duck

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned when a query is issued against a session
// that has not finished initializing or has been torn down.
var ErrNotReady = errors.New("duck: session not ready")

// InitError means the embedded engine could not start. Fatal for the
// session; there is no point retrying without operator intervention.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("duck: engine initialization failed: %v", e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// LoadError means the dataset could not be fetched or materialized.
// Fatal for the session, same user-visible path as InitError.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("duck: dataset load failed: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// QueryError means a single statement failed. Local to that request;
// the caller may retry by resubmitting the same query.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("duck: query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
