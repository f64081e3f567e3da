// Package errors defines the sentinel errors used across the dashboard
// backend. Callers categorize failures with errors.Is.
//
// This package must not import other internal packages.
package errors

import "errors"

var (
	// ErrSourceFetch indicates a single data source was unreachable,
	// malformed or empty. Ingestion continues with the remaining sources.
	ErrSourceFetch = errors.New("source fetch failed")

	// ErrNoData indicates every source failed and no persisted cache exists.
	ErrNoData = errors.New("no data available")

	// ErrCacheMiss indicates the persisted "latest" tables are absent or unreadable.
	ErrCacheMiss = errors.New("cache miss")

	// ErrPersistence indicates a cache or snapshot write failed.
	ErrPersistence = errors.New("persistence failed")

	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnauthorized indicates a missing or invalid bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates a requested package, site or run does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSnapshotName indicates a snapshot file name does not carry a timestamp.
	ErrSnapshotName = errors.New("invalid snapshot name")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
