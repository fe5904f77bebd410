package models

import "errors"

// Failure taxonomy. Nothing in this service is allowed to crash on a
// collaborator failure; these sentinels mark which safe default applies.
var (
	// ErrOptimizationUnavailable means the routing collaborator failed and
	// the deterministic local heuristic produced the route instead.
	ErrOptimizationUnavailable = errors.New("route optimization unavailable")

	// ErrCacheCorrupted means a durable cache could not be read and is
	// treated as empty.
	ErrCacheCorrupted = errors.New("cache corrupted")

	// ErrPermissionDenied means a location or notification permission was
	// withheld; the dependent feature is disabled, not crashed.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrSessionStopped means a polling operation was attempted on a
	// session that is not active.
	ErrSessionStopped = errors.New("polling session stopped")
)
