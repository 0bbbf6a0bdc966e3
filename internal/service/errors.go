package service

import "errors"

// Sentinel errors returned by CookieService: one package-level var per
// failure mode, wrapped with %w at call sites rather than compared by
// string.
var (
	// ErrNotFound is returned when a lookup by cookie name finds no row.
	ErrNotFound = errors.New("service: cookie not found")

	// ErrInvalidRequest is returned when a caller-supplied argument fails
	// validation before any I/O is attempted.
	ErrInvalidRequest = errors.New("service: invalid request")

	// ErrAnalysisFailed wraps a Solver verdict whose BaselineOK is false.
	ErrAnalysisFailed = errors.New("service: analysis failed")
)
