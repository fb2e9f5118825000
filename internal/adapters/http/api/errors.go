package api

import "errors"

var (
	// ErrServe indicates the HTTP server failed to serve.
	ErrServe = errors.New("failed to serve http")
	// ErrBadRequest indicates the request parameters were invalid.
	ErrBadRequest = errors.New("bad request")
)
