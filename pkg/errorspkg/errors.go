// Package errorspkg provides common app errors.
package errorspkg

import "errors"

var (
	// ErrInternal indicates internal server error.
	ErrInternal = errors.New("internal")
	// ErrBadRequest indicates that the request could not be parsed.
	ErrBadRequest = errors.New("bad request")
)
