package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the remote collection has no post with the requested id.
	ErrNotFound = errors.New("posts: post not found")

	// ErrAlreadyExists is returned when creating a post whose id is already taken.
	ErrAlreadyExists = errors.New("posts: post already exists")
)

// StatusError is returned for unexpected HTTP responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("posts: %s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}
