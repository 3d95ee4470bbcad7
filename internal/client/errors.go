package client

import (
	"errors"
	"fmt"
)

var (
	ErrNoRoute           = errors.New("no route")
	ErrMalformedEnvelope = errors.New("malformed response envelope")
	ErrMissingEntity     = errors.New("request requires an entity body")
)

// StatusError is returned for any response outside the 2xx range.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("non-OK status: %s", e.Status)
	}
	return fmt.Sprintf("non-OK status: %s: %s", e.Status, e.Body)
}

func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}
