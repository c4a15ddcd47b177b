package practicum

import (
	"errors"
	"fmt"
)

// Recoverable failure kinds. A cycle failing with one of these is logged and
// the polling loop carries on.
var (
	ErrRequest       = errors.New("request to review API failed")
	ErrHTTPStatus    = errors.New("unexpected review API status")
	ErrResponseShape = errors.New("unexpected response shape")
	ErrEmptyResponse = errors.New("required field is missing")
	ErrUnknownStatus = errors.New("undocumented homework status")
)

// StatusError reports a non-200 answer from the review API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrHTTPStatus, e.Code)
}

// Unwrap makes errors.Is(err, ErrHTTPStatus) hold.
func (e *StatusError) Unwrap() error {
	return ErrHTTPStatus
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrRequest, "request"},
	{ErrHTTPStatus, "http_status"},
	{ErrResponseShape, "response_shape"},
	{ErrEmptyResponse, "empty_response"},
	{ErrUnknownStatus, "unknown_status"},
}

// Kind returns a short name of the failure kind of err, "unexpected" for
// errors outside the known set and "" for nil.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unexpected"
}

// IsRecoverable reports whether err belongs to one of the known failure kinds.
func IsRecoverable(err error) bool {
	k := Kind(err)
	return k != "" && k != "unexpected"
}
