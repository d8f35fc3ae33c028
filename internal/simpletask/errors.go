package simpletask

import "fmt"

// UpstreamError is returned when the SimpleTask API responds with a non-2xx
// status. It carries the status code and raw response body so the caller can
// self-correct; it is never retried.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("simpletask api returned status %d", e.Status)
	}
	return fmt.Sprintf("simpletask api returned status %d: %s", e.Status, e.Body)
}

// TransportError is returned when the SimpleTask API could not be reached at
// the network level.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("simpletask api unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError is returned when a call exceeds the configured per-request
// timeout.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("simpletask api call timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
