package gfw

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a lookup legitimately found nothing. It is a
// normal outcome, not a failure; callers map it to an Unresolved result.
var ErrNotFound = errors.New("gfw: not found")

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GFW API returned %d: %s", e.Status, e.Body)
}

// Transient reports whether the response is worth retrying: rate limits
// and server-side failures. Anything else (bad request, auth failure) is
// permanent and surfaced immediately.
func (e *StatusError) Transient() bool {
	return e.Status == 429 || e.Status >= 500
}

// IsTransient reports whether err is a retryable fetch failure. Network
// errors without a status are treated as transient.
func IsTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Transient()
	}
	return err != nil && !errors.Is(err, ErrNotFound)
}
