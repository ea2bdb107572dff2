package harness

import (
	"fmt"
	"time"
)

// RegistrationError reports that the remote API rejected the registration
// request. It is fatal and never retried; the wrapped cause carries the
// remote error detail.
type RegistrationError struct {
	Name  string
	Cause error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to register connector %q: %v", e.Name, e.Cause)
}

func (e *RegistrationError) Unwrap() error { return e.Cause }

// TimeoutError reports that the connector never reached the running state
// within the wait deadline.
type TimeoutError struct {
	Name    string
	Elapsed time.Duration
	Cause   error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("connector %q did not reach state %q within %s", e.Name, runningState, e.Elapsed.Round(time.Millisecond))
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: last status: %v", msg, e.Cause)
	}
	return msg
}

func (e *TimeoutError) Unwrap() error { return e.Cause }
