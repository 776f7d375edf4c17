package gateway

import "fmt"

// TransportError is a network, server-side (5xx) or decode failure while
// talking to the backend. The wizard treats it as "try again later".
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError is a 4xx rejection of the payload, e.g. a malformed
// phone number. The status and backend message disambiguate it from
// transport failures.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected request (status %d)", e.Status)
	}
	return fmt.Sprintf("backend rejected request (status %d): %s", e.Status, e.Message)
}
