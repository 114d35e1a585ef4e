package modrinth

import (
	"errors"
	"fmt"
)

// ErrNetwork matches registry failures that happened below HTTP: refused
// connections, timeouts, truncated or undecodable bodies.
var ErrNetwork = errors.New("registry unreachable")

// maxErrorBody caps how much of an error response is kept for reporting.
const maxErrorBody = 512

// RegistryError is returned for every failed registry exchange. Status is
// zero when no usable HTTP response was received.
type RegistryError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *RegistryError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s: registry returned status %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: registry returned status %d", e.Op, e.Status)
}

func (e *RegistryError) Unwrap() error { return e.Err }

// Is reports transport-level failures as ErrNetwork.
func (e *RegistryError) Is(target error) bool {
	return target == ErrNetwork && e.Status == 0
}

func networkError(op string, err error) *RegistryError {
	return &RegistryError{Op: op, Err: err}
}

func statusError(op string, status int, body []byte) *RegistryError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &RegistryError{Op: op, Status: status, Body: string(body)}
}
