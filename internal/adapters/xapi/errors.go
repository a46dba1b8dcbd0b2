package xapi

import (
	"errors"
	"fmt"
	"strings"
)

// FetchError reports that a whole batch lookup failed. No profile from the
// batch was resolved.
type FetchError struct {
	Handles []string
	// StatusCode is the upstream HTTP status, or 0 when no response arrived.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %d handles [%s]: status %d: %v",
			len(e.Handles), strings.Join(e.Handles, ","), e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %d handles [%s]: %v", len(e.Handles), strings.Join(e.Handles, ","), e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Temporary reports whether retrying the same batch later could succeed.
func (e *FetchError) Temporary() bool {
	switch {
	case e.StatusCode == 0, e.StatusCode == 429, e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// IsFetchError reports whether err is or wraps a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
