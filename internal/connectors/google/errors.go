package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/ftransport/ftransport/internal/core/domain"
)

// WrapError maps a Google API error onto the engine's failure
// vocabulary so the retry machinery can classify it. Unrecognised errors
// pass through unchanged and are treated as transient.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, gerr.Message)
	case http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, gerr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, gerr.Message)
	default:
		if gerr.Code >= 500 {
			return fmt.Errorf("%w: drive returned %d", domain.ErrUnavailable, gerr.Code)
		}
		return err
	}
}

// IsRangeNotSatisfiable reports whether the error is a 416 response,
// which a ranged download returns when reading past end of file.
func IsRangeNotSatisfiable(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusRequestedRangeNotSatisfiable
}

// RetryAfterSeconds extracts the Retry-After hint from a rate-limit
// response, or 0 when absent.
func RetryAfterSeconds(err error) int {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	var secs int
	if _, scanErr := fmt.Sscanf(gerr.Header.Get("Retry-After"), "%d", &secs); scanErr != nil {
		return 0
	}
	return secs
}
