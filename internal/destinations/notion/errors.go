package notion

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jomei/notionapi"

	"github.com/ftransport/ftransport/internal/core/domain"
)

// wrapError maps a Notion API error onto the engine's failure
// vocabulary. Validation errors are permanent; everything else follows
// the usual status mapping.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var nerr *notionapi.Error
	if !errors.As(err, &nerr) {
		return err
	}

	switch nerr.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, nerr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, nerr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, nerr.Message)
	case http.StatusBadRequest:
		return domain.Permanent(fmt.Errorf("notion rejected request: %s", nerr.Message))
	default:
		if nerr.Status >= 500 {
			return fmt.Errorf("%w: notion returned %d", domain.ErrUnavailable, nerr.Status)
		}
		return err
	}
}
