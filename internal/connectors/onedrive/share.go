package onedrive

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/ftransport/ftransport/internal/core/domain"
)

// EncodeShareURL converts a OneDrive or SharePoint sharing URL into the
// share identifier the Graph shares endpoint expects: "u!" followed by
// the unpadded base64url encoding of the URL.
func EncodeShareURL(sourceURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(sourceURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: sharing URL must be absolute", domain.ErrInvalidInput)
	}

	encoded := base64.RawURLEncoding.EncodeToString([]byte(parsed.String()))
	return "u!" + encoded, nil
}
