package dropbox

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ftransport/ftransport/internal/core/domain"
)

// ParseFolderPath extracts the account-relative folder path from a
// Dropbox web URL. "https://www.dropbox.com/home/Docs/Work" maps to
// "/Docs/Work" and the bare home URL maps to the root namespace "".
// Shared links (/s/, /sh/, /scl/) carry an opaque key instead of a path
// and are rejected.
func ParseFolderPath(sourceURL string) (string, error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	p := strings.TrimSuffix(parsed.Path, "/")
	switch {
	case p == "" || p == "/home":
		return "", nil
	case strings.HasPrefix(p, "/home/"):
		unescaped, err := url.PathUnescape(strings.TrimPrefix(p, "/home"))
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return unescaped, nil
	default:
		return "", fmt.Errorf("%w: dropbox URL must reference a folder under /home", domain.ErrInvalidInput)
	}
}
