package drive

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ftransport/ftransport/internal/core/domain"
)

// ParseFolderID extracts the Drive folder (or file) identifier from a
// shared URL. Supported shapes:
//
//	https://drive.google.com/drive/folders/<id>
//	https://drive.google.com/drive/u/0/folders/<id>
//	https://drive.google.com/file/d/<id>/view
//	https://docs.google.com/document/d/<id>/edit
//	https://drive.google.com/open?id=<id>
func ParseFolderID(sourceURL string) (string, error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if id := parsed.Query().Get("id"); id != "" {
		return id, nil
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, seg := range segments {
		if (seg == "folders" || seg == "d") && i+1 < len(segments) {
			if id := segments[i+1]; id != "" {
				return id, nil
			}
		}
	}

	return "", fmt.Errorf("%w: no folder or file id in %q", domain.ErrInvalidInput, sourceURL)
}
