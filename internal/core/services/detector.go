package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ftransport/ftransport/internal/core/domain"
)

// driveHosts maps URL host fragments to providers. Matching is by suffix
// or containment so regional and tenant subdomains resolve correctly
// (e.g. contoso-my.sharepoint.com).
var driveHosts = []struct {
	fragment string
	drive    domain.DriveType
}{
	{"drive.google.com", domain.DriveGoogle},
	{"docs.google.com", domain.DriveGoogle},
	{"onedrive.live.com", domain.DriveOneDrive},
	{"onedrive.com", domain.DriveOneDrive},
	{"1drv.ms", domain.DriveOneDrive},
	{"sharepoint.com", domain.DriveOneDrive},
	{"dropbox.com", domain.DriveDropbox},
	{"db.tt", domain.DriveDropbox},
}

// DetectDriveType resolves the shared-drive provider from a source URL.
// Returns domain.ErrInvalidInput for malformed URLs and
// domain.ErrUnsupportedDrive when the host matches no known provider.
func DetectDriveType(sourceURL string) (domain.DriveType, error) {
	parsed, err := url.Parse(strings.TrimSpace(sourceURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: URL must be absolute", domain.ErrInvalidInput)
	}

	host := strings.ToLower(parsed.Host)
	for _, h := range driveHosts {
		if host == h.fragment || strings.HasSuffix(host, "."+h.fragment) {
			return h.drive, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedDrive, host)
}
