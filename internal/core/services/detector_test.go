package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftransport/ftransport/internal/core/domain"
)

func TestDetectDriveType(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want domain.DriveType
	}{
		{"google drive folder", "https://drive.google.com/drive/folders/1AbC", domain.DriveGoogle},
		{"google docs", "https://docs.google.com/document/d/1AbC/edit", domain.DriveGoogle},
		{"onedrive live", "https://onedrive.live.com/?id=root", domain.DriveOneDrive},
		{"onedrive short link", "https://1drv.ms/f/s!AbC", domain.DriveOneDrive},
		{"sharepoint tenant", "https://contoso-my.sharepoint.com/personal/docs", domain.DriveOneDrive},
		{"dropbox", "https://www.dropbox.com/sh/abc/xyz", domain.DriveDropbox},
		{"dropbox short link", "https://db.tt/abc", domain.DriveDropbox},
		{"host case insensitive", "https://Drive.Google.COM/drive/folders/1AbC", domain.DriveGoogle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectDriveType(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectDriveTypeRejectsUnknownHost(t *testing.T) {
	_, err := DetectDriveType("https://example.com/files")
	assert.ErrorIs(t, err, domain.ErrUnsupportedDrive)
}

func TestDetectDriveTypeRejectsMalformedURL(t *testing.T) {
	for _, url := range []string{"", "not a url", "drive.google.com/folders/1AbC"} {
		_, err := DetectDriveType(url)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "url %q", url)
	}
}

func TestDetectDriveTypeDoesNotMatchLookalikeHosts(t *testing.T) {
	// Suffix matching must anchor on a dot boundary.
	_, err := DetectDriveType("https://evildropbox.com/sh/abc")
	assert.ErrorIs(t, err, domain.ErrUnsupportedDrive)
}
