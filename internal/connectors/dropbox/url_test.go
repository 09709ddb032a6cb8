package dropbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftransport/ftransport/internal/core/domain"
)

func TestParseFolderPath(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"nested folder", "https://www.dropbox.com/home/Docs/Work", "/Docs/Work"},
		{"single folder", "https://www.dropbox.com/home/Docs", "/Docs"},
		{"trailing slash", "https://www.dropbox.com/home/Docs/", "/Docs"},
		{"home root", "https://www.dropbox.com/home", ""},
		{"bare host", "https://www.dropbox.com", ""},
		{"escaped segment", "https://www.dropbox.com/home/My%20Files", "/My Files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFolderPath(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFolderPathRejectsSharedLinks(t *testing.T) {
	for _, url := range []string{
		"https://www.dropbox.com/s/abc123/file.pdf",
		"https://www.dropbox.com/sh/abc123/xyz",
		"https://www.dropbox.com/scl/fo/abc123/xyz",
	} {
		_, err := ParseFolderPath(url)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "url %q", url)
	}
}

func TestGetMIMEType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"document.txt", "text/plain"},
		{"readme.md", "text/markdown"},
		{"data.csv", "text/csv"},
		{"report.pdf", "application/pdf"},
		{"deck.pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
		{"sheet.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"photo.JPG", "image/jpeg"},
		{"archive.zip", "application/zip"},
		{"noextension", "application/octet-stream"},
		{"file.unknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, getMIMEType(tt.filename))
		})
	}
}
