// Package factory selects the source enumerator for a transfer from the
// detected drive type. It is the only place that knows which provider
// package serves which drive.
package factory

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/ftransport/ftransport/internal/connectors/dropbox"
	"github.com/ftransport/ftransport/internal/connectors/google"
	gdrive "github.com/ftransport/ftransport/internal/connectors/google/drive"
	"github.com/ftransport/ftransport/internal/connectors/onedrive"
	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driven"
)

// Credentials carries the per-provider access tokens. A missing token
// disables that provider.
type Credentials struct {
	GoogleToken    string
	MicrosoftToken string
	DropboxToken   string
}

// Ensure Factory implements the port.
var _ driven.EnumeratorFactory = (*Factory)(nil)

// Factory creates provider enumerators from configured credentials.
type Factory struct {
	creds Credentials
}

// New creates the factory.
func New(creds Credentials) *Factory {
	return &Factory{creds: creds}
}

// Create returns the enumerator for the drive type. Consulted once per
// transfer; the returned enumerator serves the whole run.
func (f *Factory) Create(ctx context.Context, drive domain.DriveType, sourceURL string) (driven.SourceEnumerator, error) {
	switch drive {
	case domain.DriveGoogle:
		if f.creds.GoogleToken == "" {
			return nil, fmt.Errorf("%w: no google drive credentials configured", domain.ErrPermissionDenied)
		}
		return gdrive.NewEnumerator(ctx, google.StaticTokenSource(f.creds.GoogleToken), sourceURL)

	case domain.DriveOneDrive:
		if f.creds.MicrosoftToken == "" {
			return nil, fmt.Errorf("%w: no onedrive credentials configured", domain.ErrPermissionDenied)
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: f.creds.MicrosoftToken, TokenType: "Bearer"})
		return onedrive.NewEnumerator(onedrive.NewClient(ctx, ts), sourceURL)

	case domain.DriveDropbox:
		if f.creds.DropboxToken == "" {
			return nil, fmt.Errorf("%w: no dropbox credentials configured", domain.ErrPermissionDenied)
		}
		return dropbox.NewEnumerator(f.creds.DropboxToken, sourceURL)

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedDrive, drive)
	}
}
