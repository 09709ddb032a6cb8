package driven

import (
	"context"

	"github.com/ftransport/ftransport/internal/core/domain"
)

// Entry is one file discovered under a source reference.
type Entry struct {
	// ID is the provider-specific identifier (file id or path).
	ID string

	// Name is the display name of the file.
	Name string

	// Path is the human-readable location within the source drive.
	Path string

	// Size in bytes, or domain.SizeUnknown when the provider does not
	// report it.
	Size int64

	// MIMEType as reported by the provider, if any.
	MIMEType string
}

// SourceEnumerator lists and reads files under one source reference.
// Each provider (Google Drive, OneDrive, Dropbox) implements this
// interface; the orchestrator never branches on the provider.
type SourceEnumerator interface {
	// DriveType returns the provider this enumerator talks to.
	DriveType() domain.DriveType

	// Validate checks the source is reachable with the configured
	// credentials. Called once before discovery starts.
	Validate(ctx context.Context) error

	// List enumerates every file under the source reference, recursing
	// into folders. Entries are returned in discovery order.
	List(ctx context.Context) ([]Entry, error)

	// Read returns up to length bytes of the entry starting at offset.
	// A short read only occurs at end of file.
	Read(ctx context.Context, entry Entry, offset, length int64) ([]byte, error)

	// Close releases provider resources.
	Close() error
}

// EnumeratorFactory creates the enumerator for a transfer. Consulted once
// at job start; the chosen enumerator is used for the whole run.
type EnumeratorFactory interface {
	Create(ctx context.Context, drive domain.DriveType, sourceURL string) (SourceEnumerator, error)
}
