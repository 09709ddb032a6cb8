package driving

import (
	"context"

	"github.com/ftransport/ftransport/internal/core/domain"
)

// TransferService is the application-facing surface of the orchestration
// engine. All adapters (HTTP, CLI, TUI) go through this interface.
type TransferService interface {
	// ValidateURL checks a source URL and returns the detected provider.
	ValidateURL(ctx context.Context, sourceURL string) (domain.DriveType, error)

	// Create validates the source URL, assigns an id and registers a
	// pending transfer. It does not start the run.
	Create(ctx context.Context, sourceURL string, mode domain.DestinationMode) (*domain.Transfer, error)

	// Start launches the transfer's lifecycle in the background. The
	// transfer must be pending; returns domain.ErrNotPending otherwise.
	Start(ctx context.Context, id string) error

	// Wait blocks until the transfer reaches a terminal status or ctx is
	// done.
	Wait(ctx context.Context, id string) error

	// Cancel requests cancellation of a running transfer. In-flight file
	// operations get a bounded grace period to observe the signal.
	// Cancelling a terminal transfer is a no-op.
	Cancel(ctx context.Context, id string) error

	// Status returns the current progress snapshot. Never blocks on
	// in-flight work.
	Status(ctx context.Context, id string) (domain.ProgressSnapshot, error)

	// Subscribe attaches a live observer to the transfer's progress
	// stream. The current snapshot is delivered immediately; the stream
	// closes when the returned stop function is called or the transfer's
	// run ends. Slow subscribers receive coalesced snapshots, never
	// blocking the run.
	Subscribe(ctx context.Context, id string) (<-chan domain.ProgressSnapshot, func(), error)

	// Get returns the transfer record.
	Get(ctx context.Context, id string) (*domain.Transfer, error)

	// List returns all known transfers, newest first.
	List(ctx context.Context) ([]domain.Transfer, error)

	// Files returns the transfer's per-file records in discovery order.
	Files(ctx context.Context, id string) ([]domain.FileUnit, error)
}
