package driven

import (
	"context"

	"github.com/ftransport/ftransport/internal/core/domain"
)

// TransferStore persists transfers and their file units. Writes happen on
// every status or progress mutation and are best-effort; the orchestrator
// logs failures but never blocks or aborts on them.
type TransferStore interface {
	// SaveTransfer inserts or updates a transfer record.
	SaveTransfer(ctx context.Context, t *domain.Transfer) error

	// GetTransfer returns a transfer by id, or domain.ErrNotFound.
	GetTransfer(ctx context.Context, id string) (*domain.Transfer, error)

	// ListTransfers returns all transfers, newest first.
	ListTransfers(ctx context.Context) ([]domain.Transfer, error)

	// SaveFiles bulk-upserts the file units of a transfer. Called once
	// when discovery completes.
	SaveFiles(ctx context.Context, transferID string, files []domain.FileUnit) error

	// SaveFile upserts a single file unit after a mutation.
	SaveFile(ctx context.Context, transferID string, f *domain.FileUnit) error

	// ListFiles returns a transfer's file units in discovery order.
	ListFiles(ctx context.Context, transferID string) ([]domain.FileUnit, error)
}
