package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driven"
)

// transferStore implements driven.TransferStore.
type transferStore struct {
	store *Store
}

var _ driven.TransferStore = (*transferStore)(nil)

// SaveTransfer inserts or updates a transfer record.
func (s *transferStore) SaveTransfer(ctx context.Context, t *domain.Transfer) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO transfers (
			id, source_url, drive_type, mode, status,
			total_files, files_completed, files_failed,
			current_file_name, current_file_progress, overall_progress,
			landing_zone_id, notebook_id, error_message,
			created_at, started_at, completed_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			total_files = excluded.total_files,
			files_completed = excluded.files_completed,
			files_failed = excluded.files_failed,
			current_file_name = excluded.current_file_name,
			current_file_progress = excluded.current_file_progress,
			overall_progress = excluded.overall_progress,
			landing_zone_id = excluded.landing_zone_id,
			notebook_id = excluded.notebook_id,
			error_message = excluded.error_message,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at
	`, t.ID, t.SourceURL, string(t.DriveType), string(t.Mode), string(t.Status),
		t.TotalFiles, t.FilesCompleted, t.FilesFailed,
		t.CurrentFileName, t.CurrentFileProgress, t.OverallProgress,
		t.LandingZoneID, t.NotebookID, t.ErrorMessage,
		t.CreatedAt, t.StartedAt, t.CompletedAt)
	if err != nil {
		return fmt.Errorf("saving transfer: %w", err)
	}
	return nil
}

const transferColumns = `
	id, source_url, drive_type, mode, status,
	total_files, files_completed, files_failed,
	current_file_name, current_file_progress, overall_progress,
	landing_zone_id, notebook_id, error_message,
	created_at, started_at, completed_at`

// GetTransfer retrieves a transfer by ID.
func (s *transferStore) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT"+transferColumns+" FROM transfers WHERE id = ?", id)

	t, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListTransfers returns all transfers, newest first.
func (s *transferStore) ListTransfers(ctx context.Context) ([]domain.Transfer, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT"+transferColumns+" FROM transfers ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("querying transfers: %w", err)
	}
	defer rows.Close()

	var transfers []domain.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transfers: %w", err)
	}
	return transfers, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransfer(row scanner) (*domain.Transfer, error) {
	var (
		t                      domain.Transfer
		drive, mode, status    string
		startedAt, completedAt sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.SourceURL, &drive, &mode, &status,
		&t.TotalFiles, &t.FilesCompleted, &t.FilesFailed,
		&t.CurrentFileName, &t.CurrentFileProgress, &t.OverallProgress,
		&t.LandingZoneID, &t.NotebookID, &t.ErrorMessage,
		&t.CreatedAt, &startedAt, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning transfer: %w", err)
	}

	t.DriveType = domain.DriveType(drive)
	t.Mode = domain.DestinationMode(mode)
	t.Status = domain.TransferStatus(status)
	if startedAt.Valid {
		t.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return &t, nil
}

// SaveFiles bulk-upserts a transfer's file units in one transaction.
func (s *transferStore) SaveFiles(ctx context.Context, transferID string, files []domain.FileUnit) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fileUpsertSQL)
	if err != nil {
		return fmt.Errorf("preparing file upsert: %w", err)
	}
	defer stmt.Close()

	for i := range files {
		if _, err := stmt.ExecContext(ctx, fileUpsertArgs(transferID, &files[i])...); err != nil {
			return fmt.Errorf("saving file %q: %w", files[i].Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing files: %w", err)
	}
	return nil
}

// SaveFile upserts a single file unit.
func (s *transferStore) SaveFile(ctx context.Context, transferID string, f *domain.FileUnit) error {
	if _, err := s.store.db.ExecContext(ctx, fileUpsertSQL, fileUpsertArgs(transferID, f)...); err != nil {
		return fmt.Errorf("saving file %q: %w", f.Name, err)
	}
	return nil
}

const fileUpsertSQL = `
	INSERT INTO transfer_files (
		transfer_id, file_index, name, size, source_id, source_path,
		mime_type, destination_id, status, bytes_transferred,
		error_message, updated_at, started_at, completed_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(transfer_id, file_index) DO UPDATE SET
		destination_id = excluded.destination_id,
		status = excluded.status,
		bytes_transferred = excluded.bytes_transferred,
		error_message = excluded.error_message,
		updated_at = excluded.updated_at,
		started_at = excluded.started_at,
		completed_at = excluded.completed_at
`

func fileUpsertArgs(transferID string, f *domain.FileUnit) []any {
	return []any{
		transferID, f.Index, f.Name, f.Size, f.SourceID, f.SourcePath,
		f.MIMEType, f.DestinationID, string(f.Status), f.BytesTransferred,
		f.ErrorMessage, f.UpdatedAt, f.StartedAt, f.CompletedAt,
	}
}

// ListFiles returns a transfer's file units in discovery order.
func (s *transferStore) ListFiles(ctx context.Context, transferID string) ([]domain.FileUnit, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT file_index, name, size, source_id, source_path, mime_type,
			destination_id, status, bytes_transferred, error_message,
			updated_at, started_at, completed_at
		FROM transfer_files
		WHERE transfer_id = ?
		ORDER BY file_index
	`, transferID)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []domain.FileUnit
	for rows.Next() {
		var (
			f                      domain.FileUnit
			status                 string
			startedAt, completedAt sql.NullTime
		)
		if err := rows.Scan(&f.Index, &f.Name, &f.Size, &f.SourceID, &f.SourcePath,
			&f.MIMEType, &f.DestinationID, &status, &f.BytesTransferred,
			&f.ErrorMessage, &f.UpdatedAt, &startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		f.Status = domain.FileStatus(status)
		if startedAt.Valid {
			f.StartedAt = &startedAt.Time
		}
		if completedAt.Valid {
			f.CompletedAt = &completedAt.Time
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}
	return files, nil
}
