package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftransport/ftransport/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening runs migrate again against the same file.
	s2, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestTransferRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ts := s.TransferStore()
	ctx := context.Background()

	started := time.Now().UTC().Truncate(time.Second)
	tr := &domain.Transfer{
		ID:              "t1",
		SourceURL:       "https://drive.google.com/drive/folders/1AbC",
		DriveType:       domain.DriveGoogle,
		Mode:            domain.ModeStaged,
		Status:          domain.StatusTransferring,
		TotalFiles:      5,
		FilesCompleted:  2,
		FilesFailed:     1,
		CurrentFileName: "report.pdf",
		OverallProgress: 40,
		LandingZoneID:   "lz-1",
		CreatedAt:       started,
		StartedAt:       &started,
	}
	require.NoError(t, ts.SaveTransfer(ctx, tr))

	got, err := ts.GetTransfer(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, tr.SourceURL, got.SourceURL)
	assert.Equal(t, domain.DriveGoogle, got.DriveType)
	assert.Equal(t, domain.StatusTransferring, got.Status)
	assert.Equal(t, 5, got.TotalFiles)
	assert.Equal(t, "report.pdf", got.CurrentFileName)
	require.NotNil(t, got.StartedAt)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Nil(t, got.CompletedAt)

	// Upsert updates in place.
	done := started.Add(time.Minute)
	tr.Status = domain.StatusCompleted
	tr.OverallProgress = 100
	tr.CompletedAt = &done
	require.NoError(t, ts.SaveTransfer(ctx, tr))

	got, err = ts.GetTransfer(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, 100.0, got.OverallProgress)
	require.NotNil(t, got.CompletedAt)
}

func TestGetTransferNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.TransferStore().GetTransfer(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTransfersNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ts := s.TransferStore()
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, ts.SaveTransfer(ctx, &domain.Transfer{
			ID:        id,
			Status:    domain.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := ts.ListTransfers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[2].ID)
}

func TestFilesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ts := s.TransferStore()
	ctx := context.Background()

	require.NoError(t, ts.SaveTransfer(ctx, &domain.Transfer{
		ID:        "t1",
		Status:    domain.StatusScanning,
		CreatedAt: time.Now().UTC(),
	}))

	now := time.Now().UTC().Truncate(time.Second)
	files := []domain.FileUnit{
		{Index: 0, Name: "a.pdf", Size: 100, SourceID: "s0", Status: domain.FilePending, UpdatedAt: now},
		{Index: 1, Name: "b.txt", Size: domain.SizeUnknown, SourceID: "s1", Status: domain.FilePending, UpdatedAt: now},
	}
	require.NoError(t, ts.SaveFiles(ctx, "t1", files))

	// Per-file update.
	files[1].Status = domain.FileCompleted
	files[1].BytesTransferred = 64
	files[1].DestinationID = "d1"
	files[1].CompletedAt = &now
	require.NoError(t, ts.SaveFile(ctx, "t1", &files[1]))

	got, err := ts.ListFiles(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.pdf", got[0].Name)
	assert.Equal(t, domain.SizeUnknown, got[1].Size)
	assert.Equal(t, domain.FileCompleted, got[1].Status)
	assert.Equal(t, "d1", got[1].DestinationID)
	require.NotNil(t, got[1].CompletedAt)
}

func TestListFilesEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.TransferStore().ListFiles(context.Background(), "none")
	require.NoError(t, err)
	assert.Empty(t, got)
}
