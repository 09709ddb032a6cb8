package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftransport/ftransport/internal/core/domain"
)

func TestStatusCmd_Use(t *testing.T) {
	assert.Equal(t, "status [transfer-id]", statusCmd.Use)
}

func TestStatusCmd_ShowsSnapshot(t *testing.T) {
	mock, cleanup := setupCLITest()
	defer cleanup()

	mock.snapshots["t1"] = domain.ProgressSnapshot{
		TransferID:      "t1",
		Status:          domain.StatusTransferring,
		OverallProgress: 62.5,
		FilesCompleted:  5,
		TotalFiles:      8,
		CurrentFile:     &domain.CurrentFile{Name: "notes.txt", Progress: 40},
	}

	out, err := execute(t, "status", "t1")

	require.NoError(t, err)
	assert.Contains(t, out, "Status:   transferring")
	assert.Contains(t, out, "62.5%")
	assert.Contains(t, out, "5/8 completed")
	assert.Contains(t, out, "notes.txt (40%)")
}

func TestStatusCmd_ShowsFailedFiles(t *testing.T) {
	mock, cleanup := setupCLITest()
	defer cleanup()

	mock.snapshots["t1"] = domain.ProgressSnapshot{
		TransferID:     "t1",
		Status:         domain.StatusCompleted,
		FilesCompleted: 1,
		FilesFailed:    1,
		TotalFiles:     2,
	}
	mock.files["t1"] = []domain.FileUnit{
		{Index: 0, Name: "good.pdf", Status: domain.FileCompleted},
		{Index: 1, Name: "locked.pdf", Status: domain.FileFailed, ErrorMessage: "permission denied"},
	}

	out, err := execute(t, "status", "t1")

	require.NoError(t, err)
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "locked.pdf: permission denied")
}

func TestStatusCmd_ListsTransfers(t *testing.T) {
	mock, cleanup := setupCLITest()
	defer cleanup()

	mock.transfers["t1"] = &domain.Transfer{
		ID: "t1", Status: domain.StatusCompleted, OverallProgress: 100,
		SourceURL: "https://drive.google.com/drive/folders/1AbC",
	}

	out, err := execute(t, "status")

	require.NoError(t, err)
	assert.Contains(t, out, "t1")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "drive.google.com")
}

func TestStatusCmd_NoTransfers(t *testing.T) {
	_, cleanup := setupCLITest()
	defer cleanup()

	out, err := execute(t, "status")

	require.NoError(t, err)
	assert.Contains(t, out, "No transfers found")
}

func TestStatusCmd_UnknownTransfer(t *testing.T) {
	_, cleanup := setupCLITest()
	defer cleanup()

	_, err := execute(t, "status", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
