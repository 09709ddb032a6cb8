package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driving"
)

// mockTransferService implements driving.TransferService for CLI tests.
type mockTransferService struct {
	transfers map[string]*domain.Transfer
	snapshots map[string]domain.ProgressSnapshot
	files     map[string][]domain.FileUnit
	events    chan domain.ProgressSnapshot

	started   []string
	cancelled []string

	// getOverride, when set, is returned by Get regardless of state.
	// Lets tests script the terminal record seen after a run ends.
	getOverride *domain.Transfer
}

var _ driving.TransferService = (*mockTransferService)(nil)

func newMockService() *mockTransferService {
	return &mockTransferService{
		transfers: make(map[string]*domain.Transfer),
		snapshots: make(map[string]domain.ProgressSnapshot),
		files:     make(map[string][]domain.FileUnit),
	}
}

func (m *mockTransferService) ValidateURL(_ context.Context, _ string) (domain.DriveType, error) {
	return domain.DriveGoogle, nil
}

func (m *mockTransferService) Create(_ context.Context, sourceURL string, mode domain.DestinationMode) (*domain.Transfer, error) {
	t := &domain.Transfer{
		ID:        "t1",
		SourceURL: sourceURL,
		DriveType: domain.DriveGoogle,
		Mode:      mode,
		Status:    domain.StatusPending,
	}
	m.transfers[t.ID] = t
	return t, nil
}

func (m *mockTransferService) Start(_ context.Context, id string) error {
	m.started = append(m.started, id)
	return nil
}

func (m *mockTransferService) Wait(ctx context.Context, _ string) error { return ctx.Err() }

func (m *mockTransferService) Cancel(_ context.Context, id string) error {
	if _, ok := m.transfers[id]; !ok {
		return domain.ErrNotFound
	}
	m.cancelled = append(m.cancelled, id)
	return nil
}

func (m *mockTransferService) Status(_ context.Context, id string) (domain.ProgressSnapshot, error) {
	snap, ok := m.snapshots[id]
	if !ok {
		return domain.ProgressSnapshot{}, domain.ErrNotFound
	}
	return snap, nil
}

func (m *mockTransferService) Subscribe(_ context.Context, id string) (<-chan domain.ProgressSnapshot, func(), error) {
	if m.events == nil {
		return nil, nil, domain.ErrNotFound
	}
	return m.events, func() {}, nil
}

func (m *mockTransferService) Get(_ context.Context, id string) (*domain.Transfer, error) {
	if m.getOverride != nil {
		return m.getOverride, nil
	}
	t, ok := m.transfers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (m *mockTransferService) List(_ context.Context) ([]domain.Transfer, error) {
	var out []domain.Transfer
	for _, t := range m.transfers {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockTransferService) Files(_ context.Context, id string) ([]domain.FileUnit, error) {
	return m.files[id], nil
}

// setupCLITest swaps in a mock service and returns it with a cleanup.
func setupCLITest() (*mockTransferService, func()) {
	old := transferService
	mock := newMockService()
	transferService = mock
	return mock, func() {
		transferService = old
		transferMode = ""
		transferDetach = false
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestTransferCmd_Use(t *testing.T) {
	assert.Equal(t, "transfer [source-url]", transferCmd.Use)
}

func TestTransferCmd_Detach(t *testing.T) {
	mock, cleanup := setupCLITest()
	defer cleanup()

	out, err := execute(t, "transfer", "--detach", "https://drive.google.com/drive/folders/1AbC")

	require.NoError(t, err)
	assert.Contains(t, out, "Transfer t1 created")
	assert.Contains(t, out, "Running in background")
	assert.Equal(t, []string{"t1"}, mock.started)
}

func TestTransferCmd_FollowsToCompletion(t *testing.T) {
	mock, cleanup := setupCLITest()
	defer cleanup()

	mock.events = make(chan domain.ProgressSnapshot, 4)
	mock.events <- domain.ProgressSnapshot{Seq: 1, TransferID: "t1", Status: domain.StatusScanning}
	mock.events <- domain.ProgressSnapshot{
		Seq: 2, TransferID: "t1", Status: domain.StatusTransferring,
		OverallProgress: 50, FilesCompleted: 1, TotalFiles: 2,
	}
	close(mock.events)

	// Get after the stream closes reports the terminal record.
	mock.getOverride = &domain.Transfer{
		ID: "t1", Status: domain.StatusCompleted, FilesCompleted: 2, NotebookID: "nb-9",
	}

	out, err := execute(t, "transfer", "https://drive.google.com/drive/folders/1AbC")

	require.NoError(t, err)
	assert.Contains(t, out, "Status: scanning")
	assert.Contains(t, out, "Status: transferring")
	assert.Contains(t, out, "50.0% (1/2 files")
	assert.Contains(t, out, "Transfer complete: 2 files")
	assert.Contains(t, out, "Notebook: nb-9")
}

func TestTransferCmd_FailureReturnsError(t *testing.T) {
	mock, cleanup := setupCLITest()
	defer cleanup()

	mock.events = make(chan domain.ProgressSnapshot)
	close(mock.events)
	mock.getOverride = &domain.Transfer{
		ID: "t1", Status: domain.StatusFailed, ErrorMessage: "transfer stage: permission denied",
	}

	_, err := execute(t, "transfer", "https://drive.google.com/drive/folders/1AbC")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestTransferCmd_RejectsBadMode(t *testing.T) {
	_, cleanup := setupCLITest()
	defer cleanup()

	_, err := execute(t, "transfer", "--mode", "sideways", "https://drive.google.com/drive/folders/1AbC")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestTransferCmd_ServiceNotConfigured(t *testing.T) {
	old := transferService
	transferService = nil
	defer func() { transferService = old }()

	_, err := execute(t, "transfer", "https://drive.google.com/drive/folders/1AbC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestTransferCmd_ModeFlag(t *testing.T) {
	mock, cleanup := setupCLITest()
	defer cleanup()

	_, err := execute(t, "transfer", "--detach", "--mode", "direct", "https://drive.google.com/drive/folders/1AbC")

	require.NoError(t, err)
	require.Contains(t, mock.transfers, "t1")
	assert.Equal(t, domain.ModeDirect, mock.transfers["t1"].Mode)
}
