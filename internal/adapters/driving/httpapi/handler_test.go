package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driving"
)

// fakeService is a scriptable driving.TransferService.
type fakeService struct {
	transfers map[string]*domain.Transfer
	files     map[string][]domain.FileUnit
	snapshots map[string]domain.ProgressSnapshot
	events    chan domain.ProgressSnapshot

	started   []string
	cancelled []string
	createErr error
	startErr  error
}

var _ driving.TransferService = (*fakeService)(nil)

func newFakeService() *fakeService {
	return &fakeService{
		transfers: make(map[string]*domain.Transfer),
		files:     make(map[string][]domain.FileUnit),
		snapshots: make(map[string]domain.ProgressSnapshot),
	}
}

func (f *fakeService) ValidateURL(_ context.Context, sourceURL string) (domain.DriveType, error) {
	if strings.Contains(sourceURL, "drive.google.com") {
		return domain.DriveGoogle, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedDrive, sourceURL)
}

func (f *fakeService) Create(_ context.Context, sourceURL string, mode domain.DestinationMode) (*domain.Transfer, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	t := &domain.Transfer{
		ID:        "t1",
		SourceURL: sourceURL,
		DriveType: domain.DriveGoogle,
		Mode:      mode,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	f.transfers[t.ID] = t
	return t, nil
}

func (f *fakeService) Start(_ context.Context, id string) error {
	if f.startErr != nil {
		return f.startErr
	}
	t, ok := f.transfers[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = domain.StatusScanning
	f.started = append(f.started, id)
	return nil
}

func (f *fakeService) Wait(ctx context.Context, _ string) error { return ctx.Err() }

func (f *fakeService) Cancel(_ context.Context, id string) error {
	if _, ok := f.transfers[id]; !ok {
		return domain.ErrNotFound
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeService) Status(_ context.Context, id string) (domain.ProgressSnapshot, error) {
	snap, ok := f.snapshots[id]
	if !ok {
		return domain.ProgressSnapshot{}, domain.ErrNotFound
	}
	return snap, nil
}

func (f *fakeService) Subscribe(_ context.Context, id string) (<-chan domain.ProgressSnapshot, func(), error) {
	if f.events == nil {
		return nil, nil, domain.ErrNotFound
	}
	return f.events, func() {}, nil
}

func (f *fakeService) Get(_ context.Context, id string) (*domain.Transfer, error) {
	t, ok := f.transfers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (f *fakeService) List(_ context.Context) ([]domain.Transfer, error) {
	var out []domain.Transfer
	for _, t := range f.transfers {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeService) Files(_ context.Context, id string) ([]domain.FileUnit, error) {
	return f.files[id], nil
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp APIResponse[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func TestHealth(t *testing.T) {
	h := NewHandler(newFakeService(), domain.ModeStaged)
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateURL(t *testing.T) {
	h := NewHandler(newFakeService(), domain.ModeStaged)

	rec := doJSON(t, h, http.MethodPost, "/api/transfers/validate-url",
		validateURLRequest{SourceURL: "https://drive.google.com/drive/folders/1AbC"})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData[validateURLResponse](t, rec)
	assert.Equal(t, domain.DriveGoogle, data.DriveType)

	rec = doJSON(t, h, http.MethodPost, "/api/transfers/validate-url",
		validateURLRequest{SourceURL: "https://example.com/stuff"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTransfer(t *testing.T) {
	svc := newFakeService()
	h := NewHandler(svc, domain.ModeStaged)

	rec := doJSON(t, h, http.MethodPost, "/api/transfers",
		createTransferRequest{SourceURL: "https://drive.google.com/drive/folders/1AbC"})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeData[domain.Transfer](t, rec)
	assert.Equal(t, "t1", data.ID)
	assert.Equal(t, domain.ModeStaged, data.Mode)
	assert.Equal(t, domain.StatusPending, data.Status)
	assert.Empty(t, svc.started)
}

func TestCreateTransferStartsWhenRequested(t *testing.T) {
	svc := newFakeService()
	h := NewHandler(svc, domain.ModeStaged)

	rec := doJSON(t, h, http.MethodPost, "/api/transfers", createTransferRequest{
		SourceURL: "https://drive.google.com/drive/folders/1AbC",
		Mode:      "direct",
		Start:     true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeData[domain.Transfer](t, rec)
	assert.Equal(t, domain.ModeDirect, data.Mode)
	assert.Equal(t, domain.StatusScanning, data.Status)
	assert.Equal(t, []string{"t1"}, svc.started)
}

func TestCreateTransferRejectsBadMode(t *testing.T) {
	h := NewHandler(newFakeService(), domain.ModeStaged)
	rec := doJSON(t, h, http.MethodPost, "/api/transfers", createTransferRequest{
		SourceURL: "https://drive.google.com/drive/folders/1AbC",
		Mode:      "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTransferRejectsUnsupportedURL(t *testing.T) {
	svc := newFakeService()
	svc.createErr = fmt.Errorf("%w: example.com", domain.ErrUnsupportedDrive)
	h := NewHandler(svc, domain.ModeStaged)

	rec := doJSON(t, h, http.MethodPost, "/api/transfers",
		createTransferRequest{SourceURL: "https://example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartConflictWhenNotPending(t *testing.T) {
	svc := newFakeService()
	svc.transfers["t1"] = &domain.Transfer{ID: "t1", Status: domain.StatusTransferring}
	svc.startErr = domain.ErrNotPending
	h := NewHandler(svc, domain.ModeStaged)

	rec := doJSON(t, h, http.MethodPost, "/api/transfers/t1/start", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetTransferNotFound(t *testing.T) {
	h := NewHandler(newFakeService(), domain.ModeStaged)
	rec := doJSON(t, h, http.MethodGet, "/api/transfers/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelTransfer(t *testing.T) {
	svc := newFakeService()
	svc.transfers["t1"] = &domain.Transfer{ID: "t1", Status: domain.StatusTransferring}
	h := NewHandler(svc, domain.ModeStaged)

	rec := doJSON(t, h, http.MethodDelete, "/api/transfers/t1", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"t1"}, svc.cancelled)
}

func TestStatusEndpoint(t *testing.T) {
	svc := newFakeService()
	svc.snapshots["t1"] = domain.ProgressSnapshot{
		Seq:             7,
		TransferID:      "t1",
		Status:          domain.StatusTransferring,
		OverallProgress: 50,
		FilesCompleted:  2,
		TotalFiles:      4,
	}
	h := NewHandler(svc, domain.ModeStaged)

	rec := doJSON(t, h, http.MethodGet, "/api/transfers/t1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeData[domain.ProgressSnapshot](t, rec)
	assert.Equal(t, uint64(7), snap.Seq)
	assert.Equal(t, 50.0, snap.OverallProgress)
}

func TestListEndpointsReturnEmptyArrays(t *testing.T) {
	h := NewHandler(newFakeService(), domain.ModeStaged)

	rec := doJSON(t, h, http.MethodGet, "/api/transfers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)

	rec = doJSON(t, h, http.MethodGet, "/api/transfers/t1/files", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestEventStream(t *testing.T) {
	svc := newFakeService()
	svc.events = make(chan domain.ProgressSnapshot, 4)
	h := NewHandler(svc, domain.ModeStaged)

	srv := httptest.NewServer(h)
	defer srv.Close()

	svc.events <- domain.ProgressSnapshot{Seq: 1, TransferID: "t1", Status: domain.StatusScanning}
	svc.events <- domain.ProgressSnapshot{Seq: 2, TransferID: "t1", Status: domain.StatusCompleted, OverallProgress: 100}
	close(svc.events)

	resp, err := http.Get(srv.URL + "/api/transfers/t1/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var dataLines []string
	sawDone := false
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") && line != "data: {}" {
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		}
		if line == "event: done" {
			sawDone = true
		}
	}

	require.Len(t, dataLines, 2)
	var first, last domain.ProgressSnapshot
	require.NoError(t, json.Unmarshal([]byte(dataLines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(dataLines[1]), &last))
	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, domain.StatusCompleted, last.Status)
	assert.True(t, sawDone)
}

func TestEventStreamUnknownTransfer(t *testing.T) {
	h := NewHandler(newFakeService(), domain.ModeStaged)
	rec := doJSON(t, h, http.MethodGet, "/api/transfers/missing/events", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
