package notebooklm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftransport/ftransport/internal/core/domain"
)

func TestCreateNotebookAndAddSource(t *testing.T) {
	var gotTitle, gotSourceBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/notebooks":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gotTitle = body["title"]
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "nb-1", "title": body["title"]})
		case "/notebooks/nb-1/sources":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gotSourceBody = body["drive_file_id"]
			json.NewEncoder(w).Encode(map[string]string{"id": "src-1", "name": body["name"]})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "")
	ctx := context.Background()

	nbID, err := c.CreateNotebook(ctx, "FTransport_abc")
	require.NoError(t, err)
	assert.Equal(t, "nb-1", nbID)
	assert.Equal(t, "FTransport_abc", gotTitle)

	srcID, err := c.AddSource(ctx, nbID, "a.pdf", "drive-file-9")
	require.NoError(t, err)
	assert.Equal(t, "src-1", srcID)
	assert.Equal(t, "drive-file-9", gotSourceBody)
}

func TestStatusMapping(t *testing.T) {
	statuses := map[int]error{
		http.StatusForbidden:          domain.ErrPermissionDenied,
		http.StatusNotFound:           domain.ErrNotFound,
		http.StatusTooManyRequests:    domain.ErrRateLimited,
		http.StatusServiceUnavailable: domain.ErrUnavailable,
	}

	for status, want := range statuses {
		status, want := status, want
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		c := New(srv.Client(), srv.URL, "")
		_, err := c.CreateNotebook(context.Background(), "x")
		assert.ErrorIs(t, err, want, "status %d", status)
		srv.Close()
	}
}

func TestRejectedSourceIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "")
	_, err := c.AddSource(context.Background(), "nb-1", "weird.bin", "f1")
	require.Error(t, err)
	assert.Equal(t, domain.FailurePermanent, domain.Classify(err),
		"an unsupported source type never succeeds on retry")
}
