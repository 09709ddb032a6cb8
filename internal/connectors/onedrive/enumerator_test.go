package onedrive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driven"
)

const shareURL = "https://contoso-my.sharepoint.com/personal/docs/shared"

func testEntry(id string, size int64) driven.Entry {
	return driven.Entry{ID: id, Name: id, Path: "/" + id, Size: size}
}

func item(id, name string, size int64, folder bool) map[string]any {
	m := map[string]any{
		"id":              id,
		"name":            name,
		"size":            size,
		"parentReference": map[string]any{"driveId": "drv1"},
	}
	if folder {
		m["folder"] = map[string]any{"childCount": 1}
	} else {
		m["file"] = map[string]any{"mimeType": "application/pdf"}
	}
	return m
}

// newGraphStub serves a two-level folder tree with paginated children
// and ranged content downloads.
func newGraphStub(t *testing.T, content map[string][]byte) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/shares/") && strings.HasSuffix(r.URL.Path, "/driveItem"):
			json.NewEncoder(w).Encode(item("root", "Shared", 0, true))

		case r.URL.Path == "/drives/drv1/items/root/children":
			page := map[string]any{
				"value": []any{item("f1", "a.pdf", int64(len(content["f1"])), false)},
			}
			if r.URL.Query().Get("page") == "" {
				page["@odata.nextLink"] = srv.URL + r.URL.Path + "?page=2"
				page["value"] = []any{item("sub", "Reports", 0, true)}
			}
			json.NewEncoder(w).Encode(page)

		case r.URL.Path == "/drives/drv1/items/sub/children":
			json.NewEncoder(w).Encode(map[string]any{
				"value": []any{item("f2", "b.txt", int64(len(content["f2"])), false)},
			})

		case strings.HasSuffix(r.URL.Path, "/content"):
			parts := strings.Split(r.URL.Path, "/")
			id := parts[len(parts)-2]
			data, ok := content[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			var start, end int64
			_, err := fmt.Sscanf(r.Header.Get("Range"), "bytes=%d-%d", &start, &end)
			require.NoError(t, err)
			if start >= int64(len(data)) {
				w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
				return
			}
			if end >= int64(len(data)) {
				end = int64(len(data)) - 1
			}
			w.Header().Set("Content-Length", strconv.Itoa(int(end-start+1)))
			w.WriteHeader(http.StatusPartialContent)
			w.Write(data[start : end+1])

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return srv
}

func TestEnumeratorListsRecursivelyAcrossPages(t *testing.T) {
	content := map[string][]byte{
		"f1": []byte("alpha-pdf-bytes"),
		"f2": []byte("bravo"),
	}
	srv := newGraphStub(t, content)
	defer srv.Close()

	client := NewClientWithBase(srv.Client(), srv.URL)
	enum, err := NewEnumerator(client, shareURL)
	require.NoError(t, err)

	require.NoError(t, enum.Validate(context.Background()))

	entries, err := enum.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "a.pdf", entries[0].Name)
	assert.Equal(t, "/a.pdf", entries[0].Path)
	assert.Equal(t, "application/pdf", entries[0].MIMEType)
	assert.Equal(t, "b.txt", entries[1].Name)
	assert.Equal(t, "/Reports/b.txt", entries[1].Path)
}

func TestEnumeratorRangedRead(t *testing.T) {
	content := map[string][]byte{"f1": []byte("abcdefghij")}
	srv := newGraphStub(t, content)
	defer srv.Close()

	client := NewClientWithBase(srv.Client(), srv.URL)
	enum, err := NewEnumerator(client, shareURL)
	require.NoError(t, err)
	require.NoError(t, enum.Validate(context.Background()))

	ctx := context.Background()
	entry := testEntry("f1", 10)

	got, err := enum.Read(ctx, entry, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), got)

	got, err = enum.Read(ctx, entry, 8, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("ij"), got, "short read at end of file")

	got, err = enum.Read(ctx, entry, 20, 4)
	require.NoError(t, err)
	assert.Nil(t, got, "reading past EOF yields no data and no error")
}

func TestWrapStatus(t *testing.T) {
	assert.ErrorIs(t, wrapStatus(http.StatusForbidden), domain.ErrPermissionDenied)
	assert.ErrorIs(t, wrapStatus(http.StatusNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, wrapStatus(http.StatusTooManyRequests), domain.ErrRateLimited)
	assert.ErrorIs(t, wrapStatus(http.StatusBadGateway), domain.ErrUnavailable)
}

func TestEncodeShareURL(t *testing.T) {
	id, err := EncodeShareURL("https://1drv.ms/f/s!AbC")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "u!"))
	assert.NotContains(t, id, "=", "share ids use unpadded base64url")

	_, err = EncodeShareURL("not-a-url")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
