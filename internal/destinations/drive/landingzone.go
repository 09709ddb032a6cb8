// Package drive implements the staged-mode destination sink: a Google
// Drive landing-zone folder that receives file bytes through the Drive
// resumable upload protocol. Each entry gets one upload session; chunks
// arrive in offset order and a failed chunk can be retried at the same
// offset, which is exactly the semantics the resumable protocol
// guarantees.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	drivev3 "google.golang.org/api/drive/v3"

	"github.com/ftransport/ftransport/internal/connectors/google"
	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driven"
)

const folderMimeType = "application/vnd.google-apps.folder"

const resumableUploadURL = "https://www.googleapis.com/upload/drive/v3/files?uploadType=resumable&supportsAllDrives=true"

// Ensure LandingZone implements the port.
var _ driven.DestinationSink = (*LandingZone)(nil)

// LandingZone stages transferred files in a dedicated Drive folder.
type LandingZone struct {
	svc      *drivev3.Service
	http     *http.Client
	limiter  *google.RateLimiter
	parentID string
	upload   string

	mu       sync.Mutex
	sessions map[string]*session
}

// session tracks one entry's resumable upload.
type session struct {
	uri     string
	fileID  string
	written int64
}

// NewLandingZone creates the sink. parentID optionally roots landing
// zones under an existing folder; empty means My Drive root.
func NewLandingZone(ctx context.Context, ts oauth2.TokenSource, parentID string) (*LandingZone, error) {
	svc, err := google.NewDriveService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &LandingZone{
		svc:      svc,
		http:     oauth2.NewClient(ctx, ts),
		limiter:  google.NewRateLimiter(),
		parentID: parentID,
		upload:   resumableUploadURL,
		sessions: make(map[string]*session),
	}, nil
}

// CreateContainer creates the landing-zone folder and returns its id.
func (l *LandingZone) CreateContainer(ctx context.Context, name string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}

	meta := &drivev3.File{Name: name, MimeType: folderMimeType}
	if l.parentID != "" {
		meta.Parents = []string{l.parentID}
	}

	folder, err := l.svc.Files.Create(meta).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create landing zone %q: %w", name, google.WrapError(err))
	}
	return folder.Id, nil
}

// WriteChunk appends data for the entry at the given offset. The first
// chunk opens a resumable upload session scoped to the container.
func (l *LandingZone) WriteChunk(ctx context.Context, containerID string, entry driven.Entry, offset int64, data []byte) error {
	sess, err := l.session(ctx, containerID, entry)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, sess.uri, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create chunk request: %w", err)
	}
	req.Header.Set("Content-Range",
		fmt.Sprintf("bytes %d-%d/*", offset, offset+int64(len(data))-1))
	req.ContentLength = int64(len(data))

	resp, err := l.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: upload chunk: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case 308: // Resume Incomplete: more chunks expected.
		l.commit(sess, offset+int64(len(data)))
		return nil
	case http.StatusOK, http.StatusCreated:
		// Server treated this chunk as the last one.
		id, err := decodeFileID(resp.Body)
		if err != nil {
			return err
		}
		l.mu.Lock()
		sess.fileID = id
		l.mu.Unlock()
		l.commit(sess, offset+int64(len(data)))
		return nil
	default:
		return wrapUploadStatus(resp.StatusCode)
	}
}

// CompleteEntry finalises the entry's upload session and returns the
// staged file's Drive id.
func (l *LandingZone) CompleteEntry(ctx context.Context, containerID string, entry driven.Entry) (string, error) {
	key := containerID + "/" + entry.ID

	l.mu.Lock()
	sess := l.sessions[key]
	l.mu.Unlock()

	if sess == nil {
		// Zero-byte file: no chunk ever arrived, upload it in one call.
		return l.createEmpty(ctx, containerID, entry)
	}
	defer l.drop(key)

	if sess.fileID != "" {
		return sess.fileID, nil
	}

	// Tell the session its total size; the server responds with the file.
	l.mu.Lock()
	total := sess.written
	l.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, sess.uri, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create finalise request: %w", err)
	}
	req.Header.Set("Content-Range", fmt.Sprintf("bytes */%d", total))

	resp, err := l.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: finalise upload: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", wrapUploadStatus(resp.StatusCode)
	}
	return decodeFileID(resp.Body)
}

// Finalize drops any dangling upload sessions. The folder itself needs
// no sealing.
func (l *LandingZone) Finalize(context.Context, string) error {
	l.mu.Lock()
	l.sessions = make(map[string]*session)
	l.mu.Unlock()
	return nil
}

// session returns the entry's upload session, opening one on first use.
func (l *LandingZone) session(ctx context.Context, containerID string, entry driven.Entry) (*session, error) {
	key := containerID + "/" + entry.ID

	l.mu.Lock()
	if sess, ok := l.sessions[key]; ok {
		l.mu.Unlock()
		return sess, nil
	}
	l.mu.Unlock()

	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	meta, err := json.Marshal(map[string]any{
		"name":    entry.Name,
		"parents": []string{containerID},
	})
	if err != nil {
		return nil, fmt.Errorf("encode file metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.upload, bytes.NewReader(meta))
	if err != nil {
		return nil, fmt.Errorf("create session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: open upload session: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, wrapUploadStatus(resp.StatusCode)
	}
	uri := resp.Header.Get("Location")
	if uri == "" {
		return nil, fmt.Errorf("upload session response missing Location header")
	}

	sess := &session{uri: uri}
	l.mu.Lock()
	l.sessions[key] = sess
	l.mu.Unlock()
	return sess, nil
}

func (l *LandingZone) createEmpty(ctx context.Context, containerID string, entry driven.Entry) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	f, err := l.svc.Files.Create(&drivev3.File{
		Name:    entry.Name,
		Parents: []string{containerID},
	}).Fields("id").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create empty file %q: %w", entry.Name, google.WrapError(err))
	}
	return f.Id, nil
}

func (l *LandingZone) drop(key string) {
	l.mu.Lock()
	delete(l.sessions, key)
	l.mu.Unlock()
}

// commit records the high-water mark of acknowledged bytes; the
// finalise request reports it as the session total.
func (l *LandingZone) commit(sess *session, end int64) {
	l.mu.Lock()
	if end > sess.written {
		sess.written = end
	}
	l.mu.Unlock()
}

func decodeFileID(body io.Reader) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return out.ID, nil
}

func wrapUploadStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: upload returned %d", domain.ErrPermissionDenied, status)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: upload returned %d", domain.ErrNotFound, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: upload returned %d", domain.ErrRateLimited, status)
	case status >= 500:
		return fmt.Errorf("%w: upload returned %d", domain.ErrUnavailable, status)
	default:
		return fmt.Errorf("upload returned unexpected status %d", status)
	}
}
