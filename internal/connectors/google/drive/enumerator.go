// Package drive implements the Google Drive source enumerator. Folder
// trees are walked breadth-first with paginated list calls; file bytes
// are fetched with ranged downloads so transfers resume at chunk
// granularity. Google Workspace files cannot be downloaded raw and are
// exported to a text format instead.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/oauth2"
	drivev3 "google.golang.org/api/drive/v3"

	"github.com/ftransport/ftransport/internal/connectors/google"
	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driven"
)

// Google Workspace MIME types and their export targets.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"

	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// MaxExportSize caps exported Workspace file content (10MB). The Drive
// export endpoint has a similar server-side limit.
const MaxExportSize = 10 * 1024 * 1024

const listPageSize = 100

const listFields = "nextPageToken, files(id, name, mimeType, size, trashed)"

// Ensure Enumerator implements the port.
var _ driven.SourceEnumerator = (*Enumerator)(nil)

// Enumerator walks a shared Drive folder.
type Enumerator struct {
	svc      *drivev3.Service
	folderID string
	limiter  *google.RateLimiter

	// exports caches Workspace file exports so ranged reads of a file
	// that has no raw byte form are served from one export call. Entries
	// are dropped once the final chunk has been read.
	mu      sync.Mutex
	exports map[string][]byte
}

// NewEnumerator creates an enumerator for the folder (or single file)
// referenced by sourceURL.
func NewEnumerator(ctx context.Context, ts oauth2.TokenSource, sourceURL string) (*Enumerator, error) {
	folderID, err := ParseFolderID(sourceURL)
	if err != nil {
		return nil, err
	}

	svc, err := google.NewDriveService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Enumerator{
		svc:      svc,
		folderID: folderID,
		limiter:  google.NewRateLimiter(),
		exports:  make(map[string][]byte),
	}, nil
}

// DriveType identifies this enumerator's provider.
func (e *Enumerator) DriveType() domain.DriveType { return domain.DriveGoogle }

// Validate checks the source folder is reachable with the configured
// credentials.
func (e *Enumerator) Validate(ctx context.Context) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := e.svc.Files.Get(e.folderID).
		Fields("id, name, mimeType").
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("drive folder %s: %w", e.folderID, e.wrap(err))
	}
	return nil
}

// List walks the folder tree breadth-first and returns every non-trashed
// file. When the source reference is a single file rather than a folder,
// that file alone is returned.
func (e *Enumerator) List(ctx context.Context) ([]driven.Entry, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	root, err := e.svc.Files.Get(e.folderID).
		Fields("id, name, mimeType, size").
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("resolve source: %w", e.wrap(err))
	}
	if root.MimeType != MimeTypeFolder {
		return []driven.Entry{e.entry(root, "/"+root.Name)}, nil
	}

	type folder struct {
		id   string
		path string
	}

	var entries []driven.Entry
	queue := []folder{{id: e.folderID, path: ""}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		pageToken := ""
		for {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, err
			}

			call := e.svc.Files.List().
				Q(fmt.Sprintf("'%s' in parents and trashed = false", cur.id)).
				Fields(listFields).
				PageSize(listPageSize).
				SupportsAllDrives(true).
				IncludeItemsFromAllDrives(true).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			res, err := call.Do()
			if err != nil {
				return nil, fmt.Errorf("list folder %s: %w", cur.id, e.wrap(err))
			}

			for _, f := range res.Files {
				path := cur.path + "/" + f.Name
				if f.MimeType == MimeTypeFolder {
					queue = append(queue, folder{id: f.Id, path: path})
					continue
				}
				entries = append(entries, e.entry(f, path))
			}

			pageToken = res.NextPageToken
			if pageToken == "" {
				break
			}
		}
	}

	return entries, nil
}

func (e *Enumerator) entry(f *drivev3.File, path string) driven.Entry {
	size := f.Size
	if exportMimeFor(f.MimeType) != "" {
		// Workspace files report no byte size; it only exists after export.
		size = domain.SizeUnknown
	}
	return driven.Entry{
		ID:       f.Id,
		Name:     f.Name,
		Path:     path,
		Size:     size,
		MIMEType: f.MimeType,
	}
}

// Read returns up to length bytes of the entry starting at offset.
func (e *Enumerator) Read(ctx context.Context, entry driven.Entry, offset, length int64) ([]byte, error) {
	if exportMime := exportMimeFor(entry.MIMEType); exportMime != "" {
		return e.readExport(ctx, entry, offset, length, exportMime)
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	call := e.svc.Files.Get(entry.ID).SupportsAllDrives(true)
	call.Header().Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+length-1))
	resp, err := call.Context(ctx).Download()
	if err != nil {
		if google.IsRangeNotSatisfiable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("download %s: %w", entry.ID, e.wrap(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, length))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", entry.ID, err)
	}
	return data, nil
}

// readExport serves ranged reads of a Workspace file from a cached
// export. The cache entry is dropped once the final chunk is handed out.
func (e *Enumerator) readExport(ctx context.Context, entry driven.Entry, offset, length int64, exportMime string) ([]byte, error) {
	e.mu.Lock()
	data, ok := e.exports[entry.ID]
	e.mu.Unlock()

	if !ok {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := e.svc.Files.Export(entry.ID, exportMime).Context(ctx).Download()
		if err != nil {
			return nil, fmt.Errorf("export %s as %s: %w", entry.ID, exportMime, e.wrap(err))
		}
		defer resp.Body.Close()

		data, err = io.ReadAll(io.LimitReader(resp.Body, MaxExportSize))
		if err != nil {
			return nil, fmt.Errorf("read export of %s: %w", entry.ID, err)
		}

		e.mu.Lock()
		e.exports[entry.ID] = data
		e.mu.Unlock()
	}

	if offset >= int64(len(data)) {
		e.dropExport(entry.ID)
		return nil, nil
	}
	end := offset + length
	if end >= int64(len(data)) {
		end = int64(len(data))
		defer e.dropExport(entry.ID)
	}
	return data[offset:end], nil
}

func (e *Enumerator) dropExport(id string) {
	e.mu.Lock()
	delete(e.exports, id)
	e.mu.Unlock()
}

// Close releases cached export content.
func (e *Enumerator) Close() error {
	e.mu.Lock()
	e.exports = make(map[string][]byte)
	e.mu.Unlock()
	return nil
}

// wrap maps an API error and records server-imposed backoff.
func (e *Enumerator) wrap(err error) error {
	wrapped := google.WrapError(err)
	if errors.Is(wrapped, domain.ErrRateLimited) {
		e.limiter.RecordRateLimitError(google.RetryAfterSeconds(err))
	}
	return wrapped
}

// exportMimeFor returns the export format for a Workspace MIME type, or
// "" for regular files.
func exportMimeFor(mimeType string) string {
	switch mimeType {
	case MimeTypeGoogleDoc, MimeTypeGoogleSlides:
		return ExportMimeText
	case MimeTypeGoogleSheet:
		return ExportMimeCSV
	default:
		return ""
	}
}
