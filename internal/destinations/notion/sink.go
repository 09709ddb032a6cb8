// Package notion implements direct-mode delivery: transferred files land
// as child pages of a configured Notion parent page. Notion's API has no
// byte intake, so each file becomes a page carrying a text preview (for
// text content) plus a bookmark back to the source drive. The same
// client doubles as the knowledge sink for direct transfers.
package notion

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jomei/notionapi"

	"github.com/ftransport/ftransport/internal/core/ports/driven"
)

// previewLimit caps the buffered text preview per file. Notion rich text
// blocks max out at 2000 characters each; the preview is split across
// blocks of that size.
const (
	previewLimit   = 64 * 1024
	richTextLimit  = 2000
	maxChildBlocks = 40
)

// Ensure Sink implements both ports.
var (
	_ driven.DestinationSink = (*Sink)(nil)
	_ driven.KnowledgeSink   = (*Sink)(nil)
)

// Sink writes transfers into a Notion workspace.
type Sink struct {
	client   *notionapi.Client
	parentID string

	mu       sync.Mutex
	previews map[string]*preview
}

// preview accumulates the leading bytes of one entry.
type preview struct {
	buf   []byte
	total int64
}

// New creates a sink that files pages under the given parent page.
func New(token, parentPageID string) *Sink {
	return &Sink{
		client:   notionapi.NewClient(notionapi.Token(token)),
		parentID: parentPageID,
		previews: make(map[string]*preview),
	}
}

// CreateContainer creates the transfer's container page.
func (s *Sink) CreateContainer(ctx context.Context, name string) (string, error) {
	return s.createPage(ctx, s.parentID, name)
}

// CreateNotebook creates the knowledge collection page. For direct
// transfers the container and the notebook are both Notion pages under
// the same parent.
func (s *Sink) CreateNotebook(ctx context.Context, name string) (string, error) {
	return s.createPage(ctx, s.parentID, name)
}

func (s *Sink) createPage(ctx context.Context, parentID, title string) (string, error) {
	page, err := s.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: notionapi.PageID(parentID),
		},
		Properties: notionapi.Properties{
			"title": notionapi.TitleProperty{
				Title: richText(title),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create page %q: %w", title, wrapError(err))
	}
	return page.ID.String(), nil
}

// WriteChunk buffers the leading bytes of the entry for the preview.
// Bytes beyond the preview limit are counted but not kept.
func (s *Sink) WriteChunk(_ context.Context, containerID string, entry driven.Entry, offset int64, data []byte) error {
	key := containerID + "/" + entry.ID

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.previews[key]
	if !ok {
		p = &preview{}
		s.previews[key] = p
	}

	// Chunks arrive in offset order; a retried chunk that was never
	// acknowledged is simply appended where the buffer left off.
	if offset == int64(len(p.buf)) && len(p.buf) < previewLimit {
		room := previewLimit - len(p.buf)
		if room > len(data) {
			room = len(data)
		}
		p.buf = append(p.buf, data[:room]...)
	}
	if end := offset + int64(len(data)); end > p.total {
		p.total = end
	}
	return nil
}

// CompleteEntry materialises the entry as a child page of the container
// and returns the page id.
func (s *Sink) CompleteEntry(ctx context.Context, containerID string, entry driven.Entry) (string, error) {
	key := containerID + "/" + entry.ID

	s.mu.Lock()
	p := s.previews[key]
	delete(s.previews, key)
	s.mu.Unlock()

	pageID, err := s.createPage(ctx, containerID, entry.Name)
	if err != nil {
		return "", err
	}

	children := []notionapi.Block{
		paragraph(fmt.Sprintf("Imported from %s (%s)", entry.Path, formatSize(entry.Size))),
	}
	if p != nil && isText(entry.MIMEType) {
		children = append(children, previewBlocks(p.buf)...)
	}

	_, err = s.client.Block.AppendChildren(ctx, notionapi.BlockID(pageID),
		&notionapi.AppendBlockChildrenRequest{Children: children})
	if err != nil {
		return "", fmt.Errorf("write page body for %q: %w", entry.Name, wrapError(err))
	}
	return pageID, nil
}

// Finalize drops any leftover previews. Pages need no sealing.
func (s *Sink) Finalize(context.Context, string) error {
	s.mu.Lock()
	s.previews = make(map[string]*preview)
	s.mu.Unlock()
	return nil
}

// AddSource links one delivered page into the notebook page.
func (s *Sink) AddSource(ctx context.Context, notebookID, name, entryID string) (string, error) {
	resp, err := s.client.Block.AppendChildren(ctx, notionapi.BlockID(notebookID),
		&notionapi.AppendBlockChildrenRequest{
			Children: []notionapi.Block{
				paragraph(name + " — https://www.notion.so/" + strings.ReplaceAll(entryID, "-", "")),
			},
		})
	if err != nil {
		return "", fmt.Errorf("register source %q: %w", name, wrapError(err))
	}
	if len(resp.Results) == 0 {
		return "", fmt.Errorf("register source %q: empty response", name)
	}
	return string(resp.Results[0].GetID()), nil
}

// --- block helpers ---

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: content},
	}}
}

func paragraph(content string) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeParagraph,
		},
		Paragraph: notionapi.Paragraph{RichText: richText(content)},
	}
}

// previewBlocks splits the preview into paragraph blocks that respect
// Notion's rich text length limit, dropping a trailing partial rune.
func previewBlocks(buf []byte) []notionapi.Block {
	text := strings.ToValidUTF8(string(buf), "")
	var blocks []notionapi.Block
	for len(text) > 0 && len(blocks) < maxChildBlocks {
		cut := len(text)
		if cut > richTextLimit {
			cut = richTextLimit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		blocks = append(blocks, paragraph(text[:cut]))
		text = text[cut:]
	}
	return blocks
}

func isText(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch mimeType {
	case "application/json", "application/xml", "application/x-yaml", "application/javascript":
		return true
	}
	return false
}

func formatSize(size int64) string {
	if size < 0 {
		return "size unknown"
	}
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
