package driven

import "context"

// DestinationSink receives file bytes during the transfer stage. In staged
// mode this is the Drive landing zone; in direct mode it is the knowledge
// destination's byte intake.
type DestinationSink interface {
	// CreateContainer creates the container (folder, page) that will hold
	// this transfer's files and returns its identifier.
	CreateContainer(ctx context.Context, name string) (string, error)

	// WriteChunk appends data for entry at the given offset. Chunks for
	// one entry always arrive in offset order; offsets never repeat after
	// the chunk has been acknowledged.
	WriteChunk(ctx context.Context, containerID string, entry Entry, offset int64, data []byte) error

	// CompleteEntry finishes an entry after its last chunk and returns
	// the entry's identifier in the destination.
	CompleteEntry(ctx context.Context, containerID string, entry Entry) (string, error)

	// Finalize seals the container once all entries are done.
	Finalize(ctx context.Context, containerID string) error
}

// KnowledgeSink registers transferred files with the knowledge destination
// during the upload stage.
type KnowledgeSink interface {
	// CreateNotebook creates the destination notebook (or equivalent
	// collection) and returns its identifier.
	CreateNotebook(ctx context.Context, name string) (string, error)

	// AddSource registers one transferred file, identified by the id the
	// DestinationSink assigned it, and returns the source's id in the
	// notebook.
	AddSource(ctx context.Context, notebookID, name, entryID string) (string, error)
}
