package domain

import "time"

// FileStatus is the migration state of a single file.
type FileStatus string

const (
	FilePending    FileStatus = "pending"
	FileInProgress FileStatus = "in_progress"
	FileCompleted  FileStatus = "completed"
	FileFailed     FileStatus = "failed"
)

// Terminal reports whether the file status is an end state.
func (s FileStatus) Terminal() bool {
	return s == FileCompleted || s == FileFailed
}

// SizeUnknown marks a file whose size was not reported during discovery.
const SizeUnknown int64 = -1

// FileUnit is the per-file migration record within a transfer. Units are
// created in bulk when discovery completes and are never removed for the
// life of the transfer. Only the stage executor running the current stage
// mutates a unit; readers take a snapshot under the transfer's lock.
type FileUnit struct {
	// Index is the discovery order, used as the tie-break when choosing
	// the "current file" for display.
	Index int `json:"index"`

	// Name is the display name of the file.
	Name string `json:"name"`

	// Size in bytes, or SizeUnknown when the provider did not report it.
	Size int64 `json:"size"`

	// SourceID is the provider-specific identifier (file id or path).
	SourceID string `json:"source_id"`

	// SourcePath is the human-readable path within the source drive.
	SourcePath string `json:"source_path,omitempty"`

	// MIMEType as reported by the provider, if any.
	MIMEType string `json:"mime_type,omitempty"`

	// DestinationID is set once the file has been written to the
	// destination (or landing zone).
	DestinationID string `json:"destination_id,omitempty"`

	// Status transitions monotonically: pending -> in_progress ->
	// completed|failed. Terminal statuses never regress.
	Status FileStatus `json:"status"`

	// BytesTransferred is the last committed chunk offset. It never
	// exceeds Size when Size is known, and survives retries within the
	// same stage execution so transfers resume rather than restart.
	BytesTransferred int64 `json:"bytes_transferred"`

	// ErrorMessage is set only when Status is failed.
	ErrorMessage string `json:"error_message,omitempty"`

	// UpdatedAt is bumped on every mutation; the aggregator uses it to
	// pick the most recently active file.
	UpdatedAt time.Time `json:"updated_at"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Progress returns the file's completion fraction in percent. Files of
// unknown size report 0 until completed.
func (f *FileUnit) Progress() float64 {
	if f.Status == FileCompleted {
		return 100
	}
	if f.Size <= 0 {
		return 0
	}
	return float64(f.BytesTransferred) / float64(f.Size) * 100
}
