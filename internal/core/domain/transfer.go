package domain

import "time"

// DriveType identifies the source shared-drive provider.
type DriveType string

const (
	// DriveGoogle is a Google Drive source.
	DriveGoogle DriveType = "google_drive"
	// DriveOneDrive is a Microsoft OneDrive / SharePoint source.
	DriveOneDrive DriveType = "onedrive"
	// DriveDropbox is a Dropbox source.
	DriveDropbox DriveType = "dropbox"
)

// DestinationMode selects how files reach the knowledge destination.
type DestinationMode string

const (
	// ModeDirect writes files straight to the knowledge destination.
	ModeDirect DestinationMode = "direct"

	// ModeStaged copies files into a Drive landing-zone folder first and
	// registers the staged copies with the destination afterwards.
	ModeStaged DestinationMode = "staged"
)

// TransferStatus is the lifecycle state of a transfer.
type TransferStatus string

const (
	StatusPending      TransferStatus = "pending"
	StatusScanning     TransferStatus = "scanning"
	StatusTransferring TransferStatus = "transferring"
	StatusUploading    TransferStatus = "uploading"
	StatusCompleted    TransferStatus = "completed"
	StatusFailed       TransferStatus = "failed"
	StatusCancelled    TransferStatus = "cancelled"
)

// Terminal reports whether the status is an end state.
func (s TransferStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// rank orders the forward lifecycle stages. Terminal failure states are
// reachable from anywhere so they are not ranked.
var statusRank = map[TransferStatus]int{
	StatusPending:      0,
	StatusScanning:     1,
	StatusTransferring: 2,
	StatusUploading:    3,
	StatusCompleted:    4,
}

// CanTransition reports whether a transfer may move from s to next.
// Forward stage progression is strictly ordered; failed and cancelled are
// reachable from any non-terminal state; terminal states never change.
func (s TransferStatus) CanTransition(next TransferStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusFailed || next == StatusCancelled {
		return true
	}
	from, okFrom := statusRank[s]
	to, okTo := statusRank[next]
	return okFrom && okTo && to > from
}

// Transfer represents one migration run from a shared drive into the
// knowledge destination. It is owned exclusively by the orchestrator for
// its lifetime and persisted best-effort on every mutation.
type Transfer struct {
	// ID is the unique identifier assigned at creation.
	ID string `json:"id"`

	// SourceURL is the shared-drive URL the transfer reads from.
	SourceURL string `json:"source_url"`

	// DriveType is the provider detected from SourceURL at creation.
	DriveType DriveType `json:"drive_type"`

	// Mode selects direct or staged delivery.
	Mode DestinationMode `json:"mode"`

	// Status is the current lifecycle state.
	Status TransferStatus `json:"status"`

	// Progress counters mirrored into every snapshot.
	TotalFiles     int `json:"total_files"`
	FilesCompleted int `json:"files_completed"`
	FilesFailed    int `json:"files_failed"`

	// CurrentFileName and CurrentFileProgress describe the most recently
	// active file, for display only.
	CurrentFileName     string  `json:"current_file_name,omitempty"`
	CurrentFileProgress float64 `json:"current_file_progress,omitempty"`
	OverallProgress     float64 `json:"overall_progress"`

	// LandingZoneID is the staging folder created for staged transfers.
	LandingZoneID string `json:"landing_zone_id,omitempty"`

	// NotebookID is the destination container once created.
	NotebookID string `json:"notebook_id,omitempty"`

	// ErrorMessage is set only when Status is failed.
	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
