package domain

// CurrentFile describes the most recently active file in a snapshot.
type CurrentFile struct {
	Name     string  `json:"name"`
	Progress float64 `json:"progress"`
}

// ProgressSnapshot is an immutable point-in-time view of a transfer's
// progress. Snapshots are produced under the transfer's lock, handed to the
// broadcaster, and never mutated afterwards.
type ProgressSnapshot struct {
	// Seq increases with every snapshot produced for a transfer. It lets
	// consumers discard stale snapshots after coalescing.
	Seq uint64 `json:"seq"`

	TransferID string         `json:"transfer_id"`
	Status     TransferStatus `json:"status"`

	// OverallProgress is 100 * completed / total once discovery has
	// finished, and 0 while scanning.
	OverallProgress float64 `json:"overall_progress"`

	FilesCompleted int `json:"files_completed"`
	FilesFailed    int `json:"files_failed"`
	TotalFiles     int `json:"total_files"`

	CurrentFile *CurrentFile `json:"current_file,omitempty"`

	ErrorMessage string `json:"error_message,omitempty"`
}

// Tally accumulates per-file state changes so a snapshot is computed in
// time proportional to the files touched since the last one, not the whole
// collection. It is not safe for concurrent use; callers hold the
// transfer's lock.
type Tally struct {
	total     int
	completed int
	failed    int

	currentName     string
	currentProgress float64
	currentIndex    int
	hasCurrent      bool

	seq uint64
}

// Reset initialises the tally after discovery with the total file count.
func (t *Tally) Reset(total int) {
	t.total = total
	t.completed = 0
	t.failed = 0
	t.hasCurrent = false
}

// Apply records a file's status transition. prev is the status the file
// held before the mutation.
func (t *Tally) Apply(prev, next FileStatus) {
	if prev == next {
		return
	}
	switch next {
	case FileCompleted:
		t.completed++
	case FileFailed:
		t.failed++
	}
}

// Touch records activity on a file so the snapshot can report the most
// recently active in-progress file. Earlier discovery order wins when the
// same update cycle touches several files.
func (t *Tally) Touch(f *FileUnit) {
	if f.Status != FileInProgress {
		if t.hasCurrent && t.currentName == f.Name {
			t.hasCurrent = false
		}
		return
	}
	t.currentName = f.Name
	t.currentProgress = f.Progress()
	t.currentIndex = f.Index
	t.hasCurrent = true
}

// Completed returns the number of completed files.
func (t *Tally) Completed() int { return t.completed }

// Failed returns the number of permanently failed files.
func (t *Tally) Failed() int { return t.failed }

// Done reports whether every file has reached a terminal status.
func (t *Tally) Done() bool { return t.completed+t.failed >= t.total }

// Snapshot materialises the current progress for the given transfer.
// Each call produces a snapshot with a strictly increasing sequence number.
func (t *Tally) Snapshot(tr *Transfer) ProgressSnapshot {
	t.seq++

	snap := ProgressSnapshot{
		Seq:            t.seq,
		TransferID:     tr.ID,
		Status:         tr.Status,
		FilesCompleted: t.completed,
		FilesFailed:    t.failed,
		TotalFiles:     t.total,
		ErrorMessage:   tr.ErrorMessage,
	}

	switch {
	case tr.Status == StatusCompleted:
		snap.OverallProgress = 100
	case t.total > 0:
		snap.OverallProgress = float64(t.completed) / float64(t.total) * 100
	}

	if t.hasCurrent {
		snap.CurrentFile = &CurrentFile{Name: t.currentName, Progress: t.currentProgress}
	}

	return snap
}
