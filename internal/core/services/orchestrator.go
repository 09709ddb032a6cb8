package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driven"
	"github.com/ftransport/ftransport/internal/core/ports/driving"
	"github.com/ftransport/ftransport/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.TransferService = (*Orchestrator)(nil)

// Sinks bundles the destination capabilities the orchestrator can route a
// transfer to. Staged delivers bytes to the landing zone and registers
// the staged copies through StagedKnowledge; Direct writes straight to
// the knowledge destination's byte intake, where the byte sink and
// DirectKnowledge are usually the same client.
type Sinks struct {
	Staged driven.DestinationSink
	Direct driven.DestinationSink

	StagedKnowledge driven.KnowledgeSink
	DirectKnowledge driven.KnowledgeSink
}

// forMode returns the byte sink for a destination mode, or nil when the
// mode is not wired.
func (s Sinks) forMode(mode domain.DestinationMode) driven.DestinationSink {
	switch mode {
	case domain.ModeStaged:
		return s.Staged
	case domain.ModeDirect:
		return s.Direct
	default:
		return nil
	}
}

// knowledgeFor returns the knowledge sink for a destination mode.
func (s Sinks) knowledgeFor(mode domain.DestinationMode) driven.KnowledgeSink {
	if mode == domain.ModeDirect {
		return s.DirectKnowledge
	}
	return s.StagedKnowledge
}

// Orchestrator drives transfers through their lifecycle stages. It owns
// the registry of in-process runs; all access to a run's transfer and
// file units goes through its methods.
type Orchestrator struct {
	factory driven.EnumeratorFactory
	sinks   Sinks
	store   driven.TransferStore
	policy  domain.TransferPolicy
	buffer  int

	mu   sync.RWMutex
	runs map[string]*run
}

// NewOrchestrator creates the orchestrator. subscriberBuffer bounds each
// subscription's delivery channel; the policy is normalised so zero
// values fall back to defaults.
func NewOrchestrator(
	factory driven.EnumeratorFactory,
	sinks Sinks,
	store driven.TransferStore,
	policy domain.TransferPolicy,
	subscriberBuffer int,
) *Orchestrator {
	return &Orchestrator{
		factory: factory,
		sinks:   sinks,
		store:   store,
		policy:  policy.Normalise(),
		buffer:  subscriberBuffer,
		runs:    make(map[string]*run),
	}
}

// run holds the in-process state of one transfer. The mutex guards the
// transfer record, the file units and the tally; it is held only for
// short in-memory sections, never across I/O.
type run struct {
	mu       sync.Mutex
	transfer *domain.Transfer
	files    []*domain.FileUnit
	tally    domain.Tally
	finished bool

	bcast   *Broadcaster
	cancel  context.CancelFunc
	started bool
	done    chan struct{}
}

// ValidateURL checks a source URL and returns the detected provider.
func (o *Orchestrator) ValidateURL(_ context.Context, sourceURL string) (domain.DriveType, error) {
	return DetectDriveType(sourceURL)
}

// Create validates the source URL and registers a pending transfer.
func (o *Orchestrator) Create(ctx context.Context, sourceURL string, mode domain.DestinationMode) (*domain.Transfer, error) {
	drive, err := DetectDriveType(sourceURL)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = domain.ModeStaged
	}
	if o.sinks.forMode(mode) == nil {
		return nil, fmt.Errorf("%w: destination mode %q not configured", domain.ErrInvalidInput, mode)
	}

	t := &domain.Transfer{
		ID:        uuid.NewString(),
		SourceURL: sourceURL,
		DriveType: drive,
		Mode:      mode,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	r := &run{
		transfer: t,
		bcast:    NewBroadcaster(o.buffer),
		done:     make(chan struct{}),
	}
	r.mu.Lock()
	r.publishLocked()
	r.mu.Unlock()

	o.mu.Lock()
	o.runs[t.ID] = r
	o.mu.Unlock()

	o.persistTransfer(ctx, r)

	logger.Info("created transfer %s (%s, %s)", t.ID, drive, mode)
	out := *t
	return &out, nil
}

// Start launches the transfer's lifecycle in the background.
func (o *Orchestrator) Start(_ context.Context, id string) error {
	r := o.lookup(id)
	if r == nil {
		return domain.ErrNotFound
	}

	r.mu.Lock()
	if r.started || r.transfer.Status != domain.StatusPending {
		r.mu.Unlock()
		return domain.ErrNotPending
	}
	r.started = true
	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.mu.Unlock()

	go o.execute(runCtx, r)
	return nil
}

// Wait blocks until the transfer reaches a terminal status.
func (o *Orchestrator) Wait(ctx context.Context, id string) error {
	r := o.lookup(id)
	if r == nil {
		t, err := o.store.GetTransfer(ctx, id)
		if err != nil {
			return err
		}
		if t.Status.Terminal() {
			return nil
		}
		return fmt.Errorf("%w: transfer %s has no active run", domain.ErrNotFound, id)
	}
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel requests cancellation. Terminal transfers are a no-op.
func (o *Orchestrator) Cancel(ctx context.Context, id string) error {
	r := o.lookup(id)
	if r == nil {
		t, err := o.store.GetTransfer(ctx, id)
		if err != nil {
			return err
		}
		if t.Status.Terminal() {
			return nil
		}
		return fmt.Errorf("%w: transfer %s has no active run", domain.ErrNotFound, id)
	}

	r.mu.Lock()
	if r.finished || r.transfer.Status.Terminal() {
		r.mu.Unlock()
		return nil
	}
	if !r.started {
		// Never started: cancel immediately, there is nothing to drain.
		r.mu.Unlock()
		o.finishCancelled(ctx, r)
		return nil
	}
	cancel := r.cancel
	r.mu.Unlock()

	logger.Info("cancelling transfer %s", id)
	cancel()
	return nil
}

// Status returns the current progress snapshot without blocking on
// in-flight work.
func (o *Orchestrator) Status(ctx context.Context, id string) (domain.ProgressSnapshot, error) {
	if r := o.lookup(id); r != nil {
		if snap, ok := r.bcast.Last(); ok {
			return snap, nil
		}
	}
	t, err := o.store.GetTransfer(ctx, id)
	if err != nil {
		return domain.ProgressSnapshot{}, err
	}
	return snapshotFromTransfer(t), nil
}

// Subscribe attaches a live observer to the transfer's progress stream.
func (o *Orchestrator) Subscribe(ctx context.Context, id string) (<-chan domain.ProgressSnapshot, func(), error) {
	if r := o.lookup(id); r != nil {
		ch, stop := r.bcast.Subscribe()
		return ch, stop, nil
	}

	// No in-process run: deliver the persisted state once and close.
	t, err := o.store.GetTransfer(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ch := make(chan domain.ProgressSnapshot, 1)
	ch <- snapshotFromTransfer(t)
	close(ch)
	return ch, func() {}, nil
}

// Get returns the transfer record.
func (o *Orchestrator) Get(ctx context.Context, id string) (*domain.Transfer, error) {
	if r := o.lookup(id); r != nil {
		r.mu.Lock()
		out := *r.transfer
		r.mu.Unlock()
		return &out, nil
	}
	return o.store.GetTransfer(ctx, id)
}

// List returns all known transfers, newest first.
func (o *Orchestrator) List(ctx context.Context) ([]domain.Transfer, error) {
	return o.store.ListTransfers(ctx)
}

// Files returns the transfer's per-file records in discovery order.
func (o *Orchestrator) Files(ctx context.Context, id string) ([]domain.FileUnit, error) {
	if r := o.lookup(id); r != nil {
		r.mu.Lock()
		out := make([]domain.FileUnit, len(r.files))
		for i, f := range r.files {
			out[i] = *f
		}
		r.mu.Unlock()
		return out, nil
	}
	if _, err := o.store.GetTransfer(ctx, id); err != nil {
		return nil, err
	}
	return o.store.ListFiles(ctx, id)
}

func (o *Orchestrator) lookup(id string) *run {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.runs[id]
}

// execute drives one transfer to a terminal state.
func (o *Orchestrator) execute(ctx context.Context, r *run) {
	err := o.runLifecycle(ctx, r)
	switch {
	case err == nil:
		o.finishCompleted(ctx, r)
	case errors.Is(err, context.Canceled):
		o.finishCancelled(ctx, r)
	default:
		o.finishFailed(ctx, r, err)
	}
}

// runLifecycle sequences the stages: discovery, transfer, upload. Stages
// never run concurrently with each other; each runs its own bounded pool.
func (o *Orchestrator) runLifecycle(ctx context.Context, r *run) error {
	r.advance(domain.StatusScanning)
	o.persistTransfer(ctx, r)

	t := r.view()
	enum, err := o.factory.Create(ctx, t.DriveType, t.SourceURL)
	if err != nil {
		return fmt.Errorf("create enumerator: %w", err)
	}
	defer enum.Close()

	if err := enum.Validate(ctx); err != nil {
		return fmt.Errorf("validate source: %w", err)
	}

	entries, err := o.discover(ctx, r, enum)
	if err != nil {
		return err
	}
	logger.Info("transfer %s discovered %d files", t.ID, len(entries))

	if len(entries) == 0 {
		// Nothing to migrate: the original behaviour is to complete
		// immediately rather than fail.
		return nil
	}

	r.setFiles(entries)
	o.persistFiles(ctx, r)

	sink := o.sinks.forMode(t.Mode)
	containerID, err := sink.CreateContainer(ctx, stagingName(t))
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}
	r.setLandingZone(containerID)
	o.persistTransfer(ctx, r)

	r.advance(domain.StatusTransferring)
	o.persistTransfer(ctx, r)

	res, err := o.runStage(ctx, r, len(entries),
		o.transferOp(r, enum, sink, containerID, entries),
		o.failFile(ctx, r))
	if err != nil {
		return err
	}
	if o.policy.Failure == domain.FailureAllOrNothing && res.Failed() {
		return fmt.Errorf("transfer stage: %d of %d files failed: %w",
			len(res.Failures), len(entries), res.Failures[0].Err)
	}
	if err := sink.Finalize(ctx, containerID); err != nil {
		return fmt.Errorf("finalize container: %w", err)
	}

	r.advance(domain.StatusUploading)
	o.persistTransfer(ctx, r)

	notebookID, err := o.sinks.knowledgeFor(t.Mode).CreateNotebook(ctx, notebookName(t))
	if err != nil {
		return fmt.Errorf("create notebook: %w", err)
	}
	r.setNotebook(notebookID)
	o.persistTransfer(ctx, r)

	upRes, err := o.runStage(ctx, r, len(entries),
		o.uploadOp(r, notebookID),
		o.recordUploadFailure(ctx, r))
	if err != nil {
		return err
	}
	if o.policy.Failure == domain.FailureAllOrNothing && upRes.Failed() {
		return fmt.Errorf("upload stage: %d of %d files failed: %w",
			len(upRes.Failures), len(entries), upRes.Failures[0].Err)
	}

	return nil
}

// discover runs source enumeration as a single-item stage so it shares
// the retry and timeout behaviour of the other stages. A discovery that
// exhausts its retries is job-fatal.
func (o *Orchestrator) discover(ctx context.Context, r *run, enum driven.SourceEnumerator) ([]driven.Entry, error) {
	var entries []driven.Entry
	op := func(ctx context.Context, _ int) error {
		list, err := enum.List(ctx)
		if err != nil {
			return fmt.Errorf("list source: %w", err)
		}
		entries = list
		return nil
	}

	res, err := o.runStage(ctx, r, 1, op, nil)
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return nil, fmt.Errorf("discovery failed: %w", res.Failures[0].Err)
	}
	return entries, nil
}

// runStage executes a stage and, on cancellation, waits up to the grace
// period for in-flight items to drain. After the grace period the run is
// abandoned; the finished flag on the run stops any straggler mutations.
func (o *Orchestrator) runStage(
	ctx context.Context,
	r *run,
	count int,
	op StageOp,
	onFailed func(index int, err error),
) (StageResult, error) {
	ex := NewStageExecutor(o.policy, onFailed)

	type outcome struct {
		res StageResult
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := ex.Run(ctx, count, op)
		ch <- outcome{res, err}
	}()

	select {
	case out := <-ch:
		return out.res, out.err
	case <-ctx.Done():
	}

	select {
	case out := <-ch:
		return out.res, out.err
	case <-time.After(o.policy.CancelGrace):
		logger.Warn("transfer %s: stage did not drain within %s, abandoning stragglers",
			r.view().ID, o.policy.CancelGrace)
		return StageResult{}, ctx.Err()
	}
}

// transferOp moves one file from the source to the destination sink in
// bounded chunks. Progress is committed after every chunk so a retried
// attempt resumes from the last acknowledged offset instead of
// restarting.
func (o *Orchestrator) transferOp(
	r *run,
	enum driven.SourceEnumerator,
	sink driven.DestinationSink,
	containerID string,
	entries []driven.Entry,
) StageOp {
	return func(ctx context.Context, i int) error {
		entry := entries[i]
		f := r.files[i]

		if !r.markInProgress(f) {
			return context.Canceled
		}
		o.persistFile(ctx, r, f)

		chunk := o.policy.ChunkSize
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			offset := r.fileOffset(f)
			if entry.Size >= 0 && offset >= entry.Size {
				break
			}

			data, err := enum.Read(ctx, entry, offset, chunk)
			if err != nil {
				return fmt.Errorf("read %q at %d: %w", entry.Name, offset, err)
			}
			if len(data) == 0 {
				break
			}

			if err := sink.WriteChunk(ctx, containerID, entry, offset, data); err != nil {
				return fmt.Errorf("write %q at %d: %w", entry.Name, offset, err)
			}

			if !r.commitChunk(f, offset+int64(len(data))) {
				return context.Canceled
			}
			o.persistFile(ctx, r, f)

			if int64(len(data)) < chunk {
				break
			}
		}

		destID, err := sink.CompleteEntry(ctx, containerID, entry)
		if err != nil {
			return fmt.Errorf("complete %q: %w", entry.Name, err)
		}
		if !r.completeFile(f, destID) {
			return context.Canceled
		}
		o.persistFile(ctx, r, f)
		return nil
	}
}

// uploadOp registers one delivered file with the knowledge destination.
// Files that failed during the transfer stage are skipped.
func (o *Orchestrator) uploadOp(r *run, notebookID string) StageOp {
	know := o.sinks.knowledgeFor(r.view().Mode)
	return func(ctx context.Context, i int) error {
		f := r.files[i]
		name, destID, ok := r.fileForUpload(f)
		if !ok {
			return nil
		}
		if _, err := know.AddSource(ctx, notebookID, name, destID); err != nil {
			return fmt.Errorf("add source %q: %w", name, err)
		}
		return nil
	}
}

// failFile records a permanent transfer-stage failure on the file unit.
func (o *Orchestrator) failFile(ctx context.Context, r *run) func(int, error) {
	return func(i int, err error) {
		f := r.files[i]
		r.failFileUnit(f, err)
		o.persistFile(ctx, r, f)
		logger.Warn("transfer %s: file %q failed: %v", r.view().ID, f.Name, err)
	}
}

// recordUploadFailure notes an upload-stage failure. The file's transfer
// already completed, so the status stays terminal; only the error text is
// recorded (per-file statuses never regress).
func (o *Orchestrator) recordUploadFailure(ctx context.Context, r *run) func(int, error) {
	return func(i int, err error) {
		f := r.files[i]
		r.recordFileError(f, err)
		o.persistFile(ctx, r, f)
		logger.Warn("transfer %s: upload of %q failed: %v", r.view().ID, f.Name, err)
	}
}

// --- terminal transitions ---

func (o *Orchestrator) finishCompleted(ctx context.Context, r *run) {
	r.finish(domain.StatusCompleted, "")
	o.persistTransfer(ctx, r)
	logger.Info("transfer %s completed", r.view().ID)
}

func (o *Orchestrator) finishCancelled(ctx context.Context, r *run) {
	r.finish(domain.StatusCancelled, "")
	o.persistTransfer(ctx, r)
	logger.Info("transfer %s cancelled", r.view().ID)
}

func (o *Orchestrator) finishFailed(ctx context.Context, r *run, err error) {
	r.finish(domain.StatusFailed, err.Error())
	o.persistTransfer(ctx, r)
	logger.Error("transfer %s failed: %v", r.view().ID, err)
}

// --- best-effort persistence ---

func (o *Orchestrator) persistTransfer(ctx context.Context, r *run) {
	t := r.view()
	if err := o.store.SaveTransfer(ctx, &t); err != nil {
		logger.Warn("persist transfer %s: %v", t.ID, err)
	}
}

func (o *Orchestrator) persistFiles(ctx context.Context, r *run) {
	r.mu.Lock()
	id := r.transfer.ID
	files := make([]domain.FileUnit, len(r.files))
	for i, f := range r.files {
		files[i] = *f
	}
	r.mu.Unlock()

	if err := o.store.SaveFiles(ctx, id, files); err != nil {
		logger.Warn("persist files for %s: %v", id, err)
	}
}

func (o *Orchestrator) persistFile(ctx context.Context, r *run, f *domain.FileUnit) {
	r.mu.Lock()
	id := r.transfer.ID
	unit := *f
	r.mu.Unlock()

	if err := o.store.SaveFile(ctx, id, &unit); err != nil {
		logger.Warn("persist file %q for %s: %v", unit.Name, id, err)
	}
}

// --- run state helpers ---

// view returns a copy of the transfer record.
func (r *run) view() domain.Transfer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.transfer
}

// publishLocked produces a snapshot, mirrors its counters onto the
// transfer record for persistence and hands it to the broadcaster.
// Caller must hold r.mu; publishing under the lock serialises snapshot
// order and never blocks (the broadcaster drops, it does not wait).
func (r *run) publishLocked() {
	snap := r.tally.Snapshot(r.transfer)

	r.transfer.TotalFiles = snap.TotalFiles
	r.transfer.FilesCompleted = snap.FilesCompleted
	r.transfer.FilesFailed = snap.FilesFailed
	r.transfer.OverallProgress = snap.OverallProgress
	if snap.CurrentFile != nil {
		r.transfer.CurrentFileName = snap.CurrentFile.Name
		r.transfer.CurrentFileProgress = snap.CurrentFile.Progress
	} else {
		r.transfer.CurrentFileName = ""
		r.transfer.CurrentFileProgress = 0
	}

	r.bcast.Publish(snap)
}

// advance moves the transfer to the next lifecycle stage.
func (r *run) advance(next domain.TransferStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished || !r.transfer.Status.CanTransition(next) {
		return
	}
	r.transfer.Status = next
	now := time.Now().UTC()
	if r.transfer.StartedAt == nil && next != domain.StatusPending {
		r.transfer.StartedAt = &now
	}
	r.publishLocked()
}

// finish performs the terminal transition and tears the run down. After
// finish returns no further mutation of the transfer or its files is
// possible.
func (r *run) finish(status domain.TransferStatus, errMsg string) {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	r.finished = true

	if r.transfer.Status.CanTransition(status) {
		r.transfer.Status = status
		r.transfer.ErrorMessage = errMsg
		now := time.Now().UTC()
		r.transfer.CompletedAt = &now
		if r.transfer.StartedAt == nil {
			r.transfer.StartedAt = &now
		}
	}
	r.publishLocked()
	r.mu.Unlock()

	r.bcast.Close()
	close(r.done)
}

// setFiles populates the file units after discovery.
func (r *run) setFiles(entries []driven.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return
	}
	now := time.Now().UTC()
	r.files = make([]*domain.FileUnit, len(entries))
	for i, e := range entries {
		r.files[i] = &domain.FileUnit{
			Index:      i,
			Name:       e.Name,
			Size:       e.Size,
			SourceID:   e.ID,
			SourcePath: e.Path,
			MIMEType:   e.MIMEType,
			Status:     domain.FilePending,
			UpdatedAt:  now,
		}
	}
	r.tally.Reset(len(entries))
	r.publishLocked()
}

func (r *run) setLandingZone(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfer.LandingZoneID = id
}

func (r *run) setNotebook(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfer.NotebookID = id
}

// markInProgress transitions a file to in_progress. Idempotent across
// retry attempts; returns false once the run has finished or the file
// reached a terminal status.
func (r *run) markInProgress(f *domain.FileUnit) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished || f.Status.Terminal() {
		return false
	}
	prev := f.Status
	if prev == domain.FilePending {
		f.Status = domain.FileInProgress
		now := time.Now().UTC()
		f.StartedAt = &now
	}
	f.UpdatedAt = time.Now().UTC()
	r.tally.Apply(prev, f.Status)
	r.tally.Touch(f)
	r.publishLocked()
	return true
}

// fileOffset reads the last committed offset.
func (r *run) fileOffset(f *domain.FileUnit) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return f.BytesTransferred
}

// commitChunk records a new committed offset. Offsets only move forward;
// a stale commit (from a retried attempt that lost the race) is ignored.
func (r *run) commitChunk(f *domain.FileUnit, offset int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished || f.Status.Terminal() {
		return false
	}
	if offset > f.BytesTransferred {
		if f.Size >= 0 && offset > f.Size {
			offset = f.Size
		}
		f.BytesTransferred = offset
	}
	f.UpdatedAt = time.Now().UTC()
	r.tally.Touch(f)
	r.publishLocked()
	return true
}

// completeFile marks a file's transfer done.
func (r *run) completeFile(f *domain.FileUnit, destID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished || f.Status.Terminal() {
		return false
	}
	prev := f.Status
	f.Status = domain.FileCompleted
	f.DestinationID = destID
	if f.Size >= 0 {
		f.BytesTransferred = f.Size
	}
	now := time.Now().UTC()
	f.CompletedAt = &now
	f.UpdatedAt = now
	r.tally.Apply(prev, f.Status)
	r.tally.Touch(f)
	r.publishLocked()
	return true
}

// failFileUnit marks a file permanently failed.
func (r *run) failFileUnit(f *domain.FileUnit, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished || f.Status.Terminal() {
		return
	}
	prev := f.Status
	f.Status = domain.FileFailed
	f.ErrorMessage = err.Error()
	now := time.Now().UTC()
	f.CompletedAt = &now
	f.UpdatedAt = now
	r.tally.Apply(prev, f.Status)
	r.tally.Touch(f)
	r.publishLocked()
}

// recordFileError notes an error without changing a terminal status.
func (r *run) recordFileError(f *domain.FileUnit, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return
	}
	f.ErrorMessage = err.Error()
	f.UpdatedAt = time.Now().UTC()
}

// fileForUpload returns the name and destination id of a file eligible
// for the upload stage.
func (r *run) fileForUpload(f *domain.FileUnit) (name, destID string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.Status != domain.FileCompleted || f.DestinationID == "" {
		return "", "", false
	}
	return f.Name, f.DestinationID, true
}

// --- naming & snapshot helpers ---

// stagingName follows the original landing-zone convention.
func stagingName(t domain.Transfer) string {
	return fmt.Sprintf("ftransport_%s_%s", t.ID, t.CreatedAt.Format("20060102_150405"))
}

func notebookName(t domain.Transfer) string {
	return "FTransport_" + t.ID
}

// snapshotFromTransfer synthesises a snapshot from a persisted record,
// used when no in-process run exists (e.g. after a restart).
func snapshotFromTransfer(t *domain.Transfer) domain.ProgressSnapshot {
	snap := domain.ProgressSnapshot{
		TransferID:      t.ID,
		Status:          t.Status,
		OverallProgress: t.OverallProgress,
		FilesCompleted:  t.FilesCompleted,
		FilesFailed:     t.FilesFailed,
		TotalFiles:      t.TotalFiles,
		ErrorMessage:    t.ErrorMessage,
	}
	if t.CurrentFileName != "" {
		snap.CurrentFile = &domain.CurrentFile{
			Name:     t.CurrentFileName,
			Progress: t.CurrentFileProgress,
		}
	}
	return snap
}
