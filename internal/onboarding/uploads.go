package onboarding

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/developia-II/vendora-onboarding/internal/core/domain"
)

type SlotStatus string

const (
	SlotEmpty     SlotStatus = "empty"
	SlotUploading SlotStatus = "uploading"
	SlotUploaded  SlotStatus = "uploaded"
	SlotError     SlotStatus = "error"
)

// DocumentSlot is the observable state of one upload target.
type DocumentSlot struct {
	Key      SlotKey         `json:"key"`
	Status   SlotStatus      `json:"status"`
	Progress int             `json:"progress"`
	File     *domain.FileRef `json:"file,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// File is an upload handed in by the caller. Body must stay readable
// after Upload returns.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Storage is the document-storage collaborator. Implementations call
// progress with a percentage as bytes go out and must return promptly
// once ctx is cancelled.
type Storage interface {
	Store(ctx context.Context, slot SlotKey, file File, progress func(pct int)) (domain.FileRef, error)
}

// DocumentBinder receives file references as slots settle. It is called
// with the tracker lock held, so it must not call back into the tracker.
type DocumentBinder interface {
	AttachDocument(slot SlotKey, ref domain.FileRef) error
	DetachDocument(slot SlotKey)
}

type TrackerOptions struct {
	Limits map[SlotKey]int64
	Binder DocumentBinder

	// OnChange sees every slot transition in order. It runs under the
	// tracker lock and must not block.
	OnChange func(DocumentSlot)

	// OnSettled runs after an attempt reaches uploaded or error, outside
	// the lock. Stale attempts never reach it.
	OnSettled func(DocumentSlot)
}

type slotState struct {
	DocumentSlot
	gen    uint64
	cancel context.CancelFunc
}

// Tracker runs document uploads per slot. Each attempt gets a generation
// number; results from an attempt that was cleared or retried are dropped.
type Tracker struct {
	mu      sync.Mutex
	storage Storage
	opts    TrackerOptions
	slots   map[SlotKey]*slotState
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTracker(storage Storage, opts TrackerOptions) *Tracker {
	if opts.Limits == nil {
		opts.Limits = DefaultLimits()
	}
	ctx, cancel := context.WithCancel(context.Background())
	t := &Tracker{
		storage: storage,
		opts:    opts,
		slots:   make(map[SlotKey]*slotState, len(AllSlots)),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, k := range AllSlots {
		t.slots[k] = &slotState{DocumentSlot: DocumentSlot{Key: k, Status: SlotEmpty}}
	}
	return t
}

// Upload starts an attempt on an empty slot and returns the slot state
// right after the call. Oversized or empty files put the slot straight
// into error without passing through uploading.
func (t *Tracker) Upload(slot SlotKey, file File) (DocumentSlot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return DocumentSlot{}, ErrTrackerClosed
	}
	st, ok := t.slots[slot]
	if !ok {
		return DocumentSlot{}, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	if st.Status != SlotEmpty {
		return st.copy(), fmt.Errorf("%w: %s is %s", ErrSlotBusy, slot, st.Status)
	}

	st.gen++
	if limit := t.opts.Limits[slot]; limit > 0 && file.Size > limit {
		t.fail(st, ErrSizeExceeded.Error())
		return st.copy(), fmt.Errorf("%w: %d > %d bytes", ErrSizeExceeded, file.Size, limit)
	}
	if file.Size <= 0 || file.Body == nil {
		t.fail(st, ErrEmptyFile.Error())
		return st.copy(), ErrEmptyFile
	}

	ctx, cancel := context.WithCancel(t.ctx)
	st.cancel = cancel
	st.Status = SlotUploading
	st.Progress = 0
	st.File = nil
	st.Message = ""
	t.emit(st)

	t.wg.Add(1)
	go t.run(ctx, slot, st.gen, file)

	return st.copy(), nil
}

func (t *Tracker) run(ctx context.Context, slot SlotKey, gen uint64, file File) {
	defer t.wg.Done()

	ref, err := t.storage.Store(ctx, slot, file, func(pct int) {
		t.progress(slot, gen, pct)
	})

	t.mu.Lock()
	st := t.slots[slot]
	if st.gen != gen || st.Status != SlotUploading {
		t.mu.Unlock()
		return
	}
	st.cancel()
	st.cancel = nil

	switch {
	case err != nil:
		t.fail(st, fmt.Sprintf("upload failed: %v", err))
	case t.opts.Binder != nil:
		if berr := t.opts.Binder.AttachDocument(slot, ref); berr != nil {
			t.fail(st, fmt.Sprintf("upload failed: %v", berr))
			break
		}
		t.succeed(st, ref)
	default:
		t.succeed(st, ref)
	}
	settled := st.copy()
	t.mu.Unlock()

	if t.opts.OnSettled != nil {
		t.opts.OnSettled(settled)
	}
}

func (t *Tracker) progress(slot SlotKey, gen uint64, pct int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.slots[slot]
	if st.gen != gen || st.Status != SlotUploading {
		return
	}
	if pct > 100 {
		pct = 100
	}
	if pct <= st.Progress {
		return
	}
	st.Progress = pct
	t.emit(st)
}

// Retry resets an errored slot to empty so a fresh Upload can start. A
// slot that is still uploading is cancelled and reset the same way.
func (t *Tracker) Retry(slot SlotKey) (DocumentSlot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.slots[slot]
	if !ok {
		return DocumentSlot{}, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	switch st.Status {
	case SlotEmpty:
		return st.copy(), nil
	case SlotUploaded:
		return st.copy(), fmt.Errorf("%w: %s is uploaded, clear it instead", ErrNotRetryable, slot)
	}
	t.reset(st)
	return st.copy(), nil
}

// Clear empties the slot from any state and drops its file reference
// from the application. An in-flight attempt is cancelled and its
// result will be ignored.
func (t *Tracker) Clear(slot SlotKey) (DocumentSlot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.slots[slot]
	if !ok {
		return DocumentSlot{}, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	hadFile := st.Status == SlotUploaded
	t.reset(st)
	if hadFile && t.opts.Binder != nil {
		t.opts.Binder.DetachDocument(slot)
	}
	return st.copy(), nil
}

// Restore marks a slot uploaded from a persisted reference without
// running an attempt.
func (t *Tracker) Restore(slot SlotKey, ref domain.FileRef) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.slots[slot]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	if st.Status != SlotEmpty {
		return fmt.Errorf("%w: %s is %s", ErrSlotBusy, slot, st.Status)
	}
	st.gen++
	st.Status = SlotUploaded
	st.Progress = 100
	st.File = &ref
	return nil
}

func (t *Tracker) Slot(slot SlotKey) (DocumentSlot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.slots[slot]
	if !ok {
		return DocumentSlot{}, false
	}
	return st.copy(), true
}

// Slots returns every slot in display order.
func (t *Tracker) Slots() []DocumentSlot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.slotsLocked()
}

// Observe calls fn with the slots while holding the tracker lock, so no
// attempt can settle or be cleared until fn returns. fn may read the
// binder but must not call back into the tracker.
func (t *Tracker) Observe(fn func(slots []DocumentSlot)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fn(t.slotsLocked())
}

// Busy reports whether any slot has an attempt in flight.
func (t *Tracker) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, st := range t.slots {
		if st.Status == SlotUploading {
			return true
		}
	}
	return false
}

func (t *Tracker) slotsLocked() []DocumentSlot {
	out := make([]DocumentSlot, 0, len(AllSlots))
	for _, k := range AllSlots {
		out = append(out, t.slots[k].copy())
	}
	return out
}

// Wait blocks until every started attempt has finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Close cancels in-flight attempts, waits for them and rejects further uploads.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	t.cancel()
	t.wg.Wait()
}

func (t *Tracker) reset(st *slotState) {
	st.gen++
	if st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}
	st.Status = SlotEmpty
	st.Progress = 0
	st.File = nil
	st.Message = ""
	t.emit(st)
}

func (t *Tracker) fail(st *slotState, msg string) {
	st.Status = SlotError
	st.File = nil
	st.Message = msg
	t.emit(st)
}

func (t *Tracker) succeed(st *slotState, ref domain.FileRef) {
	st.Status = SlotUploaded
	st.Progress = 100
	st.File = &ref
	st.Message = ""
	t.emit(st)
}

func (t *Tracker) emit(st *slotState) {
	if t.opts.OnChange != nil {
		t.opts.OnChange(st.copy())
	}
}

func (s *slotState) copy() DocumentSlot {
	out := s.DocumentSlot
	if s.File != nil {
		f := *s.File
		out.File = &f
	}
	return out
}
