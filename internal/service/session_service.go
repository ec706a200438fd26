package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sheetgrader/internal/model"
	"sync"
	"time"
)

// MaxImageBytes bounds an uploaded sheet photo
const MaxImageBytes = 10 << 20

var jpegMagic = []byte{0xFF, 0xD8, 0xFF}

const (
	msgCameraUnavailable = "Cannot access the camera. Please grant camera permission"
	msgScanFailed        = "Something went wrong while processing the image"
	msgHistoryNotSaved   = "The result could not be saved to history"
)

// FlowOptions selects the scan flow variant
type FlowOptions struct {
	AutoAdvance    bool          // Result -> Capturing after ResultDisplay
	ResultDisplay  time.Duration // Only used with AutoAdvance
	RetryOnFailure bool          // Failed scan -> Capturing instead of Idle
}

// SessionDeps are the collaborators of a scan session. Archive, Guard and
// Broadcaster are optional.
type SessionDeps struct {
	Keys        *AnswerKeyStore
	History     *HistoryStore
	Recognizer  Recognizer
	Archive     ResultArchive
	Guard       ScanGuard
	Broadcaster Broadcaster
}

// ScanSession drives Idle -> Capturing -> Processing -> Result -> Idle for one owner.
// At most one recognition call is in flight; Processing can only be left by the call settling.
type ScanSession struct {
	owner string
	deps  SessionDeps
	opts  FlowOptions
	now   func() time.Time

	mu        sync.Mutex
	state     model.FlowState
	current   *model.ResultView
	lastErr   string
	updatedAt time.Time
	resultSeq int
	advance   *time.Timer
	settled   chan struct{}
}

// NewScanSession creates an idle session
func NewScanSession(owner string, deps SessionDeps, opts FlowOptions) *ScanSession {
	s := &ScanSession{
		owner: owner,
		deps:  deps,
		opts:  opts,
		now:   time.Now,
		state: model.StateIdle,
	}
	s.updatedAt = s.now()
	return s
}

// ValidateImage checks an upload looks like a JPEG of acceptable size
func ValidateImage(image []byte) error {
	if len(image) > MaxImageBytes {
		return fmt.Errorf("%w: larger than %d bytes", model.ErrInvalidImage, MaxImageBytes)
	}
	if !bytes.HasPrefix(image, jpegMagic) {
		return model.ErrInvalidImage
	}
	return nil
}

// Snapshot returns the current externally visible state
func (s *ScanSession) Snapshot() model.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Settled returns a channel closed once no recognition call is in flight
func (s *ScanSession) Settled() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settled == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.settled
}

// OpenCamera enters Capturing from Idle or Result
func (s *ScanSession) OpenCamera() error {
	s.mu.Lock()
	switch s.state {
	case model.StateProcessing:
		s.mu.Unlock()
		return model.ErrScanInProgress
	case model.StateCapturing:
		s.mu.Unlock()
		return nil
	}
	s.stopAdvanceLocked()
	s.current = nil
	snap := s.setStateLocked(model.StateCapturing)
	s.mu.Unlock()

	s.publish(EventStateChanged, snap)
	return nil
}

// CloseCamera cancels a capture and returns to Idle
func (s *ScanSession) CloseCamera() error {
	s.mu.Lock()
	switch s.state {
	case model.StateIdle:
		s.mu.Unlock()
		return nil
	case model.StateCapturing:
	default:
		s.mu.Unlock()
		return model.ErrInvalidTransition
	}
	snap := s.setStateLocked(model.StateIdle)
	s.mu.Unlock()

	s.publish(EventStateChanged, snap)
	return nil
}

// ReportCameraUnavailable leaves Capturing with a blocking camera message
func (s *ScanSession) ReportCameraUnavailable(message string) error {
	if message == "" {
		message = msgCameraUnavailable
	}

	s.mu.Lock()
	if s.state != model.StateCapturing {
		s.mu.Unlock()
		return model.ErrInvalidTransition
	}
	log.Printf("Camera unavailable for %s: %s", s.owner, message)
	s.lastErr = message
	snap := s.setStateLocked(model.StateIdle)
	s.mu.Unlock()

	s.publish(EventScanFailed, map[string]string{"error": message, "kind": model.ErrCameraUnavailable.Error()})
	s.publish(EventStateChanged, snap)
	return nil
}

// Submit starts recognition of a captured image. The call runs in the
// background, detached from ctx cancellation; Submit returns once the session is Processing.
func (s *ScanSession) Submit(ctx context.Context, image []byte) error {
	s.mu.Lock()
	switch s.state {
	case model.StateProcessing:
		s.mu.Unlock()
		return model.ErrScanInProgress
	case model.StateCapturing:
	default:
		s.mu.Unlock()
		return model.ErrInvalidTransition
	}
	if err := ValidateImage(image); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.deps.Guard != nil {
		ok, err := s.deps.Guard.Acquire(ctx, s.owner)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("acquire scan lock: %w", err)
		}
		if !ok {
			s.mu.Unlock()
			return model.ErrScanInProgress
		}
	}

	s.lastErr = ""
	settled := make(chan struct{})
	s.settled = settled
	snap := s.setStateLocked(model.StateProcessing)
	s.mu.Unlock()

	s.publish(EventStateChanged, snap)
	go s.process(context.WithoutCancel(ctx), image, settled)
	return nil
}

// Dismiss leaves the result screen (restart action)
func (s *ScanSession) Dismiss() error {
	s.mu.Lock()
	switch s.state {
	case model.StateIdle:
		s.mu.Unlock()
		return nil
	case model.StateResult:
	default:
		s.mu.Unlock()
		return model.ErrInvalidTransition
	}
	s.stopAdvanceLocked()
	s.current = nil
	snap := s.setStateLocked(model.StateIdle)
	s.mu.Unlock()

	s.publish(EventStateChanged, snap)
	return nil
}

// ClearError dismisses the surfaced error message
func (s *ScanSession) ClearError() {
	s.mu.Lock()
	if s.lastErr == "" {
		s.mu.Unlock()
		return
	}
	s.lastErr = ""
	s.updatedAt = s.now()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(EventStateChanged, snap)
}

func (s *ScanSession) process(ctx context.Context, image []byte, settled chan struct{}) {
	defer close(settled)
	if s.deps.Guard != nil {
		defer func() {
			if err := s.deps.Guard.Release(ctx, s.owner); err != nil {
				log.Printf("Failed to release scan lock for %s: %v", s.owner, err)
			}
		}()
	}

	scan, err := s.deps.Recognizer.Recognize(ctx, image)
	if err != nil {
		s.fail(err)
		return
	}
	s.complete(ctx, scan)
}

func (s *ScanSession) fail(err error) {
	log.Printf("Scan failed for %s: %v", s.owner, err)

	message := msgScanFailed
	var recErr *model.RecognitionError
	if errors.As(err, &recErr) {
		message = recErr.Message
	}

	next := model.StateIdle
	if s.opts.RetryOnFailure {
		next = model.StateCapturing
	}

	s.mu.Lock()
	s.lastErr = message
	snap := s.setStateLocked(next)
	s.mu.Unlock()

	s.publish(EventScanFailed, map[string]string{"error": message, "kind": model.ErrRecognitionFailed.Error()})
	s.publish(EventStateChanged, snap)
}

func (s *ScanSession) complete(ctx context.Context, scan *model.ScanResult) {
	key := s.deps.Keys.Get()
	result := NewGradedResult(*scan, key, s.now())
	view := NewResultView(result, key)

	warning := ""
	if err := s.deps.History.Record(ctx, result); err != nil {
		log.Printf("Failed to record result %s for %s: %v", result.ID, s.owner, err)
		warning = msgHistoryNotSaved
	}
	if s.deps.Archive != nil {
		if err := s.deps.Archive.Save(ctx, s.owner, &result); err != nil {
			log.Printf("Failed to archive result %s for %s: %v", result.ID, s.owner, err)
		}
	}

	s.mu.Lock()
	s.current = view
	s.lastErr = warning
	s.resultSeq++
	if s.opts.AutoAdvance {
		seq := s.resultSeq
		s.advance = time.AfterFunc(s.opts.ResultDisplay, func() { s.autoAdvance(seq) })
	}
	snap := s.setStateLocked(model.StateResult)
	s.mu.Unlock()

	s.publish(EventScanResult, view)
	s.publish(EventStateChanged, snap)
}

func (s *ScanSession) autoAdvance(seq int) {
	s.mu.Lock()
	if s.state != model.StateResult || s.resultSeq != seq {
		s.mu.Unlock()
		return
	}
	s.advance = nil
	s.current = nil
	snap := s.setStateLocked(model.StateCapturing)
	s.mu.Unlock()

	s.publish(EventStateChanged, snap)
}

func (s *ScanSession) stopAdvanceLocked() {
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
}

func (s *ScanSession) setStateLocked(state model.FlowState) model.SessionSnapshot {
	s.state = state
	s.updatedAt = s.now()
	return s.snapshotLocked()
}

func (s *ScanSession) snapshotLocked() model.SessionSnapshot {
	return model.SessionSnapshot{
		State:     s.state,
		Current:   s.current,
		Error:     s.lastErr,
		UpdatedAt: s.updatedAt,
	}
}

func (s *ScanSession) publish(msgType string, payload interface{}) {
	if s.deps.Broadcaster != nil {
		s.deps.Broadcaster.Publish(s.owner, msgType, payload)
	}
}
