package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/logger"
)

var (
	// ErrPermissionDenied means the capture device refused to start. Capture
	// is optional; callers surface this and carry on dispatching.
	ErrPermissionDenied = errors.New("capture device permission denied")
	// ErrAlreadyCapturing is returned when a capture is active. The recorder
	// never stops-and-restarts implicitly; the active capture must be
	// stopped first.
	ErrAlreadyCapturing = errors.New("a capture is already active")
	ErrNoActiveCapture  = errors.New("no capture is active")
)

// CaptureDevice is the external microphone bridge. Start begins a stream;
// Stop finalizes it into a single audio artifact.
type CaptureDevice interface {
	StartCapture(ctx context.Context, target string) error
	StopCapture(ctx context.Context) (domain.AudioArtifact, error)
}

// BlobStore persists the finished audio bytes and returns a reference.
type BlobStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// RecordingStore registers recording metadata with the persistent store.
type RecordingStore interface {
	CreateRecording(ctx context.Context, rec domain.Recording) (string, error)
}

// ActiveCapture describes the capture currently accumulating audio.
type ActiveCapture struct {
	Target    string    `json:"target"`
	StartedAt time.Time `json:"startedAt"`
}

// Recorder drives per-attempt audio capture. At most one capture is active
// at a time, and its lifecycle is fully independent of the dispatch run: a
// failed start or upload never blocks or rolls back the engine.
type Recorder struct {
	device CaptureDevice
	blobs  BlobStore
	store  RecordingStore // nil when remote persistence is disabled

	mu     sync.Mutex
	active *ActiveCapture
}

func New(device CaptureDevice, blobs BlobStore, store RecordingStore) *Recorder {
	return &Recorder{
		device: device,
		blobs:  blobs,
		store:  store,
	}
}

// StartCapture begins accumulating audio for the given target. Starting
// while a capture is active returns ErrAlreadyCapturing.
func (r *Recorder) StartCapture(ctx context.Context, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return ErrAlreadyCapturing
	}

	if err := r.device.StartCapture(ctx, target); err != nil {
		return fmt.Errorf("failed to start capture for %s: %w", target, err)
	}

	r.active = &ActiveCapture{
		Target:    target,
		StartedAt: time.Now().UTC(),
	}

	logger.Infof("Capture started for %s", target)

	return nil
}

// StopCapture finalizes the active capture, persists the audio blob, and
// registers the recording with the store when an owner is present. The
// capture slot is freed even when the upload fails, so a flaky backend
// cannot wedge the recorder.
func (r *Recorder) StopCapture(ctx context.Context, ownerID string, sessionID string) (domain.Recording, error) {
	r.mu.Lock()
	active := r.active
	r.active = nil
	r.mu.Unlock()

	if active == nil {
		return domain.Recording{}, ErrNoActiveCapture
	}

	artifact, err := r.device.StopCapture(ctx)
	if err != nil {
		return domain.Recording{}, fmt.Errorf("failed to stop capture for %s: %w", active.Target, err)
	}

	name := fmt.Sprintf("%s-%s.ogg", active.StartedAt.Format("20060102T150405"), uuid.NewString())
	audioRef, err := r.blobs.Save(ctx, name, artifact.Data)
	if err != nil {
		return domain.Recording{}, fmt.Errorf("failed to persist audio for %s: %w", active.Target, err)
	}

	rec := domain.Recording{
		OwnerID:    ownerID,
		Target:     active.Target,
		AudioRef:   audioRef,
		DurationMS: artifact.Duration.Milliseconds(),
		CapturedAt: active.StartedAt,
	}
	if sessionID != "" {
		sid := sessionID
		rec.SessionID = &sid
	}

	if r.store == nil || ownerID == "" {
		logger.Infof("Capture for %s kept locally at %s (no authenticated owner)", active.Target, audioRef)
		return rec, nil
	}

	id, err := r.store.CreateRecording(ctx, rec)
	if err != nil {
		// The blob is already safe on disk; report the upload failure
		// without undoing anything.
		return rec, fmt.Errorf("failed to register recording for %s: %w", active.Target, err)
	}
	rec.ID = id

	logger.Infof("Recording %s stored for %s", id, active.Target)

	return rec, nil
}

// Active returns the capture in progress, or nil.
func (r *Recorder) Active() *ActiveCapture {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return nil
	}
	snapshot := *r.active
	return &snapshot
}
