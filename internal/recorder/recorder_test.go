package recorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
)

type fakeDevice struct {
	denyStart bool
	artifact  domain.AudioArtifact
	stopErr   error

	startCalls []string
	stopCalls  int
}

func (d *fakeDevice) StartCapture(ctx context.Context, target string) error {
	if d.denyStart {
		return ErrPermissionDenied
	}
	d.startCalls = append(d.startCalls, target)
	return nil
}

func (d *fakeDevice) StopCapture(ctx context.Context) (domain.AudioArtifact, error) {
	d.stopCalls++
	if d.stopErr != nil {
		return domain.AudioArtifact{}, d.stopErr
	}
	return d.artifact, nil
}

type fakeBlobs struct {
	saved map[string][]byte
	err   error
}

func (b *fakeBlobs) Save(ctx context.Context, name string, data []byte) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if b.saved == nil {
		b.saved = make(map[string][]byte)
	}
	b.saved[name] = data
	return "/recordings/" + name, nil
}

type fakeRecordingStore struct {
	created []domain.Recording
	err     error
}

func (s *fakeRecordingStore) CreateRecording(ctx context.Context, rec domain.Recording) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.created = append(s.created, rec)
	return "rec-1", nil
}

func TestRecorder_CaptureRoundTrip(t *testing.T) {
	device := &fakeDevice{artifact: domain.AudioArtifact{
		Data:     []byte("audio-bytes"),
		MimeType: "audio/ogg",
		Duration: 3 * time.Second,
	}}
	blobs := &fakeBlobs{}
	store := &fakeRecordingStore{}
	r := New(device, blobs, store)

	if err := r.StartCapture(context.Background(), "555-0100"); err != nil {
		t.Fatalf("StartCapture returned error: %v", err)
	}
	if r.Active() == nil || r.Active().Target != "555-0100" {
		t.Fatalf("expected active capture for 555-0100")
	}

	rec, err := r.StopCapture(context.Background(), "user-1", "sess-1")
	if err != nil {
		t.Fatalf("StopCapture returned error: %v", err)
	}

	if rec.ID != "rec-1" {
		t.Errorf("expected recording id rec-1, got %q", rec.ID)
	}
	if rec.Target != "555-0100" || rec.OwnerID != "user-1" {
		t.Errorf("unexpected recording payload: %+v", rec)
	}
	if rec.SessionID == nil || *rec.SessionID != "sess-1" {
		t.Errorf("expected session link sess-1, got %v", rec.SessionID)
	}
	if rec.DurationMS != 3000 {
		t.Errorf("expected duration 3000ms, got %d", rec.DurationMS)
	}
	if len(blobs.saved) != 1 {
		t.Errorf("expected 1 saved blob, got %d", len(blobs.saved))
	}
	if r.Active() != nil {
		t.Errorf("expected no active capture after stop")
	}
}

func TestRecorder_PermissionDenied(t *testing.T) {
	device := &fakeDevice{denyStart: true}
	r := New(device, &fakeBlobs{}, nil)

	err := r.StartCapture(context.Background(), "555-0100")
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if r.Active() != nil {
		t.Errorf("expected no active capture after denied start")
	}
}

func TestRecorder_SecondStartRejected(t *testing.T) {
	device := &fakeDevice{}
	r := New(device, &fakeBlobs{}, nil)

	if err := r.StartCapture(context.Background(), "a"); err != nil {
		t.Fatalf("StartCapture returned error: %v", err)
	}

	err := r.StartCapture(context.Background(), "b")
	if !errors.Is(err, ErrAlreadyCapturing) {
		t.Fatalf("expected ErrAlreadyCapturing, got %v", err)
	}
	if len(device.startCalls) != 1 {
		t.Errorf("expected device started once, got %d", len(device.startCalls))
	}
}

func TestRecorder_StopWithoutActiveCapture(t *testing.T) {
	r := New(&fakeDevice{}, &fakeBlobs{}, nil)

	_, err := r.StopCapture(context.Background(), "", "")
	if !errors.Is(err, ErrNoActiveCapture) {
		t.Fatalf("expected ErrNoActiveCapture, got %v", err)
	}
}

func TestRecorder_UploadFailureFreesSlot(t *testing.T) {
	device := &fakeDevice{artifact: domain.AudioArtifact{Data: []byte("x")}}
	blobs := &fakeBlobs{}
	store := &fakeRecordingStore{err: errors.New("store down")}
	r := New(device, blobs, store)

	if err := r.StartCapture(context.Background(), "555-0100"); err != nil {
		t.Fatalf("StartCapture returned error: %v", err)
	}

	rec, err := r.StopCapture(context.Background(), "user-1", "")
	if err == nil {
		t.Fatalf("expected upload failure to be reported")
	}
	if rec.AudioRef == "" {
		t.Errorf("expected blob reference despite upload failure, got %+v", rec)
	}
	if r.Active() != nil {
		t.Errorf("expected capture slot freed after failed upload")
	}

	// A fresh capture must be possible right away.
	if err := r.StartCapture(context.Background(), "555-0101"); err != nil {
		t.Fatalf("expected recorder usable after failed upload, got %v", err)
	}
}

func TestRecorder_UnauthenticatedStopSkipsStore(t *testing.T) {
	device := &fakeDevice{artifact: domain.AudioArtifact{Data: []byte("x")}}
	store := &fakeRecordingStore{}
	r := New(device, &fakeBlobs{}, store)

	if err := r.StartCapture(context.Background(), "555-0100"); err != nil {
		t.Fatalf("StartCapture returned error: %v", err)
	}

	rec, err := r.StopCapture(context.Background(), "", "")
	if err != nil {
		t.Fatalf("StopCapture returned error: %v", err)
	}
	if rec.ID != "" {
		t.Errorf("expected no remote id for unauthenticated capture, got %q", rec.ID)
	}
	if len(store.created) != 0 {
		t.Errorf("expected no store writes, got %d", len(store.created))
	}
}
