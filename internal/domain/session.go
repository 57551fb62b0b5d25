package domain

import "time"

// Session groups the attempts of one run under an authenticated owner. It
// exists only in the remote store; unauthenticated runs have no session and
// leave local attempt records only. Sessions are analytics, not dispatch
// correctness: every write to them is best-effort.
type Session struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"ownerId"`
	Name           string    `json:"name"`
	Channel        Channel   `json:"channel"`
	TotalTargets   int       `json:"totalTargets"`
	CompletedCount int       `json:"completedCount"`
	StartedAt      time.Time `json:"startedAt"`
}

// Recording is the metadata of one captured audio artifact. It holds only a
// weak reference to its session: deleting a session never requires deleting
// the recording, and recordings outlive session records.
type Recording struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"ownerId"`
	SessionID  *string   `json:"sessionId,omitempty"`
	Target     string    `json:"target"`
	AudioRef   string    `json:"audioRef"`
	DurationMS int64     `json:"durationMs"`
	CapturedAt time.Time `json:"capturedAt"`
}

// AudioArtifact is the finished blob handed back by the capture device.
type AudioArtifact struct {
	Data     []byte
	MimeType string
	Duration time.Duration
}

// TargetBatch is an ordered contact list produced by ingestion. Targets are
// guaranteed non-empty; duplicates are kept as-is and dispatched once per
// occurrence.
type TargetBatch struct {
	Label   string   `json:"label"`
	Targets []string `json:"targets"`
}
