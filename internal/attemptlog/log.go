package attemptlog

import (
	"context"
	"fmt"
	"time"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/logger"
)

// LocalStore is the durable device-side log. Writes here are synchronous and
// authoritative for run correctness.
type LocalStore interface {
	Append(ctx context.Context, rec *domain.AttemptRecord) error
	List(ctx context.Context, page, pageSize int) ([]domain.AttemptRecord, int64, error)
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (domain.AttemptStats, error)
}

// RemoteStore mirrors attempt records to the owner-scoped persistent store.
type RemoteStore interface {
	MirrorAttempt(ctx context.Context, ownerID string, rec domain.AttemptRecord) error
}

// Log is the append-only attempt writer with two sinks: the local store is
// written synchronously on every attempt; the remote mirror is best-effort
// and only used when the run has an authenticated owner.
type Log struct {
	local         LocalStore
	remote        RemoteStore // nil when remote persistence is disabled
	remoteTimeout time.Duration
}

func New(local LocalStore, remote RemoteStore, remoteTimeout time.Duration) *Log {
	if remoteTimeout <= 0 {
		remoteTimeout = 5 * time.Second
	}
	return &Log{
		local:         local,
		remote:        remote,
		remoteTimeout: remoteTimeout,
	}
}

// Append writes the record locally and, for authenticated owners, schedules
// a fire-and-forget mirror write. Only the local write can fail the append;
// a mirror failure is logged and never retried within the run.
func (l *Log) Append(ctx context.Context, ownerID string, rec domain.AttemptRecord) error {
	if err := l.local.Append(ctx, &rec); err != nil {
		return fmt.Errorf("failed to append attempt locally: %w", err)
	}

	if l.remote != nil && ownerID != "" {
		go func(rec domain.AttemptRecord) {
			mctx, cancel := context.WithTimeout(context.Background(), l.remoteTimeout)
			defer cancel()

			if err := l.remote.MirrorAttempt(mctx, ownerID, rec); err != nil {
				logger.Warnf("Failed to mirror attempt for %s: %v", rec.Number, err)
			}
		}(rec)
	}

	return nil
}

// List returns attempt records oldest first, newest last.
func (l *Log) List(ctx context.Context, page, pageSize int) ([]domain.AttemptRecord, int64, error) {
	return l.local.List(ctx, page, pageSize)
}

// ListAll returns the full local log for export.
func (l *Log) ListAll(ctx context.Context) ([]domain.AttemptRecord, error) {
	records, _, err := l.local.List(ctx, 1, 0)
	return records, err
}

// Clear empties the local log only. Remote sessions and recordings are
// owner-scoped and may be referenced by other views; they are never deleted
// from here.
func (l *Log) Clear(ctx context.Context) error {
	return l.local.Clear(ctx)
}

func (l *Log) Stats(ctx context.Context) (domain.AttemptStats, error) {
	return l.local.Stats(ctx)
}
