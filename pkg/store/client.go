package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	"github.com/okanbasoglu/outreach-dispatch-service/environments"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/logger"
)

// Client is the network-reachable persistent store for sessions, recordings,
// and owner-scoped attempt mirrors. Every key is scoped by owner so
// clearing the local log can never touch another user's data. All writes
// are safe to retry.
type Client struct {
	client valkey.Client
}

const (
	sessionKeyPrefix   = "session:"
	recordingKeyPrefix = "recording:"
	attemptsKeyPrefix  = "attempts:"

	// Attempts mirrored outside a session still need a bucket.
	unsessionedBucket = "unsessioned"
)

func NewClient(cfg environments.StoreConfig) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create store client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	logger.Infof("Connected to persistent store")

	return &Client{client: client}, nil
}

func (c *Client) CreateSession(ctx context.Context, s domain.Session) (string, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	key := sessionKey(s.OwnerID, s.ID)
	if err := c.client.Do(ctx, c.client.B().Set().Key(key).Value(string(data)).Build()).Error(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	logger.Debugf("Stored session %s for owner %s", s.ID, s.OwnerID)

	return s.ID, nil
}

func (c *Client) UpdateSessionProgress(ctx context.Context, ownerID, sessionID string, completed int) error {
	key := sessionKey(ownerID, sessionID)

	result := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if result.Error() != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionID, result.Error())
	}

	data, err := result.ToString()
	if err != nil {
		return fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}

	session.CompletedCount = completed

	updated, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", sessionID, err)
	}

	if err := c.client.Do(ctx, c.client.B().Set().Key(key).Value(string(updated)).Build()).Error(); err != nil {
		return fmt.Errorf("failed to update session %s: %w", sessionID, err)
	}

	return nil
}

func (c *Client) CreateRecording(ctx context.Context, rec domain.Recording) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal recording: %w", err)
	}

	key := recordingKeyPrefix + rec.OwnerID + ":" + rec.ID
	if err := c.client.Do(ctx, c.client.B().Set().Key(key).Value(string(data)).Build()).Error(); err != nil {
		return "", fmt.Errorf("failed to store recording: %w", err)
	}

	return rec.ID, nil
}

// ListRecordings returns every recording owned by the given user. Recordings
// reference their session weakly; they survive session deletion.
func (c *Client) ListRecordings(ctx context.Context, ownerID string) ([]domain.Recording, error) {
	pattern := recordingKeyPrefix + ownerID + ":*"

	keys, err := c.scanKeys(ctx, pattern)
	if err != nil {
		return nil, err
	}

	recordings := make([]domain.Recording, 0, len(keys))
	for _, key := range keys {
		result := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
		if result.Error() != nil {
			continue
		}

		data, err := result.ToString()
		if err != nil {
			continue
		}

		var rec domain.Recording
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			logger.Warnf("Skipping undecodable recording at %q: %v", key, err)
			continue
		}

		recordings = append(recordings, rec)
	}

	return recordings, nil
}

// MirrorAttempt appends one attempt record to the owner's per-session list.
func (c *Client) MirrorAttempt(ctx context.Context, ownerID string, rec domain.AttemptRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt: %w", err)
	}

	bucket := unsessionedBucket
	if rec.SessionID != nil && *rec.SessionID != "" {
		bucket = *rec.SessionID
	}

	key := attemptsKeyPrefix + ownerID + ":" + bucket
	err = c.client.Do(ctx, c.client.B().Rpush().Key(key).Element(string(data)).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to mirror attempt: %w", err)
	}

	return nil
}

// ListSessionAttempts returns the mirrored attempts of one session in append
// order.
func (c *Client) ListSessionAttempts(ctx context.Context, ownerID, sessionID string) ([]domain.AttemptRecord, error) {
	key := attemptsKeyPrefix + ownerID + ":" + sessionID

	result := c.client.Do(ctx, c.client.B().Lrange().Key(key).Start(0).Stop(-1).Build())
	if result.Error() != nil {
		return nil, fmt.Errorf("failed to list session attempts: %w", result.Error())
	}

	items, err := result.AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to read session attempts: %w", err)
	}

	records := make([]domain.AttemptRecord, 0, len(items))
	for _, item := range items {
		var rec domain.AttemptRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			logger.Warnf("Skipping undecodable attempt mirror: %v", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func (c *Client) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		result := c.client.Do(ctx, c.client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build())
		if result.Error() != nil {
			return nil, fmt.Errorf("failed to scan store keys: %w", result.Error())
		}

		entry, err := result.AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to parse scan result: %w", err)
		}

		keys = append(keys, entry.Elements...)
		cursor = entry.Cursor

		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

func sessionKey(ownerID, sessionID string) string {
	return sessionKeyPrefix + ownerID + ":" + sessionID
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}
