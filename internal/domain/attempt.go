package domain

import "time"

// AttemptStatus labels the outcome of one dispatch attempt. The platform
// offers no delivery confirmation for any channel, so there is deliberately
// no "delivered" status.
type AttemptStatus string

const (
	StatusInitiated      AttemptStatus = "initiated"
	StatusSMSSent        AttemptStatus = "sms sent"
	StatusWhatsAppOpened AttemptStatus = "whatsapp opened"
	StatusFailed         AttemptStatus = "failed"
)

// AttemptRecord is one append-only log entry for one dispatch attempt.
// Records are never mutated; a retry produces a new record.
type AttemptRecord struct {
	ID          int64         `db:"id" json:"id,omitempty"`
	Number      string        `db:"number" json:"number"`
	Channel     Channel       `db:"channel" json:"type"`
	Status      AttemptStatus `db:"status" json:"status"`
	ErrorDetail *string       `db:"error_detail" json:"errorDetail,omitempty"`
	SessionID   *string       `db:"session_id" json:"sessionId,omitempty"`
	Timestamp   time.Time     `db:"created_at" json:"timestamp"`
}

// AttemptStats are per-status counts over the local attempt log.
type AttemptStats struct {
	Calls    int64 `json:"calls"`
	SMS      int64 `json:"sms"`
	WhatsApp int64 `json:"whatsapp"`
	Failed   int64 `json:"failed"`
	Total    int64 `json:"total"`
}
