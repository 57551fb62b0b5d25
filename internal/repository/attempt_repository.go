package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
)

// AttemptRepository persists the local attempt log in MySQL. The table is
// append-only; records are never updated.
type AttemptRepository struct {
	db *sqlx.DB
}

func NewAttemptRepository(db *sqlx.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Append(ctx context.Context, rec *domain.AttemptRecord) error {
	query := `
		INSERT INTO attempts (number, channel, status, error_detail, session_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		rec.Number, rec.Channel, rec.Status, rec.ErrorDetail, rec.SessionID, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rec.ID = id

	return nil
}

// List returns attempts in insertion order, newest last. A pageSize of zero
// or less returns the whole log.
func (r *AttemptRepository) List(ctx context.Context, page, pageSize int) ([]domain.AttemptRecord, int64, error) {
	var totalCount int64
	if err := r.db.GetContext(ctx, &totalCount, "SELECT COUNT(*) FROM attempts"); err != nil {
		return nil, 0, fmt.Errorf("failed to count attempts: %w", err)
	}

	var records []domain.AttemptRecord

	if pageSize <= 0 {
		query := `
			SELECT id, number, channel, status, error_detail, session_id, created_at
			FROM attempts
			ORDER BY id ASC
		`
		if err := r.db.SelectContext(ctx, &records, query); err != nil {
			return nil, 0, fmt.Errorf("failed to list attempts: %w", err)
		}
		return records, totalCount, nil
	}

	offset := (page - 1) * pageSize
	query := `
		SELECT id, number, channel, status, error_detail, session_id, created_at
		FROM attempts
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`
	if err := r.db.SelectContext(ctx, &records, query, pageSize, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list attempts: %w", err)
	}

	return records, totalCount, nil
}

// Clear empties the local log. Remote session and recording rows are owned
// by the persistent store and are not reachable from here.
func (r *AttemptRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM attempts"); err != nil {
		return fmt.Errorf("failed to clear attempts: %w", err)
	}
	return nil
}

func (r *AttemptRepository) Stats(ctx context.Context) (domain.AttemptStats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN channel = 'call' AND status <> 'failed' THEN 1 ELSE 0 END), 0)     AS calls,
			COALESCE(SUM(CASE WHEN channel = 'sms' AND status <> 'failed' THEN 1 ELSE 0 END), 0)      AS sms,
			COALESCE(SUM(CASE WHEN channel = 'whatsapp' AND status <> 'failed' THEN 1 ELSE 0 END), 0) AS whatsapp,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)                           AS failed,
			COUNT(*)                                                                                  AS total
		FROM attempts
	`

	var row struct {
		Calls    int64 `db:"calls"`
		SMS      int64 `db:"sms"`
		WhatsApp int64 `db:"whatsapp"`
		Failed   int64 `db:"failed"`
		Total    int64 `db:"total"`
	}

	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return domain.AttemptStats{}, fmt.Errorf("failed to get attempt stats: %w", err)
	}

	return domain.AttemptStats{
		Calls:    row.Calls,
		SMS:      row.SMS,
		WhatsApp: row.WhatsApp,
		Failed:   row.Failed,
		Total:    row.Total,
	}, nil
}
