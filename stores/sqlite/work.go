// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mdhender/ijson/model"
)

const workColumns = `id, document_id, stage, status, attempt, available_at,
	locked_by, locked_at, started_at, finished_at, error_code, error_message`

// InsertWork inserts a Work job and returns its assigned ID.
func (s *SQLiteStore) InsertWork(ctx context.Context, work *model.Work) (int64, error) {
	const query = `
		INSERT INTO work (document_id, stage, status, attempt, available_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		work.DocumentID,
		work.Stage,
		work.Status,
		work.Attempt,
		work.AvailableAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert work: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get work id: %w", err)
	}
	work.ID = id
	return id, nil
}

// ClaimWork atomically claims a queued job for a stage, returning nil if none available.
func (s *SQLiteStore) ClaimWork(ctx context.Context, stage, workerID string) (*model.Work, error) {
	nowStr := time.Now().UTC().Format(time.RFC3339)

	const query = `
		UPDATE work
		SET status = 'running',
		    locked_by = ?,
		    locked_at = ?,
		    started_at = COALESCE(started_at, ?),
		    attempt = attempt + 1
		WHERE id = (
			SELECT id FROM work
			WHERE stage = ?
			  AND status = 'queued'
			  AND available_at <= ?
			ORDER BY available_at, id
			LIMIT 1
		)
		RETURNING ` + workColumns

	work, err := scanWork(s.db.QueryRowContext(ctx, query, workerID, nowStr, nowStr, stage, nowStr))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim work: %w", err)
	}
	return work, nil
}

// FinishWork updates a job's status to ok or failed with optional error info.
func (s *SQLiteStore) FinishWork(ctx context.Context, id int64, status, errorCode, errorMsg string) error {
	const query = `
		UPDATE work
		SET status = ?,
		    finished_at = ?,
		    error_code = ?,
		    error_message = ?,
		    locked_by = NULL,
		    locked_at = NULL
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		status,
		time.Now().UTC().Format(time.RFC3339),
		nullString(errorCode),
		nullString(errorMsg),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish work: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return fmt.Errorf("finish work: %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// ResetFailedWork resets failed jobs for a stage back to queued, returning count reset.
func (s *SQLiteStore) ResetFailedWork(ctx context.Context, stage string) (int, error) {
	const query = `
		UPDATE work
		SET status = 'queued',
		    available_at = ?,
		    locked_by = NULL,
		    locked_at = NULL,
		    finished_at = NULL,
		    error_code = NULL,
		    error_message = NULL
		WHERE stage = ?
		  AND status = 'failed'
	`
	result, err := s.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339), stage)
	if err != nil {
		return 0, fmt.Errorf("reset failed work: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// ResetStaleWork requeues running jobs for a stage that were locked before
// lockedBefore, returning count reset. A job is left running if its worker
// exits before finishing it.
func (s *SQLiteStore) ResetStaleWork(ctx context.Context, stage string, lockedBefore time.Time) (int, error) {
	const query = `
		UPDATE work
		SET status = 'queued',
		    available_at = ?,
		    locked_by = NULL,
		    locked_at = NULL
		WHERE stage = ?
		  AND status = 'running'
		  AND locked_at < ?
	`
	result, err := s.db.ExecContext(ctx, query,
		time.Now().UTC().Format(time.RFC3339),
		stage,
		lockedBefore.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("reset stale work: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// GetFailedWork returns all failed jobs for a stage.
func (s *SQLiteStore) GetFailedWork(ctx context.Context, stage string) ([]model.Work, error) {
	const query = `
		SELECT ` + workColumns + `
		FROM work
		WHERE stage = ?
		  AND status = 'failed'
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, stage)
	if err != nil {
		return nil, fmt.Errorf("get failed work: %w", err)
	}
	defer rows.Close()

	var works []model.Work
	for rows.Next() {
		work, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work: %w", err)
		}
		works = append(works, *work)
	}
	return works, rows.Err()
}

// GetWorkSummary returns work counts grouped by stage and status.
// Returns map[stage]map[status]count.
func (s *SQLiteStore) GetWorkSummary(ctx context.Context) (map[string]map[string]int, error) {
	const query = `
		SELECT stage, status, COUNT(*) as cnt
		FROM work
		GROUP BY stage, status
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get work summary: %w", err)
	}
	defer rows.Close()

	result := make(map[string]map[string]int)
	for rows.Next() {
		var stage, status string
		var cnt int
		if err := rows.Scan(&stage, &status, &cnt); err != nil {
			return nil, fmt.Errorf("scan work summary: %w", err)
		}
		if result[stage] == nil {
			result[stage] = make(map[string]int)
		}
		result[stage][status] = cnt
	}
	return result, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWork(row rowScanner) (*model.Work, error) {
	var w model.Work
	var availableAt string
	var lockedBy, lockedAt, startedAt, finishedAt, errorCode, errorMessage sql.NullString
	if err := row.Scan(
		&w.ID, &w.DocumentID, &w.Stage, &w.Status, &w.Attempt, &availableAt,
		&lockedBy, &lockedAt, &startedAt, &finishedAt, &errorCode, &errorMessage,
	); err != nil {
		return nil, err
	}
	w.AvailableAt = parseTime(availableAt)
	w.LockedBy = nullStringPtr(lockedBy)
	w.LockedAt = parseTimePtr(lockedAt)
	w.StartedAt = parseTimePtr(startedAt)
	w.FinishedAt = parseTimePtr(finishedAt)
	w.ErrorCode = nullStringPtr(errorCode)
	w.ErrorMessage = nullStringPtr(errorMessage)
	return &w, nil
}
