// Package tracking provides the concrete SQL-based implementation for
// engagement telemetry persistence.
//
// PURPOSE: Store tracking events to database as they arrive
// - every event → interactions table
// - session lifecycle columns → sessions table
//
// Aggregate figures for dashboards are computed here on read; the engine
// itself never touches this layer.
package tracking

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DSR124124/edugen-tracking-go/internal/domain/tracking"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/observability/logging"
	"github.com/DSR124124/edugen-tracking-go/internal/infrastructure/persistence/database"
	"github.com/DSR124124/edugen-tracking-go/pkg/config"
)

const sqliteTimeFormat = "2006-01-02 15:04:05"

// SQLRepository handles engagement telemetry persistence to database.
type SQLRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLRepository creates a new instance of the repository.
func NewSQLRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLRepository {
	return &SQLRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the telemetry tables when they do not exist yet.
func (r *SQLRepository) EnsureSchema() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			material_id INTEGER NOT NULL,
			user_id TEXT NOT NULL,
			status TEXT NOT NULL,
			progress_percentage REAL NOT NULL DEFAULT 0,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			last_event_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_material ON sessions(material_id);

		CREATE TABLE IF NOT EXISTS interactions (
			id TEXT PRIMARY KEY,
			session_id INTEGER,
			material_id INTEGER NOT NULL,
			user_id TEXT NOT NULL,
			action TEXT NOT NULL,
			progress_percentage REAL NOT NULL DEFAULT 0,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			metadata TEXT,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_interactions_session ON interactions(session_id);`

	if _, err := r.db.Exec(schema); err != nil {
		r.logger.Database().Error("Schema creation failed", "error", err.Error())
		return fmt.Errorf("failed to ensure telemetry schema: %w", err)
	}
	return nil
}

// CreateSession inserts a new session row and returns its assigned id.
func (r *SQLRepository) CreateSession(userID string, materialID int64, startedAt time.Time) (int64, error) {
	const query = `
		INSERT INTO sessions (material_id, user_id, status, progress_percentage, duration_seconds, started_at, last_event_at)
		VALUES (?, ?, ?, 0, 0, ?, ?)`

	start := time.Now()
	res, err := r.db.Exec(
		query,
		materialID,
		userID,
		string(tracking.StatusActive),
		startedAt.UTC().Format(sqliteTimeFormat),
		startedAt.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		r.logger.Database().Error("Session insert failed",
			"error", err.Error(),
			"materialId", materialID,
			"userId", userID)
		return 0, fmt.Errorf("failed to create session: %w", err)
	}

	sessionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read session id: %w", err)
	}

	r.logger.Database().Info("Session insert completed",
		"sessionId", sessionID,
		"materialId", materialID,
		"duration", time.Since(start))
	r.checkSlowQuery(query, time.Since(start))
	return sessionID, nil
}

// UpdateSession writes the latest lifecycle columns for a session. Arrival
// order is not guaranteed, so this is plain last-write-wins per column.
func (r *SQLRepository) UpdateSession(sessionID int64, status tracking.Status, progress float64, durationSeconds int64, at time.Time) error {
	const query = `
		UPDATE sessions
		SET status = ?, progress_percentage = ?, duration_seconds = ?, last_event_at = ?
		WHERE id = ?`

	start := time.Now()
	_, err := r.db.Exec(
		query,
		string(status),
		progress,
		durationSeconds,
		at.UTC().Format(sqliteTimeFormat),
		sessionID,
	)
	if err != nil {
		r.logger.Database().Error("Session update failed",
			"error", err.Error(),
			"sessionId", sessionID,
			"status", status)
		return fmt.Errorf("failed to update session: %w", err)
	}

	r.checkSlowQuery(query, time.Since(start))
	return nil
}

// GetSession loads one session row by id.
func (r *SQLRepository) GetSession(sessionID int64) (*tracking.SessionRecord, error) {
	const query = `
		SELECT id, material_id, user_id, status, progress_percentage, duration_seconds, started_at, last_event_at
		FROM sessions
		WHERE id = ?`

	var rec tracking.SessionRecord
	var status, startedAtStr, lastEventAtStr string

	err := r.db.QueryRow(query, sessionID).Scan(
		&rec.ID,
		&rec.MaterialID,
		&rec.UserID,
		&status,
		&rec.ProgressPercentage,
		&rec.DurationSeconds,
		&startedAtStr,
		&lastEventAtStr,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Session query failed", "error", err.Error(), "sessionId", sessionID)
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	rec.Status = tracking.Status(status)
	rec.StartedAt, _ = r.parseTimestamp(startedAtStr)
	rec.LastEventAt, _ = r.parseTimestamp(lastEventAtStr)
	return &rec, nil
}

// StoreInteraction appends one observation row.
func (r *SQLRepository) StoreInteraction(rec *tracking.InteractionRecord) error {
	const query = `
		INSERT INTO interactions (id, session_id, material_id, user_id, action, progress_percentage, duration_seconds, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var metadataJSON any
	if len(rec.Metadata) > 0 {
		raw, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode interaction metadata: %w", err)
		}
		metadataJSON = string(raw)
	}

	start := time.Now()
	r.logger.Database().Debug("Executing interaction insert",
		"interactionId", rec.ID,
		"sessionId", rec.SessionID,
		"materialId", rec.MaterialID,
		"action", rec.Action)

	_, err := r.db.Exec(
		query,
		rec.ID,
		rec.SessionID,
		rec.MaterialID,
		rec.UserID,
		string(rec.Action),
		rec.ProgressPercentage,
		rec.DurationSeconds,
		metadataJSON,
		rec.CreatedAt.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		r.logger.Database().Error("Interaction insert failed",
			"error", err.Error(),
			"interactionId", rec.ID,
			"sessionId", rec.SessionID,
			"action", rec.Action)
		return fmt.Errorf("failed to store interaction: %w", err)
	}

	r.logger.Database().Info("Interaction insert completed",
		"interactionId", rec.ID,
		"sessionId", rec.SessionID,
		"action", rec.Action,
		"duration", time.Since(start))
	r.checkSlowQuery(query, time.Since(start))
	return nil
}

// GetMaterialAnalytics computes the aggregate engagement figures for a material.
func (r *SQLRepository) GetMaterialAnalytics(materialID int64) (*tracking.MaterialAnalytics, error) {
	const query = `
		SELECT
			COUNT(*),
			COUNT(DISTINCT user_id),
			COALESCE(AVG(duration_seconds), 0),
			COALESCE(AVG(CASE WHEN status = 'completed' THEN 1.0 ELSE 0.0 END), 0)
		FROM sessions
		WHERE material_id = ?`

	start := time.Now()
	result := &tracking.MaterialAnalytics{MaterialID: materialID}

	err := r.db.QueryRow(query, materialID).Scan(
		&result.TotalViews,
		&result.UniqueViewers,
		&result.AverageDurationSeconds,
		&result.CompletionRate,
	)
	if err != nil {
		r.logger.Database().Error("Material analytics query failed", "error", err.Error(), "materialId", materialID)
		return nil, fmt.Errorf("failed to query material analytics: %w", err)
	}

	r.checkSlowQuery(query, time.Since(start))
	return result, nil
}

// ListSessionsByMaterial retrieves all sessions recorded for a material.
func (r *SQLRepository) ListSessionsByMaterial(materialID int64) ([]*tracking.SessionRecord, error) {
	const query = `
		SELECT id, material_id, user_id, status, progress_percentage, duration_seconds, started_at, last_event_at
		FROM sessions
		WHERE material_id = ?
		ORDER BY started_at`

	start := time.Now()
	rows, err := r.db.Query(query, materialID)
	if err != nil {
		r.logger.Database().Error("Session list query failed", "error", err.Error(), "materialId", materialID)
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var records []*tracking.SessionRecord
	for rows.Next() {
		var rec tracking.SessionRecord
		var status, startedAtStr, lastEventAtStr string

		err := rows.Scan(
			&rec.ID,
			&rec.MaterialID,
			&rec.UserID,
			&status,
			&rec.ProgressPercentage,
			&rec.DurationSeconds,
			&startedAtStr,
			&lastEventAtStr,
		)
		if err != nil {
			r.logger.Database().Error("Failed to scan session row", "error", err.Error())
			continue
		}

		rec.Status = tracking.Status(status)
		rec.StartedAt, _ = r.parseTimestamp(startedAtStr)
		rec.LastEventAt, _ = r.parseTimestamp(lastEventAtStr)
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Database().Error("Row iteration error for sessions", "error", err.Error())
		return nil, err
	}

	r.checkSlowQuery(query, time.Since(start))
	return records, nil
}

// ListInteractionsBySession retrieves the observation trail of one session.
func (r *SQLRepository) ListInteractionsBySession(sessionID int64) ([]*tracking.InteractionRecord, error) {
	const query = `
		SELECT id, session_id, material_id, user_id, action, progress_percentage, duration_seconds, metadata, created_at
		FROM interactions
		WHERE session_id = ?
		ORDER BY created_at`

	start := time.Now()
	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		r.logger.Database().Error("Interaction list query failed", "error", err.Error(), "sessionId", sessionID)
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var records []*tracking.InteractionRecord
	for rows.Next() {
		var rec tracking.InteractionRecord
		var action, createdAtStr string
		var metadataStr sql.NullString

		err := rows.Scan(
			&rec.ID,
			&rec.SessionID,
			&rec.MaterialID,
			&rec.UserID,
			&action,
			&rec.ProgressPercentage,
			&rec.DurationSeconds,
			&metadataStr,
			&createdAtStr,
		)
		if err != nil {
			r.logger.Database().Error("Failed to scan interaction row", "error", err.Error())
			continue
		}

		rec.Action = tracking.Action(action)
		rec.CreatedAt, _ = r.parseTimestamp(createdAtStr)
		if metadataStr.Valid && metadataStr.String != "" {
			if err := json.Unmarshal([]byte(metadataStr.String), &rec.Metadata); err != nil {
				r.logger.Database().Error("Failed to decode interaction metadata", "error", err.Error(), "interactionId", rec.ID)
			}
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Database().Error("Row iteration error for interactions", "error", err.Error())
		return nil, err
	}

	r.checkSlowQuery(query, time.Since(start))
	return records, nil
}

// parseTimestamp handles multiple timestamp formats
func (r *SQLRepository) parseTimestamp(timestampStr string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, timestampStr); err == nil {
		return t, nil
	}
	if t, err := time.Parse(sqliteTimeFormat, timestampStr); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp format: %s", timestampStr)
}

func (r *SQLRepository) checkSlowQuery(query string, duration time.Duration) {
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}
