package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId,omitempty"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entityId,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Recorder appends mutation trails. Failures are logged, never surfaced:
// auditing must not break the operation it describes.
type Recorder struct {
	DB     *pgxpool.Pool
	Logger *slog.Logger
}

func NewRecorder(db *pgxpool.Pool, logger *slog.Logger) *Recorder {
	return &Recorder{DB: db, Logger: logger}
}

func (r *Recorder) Record(ctx context.Context, tenantID, userID, action, entity, entityID string, details map[string]any) {
	var payload []byte
	if details != nil {
		var err error
		payload, err = json.Marshal(details)
		if err != nil {
			r.Logger.Error("audit details not serializable", "action", action, "error", err)
			payload = nil
		}
	}

	_, err := r.DB.Exec(ctx, `
    INSERT INTO audit_log (tenant_id, user_id, action, entity, entity_id, details)
    VALUES ($1,NULLIF($2,'')::uuid,$3,$4,NULLIF($5,'')::uuid,$6)
  `, tenantID, userID, action, entity, entityID, payload)
	if err != nil {
		r.Logger.Error("audit entry not recorded", "action", action, "entity", entity, "error", err)
	}
}

func (r *Recorder) List(ctx context.Context, tenantID, entity string, limit, offset int) ([]Entry, error) {
	rows, err := r.DB.Query(ctx, `
    SELECT id, COALESCE(user_id::text, ''), action, entity, COALESCE(entity_id::text, ''), details, created_at
    FROM audit_log
    WHERE tenant_id = $1 AND ($2 = '' OR entity = $2)
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, tenantID, entity, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var details []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Entity, &e.EntityID, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, nil
}
