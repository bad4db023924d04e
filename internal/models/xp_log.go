package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ACTION_REVIEW            = "review"
	ACTION_SAVE_LOCATION     = "save-location"
	ACTION_SUBMIT_LOCATION   = "submit-location"
	ACTION_DAILY_CHECKIN     = "daily-checkin"
	ACTION_CHECKIN_MILESTONE = "checkin-milestone"
)

// XpLog is append-only. The (user_id, action, dedupe_key) unique index makes
// retries with the same dedupe key a no-op instead of a double grant.
type XpLog struct {
	bun.BaseModel `bun:"table:xp_log"`
	ID            int64                  `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64                  `bun:"user_id" json:"user_id"`
	Action        string                 `bun:"action" json:"action"`
	XP            int                    `bun:"xp" json:"xp"`
	DedupeKey     string                 `bun:"dedupe_key" json:"dedupe_key"`
	Metadata      map[string]interface{} `bun:"metadata,type:jsonb" json:"metadata"`
	CreatedAt     time.Time              `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type TotalXP struct {
	UserID  int64 `json:"user_id"`
	TotalXP int   `json:"total_xp"`
}
