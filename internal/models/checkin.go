package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CheckIn holds one row per (user, calendar day). Day is a date truncated to
// midnight in the application timezone; the (user_id, day) unique index is
// what makes a same-day retry a no-op.
type CheckIn struct {
	bun.BaseModel `bun:"table:check_in"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64     `bun:"user_id" json:"user_id"`
	Day           time.Time `bun:"day,type:date" json:"day"`
	Streak        int       `bun:"streak" json:"streak"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}
