package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	BADGE_FOOD_CRITIC  = "food-critic"
	BADGE_COLLECTOR    = "collector"
	BADGE_PIONEER      = "pioneer"
	BADGE_WEEK_STREAK  = "week-streak"
	BADGE_LOCAL_EXPERT = "local-expert"
	BADGE_TOP_REVIEWER = "top-reviewer"
)

type Badge struct {
	bun.BaseModel `bun:"table:badge"`
	ID            int    `bun:"id,pk" json:"id"`
	Name          string `bun:"name" json:"name"`
	Description   string `bun:"description" json:"description"`
	Icon          string `bun:"icon" json:"icon"`
}

// BadgeCatalog is seeded by cmd/migrate. IDs are stable, never reused.
var BadgeCatalog = []Badge{
	{ID: 1, Name: BADGE_FOOD_CRITIC, Description: "Viết 5 bài review", Icon: "pen"},
	{ID: 2, Name: BADGE_COLLECTOR, Description: "Lưu 10 địa điểm", Icon: "bookmark"},
	{ID: 3, Name: BADGE_PIONEER, Description: "Đóng góp 3 địa điểm mới", Icon: "map-pin"},
	{ID: 4, Name: BADGE_WEEK_STREAK, Description: "Check-in 7 ngày liên tục", Icon: "flame"},
	{ID: 5, Name: BADGE_LOCAL_EXPERT, Description: "Đạt cấp 5", Icon: "star"},
	{ID: 6, Name: BADGE_TOP_REVIEWER, Description: "Viết 25 bài review", Icon: "trophy"},
}

type UserBadge struct {
	bun.BaseModel `bun:"table:user_badge"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64     `bun:"user_id" json:"user_id"`
	BadgeID       int       `bun:"badge_id" json:"badge_id"`
	AwardedAt     time.Time `bun:"awarded_at,default:current_timestamp" json:"awarded_at"`
}
