package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:user"`
	ID            int64     `bun:"id,pk" json:"id"`
	Username      string    `bun:"username" json:"username"`
	FirstName     string    `bun:"first_name" json:"first_name"`
	LastName      string    `bun:"last_name" json:"last_name"`
	PhotoURL      string    `bun:"photo_url" json:"photo_url"`
	XP            int       `bun:"xp" json:"xp"`
	Level         int       `bun:"level" json:"level"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`

	Badges        []Badge `bun:"-" json:"badges"`
	CurrentStreak int     `bun:"-" json:"current_streak"`
	Rank          int     `bun:"-" json:"rank"`
	IsNewUser     bool    `bun:"-" json:"is_new_user"`
}

// UserFromAuth only use in middleware
type UserFromAuth struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
}
