package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownAction = errors.New("unknown action")
var ErrUserNotFound = errors.New("user not found")
var ErrCheckInLock = errors.New("check-in locked")

const (
	CONFIG_SERVER_MODE               = "SERVER_MODE"
	CONFIG_CHECKIN_MILESTONE_DAYS    = "CHECKIN_MILESTONE_DAYS"
	CONFIG_OVERALL_LEADERBOARD_LIMIT = "OVERALL_LEADERBOARD_LIMIT"
	CONFIG_WEEKLY_LEADERBOARD_LIMIT  = "WEEKLY_LEADERBOARD_LIMIT"
	CONFIG_CRONJOB_TIME_AUTOMATION   = "CRONJOB_TIME_AUTOMATION"
	CONFIG_CRONJOB_TIME_LEADERBOARD  = "CRONJOB_TIME_LEADERBOARD"
	CONFIG_XP_REVIEW                 = "XP_REVIEW"
	CONFIG_XP_SAVE_LOCATION          = "XP_SAVE_LOCATION"
	CONFIG_XP_SUBMIT_LOCATION        = "XP_SUBMIT_LOCATION"
	CONFIG_XP_DAILY_CHECKIN          = "XP_DAILY_CHECKIN"
	CONFIG_XP_CHECKIN_MILESTONE      = "XP_CHECKIN_MILESTONE"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_STAGING     = "staging"
	SERVER_MODE_PRODUCTION  = "production"

	LEADERBOARD_OVERALL        = "overall"
	LEADERBOARD_OVERALL_WEEKLY = "overall_weekly"

	OVERALL_LEADERBOARD_DEFAULT_LIMIT = 20
	WEEKLY_LEADERBOARD_DEFAULT_LIMIT  = 20

	CHECKIN_MILESTONE_DEFAULT_DAYS = 7

	CHECKIN_RATE_LIMIT_PER_MINUTE = 10

	CACHE_TTL_5_SECONDS = 5 * time.Second
	CACHE_TTL_1_MIN     = 1 * time.Minute
	CACHE_TTL_5_MINS    = 5 * time.Minute
	CACHE_TTL_15_MINS   = 15 * time.Minute
	CACHE_TTL_1_HOUR    = 1 * time.Hour
	CACHE_TTL_1_DAY     = 24 * time.Hour
)

func LockKeyUserCheckIn(userID int64) string {
	return fmt.Sprintf("lock:user-checkin:%d", userID)
}

// db
func DBKeyUser(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func DBKeyMe(userID int64) string {
	return fmt.Sprintf("me:%d", userID)
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyBadgeCatalog() string {
	return "badge:catalog"
}

func DBKeyUserBadges(userID int64) string {
	return fmt.Sprintf("user_badges:%d", userID)
}

func DBKeyUserStreak(userID int64) string {
	return fmt.Sprintf("user_streak:%d", userID)
}

func DBKeyLeaderboardTop(name string, limit int) string {
	return fmt.Sprintf("leaderboard_top:%s:%d", strings.ToLower(name), limit)
}

func LimitKeyUserCheckIn(userID int64) string {
	return fmt.Sprintf("users:checkin:%d", userID)
}
