package services

import (
	"context"
	"database/sql"
	"log"

	"nguoisaigon/internal/datastore"
	"nguoisaigon/internal/models"
	"nguoisaigon/internal/pkg/caching"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

const (
	XP_REVIEW_DEFAULT            = 10
	XP_SAVE_LOCATION_DEFAULT     = 5
	XP_SUBMIT_LOCATION_DEFAULT   = 15
	XP_DAILY_CHECKIN_DEFAULT     = 5
	XP_CHECKIN_MILESTONE_DEFAULT = 20
)

// LevelThresholds maps level N to the cumulative xp required to reach it
// (index 0 is level 1). Must stay sorted ascending.
var LevelThresholds = []int{0, 40, 100, 250, 500, 1000, 2000, 5000}

func LevelForXP(xp int) int {
	level := 1
	for i, threshold := range LevelThresholds {
		if xp >= threshold {
			level = i + 1
		}
	}

	return level
}

type AwardResult struct {
	XPAwarded int  `json:"xp_awarded"`
	NewXP     int  `json:"new_xp"`
	LeveledUp bool `json:"leveled_up"`
	NewLevel  int  `json:"new_level"`
	Duplicate bool `json:"duplicate"`
}

type ActionResult struct {
	XPResult  *AwardResult `json:"xp_result"`
	NewBadges []string     `json:"new_badges"`
}

type ServiceGamification struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache

	serviceConfig *ServiceConfig
}

func NewServiceGamification(container *do.Injector) (*ServiceGamification, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceGamification{container, db, postgresDB, readonlyPostgresDB, cache, serviceConfig}, nil
}

func (service *ServiceGamification) XPForAction(ctx context.Context, action string) (int, error) {
	switch action {
	case models.ACTION_REVIEW:
		return service.serviceConfig.GetIntConfig(ctx, CONFIG_XP_REVIEW, XP_REVIEW_DEFAULT)
	case models.ACTION_SAVE_LOCATION:
		return service.serviceConfig.GetIntConfig(ctx, CONFIG_XP_SAVE_LOCATION, XP_SAVE_LOCATION_DEFAULT)
	case models.ACTION_SUBMIT_LOCATION:
		return service.serviceConfig.GetIntConfig(ctx, CONFIG_XP_SUBMIT_LOCATION, XP_SUBMIT_LOCATION_DEFAULT)
	case models.ACTION_DAILY_CHECKIN:
		return service.serviceConfig.GetIntConfig(ctx, CONFIG_XP_DAILY_CHECKIN, XP_DAILY_CHECKIN_DEFAULT)
	case models.ACTION_CHECKIN_MILESTONE:
		return service.serviceConfig.GetIntConfig(ctx, CONFIG_XP_CHECKIN_MILESTONE, XP_CHECKIN_MILESTONE_DEFAULT)
	}

	return 0, ErrUnknownAction
}

// AwardXP appends one ledger entry and bumps the user's cumulative xp and
// level in a single transaction. An empty dedupeKey gets a random one, making
// the grant unconditional; callers that need retry safety pass their own key.
func (service *ServiceGamification) AwardXP(ctx context.Context, userID int64, action string, dedupeKey string, metadata map[string]interface{}) (*AwardResult, error) {
	xp, err := service.XPForAction(ctx, action)
	if err != nil {
		return nil, err
	}

	exists, err := datastore.CheckUserExists(ctx, service.postgresDB, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	if dedupeKey == "" {
		dedupeKey = uuid.NewString()
	}

	var result AwardResult
	err = service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		entry := &models.XpLog{
			UserID:    userID,
			Action:    action,
			XP:        xp,
			DedupeKey: dedupeKey,
			Metadata:  metadata,
		}

		inserted, err := datastore.InsertXpLog(ctx, tx, entry)
		if err != nil {
			return err
		}
		if !inserted {
			result.Duplicate = true
			return nil
		}

		newXP, err := datastore.IncrementUserXP(ctx, tx, userID, xp)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrUserNotFound
			}
			return err
		}

		oldLevel := LevelForXP(newXP - xp)
		newLevel := LevelForXP(newXP)
		if newLevel > oldLevel {
			if err := datastore.UpdateUserLevel(ctx, tx, userID, newLevel); err != nil {
				return err
			}
		}

		result.XPAwarded = xp
		result.NewXP = newXP
		result.LeveledUp = newLevel > oldLevel
		result.NewLevel = newLevel
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Duplicate {
		user, err := datastore.FindUserByID(ctx, service.readonlyPostgresDB, userID)
		if err != nil {
			return nil, err
		}
		result.NewXP = user.XP
		result.NewLevel = user.Level
		return &result, nil
	}

	serviceLeaderboard, err := do.Invoke[*ServiceLeaderboard](service.container)
	if err != nil {
		return nil, err
	}
	if _, err := serviceLeaderboard.UpdateOverallLeaderboard(ctx, userID); err != nil {
		log.Println(err)
	}

	service.clearUserCaches(ctx, userID)

	return &result, nil
}

// PerformAction is the composite award-then-evaluate flow. Badge evaluation
// runs after the award commits; an evaluation failure does not undo the award
// and is only logged, since evaluation is idempotent and re-runnable.
func (service *ServiceGamification) PerformAction(ctx context.Context, userID int64, action string, dedupeKey string, metadata map[string]interface{}) (*ActionResult, error) {
	awardResult, err := service.AwardXP(ctx, userID, action, dedupeKey, metadata)
	if err != nil {
		return nil, err
	}

	newBadges := []string{}
	serviceBadge, err := do.Invoke[*ServiceBadge](service.container)
	if err != nil {
		return nil, err
	}

	badges, err := serviceBadge.Evaluate(ctx, userID)
	if err != nil {
		log.Printf("badge evaluation after %s for user %d failed: %v", action, userID, err)
	} else {
		newBadges = badges
	}

	return &ActionResult{XPResult: awardResult, NewBadges: newBadges}, nil
}

func (service *ServiceGamification) clearUserCaches(ctx context.Context, userID int64) {
	for _, key := range []string{DBKeyUser(userID), DBKeyMe(userID)} {
		if err := service.cache.Delete(ctx, key); err != nil {
			log.Println(err)
		}
	}
}
