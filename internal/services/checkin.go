package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"nguoisaigon/internal/datastore"
	"nguoisaigon/internal/interfaces"
	"nguoisaigon/internal/models"
	"nguoisaigon/internal/pkg"
	"nguoisaigon/internal/pkg/caching"

	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type CheckInResult struct {
	AlreadyCheckedIn bool         `json:"already_checked_in"`
	Streak           int          `json:"streak"`
	Day              time.Time    `json:"day"`
	XPResult         *AwardResult `json:"xp_result,omitempty"`
	MilestoneResult  *AwardResult `json:"milestone_result,omitempty"`
	NewBadges        []string     `json:"new_badges"`
	XPError          string       `json:"xp_error,omitempty"`
}

type StreakInfo struct {
	Streak        int `json:"streak"`
	NextMilestone int `json:"next_milestone"`
}

type ServiceCheckin struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	rs                 *redsync.Redsync
	limiter            interfaces.Limiter
	location           *time.Location

	serviceConfig *ServiceConfig
}

func NewServiceCheckin(container *do.Injector) (*ServiceCheckin, error) {
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

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	limiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	// day boundary for streaks; the whole product is HCMC-local
	location, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceCheckin{container, postgresDB, readonlyPostgresDB, cache, readonlyCache, rs, limiter, location, serviceConfig}, nil
}

func (service *ServiceCheckin) Today() time.Time {
	return pkg.DayOf(time.Now(), service.location)
}

// CheckIn records today's visit and extends the streak. The row commit and
// the XP grants are separate steps: once the row exists the check-in counts,
// and a failed grant is reported in XPError so the caller can retry. The
// day-scoped dedupe keys make the retry a pure XP top-up.
func (service *ServiceCheckin) CheckIn(ctx context.Context, userID int64) (*CheckInResult, error) {
	err := service.limiter.Allow(ctx, LimitKeyUserCheckIn(userID), redis_rate.PerMinute(CHECKIN_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		return nil, err
	}

	mutex := service.rs.NewMutex(LockKeyUserCheckIn(userID))
	if err := mutex.Lock(); err != nil {
		return nil, ErrCheckInLock
	}
	defer mutex.Unlock()

	today := service.Today()

	result := &CheckInResult{Day: today, NewBadges: []string{}}

	existing, err := datastore.GetCheckIn(ctx, service.postgresDB, userID, today)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	var yesterday *models.CheckIn
	if existing == nil {
		yesterday, err = datastore.GetCheckIn(ctx, service.postgresDB, userID, pkg.PreviousDay(today))
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
	}

	result.AlreadyCheckedIn, result.Streak = resolveCheckIn(existing, yesterday)

	if !result.AlreadyCheckedIn {
		inserted, err := datastore.InsertCheckIn(ctx, service.postgresDB, &models.CheckIn{
			UserID: userID,
			Day:    today,
			Streak: result.Streak,
		})
		if err != nil {
			return nil, err
		}

		if !inserted {
			row, err := datastore.GetCheckIn(ctx, service.postgresDB, userID, today)
			if err != nil {
				return nil, err
			}
			result.AlreadyCheckedIn = true
			result.Streak = row.Streak
		} else {
			if err := service.cache.Delete(ctx, DBKeyUserStreak(userID)); err != nil {
				log.Println(err)
			}
		}
	}

	service.grantCheckInXP(ctx, userID, today, result)

	return result, nil
}

// grantCheckInXP runs after the check-in row is settled. Day-scoped dedupe
// keys mean a repeated call (same-day retry, double tap) never double-grants.
func (service *ServiceCheckin) grantCheckInXP(ctx context.Context, userID int64, today time.Time, result *CheckInResult) {
	serviceGamification, err := do.Invoke[*ServiceGamification](service.container)
	if err != nil {
		result.XPError = err.Error()
		return
	}

	day := today.Format("2006-01-02")
	metadata := map[string]interface{}{"day": day, "streak": result.Streak}

	actionResult, err := serviceGamification.PerformAction(ctx, userID, models.ACTION_DAILY_CHECKIN, fmt.Sprintf("checkin:%s", day), metadata)
	if err != nil {
		result.XPError = err.Error()
		return
	}
	result.XPResult = actionResult.XPResult
	result.NewBadges = actionResult.NewBadges

	milestone, err := service.serviceConfig.GetIntConfig(ctx, CONFIG_CHECKIN_MILESTONE_DAYS, CHECKIN_MILESTONE_DEFAULT_DAYS)
	if err != nil || milestone <= 0 {
		milestone = CHECKIN_MILESTONE_DEFAULT_DAYS
	}

	if result.Streak%milestone == 0 {
		bonus, err := serviceGamification.AwardXP(ctx, userID, models.ACTION_CHECKIN_MILESTONE, fmt.Sprintf("checkin-milestone:%s", day), metadata)
		if err != nil {
			result.XPError = err.Error()
			return
		}
		result.MilestoneResult = bonus
	}
}

// GetStreak reports the streak as of today: the latest row counts only when
// it is dated today or yesterday, otherwise the chain is broken.
func (service *ServiceCheckin) GetStreak(ctx context.Context, userID int64) (*StreakInfo, error) {
	callback := func() (*StreakInfo, error) {
		streak := 0
		latest, err := datastore.GetLatestCheckIn(ctx, service.readonlyPostgresDB, userID)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}

		today := service.Today()
		if latest != nil {
			day := pkg.DayOf(latest.Day, time.UTC)
			if day.Equal(today) || day.Equal(pkg.PreviousDay(today)) {
				streak = latest.Streak
			}
		}

		milestone, err := service.serviceConfig.GetIntConfig(ctx, CONFIG_CHECKIN_MILESTONE_DAYS, CHECKIN_MILESTONE_DEFAULT_DAYS)
		if err != nil || milestone <= 0 {
			milestone = CHECKIN_MILESTONE_DEFAULT_DAYS
		}

		return &StreakInfo{Streak: streak, NextMilestone: nextMilestone(streak, milestone)}, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserStreak(userID), CACHE_TTL_1_MIN, callback)
}

// resolveCheckIn decides today's outcome from the two adjacent rows: an
// existing today row makes the call a no-op with the stored streak, otherwise
// the streak extends yesterday's count or restarts at 1 after a gap.
func resolveCheckIn(today, yesterday *models.CheckIn) (alreadyCheckedIn bool, streak int) {
	if today != nil {
		return true, today.Streak
	}

	if yesterday != nil {
		return false, yesterday.Streak + 1
	}

	return false, 1
}

func nextMilestone(streak, milestone int) int {
	return (streak/milestone + 1) * milestone
}
