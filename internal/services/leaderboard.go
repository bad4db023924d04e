package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"nguoisaigon/internal/datastore"
	"nguoisaigon/internal/datastore/redis_store"
	"nguoisaigon/internal/models"
	"nguoisaigon/internal/pkg"
	"nguoisaigon/internal/pkg/caching"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceLeaderboard struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	serviceConfig *ServiceConfig
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
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

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLeaderboard{container, db, postgresDB, readonlyPostgresDB, cache, readonlyCache, serviceConfig}, nil
}

func (service *ServiceLeaderboard) GetOverallLeaderboard(ctx context.Context, user *models.User) (*models.LeaderboardResponse, error) {
	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_OVERALL_LEADERBOARD_LIMIT, OVERALL_LEADERBOARD_DEFAULT_LIMIT)
	return service.getLeaderboard(ctx, user, LEADERBOARD_OVERALL, clampLimit(limit, OVERALL_LEADERBOARD_DEFAULT_LIMIT))
}

func (service *ServiceLeaderboard) GetWeeklyOverallLeaderboard(ctx context.Context, user *models.User) (*models.LeaderboardResponse, error) {
	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_WEEKLY_LEADERBOARD_LIMIT, WEEKLY_LEADERBOARD_DEFAULT_LIMIT)
	return service.getLeaderboard(ctx, user, LEADERBOARD_OVERALL_WEEKLY, clampLimit(limit, WEEKLY_LEADERBOARD_DEFAULT_LIMIT))
}

// clampLimit guards the redis range query: a non-positive configured limit
// would otherwise turn into a full-board scan.
func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}

	return limit
}

func (service *ServiceLeaderboard) GetRank(ctx context.Context, userID int64) (int, error) {
	return redis_store.GetRank(ctx, service.redisDB, LEADERBOARD_OVERALL, userID)
}

// UpdateOverallLeaderboard re-scores the user on both boards from the ledger.
// Called after each award; the boards are eventually consistent with xp_log.
func (service *ServiceLeaderboard) UpdateOverallLeaderboard(ctx context.Context, userID int64) (*models.LeaderboardItem, error) {
	total, err := datastore.GetUserTotalXP(ctx, service.postgresDB, userID)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	item, err := redis_store.SetLeaderboard(ctx, service.redisDB, LEADERBOARD_OVERALL, &models.LeaderboardItem{
		UserID: userID,
		Score:  float64(total),
	})
	if err != nil {
		return nil, err
	}

	if _, err := service.updateWeeklyOverallLeaderboard(ctx, userID); err != nil {
		log.Println(err)
	}

	service.clearBoardCaches(ctx, LEADERBOARD_OVERALL)

	return item, nil
}

func (service *ServiceLeaderboard) updateWeeklyOverallLeaderboard(ctx context.Context, userID int64) (*models.LeaderboardItem, error) {
	thisWeek := pkg.GetFirstTimeOfCurrentWeek()
	point, err := datastore.GetUserTotalXPFromTime(ctx, service.postgresDB, userID, &thisWeek)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	item, err := redis_store.SetLeaderboard(ctx, service.redisDB, LEADERBOARD_OVERALL_WEEKLY, &models.LeaderboardItem{
		UserID: userID,
		Score:  float64(point),
	})
	if err != nil {
		return nil, err
	}

	service.clearBoardCaches(ctx, LEADERBOARD_OVERALL_WEEKLY)

	return item, nil
}

// RebuildWeeklyLeaderboard drops and repopulates the weekly board from the
// ledger. Runs from cron right after the week boundary so stale carry-over
// scores from last week disappear.
func (service *ServiceLeaderboard) RebuildWeeklyLeaderboard(ctx context.Context) error {
	if err := redis_store.ClearLeaderboard(ctx, service.redisDB, LEADERBOARD_OVERALL_WEEKLY); err != nil {
		return err
	}

	thisWeek := pkg.GetFirstTimeOfCurrentWeek()
	limit := 500
	offset := 0
	for {
		totals, err := datastore.GetUserTotalXPListFromTime(ctx, service.readonlyPostgresDB, &thisWeek, limit, offset)
		if err != nil {
			return err
		}

		for _, total := range totals {
			_, err := redis_store.SetLeaderboard(ctx, service.redisDB, LEADERBOARD_OVERALL_WEEKLY, &models.LeaderboardItem{
				UserID: total.UserID,
				Score:  float64(total.TotalXP),
			})
			if err != nil {
				return err
			}
		}

		if len(totals) < limit {
			break
		}
		offset += limit
	}

	service.clearBoardCaches(ctx, LEADERBOARD_OVERALL_WEEKLY)

	return nil
}

// getLeaderboard caches the top list per board; the caller's own rank and
// score are read live so the cache key stays user-independent.
func (service *ServiceLeaderboard) getLeaderboard(ctx context.Context, user *models.User, board string, limit int) (*models.LeaderboardResponse, error) {
	callback := func() ([]*models.LeaderboardItem, error) {
		leaderboard, err := redis_store.GetLeaderboard(ctx, service.redisDB, board, limit)
		if err != nil {
			return nil, err
		}

		userIDs := make([]int64, 0, len(leaderboard))
		for _, item := range leaderboard {
			userIDs = append(userIDs, item.UserID)
		}

		if len(userIDs) > 0 {
			users, err := datastore.GetUsersByIDs(ctx, service.readonlyPostgresDB, userIDs)
			if err != nil {
				return nil, err
			}

			names := make(map[int64]string, len(users))
			for _, u := range users {
				names[u.ID] = displayName(u)
			}

			for _, item := range leaderboard {
				item.Username = names[item.UserID]
			}
		}

		return leaderboard, nil
	}

	leaderboard, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLeaderboardTop(board, limit), CACHE_TTL_1_MIN, callback)
	if err != nil {
		return nil, err
	}

	rank, err := redis_store.GetRank(ctx, service.redisDB, board, user.ID)
	if err != nil {
		return nil, err
	}

	score, err := redis_store.GetScore(ctx, service.redisDB, board, user.ID)
	if err != nil {
		return nil, err
	}

	participants, err := redis_store.GetLeaderboardParticipantsCount(ctx, service.redisDB, board)
	if err != nil {
		return nil, err
	}

	return &models.LeaderboardResponse{
		Leaderboard:  leaderboard,
		Participants: participants,
		Me: &models.LeaderboardItem{
			UserID:   user.ID,
			Username: displayName(user),
			Score:    score,
			Rank:     rank,
		},
	}, nil
}

func (service *ServiceLeaderboard) clearBoardCaches(ctx context.Context, board string) {
	for _, limit := range []int{OVERALL_LEADERBOARD_DEFAULT_LIMIT, WEEKLY_LEADERBOARD_DEFAULT_LIMIT} {
		if err := service.cache.Delete(ctx, DBKeyLeaderboardTop(board, limit)); err != nil {
			log.Println(err)
		}
	}
}

func displayName(user *models.User) string {
	if user.Username != "" {
		return user.Username
	}

	return fmt.Sprintf("%s %s", user.FirstName, user.LastName)
}
