package services

import (
	"context"
	"database/sql"
	"log"

	"nguoisaigon/internal/datastore"
	"nguoisaigon/internal/models"
	"nguoisaigon/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// BadgeStats are the five aggregates badge criteria are written against.
type BadgeStats struct {
	Reviews     int
	Saves       int
	Submissions int
	MaxStreak   int
	Level       int
}

type badgeCriterion struct {
	badgeName string
	earned    func(stats *BadgeStats) bool
}

// badgeCriteria is append-only; criteria for already-awarded badges must not
// tighten, awards are never revoked.
var badgeCriteria = []badgeCriterion{
	{models.BADGE_FOOD_CRITIC, func(s *BadgeStats) bool { return s.Reviews >= 5 }},
	{models.BADGE_COLLECTOR, func(s *BadgeStats) bool { return s.Saves >= 10 }},
	{models.BADGE_PIONEER, func(s *BadgeStats) bool { return s.Submissions >= 3 }},
	{models.BADGE_WEEK_STREAK, func(s *BadgeStats) bool { return s.MaxStreak >= 7 }},
	{models.BADGE_LOCAL_EXPERT, func(s *BadgeStats) bool { return s.Level >= 5 }},
	{models.BADGE_TOP_REVIEWER, func(s *BadgeStats) bool { return s.Reviews >= 25 }},
}

type ServiceBadge struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceBadge(container *do.Injector) (*ServiceBadge, error) {
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

	return &ServiceBadge{container, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

func (service *ServiceBadge) GetCatalog(ctx context.Context) ([]models.Badge, error) {
	callback := func() ([]models.Badge, error) {
		return datastore.GetAllBadges(ctx, service.readonlyPostgresDB)
	}

	// static seeded catalog, no replica read needed
	return caching.UseCache(ctx, service.cache, DBKeyBadgeCatalog(), CACHE_TTL_1_HOUR, callback)
}

func (service *ServiceBadge) GetUserBadges(ctx context.Context, userID int64) ([]models.Badge, error) {
	callback := func() ([]models.Badge, error) {
		userBadges, err := datastore.GetUserBadges(ctx, service.readonlyPostgresDB, userID)
		if err != nil {
			return nil, err
		}

		catalog, err := service.GetCatalog(ctx)
		if err != nil {
			return nil, err
		}

		byID := make(map[int]models.Badge, len(catalog))
		for _, badge := range catalog {
			byID[badge.ID] = badge
		}

		badges := []models.Badge{}
		for _, userBadge := range userBadges {
			if badge, ok := byID[userBadge.BadgeID]; ok {
				badges = append(badges, badge)
			}
		}

		return badges, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserBadges(userID), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceBadge) loadStats(ctx context.Context, userID int64) (*BadgeStats, error) {
	user, err := datastore.FindUserByID(ctx, service.readonlyPostgresDB, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	reviews, err := datastore.CountXpLogByAction(ctx, service.readonlyPostgresDB, userID, models.ACTION_REVIEW)
	if err != nil {
		return nil, err
	}

	saves, err := datastore.CountXpLogByAction(ctx, service.readonlyPostgresDB, userID, models.ACTION_SAVE_LOCATION)
	if err != nil {
		return nil, err
	}

	submissions, err := datastore.CountXpLogByAction(ctx, service.readonlyPostgresDB, userID, models.ACTION_SUBMIT_LOCATION)
	if err != nil {
		return nil, err
	}

	maxStreak, err := datastore.GetMaxStreak(ctx, service.readonlyPostgresDB, userID)
	if err != nil {
		return nil, err
	}

	return &BadgeStats{
		Reviews:     reviews,
		Saves:       saves,
		Submissions: submissions,
		MaxStreak:   maxStreak,
		Level:       user.Level,
	}, nil
}

// Evaluate re-reads the user's aggregates and inserts every earned badge the
// user does not hold yet. Returns only the names inserted by this call, so
// concurrent evaluations never report the same badge twice.
func (service *ServiceBadge) Evaluate(ctx context.Context, userID int64) ([]string, error) {
	stats, err := service.loadStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := service.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]string, len(catalog))
	byName := make(map[string]models.Badge, len(catalog))
	for _, badge := range catalog {
		byID[badge.ID] = badge.Name
		byName[badge.Name] = badge
	}

	userBadges, err := datastore.GetUserBadges(ctx, service.readonlyPostgresDB, userID)
	if err != nil {
		return nil, err
	}

	held := make(map[string]bool, len(userBadges))
	for _, userBadge := range userBadges {
		held[byID[userBadge.BadgeID]] = true
	}

	newBadges := []string{}
	for _, name := range pendingBadges(stats, held) {
		badge, ok := byName[name]
		if !ok {
			continue
		}

		// the unique constraint still decides on a stale held set
		awarded, err := datastore.AwardBadge(ctx, service.postgresDB, &models.UserBadge{
			UserID:  userID,
			BadgeID: badge.ID,
		})
		if err != nil {
			return newBadges, err
		}

		if awarded {
			newBadges = append(newBadges, badge.Name)
		}
	}

	if len(newBadges) > 0 {
		if err := service.cache.Delete(ctx, DBKeyUserBadges(userID)); err != nil {
			log.Println(err)
		}
	}

	return newBadges, nil
}

func (service *ServiceBadge) EvaluateWithStats(stats *BadgeStats) []string {
	return pendingBadges(stats, nil)
}

// pendingBadges lists the badges stats earns that held does not contain yet,
// in criteria order.
func pendingBadges(stats *BadgeStats, held map[string]bool) []string {
	pending := []string{}
	for _, criterion := range badgeCriteria {
		if criterion.earned(stats) && !held[criterion.badgeName] {
			pending = append(pending, criterion.badgeName)
		}
	}

	return pending
}
