package services

import (
	"context"
	"database/sql"
	"log"

	"nguoisaigon/internal/datastore"
	"nguoisaigon/internal/models"
	"nguoisaigon/internal/pkg/caching"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceUser struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
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

	return &ServiceUser{container, db, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

func (service *ServiceUser) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	callback := func() (*models.User, error) {
		return datastore.FindUserByID(ctx, service.readonlyPostgresDB, userID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUser(userID), CACHE_TTL_5_MINS, callback)
}

// FindOrCreateUser resolves the authenticated identity to a row, creating it
// on first sight and refreshing the profile fields on later logins.
func (service *ServiceUser) FindOrCreateUser(ctx context.Context, auth *models.UserFromAuth) (*models.User, error) {
	user, err := datastore.FindUserByID(ctx, service.postgresDB, auth.ID)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	if err == sql.ErrNoRows {
		user = &models.User{
			ID:        auth.ID,
			Username:  auth.Username,
			FirstName: auth.FirstName,
			LastName:  auth.LastName,
			PhotoURL:  auth.PhotoURL,
			Level:     1,
		}

		user, err = datastore.CreateUser(ctx, service.postgresDB, user)
		if err != nil {
			return nil, err
		}

		user.IsNewUser = true
		return user, nil
	}

	if user.Username != auth.Username || user.FirstName != auth.FirstName || user.LastName != auth.LastName || user.PhotoURL != auth.PhotoURL {
		user.Username = auth.Username
		user.FirstName = auth.FirstName
		user.LastName = auth.LastName
		user.PhotoURL = auth.PhotoURL

		user, err = datastore.UpdateUserProfile(ctx, service.postgresDB, user)
		if err != nil {
			return nil, err
		}

		if err := service.ClearUserCache(ctx, user.ID); err != nil {
			log.Println(err)
		}
	}

	return user, nil
}

// Me assembles the profile view: user row plus badges, current streak and
// overall rank.
func (service *ServiceUser) Me(ctx context.Context, userID int64) (*models.User, error) {
	callback := func() (*models.User, error) {
		user, err := datastore.FindUserByID(ctx, service.readonlyPostgresDB, userID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrUserNotFound
			}
			return nil, err
		}

		serviceBadge, err := do.Invoke[*ServiceBadge](service.container)
		if err != nil {
			return nil, err
		}

		badges, err := serviceBadge.GetUserBadges(ctx, userID)
		if err != nil {
			return nil, err
		}
		user.Badges = badges

		serviceCheckin, err := do.Invoke[*ServiceCheckin](service.container)
		if err != nil {
			return nil, err
		}

		streak, err := serviceCheckin.GetStreak(ctx, userID)
		if err != nil {
			return nil, err
		}
		user.CurrentStreak = streak.Streak

		serviceLeaderboard, err := do.Invoke[*ServiceLeaderboard](service.container)
		if err != nil {
			return nil, err
		}

		rank, err := serviceLeaderboard.GetRank(ctx, userID)
		if err != nil {
			return nil, err
		}
		user.Rank = rank

		return user, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyMe(userID), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceUser) ClearUserCache(ctx context.Context, userID int64) error {
	for _, key := range []string{DBKeyUser(userID), DBKeyMe(userID)} {
		if err := service.cache.Delete(ctx, key); err != nil {
			return err
		}
	}

	return nil
}
