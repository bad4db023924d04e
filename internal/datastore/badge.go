package datastore

import (
	"context"

	"nguoisaigon/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableBadge(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Badge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.UserBadge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserBadge)(nil)).Index("index_user_badge_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserBadge)(nil)).Index("index_user_badge_user_id_badge_id").IfNotExists().Unique().Column("user_id", "badge_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func SeedBadges(ctx context.Context, db *bun.DB) error {
	badges := models.BadgeCatalog
	_, err := db.NewInsert().Model(&badges).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	return err
}

func GetAllBadges(ctx context.Context, db *bun.DB) ([]models.Badge, error) {
	var badges []models.Badge
	err := db.NewSelect().Model(&badges).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return badges, nil
}

func GetUserBadges(ctx context.Context, db *bun.DB, userID int64) ([]models.UserBadge, error) {
	var userBadges []models.UserBadge
	err := db.NewSelect().Model(&userBadges).Where("user_id = ?", userID).Order("awarded_at ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return userBadges, nil
}

// AwardBadge inserts a (user, badge) pair. Returns false without error when
// the user already holds the badge; awarding is idempotent by construction.
func AwardBadge(ctx context.Context, db *bun.DB, userBadge *models.UserBadge) (bool, error) {
	res, err := db.NewInsert().Model(userBadge).On("CONFLICT (user_id, badge_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
