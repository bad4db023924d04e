package datastore

import (
	"context"
	"time"

	"nguoisaigon/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableCheckIn(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.CheckIn)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.CheckIn)(nil)).Index("index_check_in_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.CheckIn)(nil)).Index("index_check_in_user_id_day").IfNotExists().Unique().Column("user_id", "day").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetCheckIn(ctx context.Context, db *bun.DB, userID int64, day time.Time) (*models.CheckIn, error) {
	var checkIn models.CheckIn
	err := db.NewSelect().Model(&checkIn).Where("user_id = ?", userID).Where("day = ?", day).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &checkIn, nil
}

// InsertCheckIn inserts today's row. Returns false without error when a row
// for the same (user, day) already exists (lost a race to another request).
func InsertCheckIn(ctx context.Context, db *bun.DB, checkIn *models.CheckIn) (bool, error) {
	res, err := db.NewInsert().Model(checkIn).On("CONFLICT (user_id, day) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func GetMaxStreak(ctx context.Context, db *bun.DB, userID int64) (int, error) {
	var maxStreak int
	err := db.NewSelect().
		ColumnExpr("COALESCE(MAX(streak), 0)").
		TableExpr("check_in").
		Where("user_id = ?", userID).
		Scan(ctx, &maxStreak)
	if err != nil {
		return 0, err
	}

	return maxStreak, nil
}

func GetLatestCheckIn(ctx context.Context, db *bun.DB, userID int64) (*models.CheckIn, error) {
	var checkIn models.CheckIn
	err := db.NewSelect().Model(&checkIn).Where("user_id = ?", userID).Order("day DESC").Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &checkIn, nil
}
