package datastore

import (
	"context"
	"time"

	"nguoisaigon/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableXpLog(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.XpLog)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.XpLog)(nil)).Index("index_xp_log_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.XpLog)(nil)).Index("index_xp_log_user_id_action_dedupe_key").IfNotExists().Unique().Column("user_id", "action", "dedupe_key").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.XpLog)(nil)).Index("index_xp_log_created_at").IfNotExists().Column("created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertXpLog appends a ledger entry. Returns false without error when an
// entry with the same (user, action, dedupe key) already exists.
func InsertXpLog(ctx context.Context, tx bun.Tx, entry *models.XpLog) (bool, error) {
	res, err := tx.NewInsert().Model(entry).On("CONFLICT (user_id, action, dedupe_key) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func CountXpLogByAction(ctx context.Context, db *bun.DB, userID int64, action string) (int, error) {
	count, err := db.NewSelect().Model((*models.XpLog)(nil)).
		Where("user_id = ?", userID).
		Where("action = ?", action).
		Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func GetUserTotalXP(ctx context.Context, db *bun.DB, userID int64) (int, error) {
	var total models.TotalXP
	err := db.NewSelect().
		ColumnExpr("SUM(xp) as total_xp").
		ColumnExpr("user_id").
		TableExpr("xp_log").
		Where("user_id = ?", userID).
		GroupExpr("user_id").
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total.TotalXP, nil
}

func GetUserTotalXPFromTime(ctx context.Context, db *bun.DB, userID int64, from *time.Time) (int, error) {
	var total models.TotalXP
	err := db.NewSelect().
		ColumnExpr("SUM(xp) as total_xp").
		ColumnExpr("user_id").
		TableExpr("xp_log").
		Where("user_id = ?", userID).
		Where("created_at >= ?", from).
		GroupExpr("user_id").
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total.TotalXP, nil
}

func GetUserTotalXPListFromTime(ctx context.Context, db *bun.DB, from *time.Time, limit, offset int) ([]*models.TotalXP, error) {
	var totals []*models.TotalXP
	err := db.NewSelect().
		ColumnExpr("SUM(xp) as total_xp").
		ColumnExpr("user_id").
		TableExpr("xp_log").
		Where("created_at >= ?", from).
		GroupExpr("user_id").
		OrderExpr("total_xp DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx, &totals)
	if err != nil {
		return nil, err
	}

	return totals, nil
}
