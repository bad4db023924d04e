package datastore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"nguoisaigon/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUser(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_user_username").IfNotExists().Column("username").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewRaw(`
		alter table "user"
			alter column xp set default 0;
		alter table "user"
			alter column level set default 1;
		alter table "user"
			alter column created_at set default current_timestamp;`).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindUserByID(ctx context.Context, db *bun.DB, userID int64) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db *bun.DB, user *models.User) (*models.User, error) {
	_, err := db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func UpdateUserProfile(ctx context.Context, db *bun.DB, user *models.User) (*models.User, error) {
	_, err := db.NewUpdate().Model(user).
		Set("username = ?", strings.ToLower(user.Username)).
		Set("first_name = ?", user.FirstName).
		Set("last_name = ?", user.LastName).
		Set("photo_url = ?", user.PhotoURL).
		Set("updated_at = ?", time.Now()).
		WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// IncrementUserXP adds value to the user's cumulative xp atomically and
// returns the new total. sql.ErrNoRows means the user does not exist.
func IncrementUserXP(ctx context.Context, tx bun.Tx, userID int64, value int) (int, error) {
	var newXP int
	err := tx.NewUpdate().
		Model((*models.User)(nil)).
		Set("xp = xp + ?", value).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Returning("xp").
		Scan(ctx, &newXP)
	if err != nil {
		return 0, err
	}

	return newXP, nil
}

func UpdateUserLevel(ctx context.Context, tx bun.Tx, userID int64, level int) error {
	_, err := tx.NewUpdate().
		Model((*models.User)(nil)).
		Set("level = ?", level).
		Where("id = ?", userID).
		Where("level < ?", level).
		Exec(ctx)
	return err
}

func CheckUserExists(ctx context.Context, db *bun.DB, userID int64) (bool, error) {
	exists, err := db.NewSelect().Model((*models.User)(nil)).Where("id = ?", userID).Exists(ctx)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return exists, nil
}

func GetUsersByIDs(ctx context.Context, db *bun.DB, userIDs []int64) ([]*models.User, error) {
	var users []*models.User
	err := db.NewSelect().Model(&users).Where("id IN (?)", bun.In(userIDs)).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return users, nil
}
