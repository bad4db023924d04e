package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"nguoisaigon/internal/datastore"
	"nguoisaigon/internal/models"
	"nguoisaigon/internal/services"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUser(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableXpLog(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableBadge(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableCheckIn(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.SeedBadges(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			log.Println("migration done")
			return nil
		},
	}
}

func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate-config",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configs := []models.Config{
				{Key: services.CONFIG_SERVER_MODE, Value: services.SERVER_MODE_PRODUCTION},
				{Key: services.CONFIG_CHECKIN_MILESTONE_DAYS, Value: "7"},
				{Key: services.CONFIG_OVERALL_LEADERBOARD_LIMIT, Value: "20"},
				{Key: services.CONFIG_WEEKLY_LEADERBOARD_LIMIT, Value: "20"},
				{Key: services.CONFIG_CRONJOB_TIME_AUTOMATION, Value: "0 3 * * *"},
				{Key: services.CONFIG_CRONJOB_TIME_LEADERBOARD, Value: "0 0 * * 1"},
				{Key: services.CONFIG_XP_REVIEW, Value: "10"},
				{Key: services.CONFIG_XP_SAVE_LOCATION, Value: "5"},
				{Key: services.CONFIG_XP_SUBMIT_LOCATION, Value: "15"},
				{Key: services.CONFIG_XP_DAILY_CHECKIN, Value: "5"},
				{Key: services.CONFIG_XP_CHECKIN_MILESTONE, Value: "20"},
			}

			for _, config := range configs {
				err = datastore.InsertConfig(ctx, db, config)
				if err != nil {
					log.Fatal(err)
				}
			}

			log.Println("config migration done")
			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	return bun.NewDB(sqldb, pgdialect.New()), nil
}
