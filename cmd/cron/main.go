package main

import (
	"database/sql"
	"log"
	"os"

	"nguoisaigon/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
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
		Name: "cronjob",
		Commands: []*cli.Command{
			commandCronjob(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandCronjob() *cli.Command {
	return &cli.Command{
		Name: "cron",
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired(
				"DB_DSN",
				"AUTOMATION_CRAWL_URL",
				"AUTOMATION_ENRICH_URL",
				"AUTOMATION_COLLECTIONS_URL",
				"AUTOMATION_TOKEN",
			)
			if err != nil {
				return err
			}

			postgresDB, err := getDb()
			if err != nil {
				return err
			}
			redisDB, err := getRedis()
			if err != nil {
				return err
			}

			cronRunner := cron.New()

			automationJob := NewAutomationJob(newContainer(vs, redisDB), postgresDB)
			automationJob.Start(cronRunner)

			leaderboardJob := NewLeaderboardJob(redisDB, postgresDB)
			leaderboardJob.Start(cronRunner)

			log.Println("Start cronjob")
			cronRunner.Run()
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

func getRedis() (redis.UniversalClient, error) {
	return db.InitRedis(&db.RedisConfig{
		URL: os.Getenv("REDIS_URL"),
	})
}

// newContainer wires just enough for the automation service; cron jobs talk
// to the datastore directly for everything else.
func newContainer(vs map[string]string, redisDB redis.UniversalClient) *do.Injector {
	injector := do.New()

	do.ProvideNamedValue(injector, "envs", vs)
	do.ProvideNamedValue[redis.UniversalClient](injector, "redis-db", redisDB)

	do.Provide(injector, func(i *do.Injector) (*services.ServiceAutomation, error) {
		return services.NewServiceAutomation(
			injector,
			vs["AUTOMATION_CRAWL_URL"],
			vs["AUTOMATION_ENRICH_URL"],
			vs["AUTOMATION_COLLECTIONS_URL"],
			vs["AUTOMATION_TOKEN"],
		)
	})

	return injector
}
