package main

import (
	"context"
	"log"
	"time"

	"nguoisaigon/internal/datastore"
	"nguoisaigon/internal/datastore/redis_store"
	"nguoisaigon/internal/models"
	"nguoisaigon/internal/pkg"
	"nguoisaigon/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

type LeaderboardJob struct {
	Redis redis.UniversalClient
	Db    *bun.DB
}

func NewLeaderboardJob(redis redis.UniversalClient, db *bun.DB) *LeaderboardJob {
	return &LeaderboardJob{
		Redis: redis,
		Db:    db,
	}
}

func (j *LeaderboardJob) Start(cronRunner *cron.Cron) {
	timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, services.CONFIG_CRONJOB_TIME_LEADERBOARD)
	if err != nil {
		log.Println(err)
		return
	}

	if timeline == nil || timeline.Value == "" {
		log.Println("No leaderboard timeline found")
		return
	}

	_, err = cronRunner.AddFunc(timeline.Value, j.runScheduledTask)
	log.Println("Leaderboard Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", timeline.Value, err)
	j.initLeaderboards()
}

// runScheduledTask drops last week's scores; the board refills as awards
// come in during the new week.
func (j *LeaderboardJob) runScheduledTask() {
	ctx := context.Background()
	log.Println("Start cleaning weekly leaderboard ...")
	err := redis_store.ClearLeaderboard(ctx, j.Redis, services.LEADERBOARD_OVERALL_WEEKLY)
	if err != nil {
		log.Println(err)
		return
	}
	log.Println("Weekly leaderboard cleaned")
}

// initLeaderboards replays the ledger into both boards on boot so a flushed
// redis recovers without waiting for new awards.
func (j *LeaderboardJob) initLeaderboards() {
	ctx := context.Background()
	limit := 100

	startTimeOfWeek := pkg.GetFirstTimeOfCurrentWeek()
	log.Println("Start loading weekly xp from:", startTimeOfWeek)
	j.loadBoard(ctx, services.LEADERBOARD_OVERALL_WEEKLY, &startTimeOfWeek, limit)

	epoch := time.Time{}
	log.Println("Start loading overall xp")
	j.loadBoard(ctx, services.LEADERBOARD_OVERALL, &epoch, limit)
}

func (j *LeaderboardJob) loadBoard(ctx context.Context, board string, from *time.Time, limit int) {
	offset := 0
	for {
		totals, err := datastore.GetUserTotalXPListFromTime(ctx, j.Db, from, limit, offset)
		offset += limit
		if err != nil {
			log.Println(err)
			break
		}

		if len(totals) == 0 {
			log.Println("Finish loading board:", board)
			break
		}

		for _, total := range totals {
			_, err := redis_store.SetLeaderboard(ctx, j.Redis, board, &models.LeaderboardItem{
				UserID: total.UserID,
				Score:  float64(total.TotalXP),
			})
			if err != nil {
				log.Println(err)
			}
		}
	}
}
