package redis_store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"nguoisaigon/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func dbKeyLeaderboard(board string) string {
	return fmt.Sprintf("leaderboard:%s", strings.ToLower(board))
}

func dbKeyLastAutomationReport() string {
	return "automation:last_report"
}

func SetLeaderboard(ctx context.Context, cmd redis.Cmdable, board string, v *models.LeaderboardItem) (*models.LeaderboardItem, error) {
	err := cmd.ZAdd(ctx, dbKeyLeaderboard(board), redis.Z{
		Score:  v.Score,
		Member: v.UserID,
	}).Err()

	if err != nil {
		return nil, err
	}

	return v, nil
}

func ClearLeaderboard(ctx context.Context, cmd redis.Cmdable, board string) error {
	err := cmd.Del(ctx, dbKeyLeaderboard(board)).Err()
	if err != nil {
		return err
	}

	return nil
}

func GetLeaderboard(ctx context.Context, cmd redis.Cmdable, board string, num int) ([]*models.LeaderboardItem, error) {
	// num always greater than 0
	items, err := cmd.ZRevRangeWithScores(ctx, dbKeyLeaderboard(board), 0, int64(num-1)).Result()
	if err != nil {
		return nil, err
	}

	var results []*models.LeaderboardItem
	for i, item := range items {
		id, _ := strconv.ParseInt(item.Member.(string), 10, 64)
		results = append(results, &models.LeaderboardItem{
			UserID: id,
			Score:  item.Score,
			Rank:   i + 1,
		})
	}

	return results, nil
}

// GetRank returns the 1-based position of the user on the board, 0 when the
// user is not ranked yet.
func GetRank(ctx context.Context, cmd redis.Cmdable, board string, userID int64) (int, error) {
	rank, err := cmd.ZRevRank(ctx, dbKeyLeaderboard(board), strconv.FormatInt(userID, 10)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return int(rank) + 1, nil
}

func GetScore(ctx context.Context, cmd redis.Cmdable, board string, userID int64) (float64, error) {
	score, err := cmd.ZScore(ctx, dbKeyLeaderboard(board), strconv.FormatInt(userID, 10)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return score, nil
}

func GetLeaderboardParticipantsCount(ctx context.Context, cmd redis.Cmdable, board string) (int64, error) {
	count, err := cmd.ZCard(ctx, dbKeyLeaderboard(board)).Result()
	if err != nil {
		return 0, err
	}

	return count, nil
}

func SetLastAutomationReport(ctx context.Context, cmd redis.Cmdable, report *models.AutomationReport) error {
	b, err := msgpack.Marshal(report)
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyLastAutomationReport(), b, 0).Err()
}

func GetLastAutomationReport(ctx context.Context, cmd redis.Cmdable) (*models.AutomationReport, error) {
	var v *models.AutomationReport
	b, err := cmd.Get(ctx, dbKeyLastAutomationReport()).Bytes()
	if err != nil {
		return nil, err
	}

	err = msgpack.Unmarshal(b, &v)
	return v, err
}
