package services

import (
	"testing"

	"nguoisaigon/internal/models"

	"github.com/stretchr/testify/require"
)

func TestEvaluateWithStats(t *testing.T) {
	cases := []struct {
		name  string
		stats BadgeStats
		want  []string
	}{
		{
			name:  "empty stats earn nothing",
			stats: BadgeStats{Level: 1},
			want:  []string{},
		},
		{
			name:  "five reviews earn exactly food critic",
			stats: BadgeStats{Reviews: 5, Level: 1},
			want:  []string{models.BADGE_FOOD_CRITIC},
		},
		{
			name:  "four reviews earn nothing",
			stats: BadgeStats{Reviews: 4, Level: 1},
			want:  []string{},
		},
		{
			name:  "ten saves earn collector",
			stats: BadgeStats{Saves: 10, Level: 1},
			want:  []string{models.BADGE_COLLECTOR},
		},
		{
			name:  "three submissions earn pioneer",
			stats: BadgeStats{Submissions: 3, Level: 1},
			want:  []string{models.BADGE_PIONEER},
		},
		{
			name:  "seven day streak earns week streak",
			stats: BadgeStats{MaxStreak: 7, Level: 1},
			want:  []string{models.BADGE_WEEK_STREAK},
		},
		{
			name:  "level five earns local expert",
			stats: BadgeStats{Level: 5},
			want:  []string{models.BADGE_LOCAL_EXPERT},
		},
		{
			name:  "twenty five reviews earn both review badges",
			stats: BadgeStats{Reviews: 25, Level: 1},
			want:  []string{models.BADGE_FOOD_CRITIC, models.BADGE_TOP_REVIEWER},
		},
		{
			name:  "power user earns everything",
			stats: BadgeStats{Reviews: 30, Saves: 20, Submissions: 5, MaxStreak: 14, Level: 6},
			want: []string{
				models.BADGE_FOOD_CRITIC,
				models.BADGE_COLLECTOR,
				models.BADGE_PIONEER,
				models.BADGE_WEEK_STREAK,
				models.BADGE_LOCAL_EXPERT,
				models.BADGE_TOP_REVIEWER,
			},
		},
	}

	service := &ServiceBadge{}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := service.EvaluateWithStats(&tc.stats)
			require.Equal(t, tc.want, got)
		})
	}
}

// Once a badge is held it must never be reported again, so a re-evaluation
// with unchanged stats yields nothing new.
func TestPendingBadgesSecondPassIsEmpty(t *testing.T) {
	stats := &BadgeStats{Reviews: 25, MaxStreak: 7, Level: 1}

	first := pendingBadges(stats, nil)
	require.Equal(t, []string{models.BADGE_FOOD_CRITIC, models.BADGE_WEEK_STREAK, models.BADGE_TOP_REVIEWER}, first)

	held := map[string]bool{}
	for _, name := range first {
		held[name] = true
	}
	require.Empty(t, pendingBadges(stats, held))
}

func TestPendingBadgesSkipsHeld(t *testing.T) {
	stats := &BadgeStats{Reviews: 25, Level: 1}
	held := map[string]bool{models.BADGE_FOOD_CRITIC: true}

	require.Equal(t, []string{models.BADGE_TOP_REVIEWER}, pendingBadges(stats, held))
}

func TestBadgeCriteriaCoverCatalog(t *testing.T) {
	names := map[string]bool{}
	for _, badge := range models.BadgeCatalog {
		names[badge.Name] = true
	}

	for _, criterion := range badgeCriteria {
		require.True(t, names[criterion.badgeName], "criterion %q has no catalog entry", criterion.badgeName)
	}
	require.Len(t, badgeCriteria, len(models.BadgeCatalog))
}
