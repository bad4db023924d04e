package services

import (
	"testing"

	"nguoisaigon/internal/models"
)

// A zero or negative configured limit must never reach the redis range query,
// where it would expand into the whole board.
func TestClampLimit(t *testing.T) {
	cases := []struct {
		limit    int
		fallback int
		want     int
	}{
		{0, OVERALL_LEADERBOARD_DEFAULT_LIMIT, OVERALL_LEADERBOARD_DEFAULT_LIMIT},
		{-1, OVERALL_LEADERBOARD_DEFAULT_LIMIT, OVERALL_LEADERBOARD_DEFAULT_LIMIT},
		{1, OVERALL_LEADERBOARD_DEFAULT_LIMIT, 1},
		{50, WEEKLY_LEADERBOARD_DEFAULT_LIMIT, 50},
	}

	for _, tc := range cases {
		if got := clampLimit(tc.limit, tc.fallback); got != tc.want {
			t.Fatalf("clampLimit(%d, %d) = %d; want %d", tc.limit, tc.fallback, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		user models.User
		want string
	}{
		{models.User{Username: "saigonfoodie", FirstName: "An", LastName: "Nguyen"}, "saigonfoodie"},
		{models.User{FirstName: "An", LastName: "Nguyen"}, "An Nguyen"},
	}

	for _, tc := range cases {
		if got := displayName(&tc.user); got != tc.want {
			t.Fatalf("displayName(%+v) = %q; want %q", tc.user, got, tc.want)
		}
	}
}
