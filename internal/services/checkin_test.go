package services

import (
	"testing"

	"nguoisaigon/internal/models"
)

func TestResolveCheckIn(t *testing.T) {
	cases := []struct {
		name      string
		today     *models.CheckIn
		yesterday *models.CheckIn
		wantNoOp  bool
		want      int
	}{
		{
			name:     "first check-in ever starts at one",
			wantNoOp: false,
			want:     1,
		},
		{
			name:      "consecutive day extends the streak",
			yesterday: &models.CheckIn{Streak: 4},
			wantNoOp:  false,
			want:      5,
		},
		{
			name:     "gap of a day or more restarts at one",
			wantNoOp: false,
			want:     1,
		},
		{
			name:     "second call on the same day keeps the stored streak",
			today:    &models.CheckIn{Streak: 6},
			wantNoOp: true,
			want:     6,
		},
		{
			name:      "same day row wins even with yesterday present",
			today:     &models.CheckIn{Streak: 6},
			yesterday: &models.CheckIn{Streak: 5},
			wantNoOp:  true,
			want:      6,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alreadyCheckedIn, streak := resolveCheckIn(tc.today, tc.yesterday)
			if alreadyCheckedIn != tc.wantNoOp || streak != tc.want {
				t.Fatalf("resolveCheckIn = (%v, %d); want (%v, %d)", alreadyCheckedIn, streak, tc.wantNoOp, tc.want)
			}
		})
	}
}

func TestResolveCheckInDayChain(t *testing.T) {
	// day 1 through 3 without a gap
	_, streak := resolveCheckIn(nil, nil)
	for day := 2; day <= 3; day++ {
		_, streak = resolveCheckIn(nil, &models.CheckIn{Streak: streak})
	}
	if streak != 3 {
		t.Fatalf("streak after three consecutive days = %d; want 3", streak)
	}

	// a skipped day means no yesterday row, back to one
	_, streak = resolveCheckIn(nil, nil)
	if streak != 1 {
		t.Fatalf("streak after a gap = %d; want 1", streak)
	}
}

func TestNextMilestone(t *testing.T) {
	cases := []struct {
		streak    int
		milestone int
		want      int
	}{
		{0, 7, 7},
		{1, 7, 7},
		{6, 7, 7},
		{7, 7, 14},
		{8, 7, 14},
		{13, 7, 14},
		{14, 7, 21},
		{0, 30, 30},
		{29, 30, 30},
	}

	for _, tc := range cases {
		if got := nextMilestone(tc.streak, tc.milestone); got != tc.want {
			t.Fatalf("nextMilestone(%d, %d) = %d; want %d", tc.streak, tc.milestone, got, tc.want)
		}
	}
}
