package services

import "testing"

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{10, 1},
		{39, 1},
		{40, 2},
		{99, 2},
		{100, 3},
		{249, 3},
		{250, 4},
		{499, 4},
		{500, 5},
		{1000, 6},
		{2000, 7},
		{4999, 7},
		{5000, 8},
		{999999, 8},
	}

	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.want {
			t.Fatalf("LevelForXP(%d) = %d; want %d", tc.xp, got, tc.want)
		}
	}
}

// Five 10-xp grants: only the grant that crosses the 40 xp threshold reports
// a level-up, and the cumulative total ends at 50.
func TestLevelUpAcrossSequentialGrants(t *testing.T) {
	xp := 0
	levelUps := 0
	for i := 0; i < 5; i++ {
		before := LevelForXP(xp)
		xp += 10
		after := LevelForXP(xp)
		if after > before {
			levelUps++
			if xp != 40 {
				t.Fatalf("leveled up at %d xp; want 40", xp)
			}
			if after != 2 {
				t.Fatalf("new level = %d; want 2", after)
			}
		}
	}

	if xp != 50 {
		t.Fatalf("final xp = %d; want 50", xp)
	}
	if levelUps != 1 {
		t.Fatalf("level ups = %d; want 1", levelUps)
	}
}

func TestLevelThresholdsSorted(t *testing.T) {
	for i := 1; i < len(LevelThresholds); i++ {
		if LevelThresholds[i] <= LevelThresholds[i-1] {
			t.Fatalf("thresholds not strictly increasing at index %d", i)
		}
	}
}
