package pkg

import (
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	hcm, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "midday utc stays same date",
			in:   time.Date(2026, 8, 28, 5, 0, 0, 0, time.UTC),
			want: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			// 18:00 UTC is already 01:00 next day in ICT (UTC+7)
			name: "late utc evening rolls into next local day",
			in:   time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC),
			want: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			// 16:59 UTC is 23:59 ICT, still the same local day
			name: "just before local midnight",
			in:   time.Date(2026, 8, 28, 16, 59, 0, 0, time.UTC),
			want: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			// 17:00 UTC is exactly local midnight
			name: "exactly local midnight",
			in:   time.Date(2026, 8, 28, 17, 0, 0, 0, time.UTC),
			want: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DayOf(tc.in, hcm); !got.Equal(tc.want) {
				t.Fatalf("DayOf(%v) = %v; want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestPreviousDay(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	want := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	if got := PreviousDay(day); !got.Equal(want) {
		t.Fatalf("PreviousDay(%v) = %v; want %v", day, got, want)
	}
}

func TestFirstDayOfWeek(t *testing.T) {
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "monday maps to itself",
			in:   time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC),
			want: monday,
		},
		{
			name: "midweek maps back to monday",
			in:   time.Date(2026, 8, 27, 23, 59, 0, 0, time.UTC),
			want: monday,
		},
		{
			name: "sunday still belongs to the week opened on monday",
			in:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
			want: monday,
		},
		{
			name: "next monday opens a new week",
			in:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FirstDayOfWeek(tc.in)
			if !got.Equal(tc.want) {
				t.Fatalf("FirstDayOfWeek(%v) = %v; want %v", tc.in, got, tc.want)
			}
			if got.Weekday() != time.Monday {
				t.Fatalf("FirstDayOfWeek(%v) = %v; not a Monday", tc.in, got)
			}
		})
	}
}

func TestDayOfConsecutiveDays(t *testing.T) {
	hcm, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		t.Fatal(err)
	}

	dayN := DayOf(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC), hcm)
	dayN1 := DayOf(time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), hcm)
	if !PreviousDay(dayN1).Equal(dayN) {
		t.Fatalf("consecutive days do not link: %v -> %v", dayN, dayN1)
	}
}
