package season

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestSeasonAt(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want Name
	}{
		{"spring start", date(2025, time.February, 1), Spring},
		{"mid spring", date(2025, time.March, 15), Spring},
		{"moment before summer", date(2025, time.April, 30).Add(23*time.Hour + 59*time.Minute), Spring},
		{"summer start", date(2025, time.May, 1), Summer},
		{"autumn", date(2025, time.September, 9), Autumn},
		{"winter start", date(2025, time.November, 1), Winter},
		{"december", date(2025, time.December, 25), Winter},
		{"january wraps to previous winter", date(2026, time.January, 10), Winter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SeasonAt(tt.at); got != tt.want {
				t.Fatalf("SeasonAt(%s) = %s, want %s", tt.at, got, tt.want)
			}
		})
	}
}

func TestStartAt(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want time.Time
	}{
		{"mid spring", date(2025, time.March, 15), date(2025, time.February, 1)},
		{"winter in december", date(2025, time.December, 25), date(2025, time.November, 1)},
		{"january belongs to previous november", date(2026, time.January, 10), date(2025, time.November, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartAt(tt.at); !got.Equal(tt.want) {
				t.Fatalf("StartAt(%s) = %s, want %s", tt.at, got, tt.want)
			}
		})
	}
}

func TestCurrentAndPreviousBanner(t *testing.T) {
	tests := []struct {
		name         string
		at           time.Time
		wantCurrent  Banner
		wantPrevious Banner
	}{
		{"spring", date(2025, time.February, 2), SpringBanner, WinterBanner},
		{"summer", date(2025, time.June, 1), SummerBanner, SpringBanner},
		{"autumn", date(2025, time.August, 1), AutumnBanner, SummerBanner},
		{"january", date(2026, time.January, 1), WinterBanner, AutumnBanner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentBanner(tt.at); got != tt.wantCurrent {
				t.Fatalf("CurrentBanner() = %s, want %s", got, tt.wantCurrent)
			}
			if got := PreviousBanner(tt.at); got != tt.wantPrevious {
				t.Fatalf("PreviousBanner() = %s, want %s", got, tt.wantPrevious)
			}
		})
	}
}

func TestSeasonByBanner(t *testing.T) {
	name, ok := SeasonByBanner(AutumnBanner)
	if !ok || name != Autumn {
		t.Fatalf("SeasonByBanner(%s) = %s, %t", AutumnBanner, name, ok)
	}
	if _, ok := SeasonByBanner(LifetimeFarmerBanner); ok {
		t.Fatalf("lifetime banner must not resolve to a season")
	}
	if IsSeasonalBanner(LifetimeFarmerBanner) {
		t.Fatalf("lifetime banner must not be seasonal")
	}
	if !IsSeasonalBanner(WinterBanner) {
		t.Fatalf("winter banner must be seasonal")
	}
}

func TestScheduleCoversAllTime(t *testing.T) {
	// Walk a full year day by day: every instant must map to exactly one
	// season and a start at or before the instant.
	at := date(2025, time.January, 1)
	for at.Year() == 2025 {
		name := SeasonAt(at)
		if name == "" {
			t.Fatalf("no season for %s", at)
		}
		if start := StartAt(at); start.After(at) {
			t.Fatalf("season start %s is after %s", start, at)
		}
		at = at.Add(24 * time.Hour)
	}
}
