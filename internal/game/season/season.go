// Package season maps instants to the game's quarterly seasons and their
// purchasable banners. The schedule is static reference data: every instant
// maps to exactly one season, wrapping at year boundaries.
package season

import "time"

// Name identifies one of the four seasons.
type Name string

const (
	Spring Name = "Spring"
	Summer Name = "Summer"
	Autumn Name = "Autumn"
	Winter Name = "Winter"
)

// Banner identifies a purchasable banner item.
type Banner string

// Seasonal banners, one legitimately purchasable per active season.
const (
	SpringBanner Banner = "Spring Banner"
	SummerBanner Banner = "Summer Banner"
	AutumnBanner Banner = "Autumn Banner"
	WinterBanner Banner = "Winter Banner"
)

// LifetimeFarmerBanner is the one-time purchase that waives all future
// seasonal banner prices.
const LifetimeFarmerBanner Banner = "Lifetime Farmer Banner"

// boundary is a season start expressed as a month/day within any year.
type boundary struct {
	name  Name
	month time.Month
	day   int
}

// schedule lists season starts in calendar order. January falls before the
// first boundary and belongs to the previous year's Winter.
var schedule = []boundary{
	{Spring, time.February, 1},
	{Summer, time.May, 1},
	{Autumn, time.August, 1},
	{Winter, time.November, 1},
}

var banners = map[Name]Banner{
	Spring: SpringBanner,
	Summer: SummerBanner,
	Autumn: AutumnBanner,
	Winter: WinterBanner,
}

// SeasonAt returns the season containing the given instant.
func SeasonAt(at time.Time) Name {
	name, _ := seasonAt(at.UTC())
	return name
}

// StartAt returns the start instant of the season containing the given instant.
func StartAt(at time.Time) time.Time {
	_, start := seasonAt(at.UTC())
	return start
}

func seasonAt(at time.Time) (Name, time.Time) {
	year := at.Year()
	for i := len(schedule) - 1; i >= 0; i-- {
		start := startOf(schedule[i], year)
		if !at.Before(start) {
			return schedule[i].name, start
		}
	}
	// Before the first boundary of the year: previous year's final season.
	last := schedule[len(schedule)-1]
	return last.name, startOf(last, year-1)
}

func startOf(b boundary, year int) time.Time {
	return time.Date(year, b.month, b.day, 0, 0, 0, 0, time.UTC)
}

// StartOf returns the start instant of the named season's most recent
// occurrence at or before the given instant.
func StartOf(name Name, at time.Time) time.Time {
	at = at.UTC()
	for year := at.Year(); ; year-- {
		for i := len(schedule) - 1; i >= 0; i-- {
			if schedule[i].name != name {
				continue
			}
			start := startOf(schedule[i], year)
			if !at.Before(start) {
				return start
			}
		}
	}
}

// BannerFor returns the seasonal banner for a season.
func BannerFor(name Name) Banner {
	return banners[name]
}

// SeasonByBanner returns the season a seasonal banner belongs to.
func SeasonByBanner(b Banner) (Name, bool) {
	for name, banner := range banners {
		if banner == b {
			return name, true
		}
	}
	return "", false
}

// IsSeasonalBanner reports whether the banner is a member of the known
// seasonal set. The lifetime banner is not seasonal.
func IsSeasonalBanner(b Banner) bool {
	_, ok := SeasonByBanner(b)
	return ok
}

// CurrentBanner returns the banner purchasable in the season containing the
// given instant.
func CurrentBanner(at time.Time) Banner {
	return BannerFor(SeasonAt(at))
}

// PreviousBanner returns the banner of the season immediately before the one
// containing the given instant, wrapping across the year boundary.
func PreviousBanner(at time.Time) Banner {
	current := SeasonAt(at)
	for i, b := range schedule {
		if b.name == current {
			prev := schedule[(i+len(schedule)-1)%len(schedule)]
			return BannerFor(prev.name)
		}
	}
	return ""
}
