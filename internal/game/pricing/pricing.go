// Package pricing computes banner prices as a function of the season
// calendar, elapsed time within the season, and ownership history. All
// arithmetic is exact decimal; prices are currency-like quantities.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/season"
)

const week = 7 * 24 * time.Hour

var (
	lifetimePrice   = decimal.NewFromInt(740)
	earlyBirdPrice  = decimal.NewFromInt(75)
	midSeasonPrice  = decimal.NewFromInt(100)
	lateSeasonPrice = decimal.NewFromInt(80)
	closeoutPrice   = decimal.NewFromInt(60)
	loyaltyDiscount = decimal.NewFromInt(15)
)

// BannerPrice returns the Block Buck price of a banner at the given instant.
//
// The lifetime banner has a fixed price regardless of other inputs. Lifetime
// ownership makes every seasonal banner free. Otherwise the price follows a
// week-bracket schedule from the start of the banner's season, with a loyalty
// discount for owners of the previous season's banner during week 0 only.
func BannerPrice(name season.Banner, hasPreviousBanner, hasLifetimeBanner bool, at time.Time) decimal.Decimal {
	if name == season.LifetimeFarmerBanner {
		return lifetimePrice
	}
	if hasLifetimeBanner {
		return decimal.Zero
	}

	bannerSeason, ok := season.SeasonByBanner(name)
	if !ok {
		// Unknown banners never reach pricing through the engine; validators
		// reject them first. Price as the current season for totality.
		return priceForStart(season.StartAt(at), hasPreviousBanner, at)
	}
	return priceForStart(season.StartOf(bannerSeason, at), hasPreviousBanner, at)
}

func priceForStart(start time.Time, hasPreviousBanner bool, at time.Time) decimal.Decimal {
	weeksElapsed := int(at.Sub(start) / week)

	switch {
	case weeksElapsed < 1:
		if hasPreviousBanner {
			return earlyBirdPrice.Sub(loyaltyDiscount)
		}
		return earlyBirdPrice
	case weeksElapsed < 4:
		return midSeasonPrice
	case weeksElapsed < 8:
		return lateSeasonPrice
	default:
		return closeoutPrice
	}
}
