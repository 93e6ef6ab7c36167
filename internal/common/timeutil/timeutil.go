// Package timeutil computes FateFi's market-day boundaries. All daily keys
// (draws, price snapshots) are calendar dates in a single fixed civil
// timezone, independent of server locale.
package timeutil

import (
	"time"
	_ "time/tzdata"
)

const marketTimezone = "Asia/Kolkata"

var marketLocation = mustLoadLocation(marketTimezone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("timeutil: " + err.Error())
	}
	return loc
}

// MarketDate returns the YYYY-MM-DD date string for t in the market timezone.
func MarketDate(t time.Time) string {
	return t.In(marketLocation).Format("2006-01-02")
}

// YesterdayMarketDate returns the date string for 24h before t.
func YesterdayMarketDate(t time.Time) string {
	return MarketDate(t.Add(-24 * time.Hour))
}

// MarketClock returns the wall-clock hour and minute of t in the market timezone.
func MarketClock(t time.Time) (hour, minute int) {
	local := t.In(marketLocation)
	return local.Hour(), local.Minute()
}
