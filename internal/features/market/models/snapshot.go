package models

import "time"

const (
	OutcomeBullish  = "bullish"
	OutcomeBearish  = "bearish"
	OutcomeVolatile = "high"
)

// PriceSnapshot is the running OHLC aggregate for one market day. Open is set
// on the first observation, high/low/latest track every later one, and
// close/outcome are written exactly once at resolution.
type PriceSnapshot struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Date            string    `gorm:"uniqueIndex;not null" json:"date"`
	OpenPrice       float64   `json:"open_price"`
	HighPrice       float64   `json:"high_price"`
	LowPrice        float64   `json:"low_price"`
	LatestPrice     float64   `json:"latest_price"`
	ClosePrice      *float64  `json:"close_price"`
	Resolved        bool      `gorm:"default:false" json:"resolved"`
	ResolvedOutcome *string   `json:"resolved_outcome"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (PriceSnapshot) TableName() string {
	return "price_snapshots"
}
