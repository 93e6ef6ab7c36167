package models

import "time"

const (
	OrientationUpright  = "upright"
	OrientationReversed = "reversed"
)

// TarotDraw is the one card assigned to a calendar date. The date string is
// the natural key; the interpretation is back-filled after creation.
type TarotDraw struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CardName         string    `gorm:"not null" json:"card_name"`
	Orientation      string    `gorm:"not null;check:orientation IN ('upright','reversed')" json:"orientation"`
	Date             string    `gorm:"uniqueIndex;not null" json:"date"`
	AIInterpretation *string   `json:"ai_interpretation"`
	CreatedAt        time.Time `json:"created_at"`
}

func (TarotDraw) TableName() string {
	return "tarot_draws"
}
