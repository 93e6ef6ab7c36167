package models

import "time"

const (
	ResultPending   = "pending"
	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
)

// Prediction is a user's single guess for a day's draw. The composite unique
// index carries the one-prediction-per-user-per-draw invariant, including
// under concurrent submissions.
type Prediction struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_user_draw" json:"user_id"`
	TarotDrawID    uint      `gorm:"not null;uniqueIndex:idx_user_draw" json:"tarot_draw_id"`
	PredictionType string    `gorm:"not null;default:direction" json:"prediction_type"`
	SelectedOption string    `gorm:"not null" json:"selected_option"`
	Result         string    `gorm:"not null;default:pending;check:result IN ('pending','correct','incorrect')" json:"result"`
	Score          int       `gorm:"default:0" json:"score"`
	CreatedAt      time.Time `json:"timestamp"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// PredictionWithDraw joins a prediction with its draw for history responses.
type PredictionWithDraw struct {
	Prediction
	CardName    string `json:"card_name"`
	Orientation string `json:"orientation"`
	DrawDate    string `json:"draw_date"`
}
