package models

// Entry is one leaderboard row. Accuracy counts only settled predictions;
// users with nothing settled rank at zero accuracy.
type Entry struct {
	Rank               int     `json:"rank" gorm:"-"`
	UserID             uint    `json:"user_id"`
	WalletAddress      string  `json:"wallet_address"`
	Username           string  `json:"username"`
	TotalPoints        int     `json:"total_points"`
	CurrentStreak      int     `json:"current_streak"`
	LongestStreak      int     `json:"longest_streak"`
	TotalPredictions   int     `json:"total_predictions"`
	CorrectPredictions int     `json:"correct_predictions"`
	Accuracy           float64 `json:"accuracy"`
}
