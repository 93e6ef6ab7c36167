package models

import "time"

// User is a wallet-identified account. Created on first successful signature
// verification; points and streaks are only ever mutated by the scoring engine.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WalletAddress string    `gorm:"uniqueIndex;not null" json:"wallet_address"`
	Username      string    `json:"username"`
	TotalPoints   int       `gorm:"default:0" json:"total_points"`
	CurrentStreak int       `gorm:"default:0" json:"current_streak"`
	LongestStreak int       `gorm:"default:0" json:"longest_streak"`
	CreatedAt     time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Nonce is a single-use login challenge keyed by wallet address. Requesting a
// new nonce replaces the previous one; verification consumes it.
type Nonce struct {
	WalletAddress string    `gorm:"primaryKey" json:"wallet_address"`
	Nonce         string    `gorm:"not null" json:"nonce"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Nonce) TableName() string {
	return "nonces"
}
