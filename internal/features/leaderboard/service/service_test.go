package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	leaderboardgorm "fatefi-backend/internal/features/leaderboard/repository/gorm"
	predictionmodels "fatefi-backend/internal/features/prediction/models"
	tarotmodels "fatefi-backend/internal/features/tarot/models"
	usermodels "fatefi-backend/internal/features/user/models"
	"fatefi-backend/internal/platform/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func newTestService(t *testing.T, db *gorm.DB) LeaderboardService {
	t.Helper()
	return NewLeaderboardService(leaderboardgorm.NewLeaderboardRepository(db), nil)
}

func seedUser(t *testing.T, db *gorm.DB, wallet string, points, streak int) *usermodels.User {
	t.Helper()
	user := &usermodels.User{WalletAddress: wallet, TotalPoints: points, CurrentStreak: streak}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPredictions(t *testing.T, db *gorm.DB, userID uint, results ...string) {
	t.Helper()
	for _, result := range results {
		draw := &tarotmodels.TarotDraw{CardName: "The Fool", Orientation: "upright", Date: uniqueDate(t)}
		require.NoError(t, db.Create(draw).Error)
		prediction := &predictionmodels.Prediction{
			UserID:         userID,
			TarotDrawID:    draw.ID,
			PredictionType: "direction",
			SelectedOption: "bullish",
			Result:         result,
		}
		require.NoError(t, db.Create(prediction).Error)
	}
}

var dateCounter int

func uniqueDate(t *testing.T) string {
	t.Helper()
	dateCounter++
	return "2024-01-01-" + string(rune('a'+dateCounter%26)) + string(rune('a'+(dateCounter/26)%26))
}

func TestTopOrdersByPointsThenAccuracy(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	low := seedUser(t, db, "0x00000000000000000000000000000000000000aa", 10, 1)
	sharp := seedUser(t, db, "0x00000000000000000000000000000000000000bb", 50, 3)
	sloppy := seedUser(t, db, "0x00000000000000000000000000000000000000cc", 50, 0)

	seedPredictions(t, db, low.ID, predictionmodels.ResultCorrect)
	// Same points; sharp settles 2/2, sloppy 1/2.
	seedPredictions(t, db, sharp.ID, predictionmodels.ResultCorrect, predictionmodels.ResultCorrect)
	seedPredictions(t, db, sloppy.ID, predictionmodels.ResultCorrect, predictionmodels.ResultIncorrect)

	entries, err := svc.Top(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, sharp.WalletAddress, entries[0].WalletAddress)
	assert.Equal(t, sloppy.WalletAddress, entries[1].WalletAddress)
	assert.Equal(t, low.WalletAddress, entries[2].WalletAddress)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 3, entries[2].Rank)

	assert.InDelta(t, 1.0, entries[0].Accuracy, 1e-9)
	assert.InDelta(t, 0.5, entries[1].Accuracy, 1e-9)
}

func TestTopIgnoresPendingForAccuracy(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	user := seedUser(t, db, "0x00000000000000000000000000000000000000aa", 20, 2)
	seedPredictions(t, db, user.ID,
		predictionmodels.ResultCorrect,
		predictionmodels.ResultPending,
		predictionmodels.ResultPending,
	)

	entries, err := svc.Top(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, 1, entries[0].TotalPredictions)
	assert.Equal(t, 1, entries[0].CorrectPredictions)
	assert.InDelta(t, 1.0, entries[0].Accuracy, 1e-9)
}

func TestTopWithNoSettledPredictions(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	seedUser(t, db, "0x00000000000000000000000000000000000000aa", 0, 0)

	entries, err := svc.Top(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Zero(t, entries[0].TotalPredictions)
	assert.Zero(t, entries[0].Accuracy)
}

func TestTopEmptyWhenNoUsers(t *testing.T) {
	svc := newTestService(t, newTestDB(t))

	entries, err := svc.Top(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
