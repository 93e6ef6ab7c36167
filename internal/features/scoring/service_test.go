package scoring

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	predictionmodels "fatefi-backend/internal/features/prediction/models"
	predictiongorm "fatefi-backend/internal/features/prediction/repository/gorm"
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

func seedUser(t *testing.T, db *gorm.DB, points, streak, longest int) *usermodels.User {
	t.Helper()
	user := &usermodels.User{
		WalletAddress: "0x00000000000000000000000000000000000000aa",
		TotalPoints:   points,
		CurrentStreak: streak,
		LongestStreak: longest,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedDraw(t *testing.T, db *gorm.DB, date string) *tarotmodels.TarotDraw {
	t.Helper()
	draw := &tarotmodels.TarotDraw{CardName: "The Sun", Orientation: "upright", Date: date}
	require.NoError(t, db.Create(draw).Error)
	return draw
}

func seedPrediction(t *testing.T, db *gorm.DB, userID, drawID uint, option string) *predictionmodels.Prediction {
	t.Helper()
	prediction := &predictionmodels.Prediction{
		UserID:         userID,
		TarotDrawID:    drawID,
		PredictionType: "direction",
		SelectedOption: option,
	}
	require.NoError(t, db.Create(prediction).Error)
	return prediction
}

func TestScorePredictionCorrectStreakArithmetic(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, predictiongorm.NewPredictionRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, 100, 2, 5)
	draw := seedDraw(t, db, "2024-01-01")
	prediction := seedPrediction(t, db, user.ID, draw.ID, "bullish")

	require.NoError(t, svc.ScorePrediction(ctx, prediction.ID, true))

	var got usermodels.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, 3, got.CurrentStreak)
	require.Equal(t, 5, got.LongestStreak, "longest streak of 5 is not beaten by 3")
	require.Equal(t, 100+PointsCorrect+3*StreakBonus, got.TotalPoints)

	var scored predictionmodels.Prediction
	require.NoError(t, db.First(&scored, prediction.ID).Error)
	require.Equal(t, predictionmodels.ResultCorrect, scored.Result)
	require.Equal(t, PointsCorrect, scored.Score)
}

func TestScorePredictionCorrectExtendsLongestStreak(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, predictiongorm.NewPredictionRepository(db))

	user := seedUser(t, db, 0, 5, 5)
	draw := seedDraw(t, db, "2024-01-01")
	prediction := seedPrediction(t, db, user.ID, draw.ID, "bearish")

	require.NoError(t, svc.ScorePrediction(context.Background(), prediction.ID, true))

	var got usermodels.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, 6, got.CurrentStreak)
	require.Equal(t, 6, got.LongestStreak)
}

func TestScorePredictionIncorrectResetsStreak(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, predictiongorm.NewPredictionRepository(db))

	user := seedUser(t, db, 40, 3, 7)
	draw := seedDraw(t, db, "2024-01-01")
	prediction := seedPrediction(t, db, user.ID, draw.ID, "bullish")

	require.NoError(t, svc.ScorePrediction(context.Background(), prediction.ID, false))

	var got usermodels.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, 0, got.CurrentStreak)
	require.Equal(t, 7, got.LongestStreak)
	require.Equal(t, 40, got.TotalPoints, "a miss awards nothing and removes nothing")

	var scored predictionmodels.Prediction
	require.NoError(t, db.First(&scored, prediction.ID).Error)
	require.Equal(t, predictionmodels.ResultIncorrect, scored.Result)
	require.Equal(t, 0, scored.Score)
}

func TestScorePredictionIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, predictiongorm.NewPredictionRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, 0, 0, 0)
	draw := seedDraw(t, db, "2024-01-01")
	prediction := seedPrediction(t, db, user.ID, draw.ID, "bullish")

	require.NoError(t, svc.ScorePrediction(ctx, prediction.ID, true))
	require.NoError(t, svc.ScorePrediction(ctx, prediction.ID, true))

	var got usermodels.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, 1, got.CurrentStreak)
	require.Equal(t, PointsCorrect+1*StreakBonus, got.TotalPoints, "second call must not award again")
}

func TestScorePredictionMissingIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, predictiongorm.NewPredictionRepository(db))
	require.NoError(t, svc.ScorePrediction(context.Background(), 9999, true))
}

func TestResolveDrawPredictionsOnlyTargetsGivenDraw(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, predictiongorm.NewPredictionRepository(db))
	ctx := context.Background()

	winner := seedUser(t, db, 0, 0, 0)
	loser := &usermodels.User{WalletAddress: "0x00000000000000000000000000000000000000bb"}
	require.NoError(t, db.Create(loser).Error)
	bystander := &usermodels.User{WalletAddress: "0x00000000000000000000000000000000000000cc"}
	require.NoError(t, db.Create(bystander).Error)

	draw := seedDraw(t, db, "2024-01-01")
	otherDraw := seedDraw(t, db, "2024-01-02")

	winning := seedPrediction(t, db, winner.ID, draw.ID, "bullish")
	losing := seedPrediction(t, db, loser.ID, draw.ID, "bearish")
	unrelated := seedPrediction(t, db, bystander.ID, otherDraw.ID, "bullish")

	require.NoError(t, svc.ResolveDrawPredictions(ctx, draw.ID, "bullish"))

	var got predictionmodels.Prediction
	require.NoError(t, db.First(&got, winning.ID).Error)
	require.Equal(t, predictionmodels.ResultCorrect, got.Result)

	got = predictionmodels.Prediction{}
	require.NoError(t, db.First(&got, losing.ID).Error)
	require.Equal(t, predictionmodels.ResultIncorrect, got.Result)

	// A different draw's prediction stays pending even when it picked the
	// same option.
	got = predictionmodels.Prediction{}
	require.NoError(t, db.First(&got, unrelated.ID).Error)
	require.Equal(t, predictionmodels.ResultPending, got.Result)
}
