package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fatefi-backend/internal/features/prediction/models"
	predictiongorm "fatefi-backend/internal/features/prediction/repository/gorm"
	tarotmodels "fatefi-backend/internal/features/tarot/models"
	tarotgorm "fatefi-backend/internal/features/tarot/repository/gorm"
	usermodels "fatefi-backend/internal/features/user/models"
	"fatefi-backend/internal/platform/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *predictionService {
	t.Helper()
	svc := NewPredictionService(
		predictiongorm.NewPredictionRepository(db),
		tarotgorm.NewTarotRepository(db),
	).(*predictionService)
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func seedUser(t *testing.T, db *gorm.DB, wallet string) *usermodels.User {
	t.Helper()
	user := &usermodels.User{WalletAddress: wallet}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTodayDraw(t *testing.T, db *gorm.DB) *tarotmodels.TarotDraw {
	t.Helper()
	draw := &tarotmodels.TarotDraw{CardName: "The Sun", Orientation: "upright", Date: "2024-01-01"}
	require.NoError(t, db.Create(draw).Error)
	return draw
}

func TestSubmitStoresPendingPrediction(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "0x00000000000000000000000000000000000000aa")
	draw := seedTodayDraw(t, db)

	prediction, err := svc.Submit(context.Background(), user.ID, "", "bullish")
	require.NoError(t, err)
	assert.Equal(t, draw.ID, prediction.TarotDrawID)
	assert.Equal(t, "direction", prediction.PredictionType)
	assert.Equal(t, "bullish", prediction.SelectedOption)
	assert.Equal(t, models.ResultPending, prediction.Result)
	assert.Equal(t, 0, prediction.Score)
}

func TestSubmitRejectsUnknownOption(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "0x00000000000000000000000000000000000000aa")
	seedTodayDraw(t, db)

	_, err := svc.Submit(context.Background(), user.ID, "", "sideways")
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestSubmitRequiresTodayDraw(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "0x00000000000000000000000000000000000000aa")

	_, err := svc.Submit(context.Background(), user.ID, "", "bearish")
	assert.ErrorIs(t, err, ErrNoDrawToday)
}

func TestSubmitRejectsDuplicateAndKeepsFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	user := seedUser(t, db, "0x00000000000000000000000000000000000000aa")
	seedTodayDraw(t, db)

	first, err := svc.Submit(ctx, user.ID, "", "bullish")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, user.ID, "", "bearish")
	assert.ErrorIs(t, err, ErrDuplicate)

	// The stored option is untouched by the rejected second submission.
	stored, err := svc.Today(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "bullish", stored.SelectedOption)

	var count int64
	require.NoError(t, db.Model(&models.Prediction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitAllowsDifferentUsersSameDraw(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	alice := seedUser(t, db, "0x00000000000000000000000000000000000000aa")
	bob := seedUser(t, db, "0x00000000000000000000000000000000000000bb")
	seedTodayDraw(t, db)

	_, err := svc.Submit(ctx, alice.ID, "", "bullish")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, bob.ID, "", "bullish")
	require.NoError(t, err)
}

func TestTodayWithoutPredictionReturnsNil(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	user := seedUser(t, db, "0x00000000000000000000000000000000000000aa")
	seedTodayDraw(t, db)

	prediction, err := svc.Today(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, prediction)
}

func TestMineJoinsDrawInfo(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	user := seedUser(t, db, "0x00000000000000000000000000000000000000aa")
	draw := seedTodayDraw(t, db)

	_, err := svc.Submit(ctx, user.ID, "", "high")
	require.NoError(t, err)

	mine, err := svc.Mine(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, draw.CardName, mine[0].CardName)
	assert.Equal(t, draw.Date, mine[0].DrawDate)
	assert.Equal(t, "high", mine[0].SelectedOption)
}
