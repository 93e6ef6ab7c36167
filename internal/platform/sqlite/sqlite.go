package sqlite

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	marketmodels "fatefi-backend/internal/features/market/models"
	predictionmodels "fatefi-backend/internal/features/prediction/models"
	tarotmodels "fatefi-backend/internal/features/tarot/models"
	usermodels "fatefi-backend/internal/features/user/models"
)

// Open opens (and creates if needed) the local sqlite database and migrates
// the schema. WAL keeps the scheduler's writes from blocking request reads.
func Open(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if err := db.AutoMigrate(
		&usermodels.User{},
		&usermodels.Nonce{},
		&tarotmodels.TarotDraw{},
		&predictionmodels.Prediction{},
		&marketmodels.PriceSnapshot{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}
