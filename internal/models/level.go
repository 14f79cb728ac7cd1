package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

// Commission paid to the referrer when a referred user buys a level,
// computed on the purchased level's price.
var LevelCommissionRate = decimal.RequireFromString("0.15")

// Level is a purchasable tier. Static reference data, seeded by the migrator
// and managed by staff outside this API.
type Level struct {
	ID           int64           `gorm:"primaryKey,autoIncrement"`
	Name         string          `gorm:"unique"`
	DepositValue decimal.Decimal `gorm:"type:decimal(12,2)"`
	DailyGain    decimal.Decimal `gorm:"type:decimal(12,2)"`
}

// UserLevel is one purchase of a Level by a User. A user may hold several
// active rows at once; there is no uniqueness constraint by design.
type UserLevel struct {
	ID        int64 `gorm:"primaryKey,autoIncrement"`
	UserID    int64 `gorm:"index;not null;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	LevelID   int64 `gorm:"index;not null"`
	Level     Level `gorm:"foreignKey:LevelID"`
	IsActive  bool
	CreatedAt time.Time
}

func GetAllLevels(tx *gorm.DB) ([]Level, error) {
	if tx == nil {
		tx = db.DB
	}

	var levels []Level
	err := tx.Order("deposit_value").Find(&levels).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	return levels, nil
}

// GetActiveUserLevel returns the user's earliest active purchase with its
// Level preloaded, or nil when the user holds no active level. Taking the
// lowest id keeps daily gain deterministic when several rows are active.
func GetActiveUserLevel(tx *gorm.DB, userID int64) (*UserLevel, error) {
	if tx == nil {
		tx = db.DB
	}

	var userLevel UserLevel
	err := tx.Preload("Level").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id").
		First(&userLevel).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, logger.WrapError(err, "")
	}

	return &userLevel, nil
}

func UserHasActiveLevel(tx *gorm.DB, userID int64) (bool, error) {
	if tx == nil {
		tx = db.DB
	}

	var exists bool
	err := tx.Model(&UserLevel{}).
		Select("count(*) > 0").
		Where("user_id = ? AND is_active = ?", userID, true).
		Scan(&exists).Error
	if err != nil {
		return false, logger.WrapError(err, "")
	}

	return exists, nil
}

func UserHoldsLevel(tx *gorm.DB, userID, levelID int64) (bool, error) {
	if tx == nil {
		tx = db.DB
	}

	var exists bool
	err := tx.Model(&UserLevel{}).
		Select("count(*) > 0").
		Where("user_id = ? AND level_id = ? AND is_active = ?", userID, levelID, true).
		Scan(&exists).Error
	if err != nil {
		return false, logger.WrapError(err, "")
	}

	return exists, nil
}

// GetActiveLevelIDs lists the level ids the user actively holds, for the
// level catalog page.
func GetActiveLevelIDs(tx *gorm.DB, userID int64) ([]int64, error) {
	if tx == nil {
		tx = db.DB
	}

	var ids []int64
	err := tx.Model(&UserLevel{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Pluck("level_id", &ids).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	return ids, nil
}
