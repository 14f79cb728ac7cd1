package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

// Holding several levels does not raise the cap.
const MaxTasksPerDay = 1

// Task is one completed daily task. The unique index on (user_id, task_date)
// enforces the daily cap at insert time, so two concurrent completions cannot
// both pass a count check.
type Task struct {
	ID          int64           `gorm:"primaryKey,autoIncrement"`
	UserID      int64           `gorm:"not null;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;uniqueIndex:idx_tasks_user_day"`
	Earnings    decimal.Decimal `gorm:"type:decimal(12,2)"`
	TaskDate    string          `gorm:"uniqueIndex:idx_tasks_user_day"`
	CompletedAt time.Time
}

func CountTasksCompletedOn(tx *gorm.DB, userID int64, day string) (int64, error) {
	if tx == nil {
		tx = db.DB
	}

	var count int64
	err := tx.Model(&Task{}).
		Where("user_id = ? AND task_date = ?", userID, day).
		Count(&count).Error
	if err != nil {
		return 0, logger.WrapError(err, "")
	}

	return count, nil
}

// GetUserTaskEarningsOn sums the task earnings of one platform-local day.
func GetUserTaskEarningsOn(tx *gorm.DB, userID int64, day string) (decimal.Decimal, error) {
	if tx == nil {
		tx = db.DB
	}

	var sum sql.NullFloat64
	if err := tx.Model(&Task{}).
		Where("user_id = ? AND task_date = ?", userID, day).
		Select("SUM(earnings)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, logger.WrapError(err, "")
	}

	if sum.Valid {
		return decimal.NewFromFloat(sum.Float64), nil
	}

	return decimal.Zero, nil
}

func GetUserTotalTaskEarnings(tx *gorm.DB, userID int64) (decimal.Decimal, error) {
	if tx == nil {
		tx = db.DB
	}

	var sum sql.NullFloat64
	if err := tx.Model(&Task{}).
		Where("user_id = ?", userID).
		Select("SUM(earnings)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, logger.WrapError(err, "")
	}

	if sum.Valid {
		return decimal.NewFromFloat(sum.Float64), nil
	}

	return decimal.Zero, nil
}
