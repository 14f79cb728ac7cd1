package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

// Deposit is a user-submitted top-up request. It is created pending and only
// credits the balance when staff approves it.
type Deposit struct {
	ID             int64           `gorm:"primaryKey,autoIncrement"`
	UserID         int64           `gorm:"index;not null;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2)"`
	ProofOfPayment string
	IsApproved     bool
	CreatedAt      time.Time
}

// GetUserApprovedDepositTotal sums the deposits that staff already approved.
func GetUserApprovedDepositTotal(tx *gorm.DB, userID int64) (decimal.Decimal, error) {
	if tx == nil {
		tx = db.DB
	}

	var sum sql.NullFloat64
	if err := tx.Model(&Deposit{}).
		Where("user_id = ? AND is_approved = ?", userID, true).
		Select("SUM(amount)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, logger.WrapError(err, "")
	}

	if sum.Valid {
		return decimal.NewFromFloat(sum.Float64), nil
	}

	return decimal.Zero, nil
}
