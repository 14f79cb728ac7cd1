package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

var MinWithdrawalAmount = decimal.NewFromInt(2500)

// Platform statuses are user-facing and kept in Portuguese, as displayed.
const (
	WithdrawalStatusPending  = "Pendente"
	WithdrawalStatusApproved = "Aprovado"
	WithdrawalStatusRejected = "Rejeitado"
)

const DayFormat = "2006-01-02"

// Withdrawal is created already debited from the balance. The partial unique
// index makes the insert itself the one-per-day arbiter: rejected rows drop
// out of the index and free the day again.
type Withdrawal struct {
	ID          int64           `gorm:"primaryKey,autoIncrement"`
	UserID      int64           `gorm:"not null;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;index:idx_withdrawals_user_day,unique,where:status <> 'Rejeitado'"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status      string
	RequestDate string `gorm:"index:idx_withdrawals_user_day,unique,where:status <> 'Rejeitado'"`
	CreatedAt   time.Time
}

// HasWithdrawalToday reports whether a Pendente or Aprovado withdrawal
// already exists for the given platform-local day.
func HasWithdrawalToday(tx *gorm.DB, userID int64, day string) (bool, error) {
	if tx == nil {
		tx = db.DB
	}

	var exists bool
	err := tx.Model(&Withdrawal{}).
		Select("count(*) > 0").
		Where("user_id = ? AND request_date = ? AND status IN ?",
			userID, day, []string{WithdrawalStatusPending, WithdrawalStatusApproved}).
		Scan(&exists).Error
	if err != nil {
		return false, logger.WrapError(err, "")
	}

	return exists, nil
}

func GetUserWithdrawals(tx *gorm.DB, userID int64) ([]Withdrawal, error) {
	if tx == nil {
		tx = db.DB
	}

	var withdrawals []Withdrawal
	err := tx.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&withdrawals).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	return withdrawals, nil
}

func GetUserApprovedWithdrawalTotal(tx *gorm.DB, userID int64) (decimal.Decimal, error) {
	if tx == nil {
		tx = db.DB
	}

	var sum sql.NullFloat64
	if err := tx.Model(&Withdrawal{}).
		Where("user_id = ? AND status = ?", userID, WithdrawalStatusApproved).
		Select("SUM(amount)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, logger.WrapError(err, "")
	}

	if sum.Valid {
		return decimal.NewFromFloat(sum.Float64), nil
	}

	return decimal.Zero, nil
}

// Refund marks the withdrawal rejected and credits the debited amount back,
// in one transaction. The debit happened at request time, so a rejection
// without this compensation would leak the user's money.
func (w *Withdrawal) Refund(tx *gorm.DB) error {
	if tx == nil {
		tx = db.DB
	}

	err := tx.Transaction(func(tx *gorm.DB) error {
		if err := CreditBalance(tx, w.UserID, w.Amount); err != nil {
			return logger.WrapError(err, "")
		}

		w.Status = WithdrawalStatusRejected
		if err := tx.Save(w).Error; err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil {
		return logger.WrapError(err, "")
	}

	logger.Debug("Withdrawal %d rejected and refunded to user %d", w.ID, w.UserID)

	return nil
}
