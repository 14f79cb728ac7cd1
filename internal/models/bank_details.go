package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

// BankDetails is where the user wants withdrawals paid. One record per user;
// a withdrawal request without it is rejected.
type BankDetails struct {
	ID            int64  `gorm:"primaryKey,autoIncrement"`
	UserID        int64  `gorm:"uniqueIndex;not null;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	BankName      string
	AccountHolder string
	IBAN          string
	UpdatedAt     time.Time
}

func UserHasBankDetails(tx *gorm.DB, userID int64) (bool, error) {
	if tx == nil {
		tx = db.DB
	}

	var exists bool
	err := tx.Model(&BankDetails{}).
		Select("count(*) > 0").
		Where("user_id = ?", userID).
		Scan(&exists).Error
	if err != nil {
		return false, logger.WrapError(err, "")
	}

	return exists, nil
}
