package service

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/middleware"
	"github.com/JoelCaquene/davenport-downs/internal/models"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

// GetDepositInfo returns what the deposit page shows: the platform accounts
// to pay into, the staff instruction text and the distinct level prices.
func GetDepositInfo(c *gin.Context) {
	bankDetails, err := models.GetPlatformBankDetails(nil)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	settings, err := models.GetPlatformSettings(nil)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var levelPrices []decimal.Decimal
	err = db.DB.Model(&models.Level{}).
		Distinct("deposit_value").
		Order("deposit_value").
		Pluck("deposit_value", &levelPrices).Error
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{
		"platform_bank_details": bankDetails,
		"deposit_instruction":   settings.DepositInstruction,
		"level_prices":          levelPrices,
	})
}

type depositInput struct {
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	ProofOfPayment string          `json:"proof_of_payment" validate:"required"`
}

func (i *depositInput) Validate() error {
	validate = validator.New()
	return validate.Struct(i)
}

// CreateDeposit records a pending top-up. Nothing is credited until staff
// approves it.
func CreateDeposit(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var input depositInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Unable to unmarshal body"})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(400, gin.H{"error": "Deposit amount must be positive"})
		return
	}

	deposit := models.Deposit{
		UserID:         userID,
		Amount:         input.Amount,
		ProofOfPayment: input.ProofOfPayment,
	}

	if err := db.DB.Create(&deposit).Error; err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{"message": "Deposit submitted and awaiting approval"})
}

func GetUserDeposits(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var deps []models.Deposit
	err = db.DB.Find(&deps, "user_id = ?", userID).Error
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, deps)
}

// ApproveDeposit credits the depositor at approval time. Approving an
// already-approved deposit is a no-op: the conditional flag flip is the
// arbiter, so two concurrent approvals cannot credit twice.
func ApproveDeposit(c *gin.Context) {
	depositID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid deposit id"})
		return
	}

	errAlreadyApproved := errors.New("deposit already approved")

	var deposit models.Deposit
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deposit, depositID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Deposit{}).
			Where("id = ? AND is_approved = ?", depositID, false).
			Update("is_approved", true)
		if res.Error != nil {
			return logger.WrapError(res.Error, "")
		}
		if res.RowsAffected == 0 {
			return errAlreadyApproved
		}

		if err := models.CreditBalance(tx, deposit.UserID, deposit.Amount); err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(404, gin.H{"error": "Deposit not found"})
		return
	} else if err != nil && errors.Is(err, errAlreadyApproved) {
		// Idempotent: no duplicate credit, same outcome for the caller.
		c.JSON(200, gin.H{"message": "Deposit already approved"})
		return
	} else if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{"message": "Deposit approved and balance credited"})
}
