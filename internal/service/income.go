package service

import (
	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/middleware"
	"github.com/JoelCaquene/davenport-downs/internal/models"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

// GetIncomeSummary aggregates the dashboard numbers: active level, approved
// deposits, today's task income, approved withdrawals and total income (all
// task earnings plus the subsidy balance). Read-only.
func GetIncomeSummary(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	activeLevel, err := models.GetActiveUserLevel(nil, userID)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	approvedDeposits, err := models.GetUserApprovedDepositTotal(nil, userID)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	dailyIncome, err := models.GetUserTaskEarningsOn(nil, userID, today())
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	totalWithdrawals, err := models.GetUserApprovedWithdrawalTotal(nil, userID)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	totalTaskEarnings, err := models.GetUserTotalTaskEarnings(nil, userID)
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

	resp := gin.H{
		"available_balance":      user.AvailableBalance,
		"subsidy_balance":        user.SubsidyBalance,
		"approved_deposit_total": approvedDeposits,
		"daily_income":           dailyIncome,
		"total_withdrawals":      totalWithdrawals,
		"total_income":           totalTaskEarnings.Add(user.SubsidyBalance),
		"whatsapp_link":          settings.WhatsappLink,
	}
	if activeLevel != nil {
		resp["active_level"] = activeLevel.Level
	}

	c.JSON(200, resp)
}

// About serves the staff-maintained platform history text.
func About(c *gin.Context) {
	settings, err := models.GetPlatformSettings(nil)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{"history_text": settings.HistoryText})
}
