package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/middleware"
	"github.com/JoelCaquene/davenport-downs/internal/models"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

// GetTaskStatus returns what the task page needs: whether the user holds an
// active level and how many tasks are already done today.
func GetTaskStatus(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
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

	completedToday := int64(0)
	if activeLevel != nil {
		completedToday, err = models.CountTasksCompletedOn(nil, userID, today())
		if err != nil {
			logger.Error("%v", err)
			c.Status(500)
			return
		}
	}

	resp := gin.H{
		"has_active_level":     activeLevel != nil,
		"tasks_completed_today": completedToday,
		"max_tasks":            models.MaxTasksPerDay,
	}
	if activeLevel != nil {
		resp["active_level"] = activeLevel.Level
	}

	c.JSON(200, resp)
}

// CompleteTask credits one daily task. The earnings come from the user's
// active level; the referrer, when holding an active level of their own,
// receives the fixed task subsidy in the same transaction.
func CompleteTask(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	errNoActiveLevel := errors.New("no active level")
	errDailyLimitReached := errors.New("daily task limit reached")
	var task models.Task

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		activeLevel, err := models.GetActiveUserLevel(tx, userID)
		if err != nil {
			return logger.WrapError(err, "")
		}
		if activeLevel == nil {
			return errNoActiveLevel
		}

		completedToday, err := models.CountTasksCompletedOn(tx, userID, today())
		if err != nil {
			return logger.WrapError(err, "")
		}
		if completedToday >= models.MaxTasksPerDay {
			return errDailyLimitReached
		}

		task = models.Task{
			UserID:      userID,
			Earnings:    activeLevel.Level.DailyGain,
			TaskDate:    today(),
			CompletedAt: nowFunc(),
		}

		// The unique index on (user_id, task_date) is the real cap; a
		// concurrent completion that slipped past the count shows up here
		// as a duplicated key.
		if err := tx.Create(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDailyLimitReached
			}
			return logger.WrapError(err, "")
		}

		if err := models.CreditBalance(tx, userID, task.Earnings); err != nil {
			return logger.WrapError(err, "")
		}

		if err := payTaskSubsidy(tx, userID); err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil && errors.Is(err, errNoActiveLevel) {
		c.JSON(403, gin.H{"error": "You have no active level to complete tasks", "code": "NoActiveLevel"})
		return
	} else if err != nil && errors.Is(err, errDailyLimitReached) {
		c.JSON(409, gin.H{"error": "You already completed all daily tasks", "code": "DailyLimitReached"})
		return
	} else if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{"daily_gain": task.Earnings})
}

// payTaskSubsidy credits the fixed subsidy to the worker's referrer. The
// subsidy is silent: a referrer without an active level simply gets nothing,
// with no record of the missed payment.
func payTaskSubsidy(tx *gorm.DB, userID int64) error {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		return logger.WrapError(err, "")
	}

	if user.InvitedByID == nil {
		return nil
	}

	referrerActive, err := models.UserHasActiveLevel(tx, *user.InvitedByID)
	if err != nil {
		return logger.WrapError(err, "")
	}
	if !referrerActive {
		return nil
	}

	if err := models.CreditBalanceAndSubsidy(
		tx, *user.InvitedByID, models.TaskReferralSubsidy); err != nil {
		return logger.WrapError(err, "")
	}

	return nil
}
