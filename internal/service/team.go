package service

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/middleware"
	"github.com/JoelCaquene/davenport-downs/internal/models"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

type teamMember struct {
	UserID      int64  `json:"user_id"`
	PhoneNumber string `json:"phone_number"`
}

type teamLevelGroup struct {
	Name    string       `json:"name"`
	Count   int          `json:"count"`
	Members []teamMember `json:"members"`
}

// GetTeam reports the caller's direct referrals grouped by the level they
// actively hold, with a "Não Investido" bucket for members holding none.
// Read-only; the invite link is built from the user's invite code.
func GetTeam(c *gin.Context) {
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

	var members []models.User
	err = db.DB.Where("invited_by_id = ?", userID).
		Order("created_at DESC").
		Find(&members).Error
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	levels, err := models.GetAllLevels(nil)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	// Active level ids per member, one query for the whole team.
	memberIDs := make([]int64, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}

	type memberLevel struct {
		UserID  int64
		LevelID int64
	}
	var memberLevels []memberLevel
	if len(memberIDs) > 0 {
		err = db.DB.Model(&models.UserLevel{}).
			Select("user_id, level_id").
			Where("user_id IN ? AND is_active = ?", memberIDs, true).
			Scan(&memberLevels).Error
		if err != nil {
			logger.Error("%v", err)
			c.Status(500)
			return
		}
	}

	heldLevels := make(map[int64]map[int64]bool)
	for _, ml := range memberLevels {
		if heldLevels[ml.UserID] == nil {
			heldLevels[ml.UserID] = make(map[int64]bool)
		}
		heldLevels[ml.UserID][ml.LevelID] = true
	}

	totalInvestors := 0
	groups := make([]teamLevelGroup, 0, len(levels)+1)

	var nonInvestors []teamMember
	for _, m := range members {
		if len(heldLevels[m.ID]) == 0 {
			nonInvestors = append(nonInvestors, teamMember{UserID: m.ID, PhoneNumber: m.PhoneNumber})
		}
	}
	groups = append(groups, teamLevelGroup{
		Name:    "Não Investido",
		Count:   len(nonInvestors),
		Members: nonInvestors,
	})

	for _, level := range levels {
		var withLevel []teamMember
		for _, m := range members {
			if heldLevels[m.ID][level.ID] {
				withLevel = append(withLevel, teamMember{UserID: m.ID, PhoneNumber: m.PhoneNumber})
			}
		}
		totalInvestors += len(withLevel)
		groups = append(groups, teamLevelGroup{
			Name:    level.Name,
			Count:   len(withLevel),
			Members: withLevel,
		})
	}

	c.JSON(200, gin.H{
		"team_count":          len(members),
		"levels_data":         groups,
		"total_investors":     totalInvestors,
		"total_non_investors": len(nonInvestors),
		"invite_link":         fmt.Sprintf("%s/signup?invite=%s", inviteBaseURL, user.InviteCode),
		"subsidy_balance":     user.SubsidyBalance,
	})
}
