package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/models"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

// StaffOnlyMiddleware gates the administrative surface (deposit approval,
// withdrawal resolution). Runs after AuthMiddleware.
func StaffOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserIDFromGinContext(c)
		if err != nil {
			logger.Error("%v", err)
			c.AbortWithStatus(500)
			return
		}

		var user models.User
		err = db.DB.First(&user, userID).Error
		if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(401, gin.H{"error": "User not authorized"})
			c.Abort()
			return
		} else if err != nil {
			logger.Error("%v", err)
			c.AbortWithStatus(500)
			return
		}

		if !user.IsStaff {
			c.JSON(403, gin.H{"error": "Forbidden", "code": "Forbidden"})
			c.Abort()
			return
		}

		c.Next()
	}
}
