package service

import (
	"errors"

	"github.com/dchest/uniuri"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/middleware"
	"github.com/JoelCaquene/davenport-downs/internal/models"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

var validate *validator.Validate

const inviteCodeLength = 8

type signUpInput struct {
	PhoneNumber string `json:"phone_number" validate:"required,min=9,max=20"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	InviteCode  string `json:"invite_code"`
}

func (i *signUpInput) Validate() error {
	validate = validator.New()
	return validate.Struct(i)
}

type Token struct {
	AccessToken string `json:"access_token"`
}

// SignUp registers an account with the 1000 KZ starting balance. An invite
// code, when given, must resolve to an existing user and links the referral.
func SignUp(c *gin.Context) {
	var input signUpInput

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Unable to unmarshal body"})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	exists, err := models.CheckIfUserExistsByPhoneNumber(input.PhoneNumber)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}
	if exists {
		c.JSON(409, gin.H{"error": "User with this phone number already exists"})
		return
	}

	hashed, err := middleware.HashPassword(input.Password)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	user := models.User{
		PhoneNumber:      input.PhoneNumber,
		Password:         hashed,
		InviteCode:       uniuri.NewLen(inviteCodeLength),
		AvailableBalance: models.StartingBalance,
	}

	errInvalidInviteCode := errors.New("invalid invite code")

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if input.InviteCode != "" {
			referrer, err := models.GetUserByInviteCode(tx, input.InviteCode)
			if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
				return errInvalidInviteCode
			} else if err != nil {
				return logger.WrapError(err, "")
			}
			user.InvitedByID = &referrer.ID
		}

		if err := tx.Create(&user).Error; err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil && errors.Is(err, errInvalidInviteCode) {
		c.JSON(400, gin.H{"error": "Invalid invite code"})
		return
	} else if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	access, err := middleware.TokenNew(user.ID, middleware.TokenAccess, middleware.AccessTokenLifetime)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, Token{AccessToken: access})
}

type loginInput struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

func (i *loginInput) Validate() error {
	validate = validator.New()
	return validate.Struct(i)
}

func AuthLogin(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Unable to unmarshal body"})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	user, err := models.GetUserWithPassword(input.PhoneNumber)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid phone number or password"})
		return
	}

	if !middleware.ComparePasswords(user.Password, input.Password) {
		c.JSON(400, gin.H{"error": "Invalid phone number or password"})
		return
	}

	access, err := middleware.TokenNew(user.ID, middleware.TokenAccess, middleware.AccessTokenLifetime)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, Token{AccessToken: access})
}

func GetUser(c *gin.Context) {
	var user models.User
	var err error

	user.ID, err = middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	err = db.DB.First(&user, user.ID).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(404, gin.H{"error": "User not found"})
		return
	} else if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, user)
}

type bankDetailsInput struct {
	BankName      string `json:"bank_name" validate:"required"`
	AccountHolder string `json:"account_holder" validate:"required"`
	IBAN          string `json:"iban" validate:"required,min=5"`
}

func (i *bankDetailsInput) Validate() error {
	validate = validator.New()
	return validate.Struct(i)
}

func GetBankDetails(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var details models.BankDetails
	err = db.DB.Where("user_id = ?", userID).First(&details).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(404, gin.H{"error": "No bank details on record"})
		return
	} else if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, details)
}

// UpdateBankDetails creates or replaces the user's payout coordinates.
func UpdateBankDetails(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var input bankDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Unable to unmarshal body"})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var details models.BankDetails
		err := tx.Where("user_id = ?", userID).First(&details).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return logger.WrapError(err, "")
		}

		details.UserID = userID
		details.BankName = input.BankName
		details.AccountHolder = input.AccountHolder
		details.IBAN = input.IBAN

		if err := tx.Save(&details).Error; err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.Status(200)
}
