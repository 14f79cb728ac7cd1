package middleware

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	TokenAccess  = "TokenAccess"
	TokenRefresh = "TokenRefresh"
)

const AccessTokenLifetime = 10 * time.Hour

var jwtSecret []byte

func init() {
	secret, ok := os.LookupEnv("JWT_SECRET")
	if !ok {
		secret = "davenport-dev-secret"
	}
	jwtSecret = []byte(secret)
}

type authClaims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func TokenNew(userID int64, tokenType string, lifetime time.Duration) (string, error) {
	claims := authClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func TokenCheck(signedToken string) (int64, string, error) {
	token, err := jwt.ParseWithClaims(signedToken, &authClaims{},
		func(t *jwt.Token) (interface{}, error) { return jwtSecret, nil })
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(*authClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("error parsing claims")
	}

	if claims.UserID == 0 {
		return 0, "", errors.New("malformed token data")
	}

	return claims.UserID, claims.TokenType, nil
}
