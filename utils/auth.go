// utils/auth.go
package utils

import (
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/plansapp/plans_backend/middleware"
)

// tokenLifetime matches the session length the mobile clients expect.
const tokenLifetime = 30 * time.Minute

// GenerateToken issues a signed JWT for the given user.
func GenerateToken(userID, email string) (string, error) {
	claims := &middleware.JwtCustomClaims{
		UserID: userID,
		Email:  email,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(tokenLifetime).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(middleware.GetJWTSecret()))
}
