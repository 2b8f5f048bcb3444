package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// accessTokenType distinguishes access tokens from any future token kinds
// (refresh, password reset, ...). A token without type "access" never
// authenticates a request.
const accessTokenType = "access"

type AccessClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed access token for the given user id.
func GenerateToken(userID uuid.UUID, secretKey string, expiresIn time.Duration) (string, error) {
	now := time.Now()

	claims := &AccessClaims{
		TokenType: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// ValidateToken verifies signature and expiry and returns the subject
// user id. Expired tokens fail with ErrExpiredToken; every other failure
// (bad signature, wrong signing method, missing subject, wrong token
// type) collapses into ErrInvalidToken.
func ValidateToken(tokenString, secretKey string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&AccessClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secretKey), nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.TokenType != accessTokenType || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
