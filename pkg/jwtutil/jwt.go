package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"jobboard-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
)

// ErrMissingConfig is returned when the utility was built without configuration
var ErrMissingConfig = errors.New("JWT configuration not provided")

// UserClaims represents the JWT claims for a session token
type UserClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *config.JWTConfig
	now    func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(cfg *config.JWTConfig) *JWTUtil {
	return &JWTUtil{
		config: cfg,
		now:    time.Now,
	}
}

// TTL returns how long issued tokens stay valid
func (j *JWTUtil) TTL() time.Duration {
	if j.config == nil {
		return 0
	}
	return time.Duration(j.config.ExpirationHours) * time.Hour
}

// GenerateToken creates a signed token for the given user
func (j *JWTUtil) GenerateToken(userID uint) (string, error) {
	if j.config == nil {
		return "", ErrMissingConfig
	}

	now := j.now()
	claims := UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL())),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	if j.config == nil {
		return nil, ErrMissingConfig
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid && claims.UserID != 0 {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
