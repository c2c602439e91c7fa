package utils

import (
	"errors"
	"time"

	"recicleaqui/config"
	"recicleaqui/models"

	"github.com/golang-jwt/jwt"
)

// TokenClaims is what the API reads from a bearer token.
type TokenClaims struct {
	Subject string
	Role    models.Role
}

func secretKey() ([]byte, error) {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}
	return []byte(secret), nil
}

// GenerateToken creates a signed JWT for the given user id and role.
// The token expires after the specified duration.
func GenerateToken(subject string, role models.Role, duration time.Duration) (string, error) {
	key, err := secretKey()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	key, err := secretKey()
	if err != nil {
		return nil, err
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
}

// ParseToken validates tokenString and extracts its subject and role.
func ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	role, _ := claims["role"].(string)

	return &TokenClaims{Subject: sub, Role: models.Role(role)}, nil
}
