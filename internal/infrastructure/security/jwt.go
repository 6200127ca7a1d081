// Package security provides JWT token utilities
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/DSR124124/edugen-tracking-go/internal/domain/user"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateRoleToken creates a JWT carrying the account identity and role.
func GenerateRoleToken(userID string, role user.Role, jwtSecret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"role":   string(role),
		"iat":    time.Now().UTC().Unix(),
		"exp":    time.Now().UTC().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// IdentityFromClaims extracts the account identity and role from JWT claims.
func IdentityFromClaims(claims jwt.MapClaims) (string, user.Role, bool) {
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", "", false
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return "", "", false
	}
	role := user.Role(roleStr)
	if !role.IsValid() {
		return "", "", false
	}
	return userID, role, true
}
