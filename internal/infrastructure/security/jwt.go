package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrNoJWTSecret is returned when token operations run without a configured
// signing secret. An empty HMAC key would verify attacker-signed tokens.
var ErrNoJWTSecret = errors.New("jwt secret is not configured")

// GenerateAdminToken creates a signed session token for the admin surface.
func GenerateAdminToken(jwtSecret string) (string, error) {
	if jwtSecret == "" {
		return "", ErrNoJWTSecret
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  time.Now().UTC().Unix(),
		"exp":  time.Now().UTC().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ValidateJWT validates a JWT token and returns the claims.
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	if jwtSecret == "" {
		return nil, ErrNoJWTSecret
	}

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

// IsAdminClaims reports whether the claims carry the admin role.
func IsAdminClaims(claims jwt.MapClaims) bool {
	role, ok := claims["role"].(string)
	return ok && role == "admin"
}
