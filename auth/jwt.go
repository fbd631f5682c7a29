package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wtfTube/errs"
)

// Claims is the access-token payload. Tokens are issued by the external
// credential service; this package only verifies them.
type Claims struct {
	UserID int `json:"uid"`
	jwt.RegisteredClaims
}

// ParseToken verifies an HS256 access token and returns its claims.
func ParseToken(secret, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "Unexpected token signing method.")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "Invalid or expired access token.")
	}
	return claims, nil
}

// SignToken mints an HS256 access token for the given user. Kept for
// local development and tests; production tokens come from the
// credential service.
func SignToken(secret string, userID int, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
