package jwt

import (
	"LiquorStore/models"
	"errors"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"time"
)

var ErrTokenRevoked = errors.New("token revoked")

type Claims struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 session token for an admin.
func GenerateToken(secret []byte, adminID, email string, expiresAt time.Time) (string, error) {
	claims := Claims{
		AdminID: adminID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// VerifyToken checks the signature and expiry, then that the login token row
// still exists (sign-out deletes it).
func VerifyToken(secret []byte, tokenString string, db *gorm.DB) (*Claims, error) {
	claims, err := ParseToken(secret, tokenString)
	if err != nil {
		return nil, err
	}

	var loginToken models.LoginToken
	err = db.Where("token = ?", tokenString).First(&loginToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenRevoked
		}
		return nil, err
	}

	return claims, nil
}
