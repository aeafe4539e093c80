package store

import (
	"LiquorStore/jwt"
	"LiquorStore/models"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

const minPasswordLength = 8

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Accounts signs administrators in and out. A session is a signed token plus
// a login_tokens row; signing out deletes the row.
type Accounts struct {
	db       *gorm.DB
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAccounts(db *gorm.DB, secret []byte, tokenTTL time.Duration) *Accounts {
	return &Accounts{db: db, secret: secret, tokenTTL: tokenTTL, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Accounts) CreateAdmin(ctx context.Context, email, password string) (models.AdminUser, error) {
	email = normalizeEmail(email)
	if !ValidateEmail(email) {
		return models.AdminUser{}, fmt.Errorf("%w: malformed email %q", ErrInvalidInput, email)
	}
	if len(password) < minPasswordLength {
		return models.AdminUser{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.AdminUser{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return models.AdminUser{}, fmt.Errorf("check admin email: %w", err)
	}
	if count > 0 {
		return models.AdminUser{}, ErrAdminExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.AdminUser{}, fmt.Errorf("hash password: %w", err)
	}
	admin := models.AdminUser{Email: email, Password: string(hashedPassword)}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return models.AdminUser{}, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// SignIn checks the credentials and returns a fresh session token. Unknown
// email and wrong password produce the same ErrInvalidCredentials.
func (s *Accounts) SignIn(ctx context.Context, email, password string) (string, models.AdminUser, error) {
	var admin models.AdminUser
	err := s.db.WithContext(ctx).First(&admin, "email = ?", normalizeEmail(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.AdminUser{}, ErrInvalidCredentials
		}
		return "", models.AdminUser{}, fmt.Errorf("find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return "", models.AdminUser{}, ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.tokenTTL)
	token, err := jwt.GenerateToken(s.secret, admin.ID, admin.Email, expiresAt)
	if err != nil {
		return "", models.AdminUser{}, fmt.Errorf("sign token: %w", err)
	}

	loginToken := models.LoginToken{
		Token:          token,
		ExpirationTime: expiresAt,
		AdminID:        admin.ID,
		Email:          admin.Email,
	}
	if err := s.db.WithContext(ctx).Create(&loginToken).Error; err != nil {
		return "", models.AdminUser{}, fmt.Errorf("store login token: %w", err)
	}
	return token, admin, nil
}

func (s *Accounts) SignOut(ctx context.Context, token string) error {
	res := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.LoginToken{})
	if res.Error != nil {
		return fmt.Errorf("delete login token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotSignedIn
	}
	return nil
}

// Verify resolves a bearer token to its claims, rejecting signed-out tokens.
func (s *Accounts) Verify(ctx context.Context, token string) (*jwt.Claims, error) {
	return jwt.VerifyToken(s.secret, token, s.db.WithContext(ctx))
}

// PurgeExpiredTokens removes login rows whose token has already expired.
func (s *Accounts) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Unscoped().
		Where("expiration_time < ?", s.now()).
		Delete(&models.LoginToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge login tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
