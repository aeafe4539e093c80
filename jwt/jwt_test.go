package jwt

import (
	"LiquorStore/models"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var secret = []byte("test-secret")

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.LoginToken{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken(secret, "admin-1", "a@example.com", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if claims.AdminID != "admin-1" || claims.Email != "a@example.com" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseRejectsWrongSecretAndExpiry(t *testing.T) {
	token, _ := GenerateToken(secret, "admin-1", "a@example.com", time.Now().Add(time.Hour))
	if _, err := ParseToken([]byte("other"), token); err == nil {
		t.Fatal("expected error for wrong secret")
	}

	expired, _ := GenerateToken(secret, "admin-1", "a@example.com", time.Now().Add(-time.Minute))
	if _, err := ParseToken(secret, expired); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerifyTokenRequiresLoginRow(t *testing.T) {
	db := openDB(t)
	token, _ := GenerateToken(secret, "admin-1", "a@example.com", time.Now().Add(time.Hour))

	if _, err := VerifyToken(secret, token, db); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}

	if err := db.Create(&models.LoginToken{Token: token, AdminID: "admin-1", Email: "a@example.com"}).Error; err != nil {
		t.Fatalf("create login token: %v", err)
	}
	claims, err := VerifyToken(secret, token, db)
	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}
	if claims.Email != "a@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
}
