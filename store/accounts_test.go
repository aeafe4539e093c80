package store

import (
	"LiquorStore/jwt"
	"LiquorStore/models"
	"errors"
	"testing"
	"time"
)

func newAccounts(t *testing.T) *Accounts {
	t.Helper()
	accounts := NewAccounts(openDB(t), []byte("test-secret"), time.Hour)
	if _, err := accounts.CreateAdmin(ctx, "Owner@Example.com ", "correct-horse"); err != nil {
		t.Fatalf("CreateAdmin returned error: %v", err)
	}
	return accounts
}

func TestCreateAdmin(t *testing.T) {
	accounts := newAccounts(t)

	var admin models.AdminUser
	if err := accounts.db.First(&admin, "email = ?", "owner@example.com").Error; err != nil {
		t.Fatalf("admin not stored under normalized email: %v", err)
	}
	if admin.Password == "correct-horse" {
		t.Fatal("password stored in plain text")
	}

	if _, err := accounts.CreateAdmin(ctx, "owner@example.com", "another-pass"); !errors.Is(err, ErrAdminExists) {
		t.Fatalf("expected ErrAdminExists, got %v", err)
	}
	if _, err := accounts.CreateAdmin(ctx, "not-an-email", "another-pass"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for email, got %v", err)
	}
	if _, err := accounts.CreateAdmin(ctx, "b@example.com", "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for password, got %v", err)
	}
}

func TestSignInAndOut(t *testing.T) {
	accounts := newAccounts(t)

	token, admin, err := accounts.SignIn(ctx, "owner@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	claims, err := accounts.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Email != "owner@example.com" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if err := accounts.SignOut(ctx, token); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if _, err := accounts.Verify(ctx, token); !errors.Is(err, jwt.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after sign-out, got %v", err)
	}
	if err := accounts.SignOut(ctx, token); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestSignInInvalidCredentials(t *testing.T) {
	accounts := newAccounts(t)

	_, _, wrongPassword := accounts.SignIn(ctx, "owner@example.com", "wrong")
	_, _, unknownEmail := accounts.SignIn(ctx, "nobody@example.com", "correct-horse")
	if !errors.Is(wrongPassword, ErrInvalidCredentials) || !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", wrongPassword, unknownEmail)
	}
}

func TestPurgeExpiredTokens(t *testing.T) {
	accounts := newAccounts(t)
	if _, _, err := accounts.SignIn(ctx, "owner@example.com", "correct-horse"); err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}

	n, err := accounts.PurgeExpiredTokens(ctx)
	if err != nil || n != 0 {
		t.Fatalf("fresh token purged: n=%d err=%v", n, err)
	}

	accounts.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	n, err = accounts.PurgeExpiredTokens(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 expired token purged, got n=%d err=%v", n, err)
	}
}
