package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/purinorder/purinorder/internal/config"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "auth-service-test-secret"
	cfg.JWT.ExpireHours = 24
	return NewAuthService(cfg, repository.NewAdminRepository(db)), db
}

func seedAdmin(t *testing.T, svc *AuthService, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	admin := models.Admin{Username: username, PasswordHash: hash, DisplayName: "Quản trị"}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin failed: %v", err)
	}
	return &admin
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedAdmin(t, svc, db, "purin", "matkhau-manh")

	admin, token, expiresAt, err := svc.Login("purin", "matkhau-manh")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if admin.LastLoginAt == nil {
		t.Fatalf("expected last login timestamp")
	}
	if !expiresAt.After(time.Now().Add(23 * time.Hour)) {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "purin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedAdmin(t, svc, db, "purin", "matkhau-manh")

	if _, _, _, err := svc.Login("purin", "sai-mat-khau"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("khong-ton-tai", "matkhau-manh"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestParseJWTRejectsForeignToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	admin := seedAdmin(t, svc, db, "purin", "matkhau-manh")

	other := &config.Config{}
	other.JWT.SecretKey = "some-other-secret"
	other.JWT.ExpireHours = 1
	foreign := NewAuthService(other, repository.NewAdminRepository(db))
	token, _, err := foreign.GenerateJWT(admin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := svc.ParseJWT(token); err == nil {
		t.Fatalf("expected signature validation to fail")
	}
}

func TestChangePassword(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	admin := seedAdmin(t, svc, db, "purin", "matkhau-manh")

	if err := svc.ChangePassword(admin.ID, "sai-mat-khau", "matkhau-moi-1"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "matkhau-manh", "ngan"); err != ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "matkhau-manh", "matkhau-moi-1"); err != nil {
		t.Fatalf("change failed: %v", err)
	}
	if _, _, _, err := svc.Login("purin", "matkhau-moi-1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, _, err := svc.Login("purin", "matkhau-manh"); err != ErrInvalidCredentials {
		t.Fatalf("old password must stop working, got %v", err)
	}
}
