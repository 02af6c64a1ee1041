package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSettingServiceTest(t *testing.T) *SettingService {
	t.Helper()
	dsn := fmt.Sprintf("file:setting_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewSettingService(repository.NewSettingRepository(db))
}

func TestSettingGetUnknownKeyIsNil(t *testing.T) {
	svc := setupSettingServiceTest(t)
	value, err := svc.Get("never_written")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != nil {
		t.Fatalf("expected nil, got %v", value)
	}
}

func TestSettingSetGetRoundTrip(t *testing.T) {
	svc := setupSettingServiceTest(t)
	if err := svc.Set(constants.SettingKeyShopNotice, models.JSON{"text": "Nghỉ lễ 2/9"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := svc.ShopNotice()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value["text"] != "Nghỉ lễ 2/9" {
		t.Fatalf("unexpected value: %v", value)
	}
}

func TestSettingSubscribeNotifies(t *testing.T) {
	svc := setupSettingServiceTest(t)
	var gotKey string
	var gotValue models.JSON
	calls := 0
	svc.Subscribe(func(key string, value models.JSON) {
		gotKey = key
		gotValue = value
		calls++
	})

	if err := svc.Set(constants.SettingKeyBankAccount, models.JSON{"bank": "Vietcombank"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if gotKey != constants.SettingKeyBankAccount || gotValue["bank"] != "Vietcombank" {
		t.Fatalf("unexpected notification: %s %v", gotKey, gotValue)
	}
}

func TestPageVisibilityDefaults(t *testing.T) {
	svc := setupSettingServiceTest(t)
	pages, err := svc.PageVisibility()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("expected empty map when unset, got %v", pages)
	}

	if err := svc.Set(constants.SettingKeyPageVisibility, models.JSON{"listings": false, "catalog": true}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	pages, err = svc.PageVisibility()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if pages["listings"] || !pages["catalog"] {
		t.Fatalf("unexpected visibility map: %v", pages)
	}
}
