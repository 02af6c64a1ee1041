package service

import (
	"sync"

	"github.com/purinorder/purinorder/internal/constants"
	"github.com/purinorder/purinorder/internal/logger"
	"github.com/purinorder/purinorder/internal/models"
	"github.com/purinorder/purinorder/internal/repository"
)

// SettingService is the runtime configuration store: persisted key/value
// rows with an in-memory cache and change notification, so components react
// to admin edits without a restart.
type SettingService struct {
	settingRepo repository.SettingRepository

	mu          sync.RWMutex
	cache       map[string]models.JSON
	subscribers []func(key string, value models.JSON)
}

// NewSettingService creates the setting service.
func NewSettingService(settingRepo repository.SettingRepository) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		cache:       make(map[string]models.JSON),
	}
}

// Get returns one setting value, nil when the key was never written.
func (s *SettingService) Get(key string) (models.JSON, error) {
	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}
	row, err := s.settingRepo.Get(key)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	s.mu.Lock()
	s.cache[key] = row.ValueJSON
	s.mu.Unlock()
	return row.ValueJSON, nil
}

// Set persists a setting and notifies every subscriber.
func (s *SettingService) Set(key string, value models.JSON) error {
	if err := s.settingRepo.Upsert(key, value); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[key] = value
	subscribers := append([]func(string, models.JSON){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(key, value)
	}
	logger.Infow("setting_updated", "key", key)
	return nil
}

// Subscribe registers a change callback. Callbacks run synchronously on the
// Set caller's goroutine and must not call back into Set.
func (s *SettingService) Subscribe(fn func(key string, value models.JSON)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// PageVisibility returns the storefront page toggle map. Missing keys mean
// visible.
func (s *SettingService) PageVisibility() (map[string]bool, error) {
	value, err := s.Get(constants.SettingKeyPageVisibility)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool)
	for page, raw := range value {
		if visible, ok := raw.(bool); ok {
			out[page] = visible
		}
	}
	return out, nil
}

// BankAccount returns the transfer details shown at checkout.
func (s *SettingService) BankAccount() (models.JSON, error) {
	return s.Get(constants.SettingKeyBankAccount)
}

// ShopNotice returns the storefront banner notice.
func (s *SettingService) ShopNotice() (models.JSON, error) {
	return s.Get(constants.SettingKeyShopNotice)
}
