package repository

import (
	"errors"

	"github.com/purinorder/purinorder/internal/models"

	"gorm.io/gorm"
)

// SettingRepository is the settings table access interface.
type SettingRepository interface {
	Get(key string) (*models.Setting, error)
	Upsert(key string, value models.JSON) error
}

// GormSettingRepository is the GORM implementation.
type GormSettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a setting repository.
func NewSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Get returns one setting row, nil when absent.
func (r *GormSettingRepository) Get(key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// Upsert writes a setting value under its key.
func (r *GormSettingRepository) Upsert(key string, value models.JSON) error {
	existing, err := r.Get(key)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(&models.Setting{Key: key, ValueJSON: value}).Error
	}
	existing.ValueJSON = value
	return r.db.Save(existing).Error
}
