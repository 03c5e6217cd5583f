package store

import (
	"errors"
	"fmt"

	"marketplace-backend/internal/models"

	"gorm.io/gorm"
)

// CategoryByKey looks up a category by its natural key. Returns nil without
// error when no such category exists, so callers can decide to create one.
func (s *Store) CategoryByKey(key string) (*models.ItemCategory, error) {
	var cat models.ItemCategory
	if err := s.db.Where("key = ?", key).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("category by key: %w", err)
	}
	return &cat, nil
}

func (s *Store) CreateCategory(cat *models.ItemCategory) error {
	if err := s.db.Create(cat).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}
