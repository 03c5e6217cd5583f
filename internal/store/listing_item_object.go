package store

import (
	"fmt"

	"marketplace-backend/internal/models"
)

func (s *Store) CreateListingItemObject(obj *models.ListingItemObject) error {
	if err := s.db.Create(obj).Error; err != nil {
		return fmt.Errorf("create listing item object: %w", err)
	}
	return nil
}

func (s *Store) ListingItemObjectsForListing(listingItemID, templateID *uint) ([]models.ListingItemObject, error) {
	var objects []models.ListingItemObject
	q := s.db
	if listingItemID != nil {
		q = q.Where("listing_item_id = ?", *listingItemID)
	} else {
		q = q.Where("listing_item_template_id = ?", *templateID)
	}
	if err := q.Find(&objects).Error; err != nil {
		return nil, fmt.Errorf("fetch listing item objects: %w", err)
	}
	return objects, nil
}

func (s *Store) DeleteListingItemObject(id uint) error {
	if err := s.db.Delete(&models.ListingItemObject{}, id).Error; err != nil {
		return fmt.Errorf("delete listing item object: %w", err)
	}
	return nil
}

func (s *Store) CreateListingItemObjectData(data *models.ListingItemObjectData) error {
	if err := s.db.Create(data).Error; err != nil {
		return fmt.Errorf("create listing item object data: %w", err)
	}
	return nil
}

func (s *Store) DeleteListingItemObjectDatasForObject(objectID uint) error {
	if err := s.db.Where("listing_item_object_id = ?", objectID).
		Delete(&models.ListingItemObjectData{}).Error; err != nil {
		return fmt.Errorf("delete listing item object datas: %w", err)
	}
	return nil
}
