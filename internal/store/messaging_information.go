package store

import (
	"fmt"

	"marketplace-backend/internal/models"
)

func (s *Store) CreateMessagingInformation(info *models.MessagingInformation) error {
	if err := s.db.Create(info).Error; err != nil {
		return fmt.Errorf("create messaging information: %w", err)
	}
	return nil
}

func (s *Store) MessagingInformationForListing(listingItemID, templateID *uint) ([]models.MessagingInformation, error) {
	var infos []models.MessagingInformation
	q := s.db
	if listingItemID != nil {
		q = q.Where("listing_item_id = ?", *listingItemID)
	} else {
		q = q.Where("listing_item_template_id = ?", *templateID)
	}
	if err := q.Find(&infos).Error; err != nil {
		return nil, fmt.Errorf("fetch messaging information: %w", err)
	}
	return infos, nil
}

func (s *Store) DeleteMessagingInformationForListing(listingItemID, templateID *uint) error {
	q := s.db
	if listingItemID != nil {
		q = q.Where("listing_item_id = ?", *listingItemID)
	} else {
		q = q.Where("listing_item_template_id = ?", *templateID)
	}
	if err := q.Delete(&models.MessagingInformation{}).Error; err != nil {
		return fmt.Errorf("delete messaging information: %w", err)
	}
	return nil
}
