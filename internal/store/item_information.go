package store

import (
	"fmt"

	"marketplace-backend/internal/models"
)

func (s *Store) CreateItemInformation(info *models.ItemInformation) error {
	if err := s.db.Create(info).Error; err != nil {
		return fmt.Errorf("create item information: %w", err)
	}
	return nil
}

func (s *Store) ItemInformationByID(id uint) (*models.ItemInformation, error) {
	var info models.ItemInformation
	if err := s.db.First(&info, id).Error; err != nil {
		return nil, notFound("item information", err)
	}
	return &info, nil
}

// ItemInformationForListing returns the item information owned by a listing
// or template root. Exactly one of the ids must be non-nil.
func (s *Store) ItemInformationForListing(listingItemID, templateID *uint) (*models.ItemInformation, error) {
	var info models.ItemInformation
	q := s.db
	if listingItemID != nil {
		q = q.Where("listing_item_id = ?", *listingItemID)
	} else {
		q = q.Where("listing_item_template_id = ?", *templateID)
	}
	if err := q.First(&info).Error; err != nil {
		return nil, notFound("item information", err)
	}
	return &info, nil
}

func (s *Store) DeleteItemInformation(id uint) error {
	if err := s.db.Delete(&models.ItemInformation{}, id).Error; err != nil {
		return fmt.Errorf("delete item information: %w", err)
	}
	return nil
}

func (s *Store) CreateItemLocation(loc *models.ItemLocation) error {
	if err := s.db.Create(loc).Error; err != nil {
		return fmt.Errorf("create item location: %w", err)
	}
	return nil
}

func (s *Store) ItemLocationForInformation(itemInformationID uint) (*models.ItemLocation, error) {
	var loc models.ItemLocation
	if err := s.db.Where("item_information_id = ?", itemInformationID).First(&loc).Error; err != nil {
		return nil, notFound("item location", err)
	}
	return &loc, nil
}

func (s *Store) DeleteItemLocation(id uint) error {
	if err := s.db.Delete(&models.ItemLocation{}, id).Error; err != nil {
		return fmt.Errorf("delete item location: %w", err)
	}
	return nil
}

func (s *Store) CreateLocationMarker(marker *models.LocationMarker) error {
	if err := s.db.Create(marker).Error; err != nil {
		return fmt.Errorf("create location marker: %w", err)
	}
	return nil
}

func (s *Store) DeleteLocationMarkersForLocation(itemLocationID uint) error {
	if err := s.db.Where("item_location_id = ?", itemLocationID).
		Delete(&models.LocationMarker{}).Error; err != nil {
		return fmt.Errorf("delete location markers: %w", err)
	}
	return nil
}

func (s *Store) CreateShippingDestination(dest *models.ShippingDestination) error {
	if err := s.db.Create(dest).Error; err != nil {
		return fmt.Errorf("create shipping destination: %w", err)
	}
	return nil
}

func (s *Store) ShippingDestinationsForInformation(itemInformationID uint) ([]models.ShippingDestination, error) {
	var dests []models.ShippingDestination
	if err := s.db.Where("item_information_id = ?", itemInformationID).
		Find(&dests).Error; err != nil {
		return nil, fmt.Errorf("fetch shipping destinations: %w", err)
	}
	return dests, nil
}

func (s *Store) DeleteShippingDestinationsForInformation(itemInformationID uint) error {
	if err := s.db.Where("item_information_id = ?", itemInformationID).
		Delete(&models.ShippingDestination{}).Error; err != nil {
		return fmt.Errorf("delete shipping destinations: %w", err)
	}
	return nil
}

func (s *Store) CreateItemImage(img *models.ItemImage) error {
	if err := s.db.Create(img).Error; err != nil {
		return fmt.Errorf("create item image: %w", err)
	}
	return nil
}

func (s *Store) ItemImagesForInformation(itemInformationID uint) ([]models.ItemImage, error) {
	var images []models.ItemImage
	if err := s.db.Where("item_information_id = ?", itemInformationID).
		Find(&images).Error; err != nil {
		return nil, fmt.Errorf("fetch item images: %w", err)
	}
	return images, nil
}

func (s *Store) DeleteItemImage(id uint) error {
	if err := s.db.Delete(&models.ItemImage{}, id).Error; err != nil {
		return fmt.Errorf("delete item image: %w", err)
	}
	return nil
}

func (s *Store) CreateItemImageData(data *models.ItemImageData) error {
	if err := s.db.Create(data).Error; err != nil {
		return fmt.Errorf("create item image data: %w", err)
	}
	return nil
}

func (s *Store) DeleteItemImageDatasForImage(itemImageID uint) error {
	if err := s.db.Where("item_image_id = ?", itemImageID).
		Delete(&models.ItemImageData{}).Error; err != nil {
		return fmt.Errorf("delete item image datas: %w", err)
	}
	return nil
}
