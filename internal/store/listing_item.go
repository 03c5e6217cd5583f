package store

import (
	"fmt"

	"marketplace-backend/internal/models"

	"gorm.io/gorm"
)

// listingRelations is every to-one relation reachable from a listing root,
// for fetches with relation expansion.
var listingRelations = []string{
	"ItemInformation.ItemCategory",
	"ItemInformation.ItemLocation.LocationMarker",
	"PaymentInformation.Escrow.Ratio",
	"PaymentInformation.ItemPrice.ShippingPrice",
	"PaymentInformation.ItemPrice.CryptocurrencyAddress",
}

// listingCollections are loaded in id order so a digest recomputed over the
// refetched aggregate sees the same element order on every engine.
var listingCollections = []string{
	"ItemInformation.ShippingDestinations",
	"ItemInformation.ItemImages",
	"ItemInformation.ItemImages.ItemImageDatas",
	"MessagingInformation",
	"ListingItemObjects",
	"ListingItemObjects.ListingItemObjectDatas",
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func preloadListing(db *gorm.DB) *gorm.DB {
	for _, rel := range listingRelations {
		db = db.Preload(rel)
	}
	for _, rel := range listingCollections {
		db = db.Preload(rel, orderByID)
	}
	return db
}

func (s *Store) CreateListingItem(item *models.ListingItem) error {
	if err := s.db.Create(item).Error; err != nil {
		return fmt.Errorf("create listing item: %w", err)
	}
	return nil
}

func (s *Store) ListingItemByID(id uint, withRelated bool) (*models.ListingItem, error) {
	var item models.ListingItem
	q := s.db
	if withRelated {
		q = preloadListing(q)
	}
	if err := q.First(&item, id).Error; err != nil {
		return nil, notFound("listing item", err)
	}
	return &item, nil
}

func (s *Store) ListingItemByHash(hash string, withRelated bool) (*models.ListingItem, error) {
	var item models.ListingItem
	q := s.db
	if withRelated {
		q = preloadListing(q)
	}
	if err := q.Where("hash = ?", hash).First(&item).Error; err != nil {
		return nil, notFound("listing item", err)
	}
	return &item, nil
}

func (s *Store) UpdateListingItem(item *models.ListingItem) error {
	if err := s.db.Save(item).Error; err != nil {
		return fmt.Errorf("update listing item: %w", err)
	}
	return nil
}

func (s *Store) DeleteListingItem(id uint) error {
	if err := s.db.Delete(&models.ListingItem{}, id).Error; err != nil {
		return fmt.Errorf("delete listing item: %w", err)
	}
	return nil
}

func (s *Store) CountListingItems() (int64, error) {
	var n int64
	if err := s.db.Model(&models.ListingItem{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count listing items: %w", err)
	}
	return n, nil
}

func (s *Store) CreateListingItemTemplate(tpl *models.ListingItemTemplate) error {
	if err := s.db.Create(tpl).Error; err != nil {
		return fmt.Errorf("create listing template: %w", err)
	}
	return nil
}

func (s *Store) ListingItemTemplateByID(id uint, withRelated bool) (*models.ListingItemTemplate, error) {
	var tpl models.ListingItemTemplate
	q := s.db
	if withRelated {
		q = preloadListing(q)
	}
	if err := q.First(&tpl, id).Error; err != nil {
		return nil, notFound("listing template", err)
	}
	return &tpl, nil
}

func (s *Store) UpdateListingItemTemplate(tpl *models.ListingItemTemplate) error {
	if err := s.db.Save(tpl).Error; err != nil {
		return fmt.Errorf("update listing template: %w", err)
	}
	return nil
}

func (s *Store) DeleteListingItemTemplate(id uint) error {
	if err := s.db.Delete(&models.ListingItemTemplate{}, id).Error; err != nil {
		return fmt.Errorf("delete listing template: %w", err)
	}
	return nil
}
