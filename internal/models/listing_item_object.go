package models

import "time"

// ListingItemObject is a free-form extension slot on a listing (dropdowns,
// checkboxes, custom tables). Owned by exactly one of ListingItem or
// ListingItemTemplate.
type ListingItemObject struct {
	ID                    uint   `gorm:"primaryKey"`
	Type                  string `gorm:"size:32"`
	Description           string `gorm:"size:1024"`
	ObjectOrder           int
	ListingItemID         *uint `gorm:"index"`
	ListingItemTemplateID *uint `gorm:"index"`

	ListingItemObjectDatas []ListingItemObjectData `gorm:"foreignKey:ListingItemObjectID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ListingItemObjectData struct {
	ID                  uint   `gorm:"primaryKey"`
	ListingItemObjectID uint   `gorm:"index;not null"`
	DataKey             string `gorm:"size:128"`
	DataValue           string `gorm:"size:1024"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
