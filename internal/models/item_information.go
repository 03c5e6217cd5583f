package models

import "time"

// ItemInformation describes what is being sold. It is owned by exactly one of
// ListingItem or ListingItemTemplate.
type ItemInformation struct {
	ID               uint   `gorm:"primaryKey"`
	Title            string `gorm:"size:256"`
	ShortDescription string `gorm:"size:1024"`
	LongDescription  string `gorm:"type:text"`

	ItemCategoryID        *uint `gorm:"index"`
	ItemCategory          *ItemCategory
	ListingItemID         *uint `gorm:"index"`
	ListingItemTemplateID *uint `gorm:"index"`

	ItemLocation         *ItemLocation         `gorm:"foreignKey:ItemInformationID"`
	ShippingDestinations []ShippingDestination `gorm:"foreignKey:ItemInformationID"`
	ItemImages           []ItemImage           `gorm:"foreignKey:ItemInformationID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemCategory is a shared lookup table deduplicated by Key. Categories are
// never owned by a listing; the coordinator looks them up or creates them.
type ItemCategory struct {
	ID               uint   `gorm:"primaryKey"`
	Key              string `gorm:"size:128;uniqueIndex;not null"`
	Name             string `gorm:"size:256"`
	Description      string `gorm:"size:1024"`
	ParentCategoryID *uint  `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ItemLocation struct {
	ID                uint   `gorm:"primaryKey"`
	ItemInformationID uint   `gorm:"index;not null"`
	Country           string `gorm:"size:8"`
	Address           string `gorm:"size:256"`

	LocationMarker *LocationMarker `gorm:"foreignKey:ItemLocationID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LocationMarker struct {
	ID             uint   `gorm:"primaryKey"`
	ItemLocationID uint   `gorm:"index;not null"`
	Title          string `gorm:"size:256"`
	Description    string `gorm:"size:1024"`
	Lat            float64
	Lng            float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ShippingDestination struct {
	ID                   uint   `gorm:"primaryKey"`
	ItemInformationID    uint   `gorm:"index;not null"`
	Country              string `gorm:"size:8"`
	ShippingAvailability string `gorm:"size:32"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type ItemImage struct {
	ID                uint   `gorm:"primaryKey"`
	ItemInformationID uint   `gorm:"index;not null"`
	Hash              string `gorm:"size:64;index"`

	ItemImageDatas []ItemImageData `gorm:"foreignKey:ItemImageID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemImageData holds one encoded version of an image (original, thumbnail
// and so on).
type ItemImageData struct {
	ID           uint   `gorm:"primaryKey"`
	ItemImageID  uint   `gorm:"index;not null"`
	Protocol     string `gorm:"size:32"`
	Encoding     string `gorm:"size:32"`
	ImageVersion string `gorm:"size:32"`
	Data         string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
