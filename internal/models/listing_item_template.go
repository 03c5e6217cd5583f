package models

import "time"

// ListingItemTemplate is the local, not-yet-published form of a listing. It
// owns the same dependent tree as ListingItem, keyed by ListingItemTemplateID.
type ListingItemTemplate struct {
	ID           uint   `gorm:"primaryKey"`
	Hash         string `gorm:"size:64;index"`
	OwnerAddress string `gorm:"size:128;index"`

	ItemInformation      *ItemInformation       `gorm:"foreignKey:ListingItemTemplateID"`
	PaymentInformation   *PaymentInformation    `gorm:"foreignKey:ListingItemTemplateID"`
	MessagingInformation []MessagingInformation `gorm:"foreignKey:ListingItemTemplateID"`
	ListingItemObjects   []ListingItemObject    `gorm:"foreignKey:ListingItemTemplateID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
