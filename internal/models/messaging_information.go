package models

import "time"

// MessagingInformation tells buyers how to contact the seller. Owned by
// exactly one of ListingItem or ListingItemTemplate.
type MessagingInformation struct {
	ID                    uint   `gorm:"primaryKey"`
	Protocol              string `gorm:"size:32"`
	PublicKey             string `gorm:"size:256"`
	ListingItemID         *uint  `gorm:"index"`
	ListingItemTemplateID *uint  `gorm:"index"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
