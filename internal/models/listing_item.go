// Package models defines the database models for the marketplace backend.
package models

import "time"

// ListingItem is the aggregate root for a published listing. Dependent rows
// (item/payment/messaging information and listing objects) are reachable only
// through it and never outlive it.
type ListingItem struct {
	ID            uint   `gorm:"primaryKey"`
	Hash          string `gorm:"size:64;uniqueIndex;not null"`
	SellerAddress string `gorm:"size:128;index"`
	Market        string `gorm:"size:128;index"`
	ExpiryTime    int64
	PostedAt      int64
	ExpiredAt     int64
	ReceivedAt    int64

	ItemInformation       *ItemInformation       `gorm:"foreignKey:ListingItemID"`
	PaymentInformation    *PaymentInformation    `gorm:"foreignKey:ListingItemID"`
	MessagingInformation  []MessagingInformation `gorm:"foreignKey:ListingItemID"`
	ListingItemObjects    []ListingItemObject    `gorm:"foreignKey:ListingItemID"`
	ListingItemTemplateID *uint                  `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
