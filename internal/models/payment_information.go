package models

import "time"

// PaymentInformation carries the escrow and pricing subtree. Owned by exactly
// one of ListingItem or ListingItemTemplate.
type PaymentInformation struct {
	ID                    uint   `gorm:"primaryKey"`
	Type                  string `gorm:"size:32"`
	ListingItemID         *uint  `gorm:"index"`
	ListingItemTemplateID *uint  `gorm:"index"`

	Escrow    *Escrow    `gorm:"foreignKey:PaymentInformationID"`
	ItemPrice *ItemPrice `gorm:"foreignKey:PaymentInformationID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Escrow struct {
	ID                   uint   `gorm:"primaryKey"`
	PaymentInformationID uint   `gorm:"index;not null"`
	Type                 string `gorm:"size:32"`

	Ratio *EscrowRatio `gorm:"foreignKey:EscrowID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type EscrowRatio struct {
	ID        uint `gorm:"primaryKey"`
	EscrowID  uint `gorm:"index;not null"`
	Buyer     int
	Seller    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ItemPrice struct {
	ID                   uint   `gorm:"primaryKey"`
	PaymentInformationID uint   `gorm:"index;not null"`
	Currency             string `gorm:"size:16"`
	BasePrice            float64

	ShippingPrice         *ShippingPrice         `gorm:"foreignKey:ItemPriceID"`
	CryptocurrencyAddress *CryptocurrencyAddress `gorm:"foreignKey:ItemPriceID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ShippingPrice struct {
	ID            uint `gorm:"primaryKey"`
	ItemPriceID   uint `gorm:"index;not null"`
	Domestic      float64
	International float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CryptocurrencyAddress struct {
	ID          uint   `gorm:"primaryKey"`
	ItemPriceID uint   `gorm:"index;not null"`
	Type        string `gorm:"size:32"`
	Address     string `gorm:"size:128"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
