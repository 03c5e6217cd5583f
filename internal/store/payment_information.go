package store

import (
	"fmt"

	"marketplace-backend/internal/models"
)

func (s *Store) CreatePaymentInformation(info *models.PaymentInformation) error {
	if err := s.db.Create(info).Error; err != nil {
		return fmt.Errorf("create payment information: %w", err)
	}
	return nil
}

// PaymentInformationForListing returns the payment information owned by a
// listing or template root. Exactly one of the ids must be non-nil.
func (s *Store) PaymentInformationForListing(listingItemID, templateID *uint) (*models.PaymentInformation, error) {
	var info models.PaymentInformation
	q := s.db
	if listingItemID != nil {
		q = q.Where("listing_item_id = ?", *listingItemID)
	} else {
		q = q.Where("listing_item_template_id = ?", *templateID)
	}
	if err := q.First(&info).Error; err != nil {
		return nil, notFound("payment information", err)
	}
	return &info, nil
}

func (s *Store) DeletePaymentInformation(id uint) error {
	if err := s.db.Delete(&models.PaymentInformation{}, id).Error; err != nil {
		return fmt.Errorf("delete payment information: %w", err)
	}
	return nil
}

func (s *Store) CreateEscrow(escrow *models.Escrow) error {
	if err := s.db.Create(escrow).Error; err != nil {
		return fmt.Errorf("create escrow: %w", err)
	}
	return nil
}

func (s *Store) EscrowByID(id uint) (*models.Escrow, error) {
	var escrow models.Escrow
	if err := s.db.Preload("Ratio").First(&escrow, id).Error; err != nil {
		return nil, notFound("escrow", err)
	}
	return &escrow, nil
}

func (s *Store) EscrowForPaymentInformation(paymentInformationID uint) (*models.Escrow, error) {
	var escrow models.Escrow
	if err := s.db.Where("payment_information_id = ?", paymentInformationID).
		First(&escrow).Error; err != nil {
		return nil, notFound("escrow", err)
	}
	return &escrow, nil
}

func (s *Store) DeleteEscrow(id uint) error {
	if err := s.db.Delete(&models.Escrow{}, id).Error; err != nil {
		return fmt.Errorf("delete escrow: %w", err)
	}
	return nil
}

func (s *Store) CreateEscrowRatio(ratio *models.EscrowRatio) error {
	if err := s.db.Create(ratio).Error; err != nil {
		return fmt.Errorf("create escrow ratio: %w", err)
	}
	return nil
}

func (s *Store) DeleteEscrowRatiosForEscrow(escrowID uint) error {
	if err := s.db.Where("escrow_id = ?", escrowID).
		Delete(&models.EscrowRatio{}).Error; err != nil {
		return fmt.Errorf("delete escrow ratios: %w", err)
	}
	return nil
}

func (s *Store) CreateItemPrice(price *models.ItemPrice) error {
	if err := s.db.Create(price).Error; err != nil {
		return fmt.Errorf("create item price: %w", err)
	}
	return nil
}

func (s *Store) ItemPriceForPaymentInformation(paymentInformationID uint) (*models.ItemPrice, error) {
	var price models.ItemPrice
	if err := s.db.Where("payment_information_id = ?", paymentInformationID).
		First(&price).Error; err != nil {
		return nil, notFound("item price", err)
	}
	return &price, nil
}

func (s *Store) DeleteItemPrice(id uint) error {
	if err := s.db.Delete(&models.ItemPrice{}, id).Error; err != nil {
		return fmt.Errorf("delete item price: %w", err)
	}
	return nil
}

func (s *Store) CreateShippingPrice(price *models.ShippingPrice) error {
	if err := s.db.Create(price).Error; err != nil {
		return fmt.Errorf("create shipping price: %w", err)
	}
	return nil
}

func (s *Store) DeleteShippingPricesForItemPrice(itemPriceID uint) error {
	if err := s.db.Where("item_price_id = ?", itemPriceID).
		Delete(&models.ShippingPrice{}).Error; err != nil {
		return fmt.Errorf("delete shipping prices: %w", err)
	}
	return nil
}

func (s *Store) CreateCryptocurrencyAddress(addr *models.CryptocurrencyAddress) error {
	if err := s.db.Create(addr).Error; err != nil {
		return fmt.Errorf("create cryptocurrency address: %w", err)
	}
	return nil
}

func (s *Store) DeleteCryptocurrencyAddressesForItemPrice(itemPriceID uint) error {
	if err := s.db.Where("item_price_id = ?", itemPriceID).
		Delete(&models.CryptocurrencyAddress{}).Error; err != nil {
		return fmt.Errorf("delete cryptocurrency addresses: %w", err)
	}
	return nil
}
