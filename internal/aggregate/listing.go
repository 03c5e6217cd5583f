package aggregate

import (
	"errors"
	"fmt"

	"marketplace-backend/internal/hashing"
	"marketplace-backend/internal/models"
	"marketplace-backend/internal/store"
)

// CreateListingItem persists a full listing aggregate: root first, then each
// dependent subtree bottom-up. The request digest is checked before any write
// (inbound tamper defense) and again against the finished, refetched object
// (persistence corruption defense).
func (c *Coordinator) CreateListingItem(req *ListingItemCreateRequest) (*models.ListingItem, error) {
	if req.ItemInformation == nil || req.PaymentInformation == nil {
		return nil, &ValidationError{Msg: "listing requires item information and payment information"}
	}
	computed := c.hasher.HashOf(listingHashableFromRequest(
		req.ItemInformation, req.PaymentInformation, req.ListingItemObjects))
	if req.Hash != "" && req.Hash != computed {
		return nil, &hashing.HashMismatchError{Asserted: req.Hash, Computed: computed}
	}

	item := &models.ListingItem{
		Hash:          computed,
		SellerAddress: req.SellerAddress,
		Market:        req.Market,
		ExpiryTime:    req.ExpiryTime,
		PostedAt:      req.PostedAt,
		ReceivedAt:    req.ReceivedAt,
	}
	if err := c.store.CreateListingItem(item); err != nil {
		return nil, err
	}
	committed := []string{"listing_item"}

	owner := ownerRef{listingItemID: &item.ID}
	if err := c.createDependents(owner, req.ItemInformation, req.PaymentInformation,
		req.MessagingInformation, req.ListingItemObjects, &committed); err != nil {
		return nil, err
	}

	full, err := c.store.ListingItemByID(item.ID, true)
	if err != nil {
		return nil, &PartialAggregateFailure{Step: "refetch", Committed: committed, Err: err}
	}
	if err := c.verifyListing(full.Hash, full.ItemInformation, full.PaymentInformation,
		full.ListingItemObjects, committed); err != nil {
		return nil, err
	}
	c.log.Printf("listing item created: id=%d hash=%s", full.ID, full.Hash)
	return full, nil
}

// UpdateListingItem replaces the listing's scalar fields and every relational
// collection. Relations are destroyed and recreated from the replacement
// payload; partial field patches across relations are not supported. A
// failure mid-sequence can leave old relational data deleted and new data
// partially written.
func (c *Coordinator) UpdateListingItem(id uint, req *ListingItemUpdateRequest) (*models.ListingItem, error) {
	if req.ItemInformation == nil || req.PaymentInformation == nil {
		return nil, &ValidationError{Msg: "listing requires item information and payment information"}
	}
	item, err := c.store.ListingItemByID(id, false)
	if err != nil {
		return nil, err
	}
	computed := c.hasher.HashOf(listingHashableFromRequest(
		req.ItemInformation, req.PaymentInformation, req.ListingItemObjects))
	if req.Hash != "" && req.Hash != computed {
		return nil, &hashing.HashMismatchError{Asserted: req.Hash, Computed: computed}
	}

	item.Hash = computed
	item.SellerAddress = req.SellerAddress
	item.Market = req.Market
	item.ExpiryTime = req.ExpiryTime
	if err := c.store.UpdateListingItem(item); err != nil {
		return nil, err
	}
	committed := []string{"listing_item"}

	owner := ownerRef{listingItemID: &item.ID}
	if err := c.step("destroy_dependents", &committed, func() error {
		return c.destroyDependents(owner)
	}); err != nil {
		return nil, err
	}
	if err := c.createDependents(owner, req.ItemInformation, req.PaymentInformation,
		req.MessagingInformation, req.ListingItemObjects, &committed); err != nil {
		return nil, err
	}

	full, err := c.store.ListingItemByID(item.ID, true)
	if err != nil {
		return nil, &PartialAggregateFailure{Step: "refetch", Committed: committed, Err: err}
	}
	if err := c.verifyListing(full.Hash, full.ItemInformation, full.PaymentInformation,
		full.ListingItemObjects, committed); err != nil {
		return nil, err
	}
	c.log.Printf("listing item updated: id=%d hash=%s", full.ID, full.Hash)
	return full, nil
}

// DestroyListingItem removes the root and every dependent with explicit
// walks. No storage-level cascade is relied on, so the walk works the same
// on engines without FK cascade support.
func (c *Coordinator) DestroyListingItem(id uint) error {
	item, err := c.store.ListingItemByID(id, false)
	if err != nil {
		return err
	}
	owner := ownerRef{listingItemID: &item.ID}
	if err := c.destroyDependents(owner); err != nil {
		return fmt.Errorf("destroy listing item %d: %w", id, err)
	}
	if err := c.store.DeleteListingItem(item.ID); err != nil {
		return err
	}
	c.log.Printf("listing item destroyed: id=%d", id)
	return nil
}

// verifyListing recomputes the digest over the finished aggregate and
// compares it to the digest stored on the root.
func (c *Coordinator) verifyListing(
	stored string,
	info *models.ItemInformation,
	pay *models.PaymentInformation,
	objects []models.ListingItemObject,
	committed []string,
) error {
	recomputed := c.hasher.HashOf(listingHashableFromParts(info, pay, objects))
	if recomputed != stored {
		return &PartialAggregateFailure{
			Step:      "verify",
			Committed: committed,
			Err:       &hashing.HashMismatchError{Asserted: stored, Computed: recomputed},
		}
	}
	return nil
}

// createDependents persists every dependent subtree of a listing or template
// root, in order: item information, payment information, messaging, objects.
func (c *Coordinator) createDependents(
	owner ownerRef,
	info *ItemInformationRequest,
	pay *PaymentInformationRequest,
	messaging []MessagingInformationRequest,
	objects []ListingItemObjectRequest,
	committed *[]string,
) error {
	if info != nil {
		if err := c.createItemInformationTree(owner, info, committed); err != nil {
			return err
		}
	}
	if pay != nil {
		if err := c.createPaymentInformationTree(owner, pay, committed); err != nil {
			return err
		}
	}
	if len(messaging) > 0 {
		if err := c.step("messaging_information", committed, func() error {
			for _, m := range messaging {
				rec := &models.MessagingInformation{
					Protocol:              m.Protocol,
					PublicKey:             m.PublicKey,
					ListingItemID:         owner.listingItemID,
					ListingItemTemplateID: owner.templateID,
				}
				if err := c.store.CreateMessagingInformation(rec); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	if len(objects) > 0 {
		if err := c.step("listing_item_objects", committed, func() error {
			for _, o := range objects {
				obj := &models.ListingItemObject{
					Type:                  o.Type,
					Description:           o.Description,
					ObjectOrder:           o.ObjectOrder,
					ListingItemID:         owner.listingItemID,
					ListingItemTemplateID: owner.templateID,
				}
				if err := c.store.CreateListingItemObject(obj); err != nil {
					return err
				}
				for _, d := range o.Datas {
					data := &models.ListingItemObjectData{
						ListingItemObjectID: obj.ID,
						DataKey:             d.Key,
						DataValue:           d.Value,
					}
					if err := c.store.CreateListingItemObjectData(data); err != nil {
						return err
					}
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coordinator) createItemInformationTree(owner ownerRef, req *ItemInformationRequest, committed *[]string) error {
	var categoryID *uint
	if req.Category != nil {
		var cat *models.ItemCategory
		if err := c.step("item_category", committed, func() error {
			existing, err := c.store.CategoryByKey(req.Category.Key)
			if err != nil {
				return err
			}
			if existing != nil {
				cat = existing
				return nil
			}
			cat = &models.ItemCategory{Key: req.Category.Key, Name: req.Category.Name}
			return c.store.CreateCategory(cat)
		}); err != nil {
			return err
		}
		categoryID = &cat.ID
	}

	info := &models.ItemInformation{
		Title:                 req.Title,
		ShortDescription:      req.ShortDescription,
		LongDescription:       req.LongDescription,
		ItemCategoryID:        categoryID,
		ListingItemID:         owner.listingItemID,
		ListingItemTemplateID: owner.templateID,
	}
	if err := c.step("item_information", committed, func() error {
		return c.store.CreateItemInformation(info)
	}); err != nil {
		return err
	}

	if req.Location != nil {
		loc := &models.ItemLocation{
			ItemInformationID: info.ID,
			Country:           req.Location.Country,
			Address:           req.Location.Address,
		}
		if err := c.step("item_location", committed, func() error {
			return c.store.CreateItemLocation(loc)
		}); err != nil {
			return err
		}
		if req.Location.Marker != nil {
			if err := c.step("location_marker", committed, func() error {
				return c.store.CreateLocationMarker(&models.LocationMarker{
					ItemLocationID: loc.ID,
					Title:          req.Location.Marker.Title,
					Description:    req.Location.Marker.Description,
					Lat:            req.Location.Marker.Lat,
					Lng:            req.Location.Marker.Lng,
				})
			}); err != nil {
				return err
			}
		}
	}

	if len(req.ShippingDestinations) > 0 {
		if err := c.step("shipping_destinations", committed, func() error {
			for _, d := range req.ShippingDestinations {
				dest := &models.ShippingDestination{
					ItemInformationID:    info.ID,
					Country:              d.Country,
					ShippingAvailability: d.ShippingAvailability,
				}
				if err := c.store.CreateShippingDestination(dest); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}

	if len(req.Images) > 0 {
		if err := c.step("item_images", committed, func() error {
			for _, imgReq := range req.Images {
				hash := imgReq.Hash
				if hash == "" && len(imgReq.Datas) > 0 {
					first := imgReq.Datas[0]
					hash = c.hasher.HashOf(hashing.ItemImageHashable{
						Protocol: first.Protocol,
						Encoding: first.Encoding,
						Data:     first.Data,
					})
				}
				img := &models.ItemImage{ItemInformationID: info.ID, Hash: hash}
				if err := c.store.CreateItemImage(img); err != nil {
					return err
				}
				for _, d := range imgReq.Datas {
					data := &models.ItemImageData{
						ItemImageID:  img.ID,
						Protocol:     d.Protocol,
						Encoding:     d.Encoding,
						ImageVersion: d.ImageVersion,
						Data:         d.Data,
					}
					if err := c.store.CreateItemImageData(data); err != nil {
						return err
					}
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coordinator) createPaymentInformationTree(owner ownerRef, req *PaymentInformationRequest, committed *[]string) error {
	info := &models.PaymentInformation{
		Type:                  req.Type,
		ListingItemID:         owner.listingItemID,
		ListingItemTemplateID: owner.templateID,
	}
	if err := c.step("payment_information", committed, func() error {
		return c.store.CreatePaymentInformation(info)
	}); err != nil {
		return err
	}

	if req.Escrow != nil {
		if err := c.step("escrow", committed, func() error {
			escrow := &models.Escrow{PaymentInformationID: info.ID, Type: req.Escrow.Type}
			if err := c.store.CreateEscrow(escrow); err != nil {
				return err
			}
			if req.Escrow.Ratio != nil {
				return c.store.CreateEscrowRatio(&models.EscrowRatio{
					EscrowID: escrow.ID,
					Buyer:    req.Escrow.Ratio.Buyer,
					Seller:   req.Escrow.Ratio.Seller,
				})
			}
			return nil
		}); err != nil {
			return err
		}
	}

	if req.ItemPrice != nil {
		if err := c.step("item_price", committed, func() error {
			price := &models.ItemPrice{
				PaymentInformationID: info.ID,
				Currency:             req.ItemPrice.Currency,
				BasePrice:            req.ItemPrice.BasePrice,
			}
			if err := c.store.CreateItemPrice(price); err != nil {
				return err
			}
			if req.ItemPrice.ShippingPrice != nil {
				if err := c.store.CreateShippingPrice(&models.ShippingPrice{
					ItemPriceID:   price.ID,
					Domestic:      req.ItemPrice.ShippingPrice.Domestic,
					International: req.ItemPrice.ShippingPrice.International,
				}); err != nil {
					return err
				}
			}
			if req.ItemPrice.CryptocurrencyAddress != nil {
				if err := c.store.CreateCryptocurrencyAddress(&models.CryptocurrencyAddress{
					ItemPriceID: price.ID,
					Type:        req.ItemPrice.CryptocurrencyAddress.Type,
					Address:     req.ItemPrice.CryptocurrencyAddress.Address,
				}); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// destroyDependents removes every dependent subtree of a root, leaves first.
// Categories stay: they are shared lookup rows, not owned by the listing.
func (c *Coordinator) destroyDependents(owner ownerRef) error {
	info, err := c.store.ItemInformationForListing(owner.listingItemID, owner.templateID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if info != nil {
		images, err := c.store.ItemImagesForInformation(info.ID)
		if err != nil {
			return err
		}
		for _, img := range images {
			if err := c.store.DeleteItemImageDatasForImage(img.ID); err != nil {
				return err
			}
			if err := c.store.DeleteItemImage(img.ID); err != nil {
				return err
			}
		}
		if err := c.store.DeleteShippingDestinationsForInformation(info.ID); err != nil {
			return err
		}
		loc, err := c.store.ItemLocationForInformation(info.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if loc != nil {
			if err := c.store.DeleteLocationMarkersForLocation(loc.ID); err != nil {
				return err
			}
			if err := c.store.DeleteItemLocation(loc.ID); err != nil {
				return err
			}
		}
		if err := c.store.DeleteItemInformation(info.ID); err != nil {
			return err
		}
	}

	pay, err := c.store.PaymentInformationForListing(owner.listingItemID, owner.templateID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if pay != nil {
		escrow, err := c.store.EscrowForPaymentInformation(pay.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if escrow != nil {
			if err := c.store.DeleteEscrowRatiosForEscrow(escrow.ID); err != nil {
				return err
			}
			if err := c.store.DeleteEscrow(escrow.ID); err != nil {
				return err
			}
		}
		price, err := c.store.ItemPriceForPaymentInformation(pay.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if price != nil {
			if err := c.store.DeleteShippingPricesForItemPrice(price.ID); err != nil {
				return err
			}
			if err := c.store.DeleteCryptocurrencyAddressesForItemPrice(price.ID); err != nil {
				return err
			}
			if err := c.store.DeleteItemPrice(price.ID); err != nil {
				return err
			}
		}
		if err := c.store.DeletePaymentInformation(pay.ID); err != nil {
			return err
		}
	}

	if err := c.store.DeleteMessagingInformationForListing(owner.listingItemID, owner.templateID); err != nil {
		return err
	}

	objects, err := c.store.ListingItemObjectsForListing(owner.listingItemID, owner.templateID)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		if err := c.store.DeleteListingItemObjectDatasForObject(obj.ID); err != nil {
			return err
		}
		if err := c.store.DeleteListingItemObject(obj.ID); err != nil {
			return err
		}
	}
	return nil
}
