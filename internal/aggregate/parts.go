package aggregate

import "marketplace-backend/internal/models"

// Standalone creates for entities that exist both nested under a root and on
// their own. The request body must carry exactly one owner reference.

// CreateItemInformation creates an item information subtree directly under an
// existing listing or template.
func (c *Coordinator) CreateItemInformation(req *ItemInformationRequest) (*models.ItemInformation, error) {
	owner := ownerRef{listingItemID: req.ListingItemID, templateID: req.ListingItemTemplateID}
	if err := owner.validate(); err != nil {
		return nil, err
	}
	var committed []string
	if err := c.createItemInformationTree(owner, req, &committed); err != nil {
		return nil, err
	}
	return c.store.ItemInformationForListing(owner.listingItemID, owner.templateID)
}

// CreateMessagingInformation creates one messaging record under an existing
// listing or template.
func (c *Coordinator) CreateMessagingInformation(req *MessagingInformationRequest) (*models.MessagingInformation, error) {
	owner := ownerRef{listingItemID: req.ListingItemID, templateID: req.ListingItemTemplateID}
	if err := owner.validate(); err != nil {
		return nil, err
	}
	rec := &models.MessagingInformation{
		Protocol:              req.Protocol,
		PublicKey:             req.PublicKey,
		ListingItemID:         owner.listingItemID,
		ListingItemTemplateID: owner.templateID,
	}
	if err := c.store.CreateMessagingInformation(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateListingItemObject creates one listing object with its data rows under
// an existing listing or template.
func (c *Coordinator) CreateListingItemObject(req *ListingItemObjectRequest) (*models.ListingItemObject, error) {
	owner := ownerRef{listingItemID: req.ListingItemID, templateID: req.ListingItemTemplateID}
	if err := owner.validate(); err != nil {
		return nil, err
	}
	obj := &models.ListingItemObject{
		Type:                  req.Type,
		Description:           req.Description,
		ObjectOrder:           req.ObjectOrder,
		ListingItemID:         owner.listingItemID,
		ListingItemTemplateID: owner.templateID,
	}
	if err := c.store.CreateListingItemObject(obj); err != nil {
		return nil, err
	}
	committed := []string{"listing_item_object"}
	if len(req.Datas) > 0 {
		if err := c.step("listing_item_object_datas", &committed, func() error {
			for _, d := range req.Datas {
				data := &models.ListingItemObjectData{
					ListingItemObjectID: obj.ID,
					DataKey:             d.Key,
					DataValue:           d.Value,
				}
				if err := c.store.CreateListingItemObjectData(data); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// CreateEscrow creates an escrow with its ratio under an existing payment
// information row.
func (c *Coordinator) CreateEscrow(req *EscrowRequest) (*models.Escrow, error) {
	if req.PaymentInformationID == 0 {
		return nil, &ValidationError{Msg: "owner reference missing"}
	}
	escrow := &models.Escrow{PaymentInformationID: req.PaymentInformationID, Type: req.Type}
	if err := c.store.CreateEscrow(escrow); err != nil {
		return nil, err
	}
	committed := []string{"escrow"}
	if req.Ratio != nil {
		if err := c.step("escrow_ratio", &committed, func() error {
			return c.store.CreateEscrowRatio(&models.EscrowRatio{
				EscrowID: escrow.ID,
				Buyer:    req.Ratio.Buyer,
				Seller:   req.Ratio.Seller,
			})
		}); err != nil {
			return nil, err
		}
	}
	return c.store.EscrowByID(escrow.ID)
}
