package aggregate

import (
	"marketplace-backend/internal/hashing"
	"marketplace-backend/internal/models"
)

// listingHashableFromRequest reduces a create/update payload to the listing's
// identity fields. Seller, market and timestamps stay out: the digest must be
// submitter-independent.
func listingHashableFromRequest(
	info *ItemInformationRequest,
	pay *PaymentInformationRequest,
	objects []ListingItemObjectRequest,
) hashing.ListingItemHashable {
	var h hashing.ListingItemHashable
	if info != nil {
		h.Title = info.Title
		h.ShortDescription = info.ShortDescription
		h.LongDescription = info.LongDescription
		if info.Category != nil {
			h.CategoryPath = []string{info.Category.Key}
		}
		for _, d := range info.ShippingDestinations {
			h.ShippingDestinations = append(h.ShippingDestinations, hashing.ShippingDestinationFields{
				Country:              d.Country,
				ShippingAvailability: d.ShippingAvailability,
			})
		}
		for _, img := range info.Images {
			for _, data := range img.Datas {
				h.Images = append(h.Images, hashing.ImageFields{
					Protocol: data.Protocol,
					Encoding: data.Encoding,
					Data:     data.Data,
				})
			}
		}
	}
	if pay != nil {
		if pay.Escrow != nil {
			h.EscrowType = pay.Escrow.Type
			if pay.Escrow.Ratio != nil {
				h.EscrowBuyerRatio = pay.Escrow.Ratio.Buyer
				h.EscrowSellerRatio = pay.Escrow.Ratio.Seller
			}
		}
		if pay.ItemPrice != nil {
			h.Currency = pay.ItemPrice.Currency
			h.BasePrice = pay.ItemPrice.BasePrice
			if pay.ItemPrice.ShippingPrice != nil {
				h.DomesticShippingPrice = pay.ItemPrice.ShippingPrice.Domestic
				h.InternationalShippingPrice = pay.ItemPrice.ShippingPrice.International
			}
		}
	}
	for _, o := range objects {
		obj := hashing.ObjectFields{Type: o.Type, Description: o.Description}
		for _, d := range o.Datas {
			obj.Datas = append(obj.Datas, hashing.ObjectDataFields{Key: d.Key, Value: d.Value})
		}
		h.Objects = append(h.Objects, obj)
	}
	return h
}

// listingHashableFromParts builds the same reduction from a persisted,
// relation-expanded aggregate, for the post-persist integrity check. A
// request and the row tree persisted from it must produce identical
// projections.
func listingHashableFromParts(
	info *models.ItemInformation,
	pay *models.PaymentInformation,
	objects []models.ListingItemObject,
) hashing.ListingItemHashable {
	var h hashing.ListingItemHashable
	if info != nil {
		h.Title = info.Title
		h.ShortDescription = info.ShortDescription
		h.LongDescription = info.LongDescription
		if info.ItemCategory != nil {
			h.CategoryPath = []string{info.ItemCategory.Key}
		}
		for _, d := range info.ShippingDestinations {
			h.ShippingDestinations = append(h.ShippingDestinations, hashing.ShippingDestinationFields{
				Country:              d.Country,
				ShippingAvailability: d.ShippingAvailability,
			})
		}
		for _, img := range info.ItemImages {
			for _, data := range img.ItemImageDatas {
				h.Images = append(h.Images, hashing.ImageFields{
					Protocol: data.Protocol,
					Encoding: data.Encoding,
					Data:     data.Data,
				})
			}
		}
	}
	if pay != nil {
		if pay.Escrow != nil {
			h.EscrowType = pay.Escrow.Type
			if pay.Escrow.Ratio != nil {
				h.EscrowBuyerRatio = pay.Escrow.Ratio.Buyer
				h.EscrowSellerRatio = pay.Escrow.Ratio.Seller
			}
		}
		if pay.ItemPrice != nil {
			h.Currency = pay.ItemPrice.Currency
			h.BasePrice = pay.ItemPrice.BasePrice
			if pay.ItemPrice.ShippingPrice != nil {
				h.DomesticShippingPrice = pay.ItemPrice.ShippingPrice.Domestic
				h.InternationalShippingPrice = pay.ItemPrice.ShippingPrice.International
			}
		}
	}
	for _, o := range objects {
		obj := hashing.ObjectFields{Type: o.Type, Description: o.Description}
		for _, d := range o.ListingItemObjectDatas {
			obj.Datas = append(obj.Datas, hashing.ObjectDataFields{Key: d.DataKey, Value: d.DataValue})
		}
		h.Objects = append(h.Objects, obj)
	}
	return h
}

// ListingHashable exposes the request reduction for callers that verify an
// inbound payload before handing it to the coordinator.
func ListingHashable(req *ListingItemCreateRequest) hashing.Hashable {
	return listingHashableFromRequest(req.ItemInformation, req.PaymentInformation, req.ListingItemObjects)
}

// TemplateHashable is the template counterpart of ListingHashable.
func TemplateHashable(req *ListingTemplateCreateRequest) hashing.Hashable {
	return hashing.ListingTemplateHashable(
		listingHashableFromRequest(req.ItemInformation, req.PaymentInformation, req.ListingItemObjects))
}

// ProposalHashable exposes the proposal request reduction for inbound
// verification.
func ProposalHashable(req *ProposalCreateRequest) hashing.Hashable {
	return proposalHashableFromRequest(req)
}

// proposalHashableFromParts rebuilds the proposal reduction from persisted
// rows, for the post-persist integrity check. Options come back in insertion
// order, which is the supplied order the digest was computed over.
func proposalHashableFromParts(p *models.Proposal) hashing.ProposalHashable {
	h := hashing.ProposalHashable{
		Submitter:   p.Submitter,
		BlockStart:  p.BlockStart,
		BlockEnd:    p.BlockEnd,
		Type:        p.Type,
		Title:       p.Title,
		Description: p.Description,
		Item:        p.Item,
	}
	for _, o := range p.Options {
		h.Options = append(h.Options, hashing.ProposalOptionFields{
			OptionID:    o.OptionID,
			Description: o.Description,
		})
	}
	return h
}

func proposalHashableFromRequest(req *ProposalCreateRequest) hashing.ProposalHashable {
	h := hashing.ProposalHashable{
		Submitter:   req.Submitter,
		BlockStart:  req.BlockStart,
		BlockEnd:    req.BlockEnd,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Item:        req.Item,
	}
	for _, o := range req.Options {
		h.Options = append(h.Options, hashing.ProposalOptionFields{
			OptionID:    o.OptionID,
			Description: o.Description,
		})
	}
	return h
}
