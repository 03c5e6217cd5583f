package aggregate

import (
	"fmt"

	"marketplace-backend/internal/hashing"
	"marketplace-backend/internal/models"
)

func (c *Coordinator) templateHash(info *ItemInformationRequest, pay *PaymentInformationRequest, objects []ListingItemObjectRequest) string {
	h := hashing.ListingTemplateHashable(listingHashableFromRequest(info, pay, objects))
	return c.hasher.HashOf(h)
}

// verifyTemplate recomputes the digest over the finished template aggregate
// and compares it to the digest stored on the root, like verifyListing does
// for listings.
func (c *Coordinator) verifyTemplate(
	stored string,
	info *models.ItemInformation,
	pay *models.PaymentInformation,
	objects []models.ListingItemObject,
	committed []string,
) error {
	recomputed := c.hasher.HashOf(hashing.ListingTemplateHashable(listingHashableFromParts(info, pay, objects)))
	if recomputed != stored {
		return &PartialAggregateFailure{
			Step:      "verify",
			Committed: committed,
			Err:       &hashing.HashMismatchError{Asserted: stored, Computed: recomputed},
		}
	}
	return nil
}

// CreateListingTemplate persists a template aggregate. Templates share the
// listing's dependent tree, keyed by the template owner reference, but hash
// under their own kind.
func (c *Coordinator) CreateListingTemplate(req *ListingTemplateCreateRequest) (*models.ListingItemTemplate, error) {
	if req.ItemInformation == nil {
		return nil, &ValidationError{Msg: "template requires item information"}
	}
	computed := c.templateHash(req.ItemInformation, req.PaymentInformation, req.ListingItemObjects)
	if req.Hash != "" && req.Hash != computed {
		return nil, &hashing.HashMismatchError{Asserted: req.Hash, Computed: computed}
	}

	tpl := &models.ListingItemTemplate{Hash: computed, OwnerAddress: req.OwnerAddress}
	if err := c.store.CreateListingItemTemplate(tpl); err != nil {
		return nil, err
	}
	committed := []string{"listing_item_template"}

	owner := ownerRef{templateID: &tpl.ID}
	if err := c.createDependents(owner, req.ItemInformation, req.PaymentInformation,
		req.MessagingInformation, req.ListingItemObjects, &committed); err != nil {
		return nil, err
	}

	full, err := c.store.ListingItemTemplateByID(tpl.ID, true)
	if err != nil {
		return nil, &PartialAggregateFailure{Step: "refetch", Committed: committed, Err: err}
	}
	if err := c.verifyTemplate(full.Hash, full.ItemInformation, full.PaymentInformation,
		full.ListingItemObjects, committed); err != nil {
		return nil, err
	}
	c.log.Printf("listing template created: id=%d hash=%s", full.ID, full.Hash)
	return full, nil
}

// UpdateListingTemplate replaces every relational collection of the template
// from the payload, like the listing update path.
func (c *Coordinator) UpdateListingTemplate(id uint, req *ListingTemplateCreateRequest) (*models.ListingItemTemplate, error) {
	if req.ItemInformation == nil {
		return nil, &ValidationError{Msg: "template requires item information"}
	}
	tpl, err := c.store.ListingItemTemplateByID(id, false)
	if err != nil {
		return nil, err
	}
	computed := c.templateHash(req.ItemInformation, req.PaymentInformation, req.ListingItemObjects)
	if req.Hash != "" && req.Hash != computed {
		return nil, &hashing.HashMismatchError{Asserted: req.Hash, Computed: computed}
	}

	tpl.Hash = computed
	if req.OwnerAddress != "" {
		tpl.OwnerAddress = req.OwnerAddress
	}
	if err := c.store.UpdateListingItemTemplate(tpl); err != nil {
		return nil, err
	}
	committed := []string{"listing_item_template"}

	owner := ownerRef{templateID: &tpl.ID}
	if err := c.step("destroy_dependents", &committed, func() error {
		return c.destroyDependents(owner)
	}); err != nil {
		return nil, err
	}
	if err := c.createDependents(owner, req.ItemInformation, req.PaymentInformation,
		req.MessagingInformation, req.ListingItemObjects, &committed); err != nil {
		return nil, err
	}

	full, err := c.store.ListingItemTemplateByID(tpl.ID, true)
	if err != nil {
		return nil, &PartialAggregateFailure{Step: "refetch", Committed: committed, Err: err}
	}
	if err := c.verifyTemplate(full.Hash, full.ItemInformation, full.PaymentInformation,
		full.ListingItemObjects, committed); err != nil {
		return nil, err
	}
	c.log.Printf("listing template updated: id=%d hash=%s", full.ID, full.Hash)
	return full, nil
}

// DestroyListingTemplate removes the template and its dependents with
// explicit walks.
func (c *Coordinator) DestroyListingTemplate(id uint) error {
	tpl, err := c.store.ListingItemTemplateByID(id, false)
	if err != nil {
		return err
	}
	owner := ownerRef{templateID: &tpl.ID}
	if err := c.destroyDependents(owner); err != nil {
		return fmt.Errorf("destroy listing template %d: %w", id, err)
	}
	if err := c.store.DeleteListingItemTemplate(tpl.ID); err != nil {
		return err
	}
	c.log.Printf("listing template destroyed: id=%d", id)
	return nil
}
