package aggregate_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"marketplace-backend/internal/aggregate"
	"marketplace-backend/internal/chain"
	dbpkg "marketplace-backend/internal/db"
	"marketplace-backend/internal/hashing"
	"marketplace-backend/internal/logger"
	"marketplace-backend/internal/store"
	"marketplace-backend/internal/tally"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	store   *store.Store
	hasher  *hashing.Hasher
	heights *chain.StaticSource
	coord   *aggregate.Coordinator
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, dbpkg.AutoMigrate(db))

	st := store.New(db)
	hasher := hashing.NewHasher(hashing.SchemeLegacy)
	heights := chain.NewStaticSource(100)
	log := logger.New(false)
	engine := tally.New(st, heights, log)
	return &fixture{
		store:   st,
		hasher:  hasher,
		heights: heights,
		coord:   aggregate.New(st, hasher, engine, log),
	}
}

func listingRequest() *aggregate.ListingItemCreateRequest {
	return &aggregate.ListingItemCreateRequest{
		SellerAddress: "pSellerAddress",
		Market:        "pMarketAddress",
		ExpiryTime:    4,
		PostedAt:      1756700000,
		ReceivedAt:    1756700100,
		ItemInformation: &aggregate.ItemInformationRequest{
			Title:            "vintage camera",
			ShortDescription: "working Leica M3",
			LongDescription:  "fully serviced, new light seals",
			Category:         &aggregate.ItemCategoryRequest{Key: "cat_electronics", Name: "Electronics"},
			Location: &aggregate.ItemLocationRequest{
				Country: "DE",
				Address: "somewhere in Berlin",
				Marker: &aggregate.LocationMarkerRequest{
					Title: "pickup point", Description: "station", Lat: 52.52, Lng: 13.4,
				},
			},
			ShippingDestinations: []aggregate.ShippingDestinationRequest{
				{Country: "DE", ShippingAvailability: "SHIPS"},
				{Country: "FR", ShippingAvailability: "SHIPS"},
				{Country: "US", ShippingAvailability: "DOES_NOT_SHIP"},
			},
			Images: []aggregate.ItemImageRequest{
				{Datas: []aggregate.ItemImageDataRequest{
					{Protocol: "LOCAL", Encoding: "BASE64", ImageVersion: "ORIGINAL", Data: "aGVsbG8="},
				}},
				{Datas: []aggregate.ItemImageDataRequest{
					{Protocol: "LOCAL", Encoding: "BASE64", ImageVersion: "ORIGINAL", Data: "d29ybGQ="},
				}},
			},
		},
		PaymentInformation: &aggregate.PaymentInformationRequest{
			Type: "SALE",
			Escrow: &aggregate.EscrowRequest{
				Type:  "MAD",
				Ratio: &aggregate.EscrowRatioRequest{Buyer: 100, Seller: 100},
			},
			ItemPrice: &aggregate.ItemPriceRequest{
				Currency:  "PART",
				BasePrice: 1.5,
				ShippingPrice: &aggregate.ShippingPriceRequest{
					Domestic: 0.1, International: 0.35,
				},
				CryptocurrencyAddress: &aggregate.CryptocurrencyAddressRequest{
					Type: "STEALTH", Address: "pCryptoAddress",
				},
			},
		},
		MessagingInformation: []aggregate.MessagingInformationRequest{
			{Protocol: "SMSG", PublicKey: "pubkey1"},
		},
		ListingItemObjects: []aggregate.ListingItemObjectRequest{
			{Type: "DROPDOWN", Description: "color", ObjectOrder: 0, Datas: []aggregate.ListingItemObjectDataRequest{
				{Key: "id", Value: "red"},
			}},
		},
	}
}

func proposalRequest() *aggregate.ProposalCreateRequest {
	return &aggregate.ProposalCreateRequest{
		Submitter:   "pSubmitterAddress",
		BlockStart:  100,
		BlockEnd:    2000,
		Type:        "PUBLIC_VOTE",
		Title:       "remove listing",
		Description: "flagged as prohibited",
		Item:        strings.Repeat("a", 64),
		Options: []aggregate.ProposalOptionRequest{
			{OptionID: 0, Description: "KEEP"},
			{OptionID: 1, Description: "REMOVE"},
		},
	}
}

func TestCreateListingItemRoundTrip(t *testing.T) {
	f := setup(t)
	req := listingRequest()

	item, err := f.coord.CreateListingItem(req)
	require.NoError(t, err)
	require.Len(t, item.Hash, hashing.DigestLength)
	assert.Equal(t, f.hasher.HashOf(aggregate.ListingHashable(req)), item.Hash)

	fetched, err := f.store.ListingItemByID(item.ID, true)
	require.NoError(t, err)
	require.NotNil(t, fetched.ItemInformation)
	assert.Equal(t, "vintage camera", fetched.ItemInformation.Title)
	require.NotNil(t, fetched.ItemInformation.ItemCategory)
	assert.Equal(t, "cat_electronics", fetched.ItemInformation.ItemCategory.Key)
	require.NotNil(t, fetched.ItemInformation.ItemLocation)
	require.NotNil(t, fetched.ItemInformation.ItemLocation.LocationMarker)
	assert.InDelta(t, 52.52, fetched.ItemInformation.ItemLocation.LocationMarker.Lat, 1e-9)

	require.Len(t, fetched.ItemInformation.ShippingDestinations, 3)
	// Collections come back in insertion order, which the digest depends on
	for i, want := range []string{"DE", "FR", "US"} {
		assert.Equal(t, want, fetched.ItemInformation.ShippingDestinations[i].Country)
	}
	require.Len(t, fetched.ItemInformation.ItemImages, 2)
	for _, img := range fetched.ItemInformation.ItemImages {
		assert.Len(t, img.Hash, hashing.DigestLength)
		assert.Len(t, img.ItemImageDatas, 1)
	}

	require.NotNil(t, fetched.PaymentInformation)
	require.NotNil(t, fetched.PaymentInformation.Escrow)
	require.NotNil(t, fetched.PaymentInformation.Escrow.Ratio)
	assert.Equal(t, 100, fetched.PaymentInformation.Escrow.Ratio.Buyer)
	require.NotNil(t, fetched.PaymentInformation.ItemPrice)
	assert.InDelta(t, 1.5, fetched.PaymentInformation.ItemPrice.BasePrice, 1e-9)
	require.NotNil(t, fetched.PaymentInformation.ItemPrice.ShippingPrice)
	require.NotNil(t, fetched.PaymentInformation.ItemPrice.CryptocurrencyAddress)

	assert.Len(t, fetched.MessagingInformation, 1)
	require.Len(t, fetched.ListingItemObjects, 1)
	assert.Len(t, fetched.ListingItemObjects[0].ListingItemObjectDatas, 1)
}

func TestCreateListingItemRejectsBadDigest(t *testing.T) {
	f := setup(t)
	req := listingRequest()
	req.Hash = strings.Repeat("0", hashing.DigestLength)

	_, err := f.coord.CreateListingItem(req)
	require.Error(t, err)
	assert.True(t, hashing.IsHashMismatch(err))

	count, err := f.store.CountListingItems()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateListingItemValidation(t *testing.T) {
	f := setup(t)
	req := listingRequest()
	req.PaymentInformation = nil

	_, err := f.coord.CreateListingItem(req)
	require.Error(t, err)
	assert.True(t, aggregate.IsValidation(err))
}

func TestUpdateListingItemReplacesCollections(t *testing.T) {
	f := setup(t)
	created, err := f.coord.CreateListingItem(listingRequest())
	require.NoError(t, err)

	src := listingRequest()
	update := &aggregate.ListingItemUpdateRequest{
		SellerAddress:        src.SellerAddress,
		Market:               src.Market,
		ExpiryTime:           8,
		ItemInformation:      src.ItemInformation,
		PaymentInformation:   src.PaymentInformation,
		MessagingInformation: src.MessagingInformation,
		ListingItemObjects:   src.ListingItemObjects,
	}
	update.ItemInformation.Title = "antique camera"
	update.ItemInformation.ShippingDestinations = []aggregate.ShippingDestinationRequest{
		{Country: "DE", ShippingAvailability: "SHIPS"},
	}

	updated, err := f.coord.UpdateListingItem(created.ID, update)
	require.NoError(t, err)
	assert.NotEqual(t, created.Hash, updated.Hash)
	assert.Equal(t, int64(8), updated.ExpiryTime)
	require.NotNil(t, updated.ItemInformation)
	assert.Equal(t, "antique camera", updated.ItemInformation.Title)
	// Replacement, not merge: only the one destination from the payload
	assert.Len(t, updated.ItemInformation.ShippingDestinations, 1)

	dests, err := f.store.ShippingDestinationsForInformation(updated.ItemInformation.ID)
	require.NoError(t, err)
	require.Len(t, dests, 1)
	assert.Equal(t, "DE", dests[0].Country)
}

func TestDestroyListingItemWalksDependents(t *testing.T) {
	f := setup(t)
	created, err := f.coord.CreateListingItem(listingRequest())
	require.NoError(t, err)
	infoID := created.ItemInformation.ID

	require.NoError(t, f.coord.DestroyListingItem(created.ID))

	_, err = f.store.ListingItemByID(created.ID, false)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	_, err = f.store.ItemInformationByID(infoID)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	msgs, err := f.store.MessagingInformationForListing(&created.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// Categories are shared lookup data and survive the walk
	cat, err := f.store.CategoryByKey("cat_electronics")
	require.NoError(t, err)
	assert.NotNil(t, cat)
}

func TestCategoryReusedAcrossListings(t *testing.T) {
	f := setup(t)
	first, err := f.coord.CreateListingItem(listingRequest())
	require.NoError(t, err)

	second := listingRequest()
	second.ItemInformation.Title = "second listing"
	secondItem, err := f.coord.CreateListingItem(second)
	require.NoError(t, err)

	require.NotNil(t, first.ItemInformation.ItemCategoryID)
	require.NotNil(t, secondItem.ItemInformation.ItemCategoryID)
	assert.Equal(t, *first.ItemInformation.ItemCategoryID, *secondItem.ItemInformation.ItemCategoryID)
}

func TestCreateEscrowOwnerValidation(t *testing.T) {
	f := setup(t)

	_, err := f.coord.CreateEscrow(&aggregate.EscrowRequest{
		Type:  "MAD",
		Ratio: &aggregate.EscrowRatioRequest{Buyer: 100, Seller: 100},
	})
	require.Error(t, err)
	assert.True(t, aggregate.IsValidation(err))

	req := listingRequest()
	req.PaymentInformation.Escrow = nil
	item, err := f.coord.CreateListingItem(req)
	require.NoError(t, err)

	escrow, err := f.coord.CreateEscrow(&aggregate.EscrowRequest{
		PaymentInformationID: item.PaymentInformation.ID,
		Type:                 "MAD",
		Ratio:                &aggregate.EscrowRatioRequest{Buyer: 100, Seller: 100},
	})
	require.NoError(t, err)
	require.NotNil(t, escrow.Ratio)
	assert.Equal(t, 100, escrow.Ratio.Buyer)
}

func TestStandalonePartsRequireOwner(t *testing.T) {
	f := setup(t)

	_, err := f.coord.CreateMessagingInformation(&aggregate.MessagingInformationRequest{
		Protocol: "SMSG", PublicKey: "pubkey1",
	})
	require.Error(t, err)
	assert.True(t, aggregate.IsValidation(err))

	id := uint(1)
	otherID := uint(2)
	_, err = f.coord.CreateListingItemObject(&aggregate.ListingItemObjectRequest{
		ListingItemID:         &id,
		ListingItemTemplateID: &otherID,
		Type:                  "TABLE",
	})
	require.Error(t, err)
	assert.True(t, aggregate.IsValidation(err))
}

func TestTemplateDigestDiffersFromListing(t *testing.T) {
	f := setup(t)
	src := listingRequest()

	item, err := f.coord.CreateListingItem(listingRequest())
	require.NoError(t, err)

	tplReq := &aggregate.ListingTemplateCreateRequest{
		OwnerAddress:         "pOwnerAddress",
		ItemInformation:      src.ItemInformation,
		PaymentInformation:   src.PaymentInformation,
		MessagingInformation: src.MessagingInformation,
		ListingItemObjects:   src.ListingItemObjects,
	}
	tpl, err := f.coord.CreateListingTemplate(tplReq)
	require.NoError(t, err)
	require.NotNil(t, tpl.ItemInformation)
	assert.NotEqual(t, item.Hash, tpl.Hash)
	assert.Equal(t, f.hasher.HashOf(aggregate.TemplateHashable(tplReq)), tpl.Hash)
}

func TestCreateProposalSeedsEmptyTally(t *testing.T) {
	f := setup(t)
	proposal, err := f.coord.CreateProposal(context.Background(), proposalRequest())
	require.NoError(t, err)
	require.Len(t, proposal.Options, 2)
	require.NotNil(t, proposal.LatestResultID)

	result, err := f.store.ProposalResultByID(*proposal.LatestResultID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), result.Block)
	require.Len(t, result.OptionResults, 2)
	for _, or := range result.OptionResults {
		assert.Zero(t, or.Weight)
		assert.Zero(t, or.Voters)
	}
}

func TestCreateProposalRequiresOptions(t *testing.T) {
	f := setup(t)
	req := proposalRequest()
	req.Options = nil

	_, err := f.coord.CreateProposal(context.Background(), req)
	require.Error(t, err)
	assert.True(t, aggregate.IsValidation(err))
}

func TestDestroyProposal(t *testing.T) {
	f := setup(t)
	proposal, err := f.coord.CreateProposal(context.Background(), proposalRequest())
	require.NoError(t, err)

	require.NoError(t, f.coord.DestroyProposal(proposal.ID))

	_, err = f.store.ProposalByID(proposal.ID, false)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	options, err := f.store.OptionsForProposal(proposal.ID)
	require.NoError(t, err)
	assert.Empty(t, options)
}
