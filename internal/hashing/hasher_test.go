package hashing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleListing() ListingItemHashable {
	return ListingItemHashable{
		Title:                      "vintage camera",
		ShortDescription:           "working Leica M3",
		LongDescription:            "fully serviced, new light seals",
		CategoryPath:               []string{"cat_electronics"},
		BasePrice:                  1.5,
		Currency:                   "PART",
		DomesticShippingPrice:      0.1,
		InternationalShippingPrice: 0.35,
		EscrowType:                 "MAD",
		EscrowBuyerRatio:           100,
		EscrowSellerRatio:          100,
		ShippingDestinations: []ShippingDestinationFields{
			{Country: "DE", ShippingAvailability: "SHIPS"},
			{Country: "US", ShippingAvailability: "DOES_NOT_SHIP"},
		},
		Images: []ImageFields{
			{Protocol: "LOCAL", Encoding: "BASE64", Data: "aGVsbG8="},
		},
		Objects: []ObjectFields{
			{Type: "DROPDOWN", Description: "color", Datas: []ObjectDataFields{{Key: "id", Value: "red"}}},
		},
	}
}

func sampleProposal() ProposalHashable {
	return ProposalHashable{
		Submitter:   "pSubmitterAddress",
		BlockStart:  100,
		BlockEnd:    2000,
		Type:        "PUBLIC_VOTE",
		Title:       "remove listing",
		Description: "flagged as prohibited",
		Item:        strings.Repeat("a", 64),
		Options: []ProposalOptionFields{
			{OptionID: 0, Description: "KEEP"},
			{OptionID: 1, Description: "REMOVE"},
		},
	}
}

func TestDigestDeterministic(t *testing.T) {
	h := NewHasher(SchemeLegacy)
	first := h.HashOf(sampleListing())
	require.Len(t, first, DigestLength)
	assert.Equal(t, strings.ToLower(first), first)

	for i := 0; i < 100; i++ {
		assert.Equal(t, first, h.HashOf(sampleListing()))
	}
}

func TestDigestChangesWithTitle(t *testing.T) {
	h := NewHasher(SchemeLegacy)
	a := sampleListing()
	b := sampleListing()
	b.Title = "antique camera"
	assert.NotEqual(t, h.HashOf(a), h.HashOf(b))
}

func TestKindsHaveDistinctDigestSpaces(t *testing.T) {
	h := NewHasher(SchemeCanonical)
	listing := sampleListing()
	template := ListingTemplateHashable(listing)
	assert.NotEqual(t, h.HashOf(listing), h.HashOf(template))

	proposal := sampleProposal()
	message := ProposalMessageHashable(proposal)
	assert.NotEqual(t, h.HashOf(proposal), h.HashOf(message))
}

// The legacy scheme sorts the serialized characters, so two projections with
// the same character multiset collide while the canonical scheme keeps them
// apart.
func TestSchemeSemantics(t *testing.T) {
	legacy := NewHasher(SchemeLegacy)
	canonical := NewHasher(SchemeCanonical)

	a := DefaultHashable{Fields: map[string]string{"ab": "c"}}
	b := DefaultHashable{Fields: map[string]string{"ba": "c"}}

	assert.Equal(t, legacy.HashOf(a), legacy.HashOf(b))
	assert.NotEqual(t, canonical.HashOf(a), canonical.HashOf(b))
	assert.NotEqual(t, legacy.HashOf(a), canonical.HashOf(a))
}

func TestProposalOptionOrderSensitive(t *testing.T) {
	h := NewHasher(SchemeCanonical)
	a := sampleProposal()
	b := sampleProposal()
	b.Options = []ProposalOptionFields{b.Options[1], b.Options[0]}
	assert.NotEqual(t, h.HashOf(a), h.HashOf(b))
}

func TestProjectCarriesKind(t *testing.T) {
	p := Project(sampleListing())
	assert.Equal(t, string(KindListingItem), p["kind"])
	assert.Equal(t, "vintage camera", p["title"])

	tpl := Project(ListingTemplateHashable(sampleListing()))
	assert.Equal(t, string(KindListingTemplate), tpl["kind"])
}

func TestProjectionIsACopy(t *testing.T) {
	fields := map[string]string{"k": "v"}
	hashable := DefaultHashable{Fields: fields}
	h := NewHasher(SchemeLegacy)
	before := h.HashOf(hashable)

	fields["k"] = "mutated"
	assert.NotEqual(t, before, h.HashOf(hashable))

	// The already computed digest stays what it was; only new computations
	// see the mutation.
	fields["k"] = "v"
	assert.Equal(t, before, h.HashOf(hashable))
}

func TestVerifyRoundTrip(t *testing.T) {
	h := NewHasher(SchemeLegacy)
	ver := NewVerifier(h)

	listing := sampleListing()
	digest := h.HashOf(listing)
	require.NoError(t, ver.Verify(listing, digest))
}

func TestVerifyRejectsMutation(t *testing.T) {
	h := NewHasher(SchemeLegacy)
	ver := NewVerifier(h)

	listing := sampleListing()
	digest := h.HashOf(listing)
	listing.BasePrice = 999

	err := ver.Verify(listing, digest)
	require.Error(t, err)
	assert.True(t, IsHashMismatch(err))
}

func TestVerifyRejectsWrongLength(t *testing.T) {
	h := NewHasher(SchemeLegacy)
	ver := NewVerifier(h)

	err := ver.Verify(sampleListing(), "deadbeef")
	require.Error(t, err)
	assert.True(t, IsHashMismatch(err))
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("LISTING_ITEM")
	require.NoError(t, err)
	assert.Equal(t, KindListingItem, kind)

	_, err = ParseKind("BANANA")
	require.Error(t, err)
	var unsupported *UnsupportedKindError
	assert.ErrorAs(t, err, &unsupported)
}

func TestParseScheme(t *testing.T) {
	assert.Equal(t, SchemeLegacy, ParseScheme(""))
	assert.Equal(t, SchemeLegacy, ParseScheme("legacy"))
	assert.Equal(t, SchemeCanonical, ParseScheme("canonical"))
	assert.Equal(t, SchemeCanonical, ParseScheme("CANONICAL"))
}
