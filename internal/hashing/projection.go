package hashing

import (
	"strconv"
	"strings"
)

// Projection is the reduced representation of an entity used as hashing
// input: semantic identity fields only, no database ids, no timestamps, no
// back-references. Two logically identical entities must project to equal
// maps regardless of how their source structs were populated.
type Projection map[string]string

// Hashable is implemented by every projectable value. The method set is the
// closed dispatch over kinds: adding a kind without a projection does not
// compile.
type Hashable interface {
	Kind() Kind
	project() Projection
}

// Project returns the canonical projection for v, with the kind tag folded in
// as a field of its own so values with identical identity fields but different
// kinds occupy distinct digest spaces. Projections are built from value copies
// of the input fields, so later mutation of the source cannot leak into an
// already computed projection.
func Project(v Hashable) Projection {
	p := v.project()
	p["kind"] = string(v.Kind())
	return p
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ShippingDestinationFields is one shipping destination entry inside a
// listing projection.
type ShippingDestinationFields struct {
	Country              string
	ShippingAvailability string
}

// ImageFields is one image entry inside a listing projection.
type ImageFields struct {
	Protocol string
	Encoding string
	Data     string
}

// ObjectDataFields is one key/value pair of a listing object.
type ObjectDataFields struct {
	Key   string
	Value string
}

// ObjectFields is one listing object entry inside a listing projection.
type ObjectFields struct {
	Type        string
	Description string
	Datas       []ObjectDataFields
}

// ListingItemHashable carries the identity fields of a listing. The array
// fields are flattened into single separator-joined strings in array order
// rather than hashed recursively, so two projections serialize to directly
// comparable strings.
type ListingItemHashable struct {
	Title            string
	ShortDescription string
	LongDescription  string
	CategoryPath     []string

	BasePrice                  float64
	Currency                   string
	DomesticShippingPrice      float64
	InternationalShippingPrice float64

	EscrowType        string
	EscrowBuyerRatio  int
	EscrowSellerRatio int

	ShippingDestinations []ShippingDestinationFields
	Images               []ImageFields
	Objects              []ObjectFields
}

func (h ListingItemHashable) Kind() Kind { return KindListingItem }

func (h ListingItemHashable) project() Projection {
	return Projection{
		"title":                      h.Title,
		"shortDescription":           h.ShortDescription,
		"longDescription":            h.LongDescription,
		"category":                   strings.Join(h.CategoryPath, ":"),
		"basePrice":                  formatFloat(h.BasePrice),
		"currency":                   h.Currency,
		"domesticShippingPrice":      formatFloat(h.DomesticShippingPrice),
		"internationalShippingPrice": formatFloat(h.InternationalShippingPrice),
		"escrowType":                 h.EscrowType,
		"escrowRatio":                strconv.Itoa(h.EscrowBuyerRatio) + ":" + strconv.Itoa(h.EscrowSellerRatio),
		"shippingDestinations":       flattenDestinations(h.ShippingDestinations),
		"images":                     flattenImages(h.Images),
		"objects":                    flattenObjects(h.Objects),
	}
}

func flattenDestinations(dests []ShippingDestinationFields) string {
	var b strings.Builder
	for _, d := range dests {
		b.WriteString(d.Country)
		b.WriteString(":")
		b.WriteString(d.ShippingAvailability)
		b.WriteString(":")
	}
	return b.String()
}

func flattenImages(images []ImageFields) string {
	var b strings.Builder
	for _, img := range images {
		b.WriteString(img.Protocol)
		b.WriteString(":")
		b.WriteString(img.Encoding)
		b.WriteString(":")
		b.WriteString(img.Data)
		b.WriteString(":")
	}
	return b.String()
}

func flattenObjects(objects []ObjectFields) string {
	var b strings.Builder
	for _, o := range objects {
		b.WriteString(o.Type)
		b.WriteString(":")
		b.WriteString(o.Description)
		b.WriteString(":")
		for _, d := range o.Datas {
			b.WriteString(d.Key)
			b.WriteString("=")
			b.WriteString(d.Value)
			b.WriteString(";")
		}
	}
	return b.String()
}

// ListingTemplateHashable projects like a listing but under its own kind, so
// a template and the listing published from it keep distinct digest spaces.
type ListingTemplateHashable ListingItemHashable

func (h ListingTemplateHashable) Kind() Kind { return KindListingTemplate }

func (h ListingTemplateHashable) project() Projection {
	return ListingItemHashable(h).project()
}

// ItemImageHashable carries the identity fields of a single image.
type ItemImageHashable struct {
	Protocol string
	Encoding string
	Data     string
}

func (h ItemImageHashable) Kind() Kind { return KindItemImage }

func (h ItemImageHashable) project() Projection {
	return Projection{
		"protocol": h.Protocol,
		"encoding": h.Encoding,
		"data":     h.Data,
	}
}

// OrderHashable carries the identity fields of an order between two parties.
type OrderHashable struct {
	Buyer    string
	Seller   string
	ItemHash string
}

func (h OrderHashable) Kind() Kind { return KindOrder }

func (h OrderHashable) project() Projection {
	return Projection{
		"buyer":    h.Buyer,
		"seller":   h.Seller,
		"itemHash": h.ItemHash,
	}
}

// ProposalOptionFields is one option entry inside a proposal projection.
type ProposalOptionFields struct {
	OptionID    int
	Description string
}

// ProposalHashable carries the identity fields of a proposal. The options
// string is built in the supplied order, so the projection is order-sensitive
// for options even though field declaration order never matters.
type ProposalHashable struct {
	Submitter   string
	BlockStart  int64
	BlockEnd    int64
	Type        string
	Title       string
	Description string
	Item        string
	Options     []ProposalOptionFields
}

func (h ProposalHashable) Kind() Kind { return KindProposal }

func (h ProposalHashable) project() Projection {
	var opts strings.Builder
	for _, o := range h.Options {
		opts.WriteString(strconv.Itoa(o.OptionID))
		opts.WriteString(":")
		opts.WriteString(o.Description)
		opts.WriteString(":")
	}
	return Projection{
		"submitter":   h.Submitter,
		"blockStart":  strconv.FormatInt(h.BlockStart, 10),
		"blockEnd":    strconv.FormatInt(h.BlockEnd, 10),
		"type":        h.Type,
		"title":       h.Title,
		"description": h.Description,
		"item":        h.Item,
		"options":     opts.String(),
	}
}

// ProposalMessageHashable is the wire-message variant of a proposal. The
// field set matches ProposalHashable; the separate kind keeps message digests
// distinct from locally created proposal digests.
type ProposalMessageHashable ProposalHashable

func (h ProposalMessageHashable) Kind() Kind { return KindProposalMessage }

func (h ProposalMessageHashable) project() Projection {
	return ProposalHashable(h).project()
}

// ProposalOptionHashable carries the identity fields of a single option,
// bound to its proposal by the proposal digest.
type ProposalOptionHashable struct {
	ProposalHash string
	OptionID     int
	Description  string
}

func (h ProposalOptionHashable) Kind() Kind { return KindProposalOption }

func (h ProposalOptionHashable) project() Projection {
	return Projection{
		"proposalHash": h.ProposalHash,
		"optionId":     strconv.Itoa(h.OptionID),
		"description":  h.Description,
	}
}

// DefaultHashable passes caller-supplied fields through unchanged. The map is
// copied so the projection stays stable after the caller mutates theirs.
type DefaultHashable struct {
	Fields map[string]string
}

func (h DefaultHashable) Kind() Kind { return KindDefault }

func (h DefaultHashable) project() Projection {
	p := make(Projection, len(h.Fields))
	for k, v := range h.Fields {
		p[k] = v
	}
	return p
}
