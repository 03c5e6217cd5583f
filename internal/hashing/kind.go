// Package hashing computes canonical content digests for marketplace
// entities. An entity is reduced to a projection holding only its semantic
// identity fields, the projection is serialized in a stable text form and
// hashed, and the resulting digest travels with the entity so that receivers
// can detect tampering by recomputing it.
package hashing

import "fmt"

// Kind tags the projection rules to apply to a hashable value.
type Kind string

const (
	KindListingItem     Kind = "LISTING_ITEM"
	KindListingTemplate Kind = "LISTING_TEMPLATE"
	KindItemImage       Kind = "ITEM_IMAGE"
	KindOrder           Kind = "ORDER"
	KindProposal        Kind = "PROPOSAL"
	KindProposalMessage Kind = "PROPOSAL_MESSAGE"
	KindProposalOption  Kind = "PROPOSAL_OPTION"
	KindDefault         Kind = "DEFAULT"
)

// UnsupportedKindError indicates a kind tag with no projection rules. This is
// a programmer error (a new entity kind without a projector), not a condition
// to catch and continue on.
type UnsupportedKindError struct {
	Kind Kind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported hashable kind: %q", string(e.Kind))
}

// ParseKind maps a wire kind tag to a Kind. Unknown tags fail with
// UnsupportedKindError.
func ParseKind(tag string) (Kind, error) {
	switch k := Kind(tag); k {
	case KindListingItem, KindListingTemplate, KindItemImage, KindOrder,
		KindProposal, KindProposalMessage, KindProposalOption, KindDefault:
		return k, nil
	default:
		return "", &UnsupportedKindError{Kind: Kind(tag)}
	}
}
