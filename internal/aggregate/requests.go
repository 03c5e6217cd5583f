package aggregate

// Request types mirror the dependent-entity trees of the aggregate roots.
// Owner references (ListingItemID / ListingItemTemplateID) are only set on
// standalone sub-entity creates; nested creates get their foreign keys from
// the coordinator as parents are persisted.

type ItemCategoryRequest struct {
	Key  string
	Name string
}

type LocationMarkerRequest struct {
	Title       string
	Description string
	Lat         float64
	Lng         float64
}

type ItemLocationRequest struct {
	Country string
	Address string
	Marker  *LocationMarkerRequest
}

type ShippingDestinationRequest struct {
	Country              string
	ShippingAvailability string
}

type ItemImageDataRequest struct {
	Protocol     string
	Encoding     string
	ImageVersion string
	Data         string
}

type ItemImageRequest struct {
	Hash  string // computed from the first data version when empty
	Datas []ItemImageDataRequest
}

type ItemInformationRequest struct {
	ListingItemID         *uint
	ListingItemTemplateID *uint

	Title            string
	ShortDescription string
	LongDescription  string

	Category             *ItemCategoryRequest
	Location             *ItemLocationRequest
	ShippingDestinations []ShippingDestinationRequest
	Images               []ItemImageRequest
}

type EscrowRatioRequest struct {
	Buyer  int
	Seller int
}

type EscrowRequest struct {
	PaymentInformationID uint // required on standalone create
	Type                 string
	Ratio                *EscrowRatioRequest
}

type ShippingPriceRequest struct {
	Domestic      float64
	International float64
}

type CryptocurrencyAddressRequest struct {
	Type    string
	Address string
}

type ItemPriceRequest struct {
	Currency              string
	BasePrice             float64
	ShippingPrice         *ShippingPriceRequest
	CryptocurrencyAddress *CryptocurrencyAddressRequest
}

type PaymentInformationRequest struct {
	Type      string
	Escrow    *EscrowRequest
	ItemPrice *ItemPriceRequest
}

type MessagingInformationRequest struct {
	ListingItemID         *uint
	ListingItemTemplateID *uint

	Protocol  string
	PublicKey string
}

type ListingItemObjectDataRequest struct {
	Key   string
	Value string
}

type ListingItemObjectRequest struct {
	ListingItemID         *uint
	ListingItemTemplateID *uint

	Type        string
	Description string
	ObjectOrder int
	Datas       []ListingItemObjectDataRequest
}

// ListingItemCreateRequest describes a full listing aggregate. Hash, when
// set, is the digest the caller asserts the created object must match.
type ListingItemCreateRequest struct {
	Hash          string
	SellerAddress string
	Market        string
	ExpiryTime    int64
	PostedAt      int64
	ReceivedAt    int64

	ItemInformation      *ItemInformationRequest
	PaymentInformation   *PaymentInformationRequest
	MessagingInformation []MessagingInformationRequest
	ListingItemObjects   []ListingItemObjectRequest
}

// ListingItemUpdateRequest is a full replacement payload: every relational
// collection present here replaces the stored one wholesale.
type ListingItemUpdateRequest struct {
	Hash          string
	SellerAddress string
	Market        string
	ExpiryTime    int64

	ItemInformation      *ItemInformationRequest
	PaymentInformation   *PaymentInformationRequest
	MessagingInformation []MessagingInformationRequest
	ListingItemObjects   []ListingItemObjectRequest
}

type ListingTemplateCreateRequest struct {
	Hash         string
	OwnerAddress string

	ItemInformation      *ItemInformationRequest
	PaymentInformation   *PaymentInformationRequest
	MessagingInformation []MessagingInformationRequest
	ListingItemObjects   []ListingItemObjectRequest
}

type ProposalOptionRequest struct {
	OptionID    int
	Description string
}

type ProposalCreateRequest struct {
	Hash        string
	Submitter   string
	BlockStart  int64
	BlockEnd    int64
	Type        string
	Title       string
	Description string
	Item        string

	// Options keep their supplied order; the proposal digest is
	// order-sensitive here.
	Options []ProposalOptionRequest
}
