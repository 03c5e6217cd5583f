package aggregate

import (
	"marketplace-backend/internal/hashing"
	"marketplace-backend/internal/logger"
	"marketplace-backend/internal/store"
	"marketplace-backend/internal/tally"
)

// Coordinator sequences aggregate writes across the per-entity store. Later
// steps depend on ids assigned by earlier ones, so the sequence is strictly
// ordered and never fanned out.
type Coordinator struct {
	store  *store.Store
	hasher *hashing.Hasher
	tally  *tally.Engine
	log    *logger.Logger
}

func New(st *store.Store, hasher *hashing.Hasher, tallyEngine *tally.Engine, log *logger.Logger) *Coordinator {
	return &Coordinator{
		store:  st,
		hasher: hasher,
		tally:  tallyEngine,
		log:    log,
	}
}

// ownerRef is the exactly-one-of owner reference carried by entities that
// exist both standalone and nested under a listing or template.
type ownerRef struct {
	listingItemID *uint
	templateID    *uint
}

func (o ownerRef) validate() error {
	if (o.listingItemID == nil) == (o.templateID == nil) {
		return &ValidationError{Msg: "owner reference missing"}
	}
	return nil
}

// step runs one persist operation of a saga. On failure the error is wrapped
// with the step name and everything committed so far; on success the step is
// recorded as committed.
func (c *Coordinator) step(name string, committed *[]string, fn func() error) error {
	if err := fn(); err != nil {
		return &PartialAggregateFailure{
			Step:      name,
			Committed: append([]string(nil), *committed...),
			Err:       err,
		}
	}
	*committed = append(*committed, name)
	return nil
}
