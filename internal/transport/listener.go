package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"marketplace-backend/internal/aggregate"
	"marketplace-backend/internal/hashing"
	"marketplace-backend/internal/logger"
	"marketplace-backend/internal/models"
	"marketplace-backend/internal/store"
	"marketplace-backend/internal/tally"
)

// VotePayload is the proposal-message body carrying one voter's choice.
// OptionID is the proposal-local option number, not a row id.
type VotePayload struct {
	ProposalHash string `json:"proposal_hash"`
	OptionID     int    `json:"option_id"`
	Voter        string `json:"voter"`
	Block        int64  `json:"block"`
	Weight       int64  `json:"weight"`
}

// UnroutableKindError reports an envelope whose kind is valid but has no
// inbound flow on this node. Distinct from hashing.UnsupportedKindError,
// which marks kinds the hashing layer does not know at all.
type UnroutableKindError struct {
	Kind hashing.Kind
}

func (e *UnroutableKindError) Error() string {
	return fmt.Sprintf("no inbound flow for kind %q", string(e.Kind))
}

// Listener is the inbound side of the transport: decode the payload for the
// envelope kind, verify the asserted digest, then persist. A payload that
// fails verification never reaches the database.
type Listener struct {
	coord    *aggregate.Coordinator
	store    *store.Store
	tally    *tally.Engine
	verifier *hashing.Verifier
	log      *logger.Logger
}

func NewListener(
	coord *aggregate.Coordinator,
	st *store.Store,
	tallyEngine *tally.Engine,
	verifier *hashing.Verifier,
	log *logger.Logger,
) *Listener {
	return &Listener{
		coord:    coord,
		store:    st,
		tally:    tallyEngine,
		verifier: verifier,
		log:      log,
	}
}

// Attach registers the listener as the transport's receive handler.
func (l *Listener) Attach(t Transport) {
	t.OnMessageReceived(l.Handle)
}

func (l *Listener) Handle(ctx context.Context, env Envelope) error {
	kind, err := hashing.ParseKind(env.Kind)
	if err != nil {
		return err
	}
	switch kind {
	case hashing.KindListingItem:
		return l.handleListing(env)
	case hashing.KindListingTemplate:
		return l.handleTemplate(env)
	case hashing.KindProposal:
		return l.handleProposal(ctx, env)
	case hashing.KindProposalMessage:
		return l.handleVote(ctx, env)
	default:
		return &UnroutableKindError{Kind: kind}
	}
}

func (l *Listener) handleListing(env Envelope) error {
	var req aggregate.ListingItemCreateRequest
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		return fmt.Errorf("decode listing payload: %w", err)
	}
	if err := l.verifier.Verify(aggregate.ListingHashable(&req), req.Hash); err != nil {
		return err
	}
	item, err := l.coord.CreateListingItem(&req)
	if err != nil {
		return err
	}
	l.log.Printf("accepted listing %s from %s", item.Hash, env.Sender)
	return nil
}

func (l *Listener) handleTemplate(env Envelope) error {
	var req aggregate.ListingTemplateCreateRequest
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		return fmt.Errorf("decode template payload: %w", err)
	}
	if err := l.verifier.Verify(aggregate.TemplateHashable(&req), req.Hash); err != nil {
		return err
	}
	tpl, err := l.coord.CreateListingTemplate(&req)
	if err != nil {
		return err
	}
	l.log.Printf("accepted listing template %s from %s", tpl.Hash, env.Sender)
	return nil
}

func (l *Listener) handleProposal(ctx context.Context, env Envelope) error {
	var req aggregate.ProposalCreateRequest
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		return fmt.Errorf("decode proposal payload: %w", err)
	}
	if err := l.verifier.Verify(aggregate.ProposalHashable(&req), req.Hash); err != nil {
		return err
	}
	proposal, err := l.coord.CreateProposal(ctx, &req)
	if err != nil {
		return err
	}
	l.log.Printf("accepted proposal %s from %s", proposal.Hash, env.Sender)
	return nil
}

// handleVote upserts the sender's vote and recomputes the proposal tally.
// A repeat vote from the same voter moves their choice instead of adding a
// second row.
func (l *Listener) handleVote(ctx context.Context, env Envelope) error {
	var payload VotePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return fmt.Errorf("decode vote payload: %w", err)
	}
	if payload.Voter == "" {
		return fmt.Errorf("vote from %s has no voter address", env.Sender)
	}

	proposal, err := l.store.ProposalByHash(payload.ProposalHash, false)
	if err != nil {
		return err
	}
	options, err := l.store.OptionsForProposal(proposal.ID)
	if err != nil {
		return err
	}
	var option *models.ProposalOption
	for i := range options {
		if options[i].OptionID == payload.OptionID {
			option = &options[i]
			break
		}
	}
	if option == nil {
		return fmt.Errorf("proposal %s has no option %d", payload.ProposalHash, payload.OptionID)
	}

	weight := payload.Weight
	if weight == 0 {
		weight = 1
	}
	existing, err := l.store.VoteByVoterAndProposal(payload.Voter, proposal.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.ProposalOptionID = option.ID
		existing.Block = payload.Block
		existing.Weight = weight
		if err := l.store.UpdateVote(existing); err != nil {
			return err
		}
	} else {
		vote := &models.Vote{
			ProposalID:       proposal.ID,
			ProposalOptionID: option.ID,
			Voter:            payload.Voter,
			Block:            payload.Block,
			Weight:           weight,
		}
		if err := l.store.CreateVote(vote); err != nil {
			return err
		}
	}

	if _, err := l.tally.Recompute(ctx, proposal.ID); err != nil {
		return fmt.Errorf("recompute tally after vote: %w", err)
	}
	l.log.Printf("recorded vote by %s on proposal %d option %d", payload.Voter, proposal.ID, payload.OptionID)
	return nil
}
