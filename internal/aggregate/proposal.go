package aggregate

import (
	"context"
	"fmt"

	"marketplace-backend/internal/hashing"
	"marketplace-backend/internal/models"
)

// CreateProposal persists a proposal with its options in the supplied order
// and seeds the empty tally snapshot. The proposal digest is order-sensitive
// over options, so option order is preserved end to end.
func (c *Coordinator) CreateProposal(ctx context.Context, req *ProposalCreateRequest) (*models.Proposal, error) {
	if len(req.Options) == 0 {
		return nil, &ValidationError{Msg: "proposal requires at least one option"}
	}
	computed := c.hasher.HashOf(proposalHashableFromRequest(req))
	if req.Hash != "" && req.Hash != computed {
		return nil, &hashing.HashMismatchError{Asserted: req.Hash, Computed: computed}
	}

	proposal := &models.Proposal{
		Hash:        computed,
		Submitter:   req.Submitter,
		BlockStart:  req.BlockStart,
		BlockEnd:    req.BlockEnd,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Item:        req.Item,
	}
	if err := c.store.CreateProposal(proposal); err != nil {
		return nil, err
	}
	committed := []string{"proposal"}

	if err := c.step("proposal_options", &committed, func() error {
		for _, o := range req.Options {
			opt := &models.ProposalOption{
				ProposalID:  proposal.ID,
				OptionID:    o.OptionID,
				Description: o.Description,
				Hash: c.hasher.HashOf(hashing.ProposalOptionHashable{
					ProposalHash: computed,
					OptionID:     o.OptionID,
					Description:  o.Description,
				}),
			}
			if err := c.store.CreateProposalOption(opt); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := c.step("proposal_result", &committed, func() error {
		_, err := c.tally.CreateEmptyResult(ctx, proposal.ID)
		return err
	}); err != nil {
		return nil, err
	}

	full, err := c.store.ProposalByID(proposal.ID, true)
	if err != nil {
		return nil, &PartialAggregateFailure{Step: "refetch", Committed: committed, Err: err}
	}
	if err := c.verifyProposal(full, committed); err != nil {
		return nil, err
	}
	c.log.Printf("proposal created: id=%d hash=%s options=%d", full.ID, full.Hash, len(full.Options))
	return full, nil
}

// verifyProposal recomputes the digest over the refetched proposal and its
// options and compares it to the digest stored on the root.
func (c *Coordinator) verifyProposal(p *models.Proposal, committed []string) error {
	recomputed := c.hasher.HashOf(proposalHashableFromParts(p))
	if recomputed != p.Hash {
		return &PartialAggregateFailure{
			Step:      "verify",
			Committed: committed,
			Err:       &hashing.HashMismatchError{Asserted: p.Hash, Computed: recomputed},
		}
	}
	return nil
}

// DestroyProposal removes the proposal and everything under it: votes,
// result snapshots, options, then the root.
func (c *Coordinator) DestroyProposal(id uint) error {
	proposal, err := c.store.ProposalByID(id, false)
	if err != nil {
		return err
	}
	if err := c.store.DeleteVotesForProposal(proposal.ID); err != nil {
		return fmt.Errorf("destroy proposal %d: %w", id, err)
	}
	// Clear the snapshot pointer before the rows it references go away.
	proposal.LatestResultID = nil
	if err := c.store.UpdateProposal(proposal); err != nil {
		return fmt.Errorf("destroy proposal %d: %w", id, err)
	}
	if err := c.store.DeleteResultsForProposal(proposal.ID); err != nil {
		return fmt.Errorf("destroy proposal %d: %w", id, err)
	}
	if err := c.store.DeleteOptionsForProposal(proposal.ID); err != nil {
		return fmt.Errorf("destroy proposal %d: %w", id, err)
	}
	if err := c.store.DeleteProposal(proposal.ID); err != nil {
		return err
	}
	c.log.Printf("proposal destroyed: id=%d", id)
	return nil
}
