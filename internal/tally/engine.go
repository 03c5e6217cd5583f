// Package tally computes per-option vote weights for proposals and maintains
// the result snapshot each proposal points at.
package tally

import (
	"context"
	"fmt"

	"marketplace-backend/internal/logger"
	"marketplace-backend/internal/models"
	"marketplace-backend/internal/store"
)

// HeightSource reports the current chain height for stamping snapshots.
type HeightSource interface {
	CurrentHeight(ctx context.Context) (int64, error)
}

// Engine recomputes tally snapshots from the vote rows. All numeric output is
// a pure function of the stored votes; only the block stamp depends on the
// height source.
type Engine struct {
	store   *store.Store
	heights HeightSource
	log     *logger.Logger
}

func New(st *store.Store, heights HeightSource, log *logger.Logger) *Engine {
	return &Engine{store: st, heights: heights, log: log}
}

// CreateEmptyResult creates the initial snapshot for a proposal: current
// chain height, one zero-weight row per option, and the proposal's
// LatestResultID set to the new snapshot. Called once at proposal creation;
// an empty snapshot is how "zero votes" stays distinguishable from "never
// tallied".
func (e *Engine) CreateEmptyResult(ctx context.Context, proposalID uint) (*models.ProposalResult, error) {
	proposal, err := e.store.ProposalByID(proposalID, false)
	if err != nil {
		return nil, err
	}
	height, err := e.heights.CurrentHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("current height: %w", err)
	}

	result := &models.ProposalResult{ProposalID: proposal.ID, Block: height}
	if err := e.store.CreateProposalResult(result); err != nil {
		return nil, err
	}

	options, err := e.store.OptionsForProposal(proposal.ID)
	if err != nil {
		return nil, err
	}
	for _, opt := range options {
		optResult := &models.ProposalOptionResult{
			ProposalResultID: result.ID,
			ProposalOptionID: opt.ID,
			Weight:           0,
			Voters:           0,
		}
		if err := e.store.CreateProposalOptionResult(optResult); err != nil {
			return nil, err
		}
	}

	proposal.LatestResultID = &result.ID
	if err := e.store.UpdateProposal(proposal); err != nil {
		return nil, err
	}

	e.log.Printf("created empty tally for proposal %d at height %d", proposal.ID, height)
	return e.store.ProposalResultByID(result.ID)
}

// Recompute refreshes the proposal's latest snapshot in place: new block
// stamp, and each option's weight/voters overwritten with the current vote
// count. Weight equals voters until weighted voting exists. Not an upsert:
// a proposal without a snapshot fails with store.ErrNotFound and the caller
// must use CreateEmptyResult first. Idempotent over unchanged votes.
func (e *Engine) Recompute(ctx context.Context, proposalID uint) (*models.ProposalResult, error) {
	proposal, err := e.store.ProposalByID(proposalID, false)
	if err != nil {
		return nil, err
	}
	if proposal.LatestResultID == nil {
		return nil, fmt.Errorf("proposal %d has no result snapshot: %w", proposalID, store.ErrNotFound)
	}
	result, err := e.store.ProposalResultByID(*proposal.LatestResultID)
	if err != nil {
		return nil, err
	}

	height, err := e.heights.CurrentHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("current height: %w", err)
	}
	result.Block = height
	if err := e.store.UpdateProposalResult(result); err != nil {
		return nil, err
	}

	// Option results are processed in stored insertion order.
	for i := range result.OptionResults {
		optResult := &result.OptionResults[i]
		votes, err := e.store.CountVotesForOption(optResult.ProposalOptionID)
		if err != nil {
			return nil, err
		}
		optResult.Weight = votes
		optResult.Voters = votes
		if err := e.store.UpdateProposalOptionResult(optResult); err != nil {
			return nil, err
		}
	}

	e.log.Printf("recomputed tally for proposal %d at height %d", proposal.ID, height)
	return e.store.ProposalResultByID(result.ID)
}
