package tally_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"marketplace-backend/internal/chain"
	dbpkg "marketplace-backend/internal/db"
	"marketplace-backend/internal/logger"
	"marketplace-backend/internal/models"
	"marketplace-backend/internal/store"
	"marketplace-backend/internal/tally"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setup(t *testing.T) (*store.Store, *chain.StaticSource, *tally.Engine) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, dbpkg.AutoMigrate(db))

	st := store.New(db)
	heights := chain.NewStaticSource(100)
	return st, heights, tally.New(st, heights, logger.New(false))
}

// seedProposal creates a proposal with two options directly through the store.
func seedProposal(t *testing.T, st *store.Store) (*models.Proposal, []models.ProposalOption) {
	t.Helper()
	proposal := &models.Proposal{
		Hash:      "b0d0c0a0e0f0a1b1c1d1e1f1a2b2c2d2e2f2a3b3c3d3e3f3a4b4c4d4e4f4a5b5",
		Submitter: "pSubmitterAddress",
		Type:      "PUBLIC_VOTE",
		Title:     "remove listing",
	}
	require.NoError(t, st.CreateProposal(proposal))
	for i, desc := range []string{"KEEP", "REMOVE"} {
		require.NoError(t, st.CreateProposalOption(&models.ProposalOption{
			ProposalID:  proposal.ID,
			OptionID:    i,
			Description: desc,
		}))
	}
	options, err := st.OptionsForProposal(proposal.ID)
	require.NoError(t, err)
	require.Len(t, options, 2)
	return proposal, options
}

func seedVote(t *testing.T, st *store.Store, proposalID, optionID uint, voter string) {
	t.Helper()
	require.NoError(t, st.CreateVote(&models.Vote{
		ProposalID:       proposalID,
		ProposalOptionID: optionID,
		Voter:            voter,
		Block:            100,
		Weight:           1,
	}))
}

func TestCreateEmptyResult(t *testing.T) {
	st, _, engine := setup(t)
	proposal, _ := seedProposal(t, st)

	result, err := engine.CreateEmptyResult(context.Background(), proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), result.Block)
	require.Len(t, result.OptionResults, 2)
	for _, or := range result.OptionResults {
		assert.Zero(t, or.Weight)
		assert.Zero(t, or.Voters)
	}

	refreshed, err := st.ProposalByID(proposal.ID, false)
	require.NoError(t, err)
	require.NotNil(t, refreshed.LatestResultID)
	assert.Equal(t, result.ID, *refreshed.LatestResultID)
}

func TestRecomputeCountsVotes(t *testing.T) {
	st, heights, engine := setup(t)
	proposal, options := seedProposal(t, st)
	_, err := engine.CreateEmptyResult(context.Background(), proposal.ID)
	require.NoError(t, err)

	seedVote(t, st, proposal.ID, options[0].ID, "voter1")
	seedVote(t, st, proposal.ID, options[0].ID, "voter2")
	seedVote(t, st, proposal.ID, options[0].ID, "voter3")
	seedVote(t, st, proposal.ID, options[1].ID, "voter4")
	heights.SetHeight(120)

	result, err := engine.Recompute(context.Background(), proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(120), result.Block)

	byOption := map[uint]models.ProposalOptionResult{}
	for _, or := range result.OptionResults {
		byOption[or.ProposalOptionID] = or
	}
	assert.Equal(t, int64(3), byOption[options[0].ID].Weight)
	assert.Equal(t, int64(3), byOption[options[0].ID].Voters)
	assert.Equal(t, int64(1), byOption[options[1].ID].Weight)
	assert.Equal(t, int64(1), byOption[options[1].ID].Voters)
}

func TestRecomputeIdempotent(t *testing.T) {
	st, _, engine := setup(t)
	proposal, options := seedProposal(t, st)
	_, err := engine.CreateEmptyResult(context.Background(), proposal.ID)
	require.NoError(t, err)
	seedVote(t, st, proposal.ID, options[0].ID, "voter1")

	first, err := engine.Recompute(context.Background(), proposal.ID)
	require.NoError(t, err)
	second, err := engine.Recompute(context.Background(), proposal.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Block, second.Block)
	require.Len(t, second.OptionResults, len(first.OptionResults))
	for i := range first.OptionResults {
		assert.Equal(t, first.OptionResults[i].Weight, second.OptionResults[i].Weight)
		assert.Equal(t, first.OptionResults[i].Voters, second.OptionResults[i].Voters)
	}
}

func TestRecomputeRequiresSnapshot(t *testing.T) {
	st, _, engine := setup(t)
	proposal, _ := seedProposal(t, st)

	_, err := engine.Recompute(context.Background(), proposal.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestRecomputeUpdatesSnapshotInPlace(t *testing.T) {
	st, _, engine := setup(t)
	proposal, options := seedProposal(t, st)
	created, err := engine.CreateEmptyResult(context.Background(), proposal.ID)
	require.NoError(t, err)

	seedVote(t, st, proposal.ID, options[1].ID, "voter1")
	result, err := engine.Recompute(context.Background(), proposal.ID)
	require.NoError(t, err)

	// Same snapshot row, refreshed numbers: no second result accumulates
	assert.Equal(t, created.ID, result.ID)
	refreshed, err := st.ProposalByID(proposal.ID, false)
	require.NoError(t, err)
	require.NotNil(t, refreshed.LatestResultID)
	assert.Equal(t, created.ID, *refreshed.LatestResultID)
}
