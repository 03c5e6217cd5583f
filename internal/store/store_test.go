package store_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	dbpkg "marketplace-backend/internal/db"
	"marketplace-backend/internal/models"
	"marketplace-backend/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, dbpkg.AutoMigrate(db))
	return store.New(db)
}

func TestListingItemByIDNotFound(t *testing.T) {
	st := setupTestStore(t)
	_, err := st.ListingItemByID(42, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestListingItemByHash(t *testing.T) {
	st := setupTestStore(t)
	hash := strings.Repeat("c", 64)
	require.NoError(t, st.CreateListingItem(&models.ListingItem{
		Hash:          hash,
		SellerAddress: "pSellerAddress",
		Market:        "pMarketAddress",
	}))

	item, err := st.ListingItemByHash(hash, false)
	require.NoError(t, err)
	assert.Equal(t, "pSellerAddress", item.SellerAddress)

	_, err = st.ListingItemByHash(strings.Repeat("d", 64), false)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestCategoryByKeyMissingIsNotAnError(t *testing.T) {
	st := setupTestStore(t)
	cat, err := st.CategoryByKey("cat_missing")
	require.NoError(t, err)
	assert.Nil(t, cat)

	require.NoError(t, st.CreateCategory(&models.ItemCategory{Key: "cat_books", Name: "Books"}))
	cat, err = st.CategoryByKey("cat_books")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, "Books", cat.Name)
}

func TestVoteByVoterAndProposal(t *testing.T) {
	st := setupTestStore(t)
	proposal := &models.Proposal{Hash: strings.Repeat("e", 64), Title: "test"}
	require.NoError(t, st.CreateProposal(proposal))
	option := &models.ProposalOption{ProposalID: proposal.ID, OptionID: 0}
	require.NoError(t, st.CreateProposalOption(option))

	vote, err := st.VoteByVoterAndProposal("voter1", proposal.ID)
	require.NoError(t, err)
	assert.Nil(t, vote)

	require.NoError(t, st.CreateVote(&models.Vote{
		ProposalID:       proposal.ID,
		ProposalOptionID: option.ID,
		Voter:            "voter1",
		Weight:           1,
	}))
	vote, err = st.VoteByVoterAndProposal("voter1", proposal.ID)
	require.NoError(t, err)
	require.NotNil(t, vote)
	assert.Equal(t, option.ID, vote.ProposalOptionID)
}

func TestDuplicateVoteRejectedByIndex(t *testing.T) {
	st := setupTestStore(t)
	proposal := &models.Proposal{Hash: strings.Repeat("f", 64), Title: "test"}
	require.NoError(t, st.CreateProposal(proposal))
	option := &models.ProposalOption{ProposalID: proposal.ID, OptionID: 0}
	require.NoError(t, st.CreateProposalOption(option))

	vote := models.Vote{ProposalID: proposal.ID, ProposalOptionID: option.ID, Voter: "voter1", Weight: 1}
	require.NoError(t, st.CreateVote(&vote))

	dup := models.Vote{ProposalID: proposal.ID, ProposalOptionID: option.ID, Voter: "voter1", Weight: 1}
	assert.Error(t, st.CreateVote(&dup))
}

func TestRecentProposalsOrder(t *testing.T) {
	st := setupTestStore(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, st.CreateProposal(&models.Proposal{
			Hash:  fmt.Sprintf("%064d", i),
			Title: fmt.Sprintf("proposal %d", i),
		}))
	}

	proposals, err := st.RecentProposals(2)
	require.NoError(t, err)
	require.Len(t, proposals, 2)
	assert.Equal(t, "proposal 2", proposals[0].Title)
	assert.Equal(t, "proposal 1", proposals[1].Title)
}
