package store

import (
	"errors"
	"fmt"

	"marketplace-backend/internal/models"

	"gorm.io/gorm"
)

func (s *Store) CreateVote(v *models.Vote) error {
	if err := s.db.Create(v).Error; err != nil {
		return fmt.Errorf("create vote: %w", err)
	}
	return nil
}

func (s *Store) UpdateVote(v *models.Vote) error {
	if err := s.db.Save(v).Error; err != nil {
		return fmt.Errorf("update vote: %w", err)
	}
	return nil
}

// VoteByVoterAndProposal is the fast pre-check for the one-vote-per-voter
// rule. Returns nil without error when the voter has not voted yet; the
// unique index on (voter, proposal_id) remains the authoritative constraint.
func (s *Store) VoteByVoterAndProposal(voter string, proposalID uint) (*models.Vote, error) {
	var v models.Vote
	if err := s.db.Where("voter = ? AND proposal_id = ?", voter, proposalID).
		First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("vote by voter: %w", err)
	}
	return &v, nil
}

func (s *Store) CountVotesForOption(proposalOptionID uint) (int64, error) {
	var n int64
	if err := s.db.Model(&models.Vote{}).
		Where("proposal_option_id = ?", proposalOptionID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}

func (s *Store) DeleteVotesForProposal(proposalID uint) error {
	if err := s.db.Where("proposal_id = ?", proposalID).
		Delete(&models.Vote{}).Error; err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}
	return nil
}
