package store

import (
	"fmt"

	"marketplace-backend/internal/models"
)

func (s *Store) CreateProposal(p *models.Proposal) error {
	if err := s.db.Create(p).Error; err != nil {
		return fmt.Errorf("create proposal: %w", err)
	}
	return nil
}

func (s *Store) ProposalByID(id uint, withRelated bool) (*models.Proposal, error) {
	var p models.Proposal
	q := s.db
	if withRelated {
		q = q.Preload("Options", orderByID)
	}
	if err := q.First(&p, id).Error; err != nil {
		return nil, notFound("proposal", err)
	}
	return &p, nil
}

func (s *Store) ProposalByHash(hash string, withRelated bool) (*models.Proposal, error) {
	var p models.Proposal
	q := s.db
	if withRelated {
		q = q.Preload("Options", orderByID)
	}
	if err := q.Where("hash = ?", hash).First(&p).Error; err != nil {
		return nil, notFound("proposal", err)
	}
	return &p, nil
}

func (s *Store) RecentProposals(limit int) ([]models.Proposal, error) {
	var proposals []models.Proposal
	if err := s.db.Preload("Options", orderByID).Order("id DESC").Limit(limit).
		Find(&proposals).Error; err != nil {
		return nil, fmt.Errorf("fetch recent proposals: %w", err)
	}
	return proposals, nil
}

func (s *Store) UpdateProposal(p *models.Proposal) error {
	if err := s.db.Save(p).Error; err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	return nil
}

func (s *Store) DeleteProposal(id uint) error {
	if err := s.db.Delete(&models.Proposal{}, id).Error; err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	return nil
}

func (s *Store) CreateProposalOption(opt *models.ProposalOption) error {
	if err := s.db.Create(opt).Error; err != nil {
		return fmt.Errorf("create proposal option: %w", err)
	}
	return nil
}

// OptionsForProposal returns options in stored insertion order.
func (s *Store) OptionsForProposal(proposalID uint) ([]models.ProposalOption, error) {
	var options []models.ProposalOption
	if err := s.db.Where("proposal_id = ?", proposalID).Order("id ASC").
		Find(&options).Error; err != nil {
		return nil, fmt.Errorf("fetch proposal options: %w", err)
	}
	return options, nil
}

func (s *Store) DeleteOptionsForProposal(proposalID uint) error {
	if err := s.db.Where("proposal_id = ?", proposalID).
		Delete(&models.ProposalOption{}).Error; err != nil {
		return fmt.Errorf("delete proposal options: %w", err)
	}
	return nil
}

func (s *Store) CreateProposalResult(result *models.ProposalResult) error {
	if err := s.db.Create(result).Error; err != nil {
		return fmt.Errorf("create proposal result: %w", err)
	}
	return nil
}

func (s *Store) ProposalResultByID(id uint) (*models.ProposalResult, error) {
	var result models.ProposalResult
	if err := s.db.Preload("OptionResults", orderByID).First(&result, id).Error; err != nil {
		return nil, notFound("proposal result", err)
	}
	return &result, nil
}

func (s *Store) UpdateProposalResult(result *models.ProposalResult) error {
	if err := s.db.Save(result).Error; err != nil {
		return fmt.Errorf("update proposal result: %w", err)
	}
	return nil
}

func (s *Store) DeleteResultsForProposal(proposalID uint) error {
	var results []models.ProposalResult
	if err := s.db.Where("proposal_id = ?", proposalID).Find(&results).Error; err != nil {
		return fmt.Errorf("fetch proposal results: %w", err)
	}
	for _, r := range results {
		if err := s.db.Where("proposal_result_id = ?", r.ID).
			Delete(&models.ProposalOptionResult{}).Error; err != nil {
			return fmt.Errorf("delete proposal option results: %w", err)
		}
	}
	if err := s.db.Where("proposal_id = ?", proposalID).
		Delete(&models.ProposalResult{}).Error; err != nil {
		return fmt.Errorf("delete proposal results: %w", err)
	}
	return nil
}

func (s *Store) CreateProposalOptionResult(result *models.ProposalOptionResult) error {
	if err := s.db.Create(result).Error; err != nil {
		return fmt.Errorf("create proposal option result: %w", err)
	}
	return nil
}

func (s *Store) UpdateProposalOptionResult(result *models.ProposalOptionResult) error {
	if err := s.db.Save(result).Error; err != nil {
		return fmt.Errorf("update proposal option result: %w", err)
	}
	return nil
}
