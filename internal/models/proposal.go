package models

import "time"

// Proposal is the aggregate root for governance and item votes. The latest
// tally snapshot is tracked through LatestResultID rather than "whichever
// result row was written last", so the single-writer invariant is explicit.
type Proposal struct {
	ID          uint   `gorm:"primaryKey"`
	Hash        string `gorm:"size:64;uniqueIndex;not null"`
	Submitter   string `gorm:"size:128;index"`
	BlockStart  int64
	BlockEnd    int64
	Type        string `gorm:"size:32;index"`
	Title       string `gorm:"size:256"`
	Description string `gorm:"type:text"`
	Item        string `gorm:"size:64;index"` // listing hash for ITEM_VOTE proposals

	LatestResultID *uint            `gorm:"index"`
	Options        []ProposalOption `gorm:"foreignKey:ProposalID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProposalOption struct {
	ID          uint   `gorm:"primaryKey"`
	ProposalID  uint   `gorm:"index;not null"`
	OptionID    int    `gorm:"index"`
	Description string `gorm:"size:1024"`
	Hash        string `gorm:"size:64"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProposalResult is a tally snapshot at a given block height. The current
// model keeps one hot snapshot per proposal and recomputes it in place.
type ProposalResult struct {
	ID         uint `gorm:"primaryKey"`
	ProposalID uint `gorm:"index;not null"`
	Block      int64

	OptionResults []ProposalOptionResult `gorm:"foreignKey:ProposalResultID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProposalOptionResult holds the tallied weight for one option. Weight and
// Voters are equal under one-vote-one-weight but stay separate columns so
// weighted voting can land without a migration.
type ProposalOptionResult struct {
	ID               uint `gorm:"primaryKey"`
	ProposalResultID uint `gorm:"index;not null"`
	ProposalOptionID uint `gorm:"index;not null"`
	Weight           int64
	Voters           int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Vote records one voter's choice on a proposal. The unique index on
// (voter, proposal_id) is the authoritative single-vote-per-voter invariant;
// the lookup-by-voter path in the store is only a fast pre-check.
type Vote struct {
	ID               uint   `gorm:"primaryKey"`
	ProposalID       uint   `gorm:"index:ux_voter_proposal,unique;index"`
	ProposalOptionID uint   `gorm:"index;not null"`
	Voter            string `gorm:"size:128;index:ux_voter_proposal,unique;index"`
	Block            int64
	Weight           int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
