// Package monitor periodically snapshots node status and proposal tallies
// from the database and feeds them to the TUI over an update channel.
package monitor

import (
	"context"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/logger"
	"marketplace-backend/internal/models"
	"marketplace-backend/internal/profile"
	"marketplace-backend/internal/store"
	"marketplace-backend/internal/tui"
)

const (
	// TUIChannelBufferSize buffers update messages so a slow terminal does
	// not stall the refresh loop.
	TUIChannelBufferSize = 16
	// TUICloseDelay gives the TUI time to drain after the channel closes.
	TUICloseDelay = 200 * time.Millisecond

	refreshInterval     = 5 * time.Second
	recentProposalCount = 10
)

// HeightSource reports the current chain height.
type HeightSource interface {
	CurrentHeight(ctx context.Context) (int64, error)
}

type Monitor struct {
	cfg      config.Config
	store    *store.Store
	heights  HeightSource
	profiles *profile.Resolver
	updates  chan<- interface{}
	log      *logger.Logger
}

func New(
	cfg config.Config,
	st *store.Store,
	heights HeightSource,
	profiles *profile.Resolver,
	updates chan<- interface{},
	log *logger.Logger,
) *Monitor {
	return &Monitor{
		cfg:      cfg,
		store:    st,
		heights:  heights,
		profiles: profiles,
		updates:  updates,
		log:      log,
	}
}

// Run refreshes the TUI until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	m.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.refresh(ctx)
		}
	}
}

func (m *Monitor) refresh(ctx context.Context) {
	status := tui.StatusInfo{
		DBDialect:     m.cfg.DBDialect,
		MarketAddress: m.cfg.MarketAddress,
		UpdatedAt:     time.Now(),
	}

	if m.heights != nil {
		if height, err := m.heights.CurrentHeight(ctx); err == nil {
			status.ChainHeight = height
		} else {
			m.log.Printf("monitor: chain height unavailable: %v", err)
		}
	}
	if count, err := m.store.CountListingItems(); err == nil {
		status.ListingCount = count
	} else {
		m.log.Printf("monitor: listing count failed: %v", err)
	}
	m.push(status)

	proposals, err := m.store.RecentProposals(recentProposalCount)
	if err != nil {
		m.log.Printf("monitor: fetch proposals failed: %v", err)
		return
	}
	m.push(m.buildProposalInfos(proposals))
}

func (m *Monitor) buildProposalInfos(proposals []models.Proposal) []tui.ProposalInfo {
	infos := make([]tui.ProposalInfo, 0, len(proposals))
	for _, p := range proposals {
		info := tui.ProposalInfo{
			ID:            p.ID,
			Title:         p.Title,
			Type:          p.Type,
			Submitter:     p.Submitter,
			SubmitterName: m.profiles.Resolve(p.Submitter),
			Block:         p.BlockStart,
		}

		// Vote counts come from the latest snapshot, keyed by option row id.
		tallies := map[uint]int64{}
		if p.LatestResultID != nil {
			if result, err := m.store.ProposalResultByID(*p.LatestResultID); err == nil {
				info.Block = result.Block
				for _, or := range result.OptionResults {
					tallies[or.ProposalOptionID] = or.Voters
				}
			}
		}
		for _, opt := range p.Options {
			info.Options = append(info.Options, tui.OptionTally{
				OptionID:    opt.OptionID,
				Description: opt.Description,
				Votes:       tallies[opt.ID],
			})
		}
		infos = append(infos, info)
	}
	return infos
}

// push sends without blocking; a full channel drops the update, the next
// refresh supersedes it anyway.
func (m *Monitor) push(data interface{}) {
	select {
	case m.updates <- data:
	default:
	}
}
