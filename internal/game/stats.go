// internal/game/stats.go
package game

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fantan-dapp/fantan/internal/chain"
	"github.com/fantan-dapp/fantan/internal/models"
)

// Synchronizer maintains the displayed cumulative player statistics. The
// contract is the source of truth: every refresh and every push replaces
// the stats wholesale, and a failed read degrades to zeroes rather than
// leaving stale data on screen.
type Synchronizer struct {
	gw  chain.Gateway
	log *logrus.Logger

	// OnUpdate, when set, is invoked with a copy of the stats after every
	// replacement (refresh or push).
	OnUpdate func(models.PlayerStats)

	mu    sync.RWMutex
	stats models.PlayerStats
}

// NewSynchronizer returns a synchronizer holding zero stats.
func NewSynchronizer(gw chain.Gateway, log *logrus.Logger) *Synchronizer {
	return &Synchronizer{gw: gw, log: log, stats: models.ZeroStats()}
}

// Stats returns a copy of the current stats.
func (s *Synchronizer) Stats() models.PlayerStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats.Clone()
}

// Refresh reads the connected account's stats from the contract. On any
// read failure the stats are zeroed, so a failure looks identical to a
// player with no history yet.
func (s *Synchronizer) Refresh(ctx context.Context) {
	stats, err := s.gw.PlayerStats(ctx)
	if err != nil {
		s.log.WithError(err).Warn("stats read failed, showing empty stats")
		stats = models.ZeroStats()
	}
	s.replace(stats)
}

// Watch subscribes to StatsUpdated pushes for the lifetime of ctx. Events
// for other players are discarded; address comparison is on the normalized
// binary address, so it is case-insensitive by construction. Cancelling ctx
// tears the subscription down; a leaked subscription would keep applying
// updates for a stale account, so teardown is part of correctness here.
func (s *Synchronizer) Watch(ctx context.Context) error {
	events, cancel, err := s.gw.SubscribeStats(ctx)
	if err != nil {
		return fmt.Errorf("watching stats: %w", err)
	}
	account := s.gw.Account()

	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Player != account {
					continue
				}
				s.replace(models.PlayerStats{
					GamesPlayed:   ev.GamesPlayed,
					GamesWon:      ev.GamesWon,
					TotalWinnings: ev.TotalWinnings,
				})
			}
		}
	}()
	return nil
}

func (s *Synchronizer) replace(stats models.PlayerStats) {
	if stats.TotalWinnings == nil {
		stats.TotalWinnings = new(big.Int)
	}
	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
	s.log.WithFields(logrus.Fields{
		"games_played": stats.GamesPlayed,
		"games_won":    stats.GamesWon,
	}).Debug("stats replaced")
	if s.OnUpdate != nil {
		s.OnUpdate(stats.Clone())
	}
}
