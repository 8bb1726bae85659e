// internal/game/wager.go
package game

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/fantan-dapp/fantan/internal/chain"
	"github.com/fantan-dapp/fantan/internal/models"
)

// BetPolicy bounds the accepted wager, in wei.
type BetPolicy struct {
	MinBet *big.Int
	MaxBet *big.Int
}

// Allows reports whether the amount is positive and within bounds.
func (p BetPolicy) Allows(amount *big.Int) bool {
	if amount == nil || amount.Sign() <= 0 {
		return false
	}
	if p.MinBet != nil && amount.Cmp(p.MinBet) < 0 {
		return false
	}
	if p.MaxBet != nil && amount.Cmp(p.MaxBet) > 0 {
		return false
	}
	return true
}

// Submitter validates a bet against local preconditions, submits it and
// interprets the emitted outcome record. All precondition failures are
// rejected before any gateway write.
type Submitter struct {
	gw     chain.Gateway
	life   *Lifecycle
	stats  *Synchronizer
	policy BetPolicy
	log    *logrus.Logger
}

// NewSubmitter wires a submitter to the lifecycle controller and the stats
// synchronizer it must notify.
func NewSubmitter(gw chain.Gateway, life *Lifecycle, stats *Synchronizer, policy BetPolicy, log *logrus.Logger) *Submitter {
	return &Submitter{gw: gw, life: life, stats: stats, policy: policy, log: log}
}

// PlaceBet wagers amount (wei) on the card at selected. On success the deck
// is marked played, the outcome stored and a stats refresh triggered.
func (s *Submitter) PlaceBet(ctx context.Context, selected int, amount *big.Int) (*models.Outcome, error) {
	st := s.life.Snapshot()

	// Local preconditions, checked in order: selection, validity window,
	// amount. None of these touch the gateway.
	if selected < 0 || selected >= models.DeckSize {
		return nil, ErrNoSelection
	}
	if st.State != StateActive || st.Deck == nil || st.Countdown <= 0 {
		return nil, ErrDeckExpired
	}
	if !s.policy.Allows(amount) {
		return nil, fmt.Errorf("%w: %s ether (accepted %s-%s)", ErrInvalidAmount,
			models.FormatEther(amount), models.FormatEther(s.policy.MinBet), models.FormatEther(s.policy.MaxBet))
	}

	// Solvency check: refuse the bet before spending gas if the house
	// cannot cover the maximum payout.
	maxPayout, err := s.gw.MaxPayout(ctx, amount)
	if err != nil {
		return nil, fmt.Errorf("%w: querying max payout: %v", ErrSubmissionFailed, err)
	}
	houseBalance, err := s.gw.HouseBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: querying house balance: %v", ErrSubmissionFailed, err)
	}
	if houseBalance.Cmp(maxPayout) < 0 {
		return nil, fmt.Errorf("%w: balance %s < payout %s", ErrInsufficientHouseBalance,
			models.FormatEther(houseBalance), models.FormatEther(maxPayout))
	}

	// Re-verify against the contract that the deck has not been played out
	// from under us (another client, or server-side expiry).
	ds, err := s.gw.CurrentDeck(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: re-checking deck: %v", ErrSubmissionFailed, err)
	}
	if ds.Played {
		s.life.markPlayed(st.Deck.ID, ReasonRemotePlayed, nil)
		return nil, ErrDeckExpired
	}

	res, err := s.gw.PlaceBet(ctx, uint8(selected), amount)
	if err != nil {
		switch {
		case errors.Is(err, chain.ErrNoGameResult):
			// Mined without an outcome record. The next deck poll will
			// reconcile the played flag; the result itself stays unknown.
			return nil, fmt.Errorf("%w: %v", ErrOutcomeNotFound, err)
		case chain.IsUserRejected(err):
			return nil, fmt.Errorf("%w: %v", ErrUserRejected, err)
		case chain.IsDeckExpiredRevert(err):
			s.life.markPlayed(st.Deck.ID, ReasonRemotePlayed, nil)
			return nil, fmt.Errorf("%w: %v", ErrDeckExpired, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
		}
	}

	outcome := &models.Outcome{
		SelectedIndex: int(res.SelectedCard),
		WinningIndex:  int(res.WinningCard),
		Won:           res.Won,
	}
	s.life.markPlayed(st.Deck.ID, ReasonSelfBet, outcome)
	s.log.WithFields(logrus.Fields{
		"selected": outcome.SelectedIndex,
		"winning":  outcome.WinningIndex,
		"won":      outcome.Won,
		"wei":      amount,
	}).Info("bet resolved")

	s.stats.Refresh(ctx)
	return outcome, nil
}
