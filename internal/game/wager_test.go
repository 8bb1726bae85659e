// internal/game/wager_test.go
package game

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantan-dapp/fantan/internal/chain"
	"github.com/fantan-dapp/fantan/internal/models"
)

func wei(t *testing.T, ether string) *big.Int {
	t.Helper()
	v, err := models.ParseEther(ether)
	require.NoError(t, err)
	return v
}

// setupBet deals an active deck and wires a submitter with 0.001-1 ETH
// bounds and a solvent house.
func setupBet(t *testing.T) (*Submitter, *Lifecycle, *Synchronizer, *mockGateway) {
	t.Helper()
	gw := newMockGateway()
	log := testLogger()
	l := NewLifecycle(gw, log)
	l.tickEvery = 0
	stats := NewSynchronizer(gw, log)
	sub := NewSubmitter(gw, l, stats, BetPolicy{
		MinBet: wei(t, "0.001"),
		MaxBet: wei(t, "1"),
	}, log)

	gw.maxPayout = wei(t, "0.04")
	gw.houseBalance = wei(t, "10")

	_, err := l.RequestNewDeck(context.Background())
	require.NoError(t, err)
	return sub, l, stats, gw
}

func TestPlaceBetRejectsMissingSelection(t *testing.T) {
	sub, _, _, gw := setupBet(t)
	_, _, _, payoutBefore, _, _ := gw.counters()

	_, err := sub.PlaceBet(context.Background(), -1, wei(t, "0.01"))
	require.ErrorIs(t, err, ErrNoSelection)

	_, _, placeBet, payout, _, _ := gw.counters()
	assert.Zero(t, placeBet)
	assert.Equal(t, payoutBefore, payout, "local rejection must not touch the gateway")
}

func TestPlaceBetRejectsExpiredDeckSynchronously(t *testing.T) {
	sub, l, _, gw := setupBet(t)
	for i := 0; i < DeckValidity; i++ {
		l.Tick(context.Background())
	}
	require.Equal(t, StateExpired, l.Snapshot().State)

	_, deckBefore, _, payoutBefore, balBefore, _ := gw.counters()
	_, err := sub.PlaceBet(context.Background(), 1, wei(t, "0.01"))
	require.ErrorIs(t, err, ErrDeckExpired)

	_, deck, placeBet, payout, bal, _ := gw.counters()
	assert.Zero(t, placeBet)
	assert.Equal(t, deckBefore, deck)
	assert.Equal(t, payoutBefore, payout)
	assert.Equal(t, balBefore, bal)
}

func TestPlaceBetRejectsOutOfBoundsAmounts(t *testing.T) {
	sub, _, _, gw := setupBet(t)

	for _, amount := range []*big.Int{
		nil,
		big.NewInt(0),
		wei(t, "0.0001"), // below min
		wei(t, "2"),      // above max
	} {
		_, err := sub.PlaceBet(context.Background(), 0, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	_, _, placeBet, payout, _, _ := gw.counters()
	assert.Zero(t, placeBet)
	assert.Zero(t, payout)
}

func TestPlaceBetRefusedWhenHouseCannotPay(t *testing.T) {
	sub, _, _, gw := setupBet(t)
	gw.maxPayout = wei(t, "4")
	gw.houseBalance = wei(t, "1")

	_, err := sub.PlaceBet(context.Background(), 0, wei(t, "1"))
	require.ErrorIs(t, err, ErrInsufficientHouseBalance)

	_, _, placeBet, _, _, _ := gw.counters()
	assert.Zero(t, placeBet, "solvency refusal must submit zero transactions")
}

func TestPlaceBetDetectsRemotelyPlayedDeck(t *testing.T) {
	sub, l, _, gw := setupBet(t)
	gw.setDeckPlayed(true)

	_, err := sub.PlaceBet(context.Background(), 0, wei(t, "0.01"))
	require.ErrorIs(t, err, ErrDeckExpired)

	st := l.Snapshot()
	assert.Equal(t, StatePlayed, st.State)
	assert.Equal(t, ReasonRemotePlayed, st.Reason)
	_, _, placeBet, _, _, _ := gw.counters()
	assert.Zero(t, placeBet)
}

func TestPlaceBetSuccess(t *testing.T) {
	sub, l, stats, gw := setupBet(t)
	require.NoError(t, l.Select(2))
	gw.betResult = &chain.BetResult{SelectedCard: 2, WinningCard: 0, Won: false}
	gw.stats = models.PlayerStats{GamesPlayed: 5, GamesWon: 2, TotalWinnings: wei(t, "0.5")}

	outcome, err := sub.PlaceBet(context.Background(), 2, wei(t, "0.01"))
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, 2, outcome.SelectedIndex)
	assert.Equal(t, 0, outcome.WinningIndex)
	assert.False(t, outcome.Won)

	st := l.Snapshot()
	assert.Equal(t, StatePlayed, st.State)
	assert.Equal(t, ReasonSelfBet, st.Reason)
	require.NotNil(t, st.Outcome)
	assert.Equal(t, *outcome, *st.Outcome)

	_, _, _, _, _, statsCalls := gw.counters()
	assert.Equal(t, 1, statsCalls, "stats refresh is triggered exactly once")
	assert.Equal(t, uint32(5), stats.Stats().GamesPlayed)
}

func TestPlaceBetIndeterminateOutcome(t *testing.T) {
	sub, l, _, gw := setupBet(t)
	gw.betErr = chain.ErrNoGameResult

	_, err := sub.PlaceBet(context.Background(), 0, wei(t, "0.01"))
	require.ErrorIs(t, err, ErrOutcomeNotFound)

	// The result is unknown, so the deck is not guessed to be played; the
	// next poll reconciles against the contract.
	assert.Equal(t, StateActive, l.Snapshot().State)
	assert.Nil(t, l.Snapshot().Outcome)
}

func TestPlaceBetUserRejected(t *testing.T) {
	sub, l, _, gw := setupBet(t)
	gw.betErr = errors.New("user rejected transaction")

	_, err := sub.PlaceBet(context.Background(), 0, wei(t, "0.01"))
	require.ErrorIs(t, err, ErrUserRejected)
	assert.Equal(t, StateActive, l.Snapshot().State)
}

func TestPlaceBetExpiryRevert(t *testing.T) {
	sub, l, _, gw := setupBet(t)
	gw.betErr = errors.New("execution reverted: Cards expired")

	_, err := sub.PlaceBet(context.Background(), 0, wei(t, "0.01"))
	require.ErrorIs(t, err, ErrDeckExpired)

	st := l.Snapshot()
	assert.Equal(t, StatePlayed, st.State)
	assert.Equal(t, ReasonRemotePlayed, st.Reason)
}

func TestPlaceBetGenericFailure(t *testing.T) {
	sub, l, _, gw := setupBet(t)
	gw.betErr = errors.New("nonce too low")

	_, err := sub.PlaceBet(context.Background(), 0, wei(t, "0.01"))
	require.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Equal(t, StateActive, l.Snapshot().State)
}
