// internal/game/mock_gateway_test.go
package game

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fantan-dapp/fantan/internal/chain"
	"github.com/fantan-dapp/fantan/internal/models"
)

// mockGateway stands in for the casino contract. Call counters record the
// gateway traffic so tests can assert which paths stayed local.
type mockGateway struct {
	mu sync.Mutex

	account common.Address

	dealNumbers [4]uint8
	dealSuits   [4]uint8
	dealErr     error

	deck    chain.DeckState
	deckErr error

	maxPayout    *big.Int
	houseBalance *big.Int

	betResult *chain.BetResult
	betErr    error

	stats    models.PlayerStats
	statsErr error

	events       chan chain.StatsEvent
	subErr       error
	unsubscribed bool

	newDeckCalls     int
	currentDeckCalls int
	placeBetCalls    int
	payoutCalls      int
	balanceCalls     int
	statsCalls       int
}

var _ chain.Gateway = (*mockGateway)(nil)

func newMockGateway() *mockGateway {
	return &mockGateway{
		account: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		// A♥ K♠ 7♦ 2♣
		dealNumbers:  [4]uint8{1, 13, 7, 2},
		dealSuits:    [4]uint8{0, 3, 1, 2},
		deck:         chain.DeckState{Timestamp: 1700000000},
		maxPayout:    big.NewInt(0),
		houseBalance: big.NewInt(0),
		events:       make(chan chain.StatsEvent, 8),
	}
}

func (m *mockGateway) NewDeck(ctx context.Context) ([4]uint8, [4]uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.newDeckCalls++
	return m.dealNumbers, m.dealSuits, m.dealErr
}

func (m *mockGateway) CurrentDeck(ctx context.Context) (chain.DeckState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentDeckCalls++
	return m.deck, m.deckErr
}

func (m *mockGateway) PlaceBet(ctx context.Context, selected uint8, amount *big.Int) (*chain.BetResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.placeBetCalls++
	return m.betResult, m.betErr
}

func (m *mockGateway) MaxPayout(ctx context.Context, amount *big.Int) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payoutCalls++
	return m.maxPayout, nil
}

func (m *mockGateway) HouseBalance(ctx context.Context) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balanceCalls++
	return m.houseBalance, nil
}

func (m *mockGateway) PlayerStats(ctx context.Context) (models.PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsCalls++
	if m.statsErr != nil {
		return models.PlayerStats{}, m.statsErr
	}
	return m.stats.Clone(), nil
}

func (m *mockGateway) SubscribeStats(ctx context.Context) (<-chan chain.StatsEvent, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subErr != nil {
		return nil, nil, m.subErr
	}
	cancel := func() {
		m.mu.Lock()
		m.unsubscribed = true
		m.mu.Unlock()
	}
	return m.events, cancel, nil
}

func (m *mockGateway) Account() common.Address {
	return m.account
}

func (m *mockGateway) setDeckPlayed(played bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deck.Played = played
}

func (m *mockGateway) setDeckErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deckErr = err
}

func (m *mockGateway) counters() (newDeck, currentDeck, placeBet, payout, balance, stats int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newDeckCalls, m.currentDeckCalls, m.placeBetCalls, m.payoutCalls, m.balanceCalls, m.statsCalls
}

func (m *mockGateway) isUnsubscribed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unsubscribed
}
