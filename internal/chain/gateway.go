// internal/chain/gateway.go
package chain

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fantan-dapp/fantan/internal/models"
)

// Gateway is the client's view of the casino contract: a latent, unreliable,
// asynchronous RPC peer. The game core depends on this interface only; the
// Ethereum implementation lives in eth.go and tests substitute a mock.
type Gateway interface {
	// NewDeck sends the getNewDeck transaction, waits for it to be mined and
	// returns the four dealt cards decoded from the NewDeck log.
	NewDeck(ctx context.Context) (numbers, suits [4]uint8, err error)

	// CurrentDeck reads the contract's view of the active deck.
	CurrentDeck(ctx context.Context) (DeckState, error)

	// PlaceBet sends the payable placeBet transaction for the given card
	// index and wager (wei), waits for finality and returns the decoded
	// GameResult. Returns ErrNoGameResult when the mined receipt carries no
	// such log; funds may have moved in that case, so the caller must treat
	// it as an indeterminate outcome, never as a win or a loss.
	PlaceBet(ctx context.Context, selected uint8, amount *big.Int) (*BetResult, error)

	// MaxPayout asks the contract for the maximum possible payout of a bet.
	// Pure computation on the contract side, no state access.
	MaxPayout(ctx context.Context, amount *big.Int) (*big.Int, error)

	// HouseBalance returns the contract's own balance in wei.
	HouseBalance(ctx context.Context) (*big.Int, error)

	// PlayerStats reads the cumulative stats of the connected account.
	PlayerStats(ctx context.Context) (models.PlayerStats, error)

	// SubscribeStats opens a StatsUpdated log subscription. Events for all
	// players are delivered; filtering by account is the subscriber's job.
	// The returned cancel func tears the subscription down; the channel is
	// closed when the subscription ends.
	SubscribeStats(ctx context.Context) (<-chan StatsEvent, func(), error)

	// Account is the connected wallet address.
	Account() common.Address
}

// DeckState mirrors the getCurrentDeck return tuple.
type DeckState struct {
	Numbers   [4]uint8
	Suits     [4]uint8
	Timestamp int64
	Played    bool
}

// BetResult mirrors the GameResult event payload.
type BetResult struct {
	Player       common.Address
	SelectedCard uint8
	WinningCard  uint8
	Won          bool
}

// StatsEvent mirrors the StatsUpdated event payload.
type StatsEvent struct {
	Player        common.Address
	GamesPlayed   uint32
	GamesWon      uint32
	TotalWinnings *big.Int
}

// ErrNoGameResult is returned by PlaceBet when the mined receipt does not
// contain a GameResult log.
var ErrNoGameResult = errors.New("no GameResult event in bet receipt")

// ErrNoDeckEvent is returned by NewDeck when the mined receipt does not
// contain a NewDeck log.
var ErrNoDeckEvent = errors.New("no NewDeck event in receipt")

// IsUserRejected reports whether the error is the wallet declining to sign.
func IsUserRejected(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rejected") || strings.Contains(msg, "denied")
}

// IsDeckExpiredRevert reports whether the error carries the contract's
// "Cards expired" revert reason.
func IsDeckExpiredRevert(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Cards expired")
}
