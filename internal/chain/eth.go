// internal/chain/eth.go
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/fantan-dapp/fantan/internal/models"
)

// Options configures the connection to the casino contract.
type Options struct {
	RPCURL          string // http(s) or ws(s) endpoint for calls and transactions
	WSURL           string // ws(s) endpoint for log subscriptions; defaults to RPCURL
	ContractAddress string
	PrivateKeyHex   string // hex-encoded secp256k1 key, with or without 0x prefix
	ChainID         int64  // 0 means query the node
}

// EthGateway is the Gateway implementation backed by go-ethereum. One
// instance is bound to one account and one contract for its lifetime.
type EthGateway struct {
	client   *ethclient.Client
	wsClient *ethclient.Client
	contract *bind.BoundContract
	abi      abi.ABI
	addr     common.Address
	key      *ecdsa.PrivateKey
	account  common.Address
	chainID  *big.Int
	log      *logrus.Logger
}

var _ Gateway = (*EthGateway)(nil)

// Dial connects to the node(s), loads the signing key and binds the contract.
func Dial(ctx context.Context, opts Options, log *logrus.Logger) (*EthGateway, error) {
	if !common.IsHexAddress(opts.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", opts.ContractAddress)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(opts.PrivateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	client, err := ethclient.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", opts.RPCURL, err)
	}

	wsClient := client
	if opts.WSURL != "" && opts.WSURL != opts.RPCURL {
		wsClient, err = ethclient.DialContext(ctx, opts.WSURL)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("dialing %s: %w", opts.WSURL, err)
		}
	}

	chainID := big.NewInt(opts.ChainID)
	if opts.ChainID == 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("querying chain id: %w", err)
		}
	}

	contractABI, err := loadABI()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("parsing contract ABI: %w", err)
	}

	addr := common.HexToAddress(opts.ContractAddress)
	g := &EthGateway{
		client:   client,
		wsClient: wsClient,
		contract: bind.NewBoundContract(addr, contractABI, client, client, client),
		abi:      contractABI,
		addr:     addr,
		key:      key,
		account:  crypto.PubkeyToAddress(key.PublicKey),
		chainID:  chainID,
		log:      log,
	}
	g.log.WithFields(logrus.Fields{
		"account":  g.account.Hex(),
		"contract": addr.Hex(),
		"chain_id": chainID,
	}).Info("connected to casino contract")
	return g, nil
}

// Close tears down the underlying RPC connections.
func (g *EthGateway) Close() {
	g.client.Close()
	if g.wsClient != g.client {
		g.wsClient.Close()
	}
}

func (g *EthGateway) Account() common.Address {
	return g.account
}

func (g *EthGateway) transactOpts(ctx context.Context, value *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(g.key, g.chainID)
	if err != nil {
		return nil, fmt.Errorf("building transactor: %w", err)
	}
	opts.Context = ctx
	opts.Value = value
	return opts, nil
}

func (g *EthGateway) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx, From: g.account}
}

// waitMined waits for finality and rejects reverted transactions.
func (g *EthGateway) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, g.client, tx)
	if err != nil {
		return nil, fmt.Errorf("waiting for tx %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("tx %s reverted", tx.Hash().Hex())
	}
	return receipt, nil
}

// unpackLog decodes the first log matching the named event into out.
// Typed decode-and-match: logs are matched by event ID, never by position.
func (g *EthGateway) unpackLog(receipt *types.Receipt, name string, out interface{}) bool {
	ev, ok := g.abi.Events[name]
	if !ok {
		return false
	}
	for _, lg := range receipt.Logs {
		if lg == nil || len(lg.Topics) == 0 || lg.Topics[0] != ev.ID {
			continue
		}
		if err := g.contract.UnpackLog(out, name, *lg); err != nil {
			g.log.WithError(err).WithField("event", name).Warn("undecodable contract log")
			continue
		}
		return true
	}
	return false
}

type newDeckEvent struct {
	Player  common.Address
	Numbers [4]uint8
	Suits   [4]uint8
}

func (g *EthGateway) NewDeck(ctx context.Context) ([4]uint8, [4]uint8, error) {
	var ev newDeckEvent
	opts, err := g.transactOpts(ctx, nil)
	if err != nil {
		return ev.Numbers, ev.Suits, err
	}
	tx, err := g.contract.Transact(opts, "getNewDeck")
	if err != nil {
		return ev.Numbers, ev.Suits, fmt.Errorf("sending getNewDeck: %w", err)
	}
	g.log.WithField("tx", tx.Hash().Hex()).Debug("getNewDeck submitted")

	receipt, err := g.waitMined(ctx, tx)
	if err != nil {
		return ev.Numbers, ev.Suits, err
	}
	if !g.unpackLog(receipt, "NewDeck", &ev) {
		return ev.Numbers, ev.Suits, ErrNoDeckEvent
	}
	return ev.Numbers, ev.Suits, nil
}

func (g *EthGateway) CurrentDeck(ctx context.Context) (DeckState, error) {
	var out []interface{}
	if err := g.contract.Call(g.callOpts(ctx), &out, "getCurrentDeck"); err != nil {
		return DeckState{}, fmt.Errorf("calling getCurrentDeck: %w", err)
	}
	if len(out) != 4 {
		return DeckState{}, fmt.Errorf("getCurrentDeck returned %d values, want 4", len(out))
	}
	ts := out[2].(*big.Int)
	return DeckState{
		Numbers:   out[0].([4]uint8),
		Suits:     out[1].([4]uint8),
		Timestamp: ts.Int64(),
		Played:    out[3].(bool),
	}, nil
}

type gameResultEvent struct {
	Player       common.Address
	SelectedCard uint8
	WinningCard  uint8
	Won          bool
}

func (g *EthGateway) PlaceBet(ctx context.Context, selected uint8, amount *big.Int) (*BetResult, error) {
	opts, err := g.transactOpts(ctx, amount)
	if err != nil {
		return nil, err
	}
	tx, err := g.contract.Transact(opts, "placeBet", selected)
	if err != nil {
		return nil, fmt.Errorf("sending placeBet: %w", err)
	}
	g.log.WithFields(logrus.Fields{
		"tx":       tx.Hash().Hex(),
		"selected": selected,
		"wei":      amount,
	}).Debug("placeBet submitted")

	receipt, err := g.waitMined(ctx, tx)
	if err != nil {
		return nil, err
	}
	var ev gameResultEvent
	if !g.unpackLog(receipt, "GameResult", &ev) {
		// The tx mined without a GameResult log. Funds may have moved, so
		// this is reported as-is rather than guessed at.
		return nil, ErrNoGameResult
	}
	return &BetResult{
		Player:       ev.Player,
		SelectedCard: ev.SelectedCard,
		WinningCard:  ev.WinningCard,
		Won:          ev.Won,
	}, nil
}

func (g *EthGateway) MaxPayout(ctx context.Context, amount *big.Int) (*big.Int, error) {
	var out []interface{}
	if err := g.contract.Call(g.callOpts(ctx), &out, "getMaxPayout", amount); err != nil {
		return nil, fmt.Errorf("calling getMaxPayout: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("getMaxPayout returned %d values, want 1", len(out))
	}
	return out[0].(*big.Int), nil
}

func (g *EthGateway) HouseBalance(ctx context.Context) (*big.Int, error) {
	bal, err := g.client.BalanceAt(ctx, g.addr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading house balance: %w", err)
	}
	return bal, nil
}

func (g *EthGateway) PlayerStats(ctx context.Context) (models.PlayerStats, error) {
	var out []interface{}
	if err := g.contract.Call(g.callOpts(ctx), &out, "getPlayerStats"); err != nil {
		return models.PlayerStats{}, fmt.Errorf("calling getPlayerStats: %w", err)
	}
	if len(out) != 3 {
		return models.PlayerStats{}, fmt.Errorf("getPlayerStats returned %d values, want 3", len(out))
	}
	return models.PlayerStats{
		GamesPlayed:   out[0].(uint32),
		GamesWon:      out[1].(uint32),
		TotalWinnings: out[2].(*big.Int),
	}, nil
}

type statsUpdatedEvent struct {
	Player        common.Address
	GamesPlayed   uint32
	GamesWon      uint32
	TotalWinnings *big.Int
}

func (g *EthGateway) SubscribeStats(ctx context.Context) (<-chan StatsEvent, func(), error) {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{g.addr},
		Topics:    [][]common.Hash{{g.abi.Events["StatsUpdated"].ID}},
	}
	raw := make(chan types.Log, 16)
	sub, err := g.wsClient.SubscribeFilterLogs(ctx, query, raw)
	if err != nil {
		return nil, nil, fmt.Errorf("subscribing to StatsUpdated: %w", err)
	}

	out := make(chan StatsEvent, 16)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				if err != nil {
					g.log.WithError(err).Warn("stats subscription terminated")
				}
				return
			case lg := <-raw:
				var ev statsUpdatedEvent
				if err := g.contract.UnpackLog(&ev, "StatsUpdated", lg); err != nil {
					g.log.WithError(err).Warn("undecodable StatsUpdated log")
					continue
				}
				out <- StatsEvent{
					Player:        ev.Player,
					GamesPlayed:   ev.GamesPlayed,
					GamesWon:      ev.GamesWon,
					TotalWinnings: ev.TotalWinnings,
				}
			}
		}
	}()
	return out, sub.Unsubscribe, nil
}

// HouseDeposit funds the house bankroll. Operator-side convenience, not part
// of the play loop.
func (g *EthGateway) HouseDeposit(ctx context.Context, amount *big.Int) error {
	opts, err := g.transactOpts(ctx, amount)
	if err != nil {
		return err
	}
	tx, err := g.contract.Transact(opts, "houseDeposit")
	if err != nil {
		return fmt.Errorf("sending houseDeposit: %w", err)
	}
	_, err = g.waitMined(ctx, tx)
	return err
}

// HouseWithdraw withdraws from the house bankroll. Reverts unless the
// connected account is the contract owner.
func (g *EthGateway) HouseWithdraw(ctx context.Context, amount *big.Int) error {
	opts, err := g.transactOpts(ctx, nil)
	if err != nil {
		return err
	}
	tx, err := g.contract.Transact(opts, "houseWithdrawal", amount)
	if err != nil {
		return fmt.Errorf("sending houseWithdrawal: %w", err)
	}
	_, err = g.waitMined(ctx, tx)
	return err
}
