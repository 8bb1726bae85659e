// cmd/fantan/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"github.com/fantan-dapp/fantan/internal/chain"
	"github.com/fantan-dapp/fantan/internal/config"
	"github.com/fantan-dapp/fantan/internal/game"
	"github.com/fantan-dapp/fantan/internal/models"
	"github.com/fantan-dapp/fantan/internal/ui"
)

const (
	actionNewDeck       = "New deck"
	actionSelectCard    = "Select card"
	actionSetAmount     = "Set bet amount"
	actionPlaceBet      = "Place bet"
	actionRefreshStats  = "Refresh stats"
	actionHouseDeposit  = "House deposit"
	actionHouseWithdraw = "House withdraw"
	actionQuit          = "Quit"
)

type app struct {
	log       *logrus.Logger
	gw        *chain.EthGateway
	life      *game.Lifecycle
	stats     *game.Synchronizer
	submitter *game.Submitter
	betAmount string // ether, as entered
}

func main() {
	verbose := false
	for _, arg := range os.Args[1:] {
		if arg == "-v" {
			verbose = true
		}
	}

	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if level, lerr := logrus.ParseLevel(cfg.LogLevel); lerr == nil {
		logger.SetLevel(level)
	}
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gw, err := chain.Dial(ctx, chain.Options{
		RPCURL:          cfg.RPCURL,
		WSURL:           cfg.WSURL,
		ContractAddress: cfg.ContractAddress,
		PrivateKeyHex:   cfg.PrivateKey,
		ChainID:         cfg.ChainID,
	}, logger)
	if err != nil {
		logger.Fatalf("connecting to contract: %v", err)
	}
	defer gw.Close()

	life := game.NewLifecycle(gw, logger)
	defer life.Close()
	stats := game.NewSynchronizer(gw, logger)
	submitter := game.NewSubmitter(gw, life, stats, game.BetPolicy{
		MinBet: cfg.MinBet,
		MaxBet: cfg.MaxBet,
	}, logger)

	a := &app{
		log:       logger,
		gw:        gw,
		life:      life,
		stats:     stats,
		submitter: submitter,
		betAmount: models.FormatEther(cfg.MinBet),
	}

	ui.Banner()
	pterm.Info.Printfln("Wallet %s", ui.ShortAddress(gw.Account().Hex()))

	stats.Refresh(ctx)
	if err := stats.Watch(ctx); err != nil {
		logger.WithError(err).Warn("stats pushes unavailable, falling back to manual refresh")
	}

	a.run(ctx)
}

func (a *app) run(ctx context.Context) {
	for ctx.Err() == nil {
		a.render()

		choice, err := pterm.DefaultInteractiveSelect.WithOptions([]string{
			actionNewDeck, actionSelectCard, actionSetAmount, actionPlaceBet,
			actionRefreshStats, actionHouseDeposit, actionHouseWithdraw, actionQuit,
		}).Show("Action")
		if err != nil {
			return
		}

		switch choice {
		case actionNewDeck:
			a.newDeck(ctx)
		case actionSelectCard:
			a.selectCard()
		case actionSetAmount:
			a.setAmount()
		case actionPlaceBet:
			a.placeBet(ctx)
		case actionRefreshStats:
			a.stats.Refresh(ctx)
		case actionHouseDeposit:
			a.houseTx(ctx, true)
		case actionHouseWithdraw:
			a.houseTx(ctx, false)
		case actionQuit:
			return
		}
	}
}

func (a *app) render() {
	pterm.Println()
	ui.RenderStats(a.stats.Stats())

	st := a.life.Snapshot()
	switch {
	case st.State == game.StateFetching:
		pterm.Info.Println("Dealing new deck...")
	case st.Deck == nil:
		pterm.Info.Println("No deck yet. Request one to start playing")
	default:
		disabled := st.State != game.StateActive || st.Countdown == 0
		ui.RenderCards(st.Deck.Cards, st.Selected, disabled)
		ui.RenderCountdown(st.Countdown)
	}
	pterm.Info.Printfln("Bet amount: %s ETH", a.betAmount)

	if st.Outcome != nil {
		ui.RenderOutcome(*st.Outcome)
	}
}

func (a *app) newDeck(ctx context.Context) {
	spinner, _ := pterm.DefaultSpinner.Start("Getting new deck...")
	deck, err := a.life.RequestNewDeck(ctx)
	if err != nil {
		spinner.Fail(betErrorMessage(err))
		return
	}
	spinner.Success("New deck dealt")
	a.log.WithField("deck", deck.ID).Debug("deck rendered")
}

func (a *app) selectCard() {
	st := a.life.Snapshot()
	if st.State != game.StateActive || st.Deck == nil {
		pterm.Warning.Println("No active deck to select from")
		return
	}
	options := make([]string, 0, models.DeckSize)
	for i, c := range st.Deck.Cards {
		options = append(options, pterm.Sprintf("#%d  %s", i+1, c))
	}
	choice, err := pterm.DefaultInteractiveSelect.WithOptions(options).Show("Select a card")
	if err != nil {
		return
	}
	for i, opt := range options {
		if opt == choice {
			if serr := a.life.Select(i); serr != nil {
				pterm.Error.Println(betErrorMessage(serr))
			}
			return
		}
	}
}

func (a *app) setAmount() {
	input, err := pterm.DefaultInteractiveTextInput.
		WithDefaultValue(a.betAmount).
		Show("Bet amount (ETH)")
	if err != nil {
		return
	}
	if _, perr := models.ParseEther(input); perr != nil {
		pterm.Error.Printfln("Invalid amount: %v", perr)
		return
	}
	a.betAmount = input
}

func (a *app) placeBet(ctx context.Context) {
	st := a.life.Snapshot()
	amount, err := models.ParseEther(a.betAmount)
	if err != nil {
		pterm.Error.Printfln("Invalid amount: %v", err)
		return
	}

	spinner, _ := pterm.DefaultSpinner.Start("Placing bet...")
	outcome, err := a.submitter.PlaceBet(ctx, st.Selected, amount)
	if err != nil {
		spinner.Fail(betErrorMessage(err))
		return
	}
	spinner.Success("Bet resolved")

	ui.RenderOutcome(*outcome)
	ack, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(true).
		Show("Continue playing by getting a new deck?")
	a.life.AcknowledgeOutcome()
	if ack {
		a.newDeck(ctx)
	}
}

func (a *app) houseTx(ctx context.Context, deposit bool) {
	verb := "withdraw"
	if deposit {
		verb = "deposit"
	}
	input, err := pterm.DefaultInteractiveTextInput.Show(pterm.Sprintf("House %s amount (ETH)", verb))
	if err != nil {
		return
	}
	amount, err := models.ParseEther(input)
	if err != nil {
		pterm.Error.Printfln("Invalid amount: %v", err)
		return
	}

	spinner, _ := pterm.DefaultSpinner.Start(pterm.Sprintf("Sending house %s...", verb))
	if deposit {
		err = a.gw.HouseDeposit(ctx, amount)
	} else {
		err = a.gw.HouseWithdraw(ctx, amount)
	}
	if err != nil {
		spinner.Fail(pterm.Sprintf("House %s failed: %v", verb, err))
		return
	}
	spinner.Success(pterm.Sprintf("House %s confirmed", verb))
}

// betErrorMessage maps the bet error taxonomy to the recovery hint the
// player should see.
func betErrorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrNoSelection):
		return "Select a card first"
	case errors.Is(err, game.ErrDeckExpired):
		return "Deck expired or already played. Request a new deck"
	case errors.Is(err, game.ErrInvalidAmount):
		return pterm.Sprintf("Bet amount out of bounds: %v", err)
	case errors.Is(err, game.ErrInsufficientHouseBalance):
		return "Casino closed: insufficient balance for the potential payout"
	case errors.Is(err, game.ErrUserRejected):
		return "Transaction was rejected"
	case errors.Is(err, game.ErrOutcomeNotFound):
		return "Bet mined but the outcome could not be read. Check the transaction before retrying"
	case errors.Is(err, game.ErrDeckRequestInFlight):
		return "A deck request is already in progress"
	default:
		return pterm.Sprintf("Request failed: %v", err)
	}
}
