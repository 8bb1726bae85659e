// internal/game/lifecycle.go
package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fantan-dapp/fantan/internal/chain"
	"github.com/fantan-dapp/fantan/internal/models"
)

// State is the deck lifecycle state.
type State int

const (
	StateEmpty State = iota
	StateFetching
	StateActive
	StatePlayed
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFetching:
		return "fetching"
	case StateActive:
		return "active"
	case StatePlayed:
		return "played"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// PlayReason records how a deck ended up played: by a bet from this client,
// or observed out-of-band from the contract (another client, or server-side
// expiry enforcement). The two are kept distinguishable.
type PlayReason int

const (
	ReasonNone PlayReason = iota
	ReasonSelfBet
	ReasonRemotePlayed
)

// DeckValidity is the deck's validity window in seconds. The countdown
// starts here and betting freezes when it reaches zero.
const DeckValidity = 120

// DefaultTickInterval is the countdown poll cadence.
const DefaultTickInterval = time.Second

// Lifecycle owns the authoritative client-side view of the current deck:
// its cards, creation timestamp, played/expired status and the derived
// countdown. It reconciles optimistic local state against gateway reads;
// when the two disagree, the gateway wins.
type Lifecycle struct {
	gw  chain.Gateway
	log *logrus.Logger

	// tickEvery is the poll cadence for the internal ticker goroutine.
	// Zero disables the goroutine; Tick can then be driven manually.
	tickEvery time.Duration

	mu        sync.Mutex
	state     State
	deck      *models.Deck
	countdown int
	selected  int // card index 0-3, -1 when none
	reason    PlayReason
	outcome   *models.Outcome
	runCancel context.CancelFunc
}

// Status is a consistent snapshot of the lifecycle for callers.
type Status struct {
	State     State
	Deck      *models.Deck // copy; nil unless a deck has been fetched
	Countdown int
	Selected  int
	Reason    PlayReason
	Outcome   *models.Outcome // copy; nil until a bet resolves
}

// NewLifecycle returns a controller in the Empty state.
func NewLifecycle(gw chain.Gateway, log *logrus.Logger) *Lifecycle {
	return &Lifecycle{
		gw:        gw,
		log:       log,
		tickEvery: DefaultTickInterval,
		selected:  -1,
	}
}

// Snapshot returns a copy of the current lifecycle state.
func (l *Lifecycle) Snapshot() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := Status{
		State:     l.state,
		Countdown: l.countdown,
		Selected:  l.selected,
		Reason:    l.reason,
	}
	if l.deck != nil {
		deck := *l.deck
		st.Deck = &deck
	}
	if l.outcome != nil {
		out := *l.outcome
		st.Outcome = &out
	}
	return st
}

// RequestNewDeck asks the contract to deal a fresh deck, replacing any
// current one. At most one request may be in flight; a call while Fetching
// is rejected. On failure the controller returns to Empty.
func (l *Lifecycle) RequestNewDeck(ctx context.Context) (*models.Deck, error) {
	l.mu.Lock()
	if l.state == StateFetching {
		l.mu.Unlock()
		return nil, ErrDeckRequestInFlight
	}
	l.state = StateFetching
	l.deck = nil
	l.selected = -1
	l.outcome = nil
	l.reason = ReasonNone
	l.countdown = 0
	l.stopTickerLocked()
	l.mu.Unlock()

	numbers, suits, err := l.gw.NewDeck(ctx)
	if err != nil {
		l.mu.Lock()
		if l.state == StateFetching {
			l.state = StateEmpty
		}
		l.mu.Unlock()
		if chain.IsUserRejected(err) {
			return nil, fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
		return nil, fmt.Errorf("requesting new deck: %w", err)
	}

	deck := &models.Deck{ID: uuid.New(), CreatedAt: time.Now().Unix()}
	for i := range deck.Cards {
		deck.Cards[i] = models.Card{Rank: numbers[i], Suit: models.Suit(suits[i])}
		if !deck.Cards[i].Valid() {
			l.log.WithFields(logrus.Fields{
				"index": i,
				"rank":  numbers[i],
				"suit":  suits[i],
			}).Warn("contract dealt an out-of-range card")
		}
	}

	// The contract clock is authoritative for the creation timestamp; a
	// failed read-back just keeps the local estimate.
	if ds, derr := l.gw.CurrentDeck(ctx); derr == nil {
		deck.CreatedAt = ds.Timestamp
	} else {
		l.log.WithError(derr).Debug("deck timestamp read-back failed")
	}

	l.mu.Lock()
	l.deck = deck
	l.countdown = DeckValidity
	l.state = StateActive
	l.startTickerLocked(deck.ID)
	l.mu.Unlock()

	l.log.WithFields(logrus.Fields{
		"deck":       deck.ID,
		"created_at": deck.CreatedAt,
	}).Info("new deck active")

	snap := *deck
	return &snap, nil
}

// Select records the card index (0-3) the player wants to wager on.
func (l *Lifecycle) Select(idx int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateActive || l.deck == nil {
		return ErrDeckExpired
	}
	if idx < 0 || idx >= models.DeckSize {
		return fmt.Errorf("%w: index %d", ErrNoSelection, idx)
	}
	l.selected = idx
	return nil
}

// AcknowledgeOutcome clears the terminal outcome record and the selection
// after the player has seen the result.
func (l *Lifecycle) AcknowledgeOutcome() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcome = nil
	l.selected = -1
}

// Tick advances the countdown by one poll cycle. It re-reads deck status
// from the contract: a gateway-reported played flag wins over the local
// prediction and ends the countdown immediately; a failed poll leaves the
// countdown untouched so a transient gateway error is not double-charged.
// Reaching zero expires the deck without waiting for contract confirmation.
func (l *Lifecycle) Tick(ctx context.Context) {
	l.mu.Lock()
	if l.state != StateActive || l.deck == nil {
		l.mu.Unlock()
		return
	}
	deckID := l.deck.ID
	l.mu.Unlock()

	ds, err := l.gw.CurrentDeck(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateActive || l.deck == nil || l.deck.ID != deckID {
		// The deck changed while the poll was in flight; stale result.
		return
	}
	if err != nil {
		l.log.WithError(err).Debug("deck poll failed, skipping countdown tick")
		return
	}
	if ds.Played {
		l.markPlayedLocked(ReasonRemotePlayed, nil)
		return
	}
	if l.countdown > 0 {
		l.countdown--
	}
	if l.countdown == 0 {
		l.state = StateExpired
		l.stopTickerLocked()
		l.log.WithField("deck", deckID).Info("deck expired, betting disabled")
	}
}

// Close stops the ticker goroutine, if any.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopTickerLocked()
}

// markPlayed transitions to Played if deckID still names the current deck;
// otherwise the call is stale and dropped. The played flag transitions
// false→true exactly once, and the first reason recorded sticks.
func (l *Lifecycle) markPlayed(deckID uuid.UUID, reason PlayReason, outcome *models.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.deck == nil || l.deck.ID != deckID {
		return
	}
	l.markPlayedLocked(reason, outcome)
}

func (l *Lifecycle) markPlayedLocked(reason PlayReason, outcome *models.Outcome) {
	if l.state == StatePlayed {
		return
	}
	l.deck.Played = true
	l.state = StatePlayed
	l.reason = reason
	l.countdown = 0
	if outcome != nil {
		out := *outcome
		l.outcome = &out
		l.selected = -1
	}
	l.stopTickerLocked()
	l.log.WithFields(logrus.Fields{
		"deck":     l.deck.ID,
		"self_bet": reason == ReasonSelfBet,
	}).Info("deck played")
}

// startTickerLocked launches the 1s poll loop for the given deck. The loop
// exits when the state leaves Active or the deck is replaced; it is never
// left free-running. Callers must hold l.mu.
func (l *Lifecycle) startTickerLocked(deckID uuid.UUID) {
	l.stopTickerLocked()
	if l.tickEvery <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.runCancel = cancel
	go l.run(ctx, deckID)
}

func (l *Lifecycle) stopTickerLocked() {
	if l.runCancel != nil {
		l.runCancel()
		l.runCancel = nil
	}
}

func (l *Lifecycle) run(ctx context.Context, deckID uuid.UUID) {
	ticker := time.NewTicker(l.tickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			live := l.state == StateActive && l.deck != nil && l.deck.ID == deckID
			l.mu.Unlock()
			if !live {
				return
			}
			l.Tick(ctx)
		}
	}
}
