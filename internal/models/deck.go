// internal/models/deck.go
package models

import "github.com/google/uuid"

// DeckSize is the number of cards the contract deals per deck.
const DeckSize = 4

// Deck is the client-side view of the contract's current deck. The ID is a
// purely local handle, minted when the deck is fetched; resolving gateway
// calls use it to detect that the deck they started against has since been
// replaced. Once fetched a deck never changes except for Played flipping
// false to true exactly once.
type Deck struct {
	ID        uuid.UUID      `json:"id"`
	Cards     [DeckSize]Card `json:"cards"`
	CreatedAt int64          `json:"created_at"` // unix seconds, contract clock
	Played    bool           `json:"played"`
}

// Outcome is the terminal win/lose record for a played deck. It is display
// state only; it is cleared when the user acknowledges it.
type Outcome struct {
	SelectedIndex int  `json:"selected_index"`
	WinningIndex  int  `json:"winning_index"`
	Won           bool `json:"won"`
}
