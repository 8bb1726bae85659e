// internal/models/card.go
package models

import "fmt"

// Suit is the 4-valued suit enum used on the wire by the casino contract.
// The numeric values are fixed by the contract's event encoding.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// String returns the display glyph for the suit.
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Red reports whether the suit renders in red (hearts and diamonds).
func (s Suit) Red() bool {
	return s == Hearts || s == Diamonds
}

// Card is one of the four selectable cards in a deck. Cards have no identity
// of their own; a card is addressed by its position (0-3) within its deck.
type Card struct {
	Rank uint8 `json:"rank"` // 1-13, ace low
	Suit Suit  `json:"suit"`
}

// Valid reports whether the rank and suit are within the contract's ranges.
func (c Card) Valid() bool {
	return c.Rank >= 1 && c.Rank <= 13 && c.Suit <= Spades
}

// RankName returns the display name for the rank (A, 2-10, J, Q, K).
func (c Card) RankName() string {
	switch c.Rank {
	case 1:
		return "A"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	default:
		return fmt.Sprintf("%d", c.Rank)
	}
}

// String renders the card as e.g. "K♠" or "A♥".
func (c Card) String() string {
	return c.RankName() + c.Suit.String()
}
