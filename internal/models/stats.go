// internal/models/stats.go
package models

import "math/big"

// PlayerStats holds the cumulative statistics the contract tracks per player.
// TotalWinnings is kept in wei; conversion to a display unit happens at the
// presentation boundary only. Stats are always replaced wholesale from the
// contract, never patched locally.
type PlayerStats struct {
	GamesPlayed   uint32   `json:"games_played"`
	GamesWon      uint32   `json:"games_won"`
	TotalWinnings *big.Int `json:"total_winnings"`
}

// ZeroStats returns an empty stats record. A failed stats read is displayed
// as ZeroStats, indistinguishable from a player with no history.
func ZeroStats() PlayerStats {
	return PlayerStats{TotalWinnings: new(big.Int)}
}

// Clone returns a deep copy, so callers can hand stats out without sharing
// the big.Int.
func (p PlayerStats) Clone() PlayerStats {
	out := p
	out.TotalWinnings = new(big.Int)
	if p.TotalWinnings != nil {
		out.TotalWinnings.Set(p.TotalWinnings)
	}
	return out
}
