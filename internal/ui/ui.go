// internal/ui/ui.go
package ui

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/fantan-dapp/fantan/internal/models"
)

// Banner prints the title header.
func Banner() {
	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Fan ", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Tan", pterm.FgLightWhite.ToStyle()),
	).Srender()
	if err != nil {
		pterm.Println("Fan Tan")
		return
	}
	pterm.Print(title)
}

// ShortAddress renders an address as 0x1234…abcd.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

const (
	cardWidth  = 7
	cardHeight = 5
)

// RenderCards prints the four cards side by side with their selectable
// index above each. The selected card gets a highlighted border; disabled
// decks render gray.
func RenderCards(cards [models.DeckSize]models.Card, selected int, disabled bool) {
	boxes := make([][]string, models.DeckSize)
	for i, c := range cards {
		boxes[i] = cardLines(c, i+1, i == selected, disabled)
	}
	var b strings.Builder
	for row := 0; row < cardHeight+2; row++ {
		for i := range boxes {
			b.WriteString(boxes[i][row])
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
	pterm.Print(b.String())
}

func cardLines(c models.Card, num int, selected, disabled bool) []string {
	border := pterm.NewStyle(pterm.FgGray)
	face := pterm.NewStyle(pterm.FgLightWhite)
	if c.Suit.Red() {
		face = pterm.NewStyle(pterm.FgRed)
	}
	label := pterm.NewStyle(pterm.FgDefault)
	switch {
	case disabled:
		border = pterm.NewStyle(pterm.FgDarkGray)
		face = pterm.NewStyle(pterm.FgDarkGray)
		label = pterm.NewStyle(pterm.FgDarkGray)
	case selected:
		border = pterm.NewStyle(pterm.FgYellow, pterm.Bold)
		label = pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	}

	rank := c.RankName()
	inner := cardWidth - 2
	mid := strings.Repeat(" ", (inner-1)/2) + c.Suit.String() + strings.Repeat(" ", inner-1-(inner-1)/2)

	marker := " "
	if selected {
		marker = "▲"
	}
	head := fmt.Sprintf("#%d", num)
	pad := cardWidth - len(head)
	return []string{
		label.Sprint(strings.Repeat(" ", pad/2) + head + strings.Repeat(" ", pad-pad/2)),
		border.Sprint("┌" + strings.Repeat("─", inner) + "┐"),
		border.Sprint("│") + face.Sprintf("%-*s", inner, rank) + border.Sprint("│"),
		border.Sprint("│") + face.Sprint(mid) + border.Sprint("│"),
		border.Sprint("│") + face.Sprintf("%*s", inner, rank) + border.Sprint("│"),
		border.Sprint("└" + strings.Repeat("─", inner) + "┘"),
		label.Sprintf("%s%s%s", strings.Repeat(" ", (cardWidth-1)/2), marker, strings.Repeat(" ", cardWidth-1-(cardWidth-1)/2)),
	}
}

// RenderStats prints the cumulative player statistics table.
func RenderStats(stats models.PlayerStats) {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Games Played", "Games Won", "Total Winnings"},
		{
			fmt.Sprintf("%d", stats.GamesPlayed),
			fmt.Sprintf("%d", stats.GamesWon),
			models.FormatEther(stats.TotalWinnings) + " ETH",
		},
	}).Srender()
	if err != nil {
		return
	}
	pterm.Println(table)
}

// RenderCountdown prints the remaining deck validity as M:SS, switching to
// the warning style under 30 seconds.
func RenderCountdown(seconds int) {
	text := fmt.Sprintf("Time remaining: %d:%02d", seconds/60, seconds%60)
	switch {
	case seconds == 0:
		pterm.Error.Println("Deck expired. Betting disabled until a new deck is dealt")
	case seconds < 30:
		pterm.Warning.Println(text)
	default:
		pterm.Info.Println(text)
	}
}

// RenderOutcome prints the win/lose panel for a resolved bet.
func RenderOutcome(o models.Outcome) {
	msg := fmt.Sprintf("You selected card #%d\nWinning card was #%d", o.SelectedIndex+1, o.WinningIndex+1)
	if o.Won {
		pterm.DefaultBox.WithTitle(pterm.FgYellow.Sprint("🏆 Congratulations!")).Println(msg)
	} else {
		pterm.DefaultBox.WithTitle(pterm.FgRed.Sprint("Better luck next time")).Println(msg)
	}
}
