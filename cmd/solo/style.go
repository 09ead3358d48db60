package main

import (
	"fmt"
	"strings"

	"cardmasters-game/internal/game"
	"cardmasters-game/internal/shared"

	"github.com/pterm/pterm"
)

// Formats a card, coloring the red suits.
func cardString(c shared.Card) string {
	s := c.String()
	if c.Suit == shared.Diamonds || c.Suit == shared.Hearts {
		return pterm.LightRed(s)
	}
	return s
}

// Returns a pterm.Panel with the current trick and control information.
func getTablePanel(snap game.Snapshot) pterm.Panel {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)

	var sb strings.Builder
	if len(snap.TrickPlays) == 0 {
		sb.WriteString("No cards on the table yet.\n")
	} else {
		for _, pc := range snap.TrickPlays {
			sb.WriteString(pterm.Sprintfln("%s: %s", snap.Players[pc.PlayerIndex].Name, cardString(pc.Card)))
		}
	}
	if snap.LeadSuit != "" {
		sb.WriteString(pterm.Sprintfln("Lead suit: %s", snap.LeadSuit))
	}
	sb.WriteString(pterm.Sprintfln("Control: %s", pterm.LightCyan(snap.Players[snap.ControlIndex].Name)))
	sb.WriteString(pterm.Sprintf("Accumulated: %d | Trick %d of %d",
		snap.AccumulatedPoints, snap.TricksPlayed+1, game.TricksPerSubgame))

	return pterm.Panel{Data: pbox.WithTitle(pterm.LightYellow("|TABLE|")).WithTitleTopCenter().Sprint(sb.String())}
}

// Returns a pterm.Panel describing one player.
func getPlayerPanel(snap game.Snapshot, seat int, isHuman bool) pterm.Panel {
	hpadding := 2
	pbox := pterm.DefaultBox.WithHorizontalPadding(hpadding).WithTopPadding(1).WithBottomPadding(1)
	p := snap.Players[seat]

	var info string
	if isHuman {
		cards := make([]string, len(p.Hand))
		for i, c := range p.Hand {
			cards[i] = cardString(c)
		}
		info = pterm.Sprintfln("Score: %d / %d", p.Score, snap.TargetScore) +
			pterm.Sprintf("Hand: %s", strings.Join(cards, ", "))
	} else {
		info = pterm.Sprintfln("Score: %d / %d", p.Score, snap.TargetScore) +
			pterm.Sprintf("Cards left: %d", len(p.Hand))
	}

	title := p.Name
	if seat == snap.ControlIndex {
		title = title + " *"
	}
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightGreen("|" + title + "|")).WithTitleTopCenter().Sprint(info)}
}

// printState renders the table: opponents on top, the table in the
// middle, the human player at the bottom.
func printState(snap game.Snapshot, humanSeat int) {
	var opponents []pterm.Panel
	for seat := range snap.Players {
		if seat != humanSeat {
			opponents = append(opponents, getPlayerPanel(snap, seat, false))
		}
	}
	panels := [][]pterm.Panel{
		opponents,
		{getTablePanel(snap)},
		{getPlayerPanel(snap, humanSeat, true)},
	}
	if err := pterm.DefaultPanel.WithPanels(panels).WithPadding(2).Render(); err != nil {
		pterm.Error.Println(err)
	}
}

// printEvents prints engine log lines that appeared since the last render.
func printEvents(snap game.Snapshot, since int) int {
	for _, line := range snap.Log[since:] {
		pterm.Info.Println(line)
	}
	return len(snap.Log)
}

// handOptions formats the human hand for the interactive selector,
// keeping option order aligned with hand indexes.
func handOptions(hand []shared.Card) []string {
	options := make([]string, len(hand))
	for i, c := range hand {
		options[i] = fmt.Sprintf("%d: %s", i+1, c)
	}
	return options
}
