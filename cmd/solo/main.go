package main

import (
	"strconv"
	"strings"

	"cardmasters-game/internal/game"
	"cardmasters-game/internal/shared"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const humanSeat = 0

func main() {
	pterm.Print("\n")

	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("C", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("ard ", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("M", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("asters", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err != nil {
		pterm.Error.Println(err)
	}
	pterm.Print(title)

	name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your name").WithDefaultValue("Player").Show()
	pterm.Println()

	botCountStr, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("How many bot opponents?").
		WithOptions([]string{"1", "2", "3"}).Show()
	botCount, _ := strconv.Atoi(botCountStr)

	targetStr, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Play to how many points?").
		WithOptions([]string{"6", "11", "21"}).Show()
	target, _ := strconv.Atoi(targetStr)

	players := make([]*shared.Player, 0, botCount+1)
	players = append(players, shared.NewPlayer(uuid.NewString(), name))
	botSeats := map[int]bool{}
	botNames := []string{"Ada", "Blaise", "Carl"}
	for i := 0; i < botCount; i++ {
		players = append(players, shared.NewPlayer(uuid.NewString(), botNames[i]))
		botSeats[i+1] = true
	}

	match := game.NewMatch(players, botSeats, target)
	pterm.Info.Printfln("Playing to %d points against %d opponent(s). Good luck, %s!", target, botCount, name)
	match.Start(nil)

	human := players[humanSeat]
	seenLog := 0
	for {
		snap := match.Snapshot()
		seenLog = printEvents(snap, seenLog)

		if snap.State == game.GameOver {
			printFinalStandings(snap)
			return
		}

		printState(snap, humanSeat)

		hand := snap.Players[humanSeat].Hand
		options := handOptions(hand)
		choice, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText("Pick a card to play").
			WithOptions(options).Show()
		handIndex := optionIndex(choice)
		if handIndex < 0 || handIndex >= len(hand) {
			pterm.Error.Println("Please pick one of the listed cards.")
			continue
		}

		if playErr := match.Play(human.ID, hand[handIndex], handIndex); playErr != nil {
			pterm.Error.Println(playErr.Message)
		}
	}
}

// optionIndex recovers the hand index from a "N: card" selector option.
func optionIndex(option string) int {
	num, _, found := strings.Cut(option, ":")
	if !found {
		return -1
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return -1
	}
	return n - 1
}

func printFinalStandings(snap game.Snapshot) {
	pterm.Println()
	if snap.WinnerIndex == humanSeat {
		pterm.Success.Printfln("You win the match with %d points!", snap.Players[snap.WinnerIndex].Score)
	} else if snap.WinnerIndex >= 0 {
		pterm.Warning.Printfln("%s wins the match with %d points.",
			snap.Players[snap.WinnerIndex].Name, snap.Players[snap.WinnerIndex].Score)
	}
	for _, p := range snap.Players {
		pterm.Printfln("  %s: %d", p.Name, p.Score)
	}
}
