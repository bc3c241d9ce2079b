// Package report ranks players by their scoreboards and renders the results
// of a simulation for people.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/storage"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/tournament"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Rank orders players by score, then wins, then fewest losses, then name.
// Players with equal score, wins and losses share a rank (1, 2, 2, 4).
func Rank(players []*tournament.Player) []storage.Standing {
	standings := make([]storage.Standing, 0, len(players))
	for _, p := range players {
		if p == nil {
			continue
		}
		board := p.Scoreboard()
		standings = append(standings, storage.Standing{
			Player: p.Name,
			Score:  board.Score,
			Wins:   board.Wins,
			Losses: board.Losses,
			Draws:  board.Draws,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Losses != b.Losses {
			return a.Losses < b.Losses
		}
		return a.Player < b.Player
	})

	for i := range standings {
		if i > 0 && tied(standings[i-1], standings[i]) {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
	return standings
}

func tied(a, b storage.Standing) bool {
	return a.Score == b.Score && a.Wins == b.Wins && a.Losses == b.Losses
}

// WriteStandings renders the first top standings as an aligned table. top <= 0
// renders all of them. Numbers are grouped for tag's locale.
func WriteStandings(w io.Writer, standings []storage.Standing, top int, tag language.Tag) error {
	if top <= 0 || top > len(standings) {
		top = len(standings)
	}
	printer := message.NewPrinter(tag)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	if _, err := fmt.Fprintln(tw, "rank\tplayer\tscore\twins\tlosses\tdraws\t"); err != nil {
		return err
	}
	for _, s := range standings[:top] {
		if _, err := printer.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t\n",
			s.Rank, s.Player, s.Score, s.Wins, s.Losses, s.Draws); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Totals sums the scoreboard counters across standings.
type Totals struct {
	Players int
	Score   int
	Wins    int
	Losses  int
	Draws   int
}

// Matches returns the number of matches behind the totals. Each match records
// two outcomes, one per side.
func (t Totals) Matches() int {
	return (t.Wins + t.Losses + t.Draws) / 2
}

// Summarize adds up standings.
func Summarize(standings []storage.Standing) Totals {
	totals := Totals{Players: len(standings)}
	for _, s := range standings {
		totals.Score += s.Score
		totals.Wins += s.Wins
		totals.Losses += s.Losses
		totals.Draws += s.Draws
	}
	return totals
}

// WriteSummary renders totals on one line.
func WriteSummary(w io.Writer, totals Totals, tag language.Tag) error {
	_, err := message.NewPrinter(tag).Fprintf(w,
		"%d players, %d matches, total score %d (%d wins, %d losses, %d draws)\n",
		totals.Players, totals.Matches(), totals.Score, totals.Wins, totals.Losses, totals.Draws)
	return err
}
