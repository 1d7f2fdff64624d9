package match

import (
	"fmt"
	"strings"
)

// Outcome is the result of a match from the perspective of its first team.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeDraw Outcome = "draw"
)

// Outcomes lists every label in a stable order.
func Outcomes() []Outcome {
	return []Outcome{OutcomeDraw, OutcomeLose, OutcomeWin}
}

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWin, OutcomeLose, OutcomeDraw:
		return true
	default:
		return false
	}
}

// Record is one played match. Records are never edited once appended.
type Record struct {
	Team1          string
	Team2          string
	HalftimeScore1 int
	HalftimeScore2 int
	FulltimeScore1 int
	FulltimeScore2 int
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.Team1) == "" {
		return fmt.Errorf("team1 is required")
	}
	if strings.TrimSpace(r.Team2) == "" {
		return fmt.Errorf("team2 is required")
	}
	if r.HalftimeScore1 < 0 || r.HalftimeScore2 < 0 {
		return fmt.Errorf("halftime scores must be >= 0")
	}
	if r.FulltimeScore1 < 0 || r.FulltimeScore2 < 0 {
		return fmt.Errorf("fulltime scores must be >= 0")
	}

	return nil
}

// Outcome labels the record by fulltime score, seen from Team1.
func (r Record) Outcome() Outcome {
	switch {
	case r.FulltimeScore1 > r.FulltimeScore2:
		return OutcomeWin
	case r.FulltimeScore1 < r.FulltimeScore2:
		return OutcomeLose
	default:
		return OutcomeDraw
	}
}

func (r Record) Involves(team string) bool {
	return r.Team1 == team || r.Team2 == team
}

// Orient returns fulltime goals for and against the given team.
// The result is only meaningful when Involves(team) holds; callers must check it first.
func (r Record) Orient(team string) (goalsFor, goalsAgainst int) {
	if r.Team1 == team {
		return r.FulltimeScore1, r.FulltimeScore2
	}
	return r.FulltimeScore2, r.FulltimeScore1
}

func (r Record) HalftimeLine() string {
	return fmt.Sprintf("%d - %d", r.HalftimeScore1, r.HalftimeScore2)
}

func (r Record) FulltimeLine() string {
	return fmt.Sprintf("%d - %d", r.FulltimeScore1, r.FulltimeScore2)
}
