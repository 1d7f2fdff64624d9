package forecast

import (
	"math"

	"github.com/riskibarqy/fc24pred/internal/domain/match"
)

// DefaultFormWindow is how many recent matches feed a team's form.
const DefaultFormWindow = 5

// TeamForm summarises a team's recent results, oriented to that team.
type TeamForm struct {
	AvgGoalsFor     float64
	AvgGoalsAgainst float64
	AvgGoalDiff     float64
	MatchesPlayed   int
}

func (f TeamForm) values() [4]float64 {
	return [4]float64{f.AvgGoalsFor, f.AvgGoalsAgainst, f.AvgGoalDiff, float64(f.MatchesPlayed)}
}

var formFieldNames = [4]string{"avg_goals_for", "avg_goals_against", "avg_goal_diff", "matches_played"}

// FeatureVector is the classifier input for a pairing: Team1's form then Team2's form.
type FeatureVector struct {
	Team1 TeamForm
	Team2 TeamForm
}

// FeatureCount is the width of FeatureVector.Values.
const FeatureCount = 8

// Values flattens the vector in the fixed column order given by FeatureNames.
func (v FeatureVector) Values() []float64 {
	out := make([]float64, 0, FeatureCount)
	t1 := v.Team1.values()
	t2 := v.Team2.values()
	out = append(out, t1[:]...)
	out = append(out, t2[:]...)
	return out
}

// Usable reports whether every column holds a finite number.
func (v FeatureVector) Usable() bool {
	for _, value := range v.Values() {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return false
		}
	}
	return true
}

func FeatureNames() []string {
	out := make([]string, 0, FeatureCount)
	for _, name := range formFieldNames {
		out = append(out, "team1_"+name)
	}
	for _, name := range formFieldNames {
		out = append(out, "team2_"+name)
	}
	return out
}

// Named pairs each column name with its value, in column order.
func (v FeatureVector) Named() []NamedValue {
	names := FeatureNames()
	values := v.Values()
	out := make([]NamedValue, 0, len(names))
	for i := range names {
		out = append(out, NamedValue{Name: names[i], Value: values[i]})
	}
	return out
}

type NamedValue struct {
	Name  string
	Value float64
}

// BuildFeatures derives the feature vector for teamA against teamB from history.
func BuildFeatures(history match.History, teamA, teamB string) FeatureVector {
	return BuildFeaturesWindow(history, teamA, teamB, DefaultFormWindow)
}

func BuildFeaturesWindow(history match.History, teamA, teamB string, window int) FeatureVector {
	return FeatureVector{
		Team1: FormOf(history, teamA, window),
		Team2: FormOf(history, teamB, window),
	}
}

// FormOf averages goals over the team's last window matches.
// A team without matches gets a zero form.
func FormOf(history match.History, team string, window int) TeamForm {
	recent := history.LastN(team, window)
	if len(recent) == 0 {
		return TeamForm{}
	}

	var goalsFor, goalsAgainst int
	for _, item := range recent {
		gf, ga := item.Orient(team)
		goalsFor += gf
		goalsAgainst += ga
	}

	n := float64(len(recent))
	return TeamForm{
		AvgGoalsFor:     float64(goalsFor) / n,
		AvgGoalsAgainst: float64(goalsAgainst) / n,
		AvgGoalDiff:     float64(goalsFor-goalsAgainst) / n,
		MatchesPlayed:   len(recent),
	}
}
