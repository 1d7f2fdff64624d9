package main

import (
	"github.com/riskibarqy/fc24pred/internal/domain/forecast"
	"github.com/riskibarqy/fc24pred/internal/domain/match"
)

type teamView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

type matchView struct {
	Team1          string `json:"team1"`
	Team2          string `json:"team2"`
	HalftimeScore1 int    `json:"score1_ht"`
	HalftimeScore2 int    `json:"score2_ht"`
	FulltimeScore1 int    `json:"score1_ft"`
	FulltimeScore2 int    `json:"score2_ft"`
	Result         string `json:"result"`
}

type formView struct {
	AvgGoalsFor     float64 `json:"avg_goals_for"`
	AvgGoalsAgainst float64 `json:"avg_goals_against"`
	AvgGoalDiff     float64 `json:"avg_goal_diff"`
	MatchesPlayed   int     `json:"matches_played"`
}

type recentView struct {
	Team    string      `json:"team"`
	Matches []matchView `json:"matches"`
	Form    formView    `json:"form"`
}

type predictionView struct {
	Ready      bool        `json:"ready"`
	Error      string      `json:"error,omitempty"`
	Team1      string      `json:"team1,omitempty"`
	Team2      string      `json:"team2,omitempty"`
	HTScore    string      `json:"ht_score,omitempty"`
	FTScore    string      `json:"ft_score,omitempty"`
	Issue      string      `json:"issue,omitempty"`
	IssueProba float64     `json:"issue_proba,omitempty"`
	Last5Team1 []matchView `json:"last5_team1,omitempty"`
	Last5Team2 []matchView `json:"last5_team2,omitempty"`
	Team1Form  *formView   `json:"team1_form,omitempty"`
	Team2Form  *formView   `json:"team2_form,omitempty"`
}

func toMatchView(r match.Record) matchView {
	return matchView{
		Team1:          r.Team1,
		Team2:          r.Team2,
		HalftimeScore1: r.HalftimeScore1,
		HalftimeScore2: r.HalftimeScore2,
		FulltimeScore1: r.FulltimeScore1,
		FulltimeScore2: r.FulltimeScore2,
		Result:         string(r.Outcome()),
	}
}

func toMatchViews(items []match.Record) []matchView {
	out := make([]matchView, 0, len(items))
	for _, item := range items {
		out = append(out, toMatchView(item))
	}
	return out
}

func toFormView(f forecast.TeamForm) formView {
	return formView{
		AvgGoalsFor:     f.AvgGoalsFor,
		AvgGoalsAgainst: f.AvgGoalsAgainst,
		AvgGoalDiff:     f.AvgGoalDiff,
		MatchesPlayed:   f.MatchesPlayed,
	}
}

func toPredictionView(p forecast.Prediction) predictionView {
	team1Form := toFormView(p.Comparison.Team1)
	team2Form := toFormView(p.Comparison.Team2)
	return predictionView{
		Ready:      true,
		Team1:      p.Team1,
		Team2:      p.Team2,
		HTScore:    p.HTScore,
		FTScore:    p.FTScore,
		Issue:      string(p.Issue),
		IssueProba: p.IssueProba,
		Last5Team1: toMatchViews(p.Last5Team1),
		Last5Team2: toMatchViews(p.Last5Team2),
		Team1Form:  &team1Form,
		Team2Form:  &team2Form,
	}
}
