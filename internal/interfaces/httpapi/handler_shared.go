package httpapi

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fc24pred/internal/domain/forecast"
	"github.com/riskibarqy/fc24pred/internal/domain/match"
	"github.com/riskibarqy/fc24pred/internal/domain/team"
	"github.com/riskibarqy/fc24pred/internal/usecase"
)

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type recordMatchRequest struct {
	Team1    string `json:"team1" validate:"required,roster"`
	Team2    string `json:"team2" validate:"required,roster,nefield=Team1"`
	Score1HT int    `json:"score1_ht" validate:"min=0,max=10"`
	Score2HT int    `json:"score2_ht" validate:"min=0,max=10"`
	Score1FT int    `json:"score1_ft" validate:"min=0,max=10"`
	Score2FT int    `json:"score2_ft" validate:"min=0,max=10"`
}

type predictionRequest struct {
	Team1 string `json:"team1" validate:"required,roster"`
	Team2 string `json:"team2" validate:"required,roster,nefield=Team1"`
}

type teamDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

type matchDTO struct {
	Team1    string `json:"team1"`
	Team2    string `json:"team2"`
	Score1HT int    `json:"score1_ht"`
	Score2HT int    `json:"score2_ht"`
	Score1FT int    `json:"score1_ft"`
	Score2FT int    `json:"score2_ft"`
	Result   string `json:"result"`
}

type formDTO struct {
	AvgGoalsFor     float64 `json:"avg_goals_for"`
	AvgGoalsAgainst float64 `json:"avg_goals_against"`
	AvgGoalDiff     float64 `json:"avg_goal_diff"`
	MatchesPlayed   int     `json:"matches_played"`
}

type teamRecentDTO struct {
	Team    teamDTO    `json:"team"`
	Matches []matchDTO `json:"matches"`
	Form    formDTO    `json:"form"`
}

type featureDTO struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type comparisonDTO struct {
	Team1    formDTO      `json:"team1"`
	Team2    formDTO      `json:"team2"`
	Features []featureDTO `json:"features"`
}

type predictionDTO struct {
	Ready      bool           `json:"ready"`
	Error      string         `json:"error,omitempty"`
	Team1      string         `json:"team1,omitempty"`
	Team2      string         `json:"team2,omitempty"`
	HTScore    string         `json:"ht_score,omitempty"`
	FTScore    string         `json:"ft_score,omitempty"`
	Issue      string         `json:"issue,omitempty"`
	IssueProba float64        `json:"issue_proba"`
	Last5Team1 []matchDTO     `json:"last5_team1,omitempty"`
	Last5Team2 []matchDTO     `json:"last5_team2,omitempty"`
	Comparison *comparisonDTO `json:"comparison,omitempty"`
}

func teamToDTO(item team.Team) teamDTO {
	return teamDTO{ID: item.ID, Name: item.Name, Short: item.Short}
}

func matchToDTO(item match.Record) matchDTO {
	return matchDTO{
		Team1:    item.Team1,
		Team2:    item.Team2,
		Score1HT: item.HalftimeScore1,
		Score2HT: item.HalftimeScore2,
		Score1FT: item.FulltimeScore1,
		Score2FT: item.FulltimeScore2,
		Result:   string(item.Outcome()),
	}
}

func matchesToDTO(items []match.Record) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	return out
}

func formToDTO(f forecast.TeamForm) formDTO {
	return formDTO{
		AvgGoalsFor:     f.AvgGoalsFor,
		AvgGoalsAgainst: f.AvgGoalsAgainst,
		AvgGoalDiff:     f.AvgGoalDiff,
		MatchesPlayed:   f.MatchesPlayed,
	}
}

func predictionToDTO(p forecast.Prediction) predictionDTO {
	named := p.Comparison.Named()
	features := make([]featureDTO, 0, len(named))
	for _, item := range named {
		features = append(features, featureDTO{Name: item.Name, Value: item.Value})
	}

	return predictionDTO{
		Ready:      true,
		Team1:      p.Team1,
		Team2:      p.Team2,
		HTScore:    p.HTScore,
		FTScore:    p.FTScore,
		Issue:      string(p.Issue),
		IssueProba: p.IssueProba,
		Last5Team1: matchesToDTO(p.Last5Team1),
		Last5Team2: matchesToDTO(p.Last5Team2),
		Comparison: &comparisonDTO{
			Team1:    formToDTO(p.Comparison.Team1),
			Team2:    formToDTO(p.Comparison.Team2),
			Features: features,
		},
	}
}
