package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/fc24pred/internal/domain/match"
	"github.com/riskibarqy/fc24pred/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fc24pred/internal/platform/learn"
	"github.com/riskibarqy/fc24pred/internal/platform/logging"
	"github.com/riskibarqy/fc24pred/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(seed []match.Record, jsonOutput bool) *console {
	repo := memory.NewMatchRepository(seed)
	predictions := usecase.NewPredictionService(repo, usecase.PredictionConfig{
		Ensemble: learn.EnsembleConfig{Seed: 7, Trees: 10, Folds: 3, Workers: 2},
	}, logging.NewNop())
	return newConsole(usecase.NewMatchService(repo), predictions, jsonOutput)
}

func seededHistory() []match.Record {
	out := make([]match.Record, 0, 15)
	for i := 0; i < 15; i++ {
		out = append(out, match.Record{
			Team1:          "Arsenal",
			Team2:          "Chelsea",
			HalftimeScore1: i % 2,
			FulltimeScore1: 1,
			FulltimeScore2: (i * 5) % 3,
		})
	}
	return out
}

func TestConsole_AddThenHistory(t *testing.T) {
	t.Parallel()

	con := newTestConsole(nil, false)
	var out bytes.Buffer

	require.NoError(t, con.exec(context.Background(), &out, "add ars | Chelsea | 1-0 | 2-1"))
	assert.Contains(t, out.String(), "recorded Arsenal 2-1 Chelsea (HT 1-0)")

	out.Reset()
	require.NoError(t, con.exec(context.Background(), &out, "history"))
	assert.Contains(t, out.String(), "Arsenal")
	assert.Contains(t, out.String(), "win")
}

func TestConsole_AddRejectsBadInput(t *testing.T) {
	t.Parallel()

	con := newTestConsole(nil, false)
	cases := []string{
		"add Arsenal | Chelsea | 1-0",
		"add Arsenal | Chelsea | 1:0 | 2-1",
		"add Arsenal | Chelsea | 1-0 | 2-x",
		"add Arsenal | Arsenal | 1-0 | 2-1",
		"add Arsenal | Chelsea | 1-0 | 11-1",
		"add Nowhere FC | Chelsea | 1-0 | 2-1",
	}
	for _, line := range cases {
		err := con.exec(context.Background(), &bytes.Buffer{}, line)
		assert.Error(t, err, line)
	}
}

func TestConsole_PredictNotReady(t *testing.T) {
	t.Parallel()

	con := newTestConsole(seededHistory()[:3], true)
	var out bytes.Buffer

	require.NoError(t, con.exec(context.Background(), &out, "predict Arsenal | Chelsea"))

	var view predictionView
	require.NoError(t, sonic.Unmarshal(out.Bytes(), &view))
	assert.False(t, view.Ready)
	assert.Equal(t, "not enough data to predict", view.Error)
}

func TestConsole_PredictJSON(t *testing.T) {
	t.Parallel()

	con := newTestConsole(seededHistory(), true)
	var out bytes.Buffer

	require.NoError(t, con.exec(context.Background(), &out, "predict Arsenal | Chelsea"))

	var view predictionView
	require.NoError(t, sonic.Unmarshal(out.Bytes(), &view))
	assert.True(t, view.Ready)
	assert.Contains(t, []string{"win", "lose", "draw"}, view.Issue)
	assert.GreaterOrEqual(t, view.IssueProba, 0.0)
	assert.LessOrEqual(t, view.IssueProba, 100.0)
	assert.Len(t, view.Last5Team1, 5)
	require.NotNil(t, view.Team1Form)
	assert.Equal(t, 5, view.Team1Form.MatchesPlayed)
}

func TestConsole_PredictText(t *testing.T) {
	t.Parallel()

	con := newTestConsole(seededHistory(), false)
	var out bytes.Buffer

	require.NoError(t, con.exec(context.Background(), &out, "predict Arsenal | Chelsea"))
	assert.Contains(t, out.String(), "Arsenal vs Chelsea")
	assert.Contains(t, out.String(), "halftime score:")
	assert.Contains(t, out.String(), "last 5 matches of Chelsea")
}

func TestConsole_Recent(t *testing.T) {
	t.Parallel()

	con := newTestConsole(seededHistory(), true)
	var out bytes.Buffer

	require.NoError(t, con.exec(context.Background(), &out, "recent chelsea 3"))

	var view recentView
	require.NoError(t, sonic.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, "Chelsea", view.Team)
	assert.Len(t, view.Matches, 3)
	assert.Equal(t, 3, view.Form.MatchesPlayed)

	assert.Error(t, con.exec(context.Background(), &bytes.Buffer{}, "recent chelsea 0"))
}

func TestConsole_MiscCommands(t *testing.T) {
	t.Parallel()

	con := newTestConsole(nil, false)
	var out bytes.Buffer

	require.NoError(t, con.exec(context.Background(), &out, "   "))
	assert.Empty(t, out.String())

	require.NoError(t, con.exec(context.Background(), &out, "help"))
	assert.Contains(t, out.String(), "predict <team1> | <team2>")

	out.Reset()
	require.NoError(t, con.exec(context.Background(), &out, "teams"))
	assert.Contains(t, out.String(), "Wolverhampton Wanderers")

	out.Reset()
	require.NoError(t, con.exec(context.Background(), &out, "history"))
	assert.Contains(t, out.String(), "no matches recorded yet")

	assert.ErrorIs(t, con.exec(context.Background(), &out, "EXIT"), errExit)
	assert.EqualError(t, con.exec(context.Background(), &out, "train"), fmt.Sprintf("unknown command %q, type help", "train"))
}

func TestParseScoreline(t *testing.T) {
	t.Parallel()

	a, b, err := parseScoreline("fulltime", " 3 - 1 ")
	require.NoError(t, err)
	assert.Equal(t, 3, a)
	assert.Equal(t, 1, b)

	_, _, err = parseScoreline("fulltime", "31")
	assert.Error(t, err)
}
