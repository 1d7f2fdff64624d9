package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/fc24pred/internal/domain/forecast"
	"github.com/riskibarqy/fc24pred/internal/domain/match"
	"github.com/riskibarqy/fc24pred/internal/usecase"
)

var errExit = errors.New("exit")

const helpText = `commands:
  add <team1> | <team2> | <ht1>-<ht2> | <ft1>-<ft2>   record a played match
  predict <team1> | <team2>                          predict the outcome of a matchup
  recent <team> [n]                                  last n matches of a club (default 5)
  teams                                              list selectable clubs
  history                                            list every recorded match
  help                                               show this text
  exit                                               leave the console`

type console struct {
	matches     *usecase.MatchService
	predictions *usecase.PredictionService
	json        bool
}

func newConsole(matches *usecase.MatchService, predictions *usecase.PredictionService, jsonOutput bool) *console {
	return &console{
		matches:     matches,
		predictions: predictions,
		json:        jsonOutput,
	}
}

func (c *console) exec(ctx context.Context, w io.Writer, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "help", "?":
		_, err := fmt.Fprintln(w, helpText)
		return err
	case "exit", "quit":
		return errExit
	case "teams":
		return c.teams(ctx, w)
	case "history":
		return c.history(ctx, w)
	case "recent":
		return c.recent(ctx, w, rest)
	case "add":
		return c.add(ctx, w, rest)
	case "predict":
		return c.predict(ctx, w, rest)
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
}

func (c *console) teams(ctx context.Context, w io.Writer) error {
	items := c.matches.Teams(ctx)
	if c.json {
		out := make([]teamView, 0, len(items))
		for _, item := range items {
			out = append(out, teamView{ID: item.ID, Name: item.Name, Short: item.Short})
		}
		return writeJSON(w, out)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SHORT\tNAME\tID")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Short, item.Name, item.ID)
	}
	return tw.Flush()
}

func (c *console) history(ctx context.Context, w io.Writer) error {
	history, err := c.matches.History(ctx)
	if err != nil {
		return err
	}
	if c.json {
		return writeJSON(w, toMatchViews(history))
	}
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "no matches recorded yet")
		return err
	}
	return writeMatchTable(w, history)
}

func (c *console) recent(ctx context.Context, w io.Writer, args string) error {
	if args == "" {
		return fmt.Errorf("usage: recent <team> [n]")
	}

	name, n := args, 0
	if i := strings.LastIndex(args, " "); i > 0 {
		if parsed, err := strconv.Atoi(strings.TrimSpace(args[i+1:])); err == nil {
			name, n = strings.TrimSpace(args[:i]), parsed
			if n < 1 {
				return fmt.Errorf("n must be a positive integer")
			}
		}
	}

	recent, err := c.matches.RecentForm(ctx, name, n)
	if err != nil {
		return err
	}
	if c.json {
		return writeJSON(w, recentView{
			Team:    recent.Team.Name,
			Matches: toMatchViews(recent.Matches),
			Form:    toFormView(recent.Form),
		})
	}

	fmt.Fprintf(w, "%s: %d played, %.2f for, %.2f against, %+.2f diff\n",
		recent.Team.Name,
		recent.Form.MatchesPlayed,
		recent.Form.AvgGoalsFor,
		recent.Form.AvgGoalsAgainst,
		recent.Form.AvgGoalDiff,
	)
	if len(recent.Matches) == 0 {
		return nil
	}
	return writeMatchTable(w, recent.Matches)
}

func (c *console) add(ctx context.Context, w io.Writer, args string) error {
	fields := splitFields(args)
	if len(fields) != 4 {
		return fmt.Errorf("usage: add <team1> | <team2> | <ht1>-<ht2> | <ft1>-<ft2>")
	}

	ht1, ht2, err := parseScoreline("halftime", fields[2])
	if err != nil {
		return err
	}
	ft1, ft2, err := parseScoreline("fulltime", fields[3])
	if err != nil {
		return err
	}

	record, err := c.matches.Record(ctx, usecase.RecordMatchInput{
		Team1:          fields[0],
		Team2:          fields[1],
		HalftimeScore1: ht1,
		HalftimeScore2: ht2,
		FulltimeScore1: ft1,
		FulltimeScore2: ft2,
	})
	if err != nil {
		return err
	}

	if c.json {
		return writeJSON(w, toMatchView(record))
	}
	_, err = fmt.Fprintf(w, "recorded %s %d-%d %s (HT %d-%d)\n",
		record.Team1, record.FulltimeScore1, record.FulltimeScore2, record.Team2,
		record.HalftimeScore1, record.HalftimeScore2,
	)
	return err
}

func (c *console) predict(ctx context.Context, w io.Writer, args string) error {
	fields := splitFields(args)
	if len(fields) != 2 {
		return fmt.Errorf("usage: predict <team1> | <team2>")
	}

	prediction, err := c.predictions.PredictFromStore(ctx, fields[0], fields[1])
	if errors.Is(err, usecase.ErrInsufficientData) {
		if c.json {
			return writeJSON(w, predictionView{Ready: false, Error: forecast.ErrInsufficientData.Error()})
		}
		_, err := fmt.Fprintln(w, forecast.ErrInsufficientData.Error())
		return err
	}
	if err != nil {
		return err
	}

	if c.json {
		return writeJSON(w, toPredictionView(prediction))
	}
	return writePrediction(w, prediction)
}

func writePrediction(w io.Writer, p forecast.Prediction) error {
	fmt.Fprintf(w, "%s vs %s\n", p.Team1, p.Team2)
	fmt.Fprintf(w, "  halftime score: %s\n", p.HTScore)
	fmt.Fprintf(w, "  fulltime score: %s\n", p.FTScore)
	fmt.Fprintf(w, "  issue:          %s (%.2f%%)\n", p.Issue, p.IssueProba)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\nFEATURE\t%s\t%s\n", p.Team1, p.Team2)
	rows := []struct {
		name   string
		t1, t2 float64
	}{
		{"avg goals for", p.Comparison.Team1.AvgGoalsFor, p.Comparison.Team2.AvgGoalsFor},
		{"avg goals against", p.Comparison.Team1.AvgGoalsAgainst, p.Comparison.Team2.AvgGoalsAgainst},
		{"avg goal diff", p.Comparison.Team1.AvgGoalDiff, p.Comparison.Team2.AvgGoalDiff},
		{"matches played", float64(p.Comparison.Team1.MatchesPlayed), float64(p.Comparison.Team2.MatchesPlayed)},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\n", row.name, row.t1, row.t2)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, side := range []struct {
		team    string
		matches []match.Record
	}{
		{p.Team1, p.Last5Team1},
		{p.Team2, p.Last5Team2},
	} {
		fmt.Fprintf(w, "\nlast %d matches of %s\n", len(side.matches), side.team)
		if len(side.matches) == 0 {
			continue
		}
		if err := writeMatchTable(w, side.matches); err != nil {
			return err
		}
	}
	return nil
}

func writeMatchTable(w io.Writer, items []match.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TEAM 1\tTEAM 2\tHT\tFT\tRESULT")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d-%d\t%d-%d\t%s\n",
			item.Team1, item.Team2,
			item.HalftimeScore1, item.HalftimeScore2,
			item.FulltimeScore1, item.FulltimeScore2,
			item.Outcome(),
		)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	return sonic.ConfigDefault.NewEncoder(w).Encode(v)
}

// splitFields splits "a | b | c" into trimmed fields.
func splitFields(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, "|")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

func parseScoreline(label, raw string) (int, int, error) {
	left, right, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return 0, 0, fmt.Errorf("%s score %q must look like 1-0", label, raw)
	}
	a, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, fmt.Errorf("%s score %q: %w", label, raw, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, fmt.Errorf("%s score %q: %w", label, raw, err)
	}
	return a, b, nil
}
