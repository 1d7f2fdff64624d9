package forecast

import "github.com/riskibarqy/fc24pred/internal/domain/match"

// TrainingSet is the table a classifier is fitted on.
type TrainingSet struct {
	Features [][]float64
	Labels   []string
	Skipped  int
}

func (s TrainingSet) Len() int {
	return len(s.Labels)
}

// BuildTrainingSet turns history into one row per match. Row i only sees
// history[:i], so a match never contributes to its own features.
func BuildTrainingSet(history match.History, window int) TrainingSet {
	out := TrainingSet{
		Features: make([][]float64, 0, len(history)),
		Labels:   make([]string, 0, len(history)),
	}

	for i, row := range history {
		vector := BuildFeaturesWindow(history.Before(i), row.Team1, row.Team2, window)
		if !vector.Usable() {
			out.Skipped++
			continue
		}
		out.Features = append(out.Features, vector.Values())
		out.Labels = append(out.Labels, string(row.Outcome()))
	}

	return out
}
