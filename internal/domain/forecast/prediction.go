package forecast

import (
	"errors"

	"github.com/riskibarqy/fc24pred/internal/domain/match"
)

var ErrInsufficientData = errors.New("not enough data to predict")

// Prediction is the answer to a matchup request.
//
// HTScore and FTScore are drawn at random and carry no relation to Issue
// or IssueProba, which come from the classifier.
type Prediction struct {
	Team1      string
	Team2      string
	HTScore    string
	FTScore    string
	Issue      match.Outcome
	IssueProba float64
	Last5Team1 []match.Record
	Last5Team2 []match.Record
	Comparison FeatureVector
}
