package team

import "fmt"

// Team is a club selectable when recording or predicting a match.
// Name is the identity stored in match history.
type Team struct {
	ID    string
	Name  string
	Short string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
