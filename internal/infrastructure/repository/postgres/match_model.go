package postgres

import "time"

type matchResultTableModel struct {
	ID             int64     `db:"id"`
	Team1          string    `db:"team1"`
	Team2          string    `db:"team2"`
	HalftimeScore1 int       `db:"score1_ht"`
	HalftimeScore2 int       `db:"score2_ht"`
	FulltimeScore1 int       `db:"score1_ft"`
	FulltimeScore2 int       `db:"score2_ft"`
	CreatedAt      time.Time `db:"created_at"`
}

type matchResultInsertModel struct {
	Team1          string `db:"team1"`
	Team2          string `db:"team2"`
	HalftimeScore1 int    `db:"score1_ht"`
	HalftimeScore2 int    `db:"score2_ht"`
	FulltimeScore1 int    `db:"score1_ft"`
	FulltimeScore2 int    `db:"score2_ft"`
}
