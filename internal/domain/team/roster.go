package team

import "strings"

// premierLeagueFC24 is the club list of the FC24 Premier League edition.
var premierLeagueFC24 = []Team{
	{ID: "arsenal", Name: "Arsenal", Short: "ARS"},
	{ID: "aston-villa", Name: "Aston Villa", Short: "AVL"},
	{ID: "bournemouth", Name: "Bournemouth", Short: "BOU"},
	{ID: "brentford", Name: "Brentford", Short: "BRE"},
	{ID: "brighton", Name: "Brighton", Short: "BHA"},
	{ID: "burnley", Name: "Burnley", Short: "BUR"},
	{ID: "chelsea", Name: "Chelsea", Short: "CHE"},
	{ID: "crystal-palace", Name: "Crystal Palace", Short: "CRY"},
	{ID: "everton", Name: "Everton", Short: "EVE"},
	{ID: "fulham", Name: "Fulham", Short: "FUL"},
	{ID: "liverpool", Name: "Liverpool", Short: "LIV"},
	{ID: "luton-town", Name: "Luton Town", Short: "LUT"},
	{ID: "manchester-city", Name: "Manchester City", Short: "MCI"},
	{ID: "manchester-united", Name: "Manchester United", Short: "MUN"},
	{ID: "newcastle-united", Name: "Newcastle United", Short: "NEW"},
	{ID: "nottingham-forest", Name: "Nottingham Forest", Short: "NFO"},
	{ID: "sheffield-united", Name: "Sheffield United", Short: "SHU"},
	{ID: "tottenham-hotspur", Name: "Tottenham Hotspur", Short: "TOT"},
	{ID: "west-ham-united", Name: "West Ham United", Short: "WHU"},
	{ID: "wolverhampton", Name: "Wolverhampton Wanderers", Short: "WOL"},
}

// Roster returns a copy of the supported clubs in display order.
func Roster() []Team {
	out := make([]Team, len(premierLeagueFC24))
	copy(out, premierLeagueFC24)
	return out
}

// IsKnown reports whether name is exactly the stored name of a club.
func IsKnown(name string) bool {
	for _, item := range premierLeagueFC24 {
		if item.Name == name {
			return true
		}
	}
	return false
}

// Lookup resolves a club by name, short code or id, case-insensitively.
func Lookup(key string) (Team, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Team{}, false
	}
	for _, item := range premierLeagueFC24 {
		if strings.EqualFold(item.Name, key) ||
			strings.EqualFold(item.Short, key) ||
			strings.EqualFold(item.ID, key) {
			return item, true
		}
	}
	return Team{}, false
}
