package models

// Wire shapes returned by the Sleeper read API. Every field may be missing.

type SleeperLeague struct {
	LeagueID string          `json:"league_id"`
	Name     string          `json:"name"`
	Season   string          `json:"season"`
	Metadata *LeagueMetadata `json:"metadata"`
}

type LeagueMetadata struct {
	Season string `json:"season"`
}

type SleeperUser struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

type SleeperRoster struct {
	RosterID int             `json:"roster_id"`
	OwnerID  string          `json:"owner_id"`
	Settings *RosterSettings `json:"settings"`
}

type RosterSettings struct {
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	Ties               int     `json:"ties"`
	Fpts               float64 `json:"fpts"`
	FptsDecimal        float64 `json:"fpts_decimal"`
	FptsAgainst        float64 `json:"fpts_against"`
	FptsAgainstDecimal float64 `json:"fpts_against_decimal"`
}

type SleeperState struct {
	Week        int    `json:"week"`
	DisplayWeek int    `json:"display_week"`
	Season      string `json:"season"`
	SeasonType  string `json:"season_type"`
}

type SleeperMatchup struct {
	RosterID  int      `json:"roster_id"`
	MatchupID *int     `json:"matchup_id"`
	Points    *float64 `json:"points"`
}

type SleeperTransaction struct {
	TransactionID string         `json:"transaction_id"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	StatusUpdated int64          `json:"status_updated"`
	Adds          map[string]int `json:"adds"`
	Drops         map[string]int `json:"drops"`
	RosterIDs     []int          `json:"roster_ids"`
}
