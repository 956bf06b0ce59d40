package sleeper

import (
	"context"
	"fmt"

	"github.com/omarshaarawi/leaguehub/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) League(ctx context.Context, leagueID string) (*models.SleeperLeague, bool) {
	var league models.SleeperLeague
	if !a.client.Fetch(ctx, fmt.Sprintf("/league/%s", leagueID), &league) {
		return nil, false
	}
	return &league, true
}

func (a *API) Users(ctx context.Context, leagueID string) ([]models.SleeperUser, bool) {
	var users []models.SleeperUser
	if !a.client.Fetch(ctx, fmt.Sprintf("/league/%s/users", leagueID), &users) {
		return nil, false
	}
	// A JSON null decodes cleanly into a nil slice; only an array counts.
	return users, users != nil
}

func (a *API) Rosters(ctx context.Context, leagueID string) ([]models.SleeperRoster, bool) {
	var rosters []models.SleeperRoster
	if !a.client.Fetch(ctx, fmt.Sprintf("/league/%s/rosters", leagueID), &rosters) {
		return nil, false
	}
	return rosters, rosters != nil
}

func (a *API) State(ctx context.Context) (*models.SleeperState, bool) {
	var state models.SleeperState
	if !a.client.Fetch(ctx, fmt.Sprintf("/state/%s", a.client.Config.Sport), &state) {
		return nil, false
	}
	return &state, true
}

func (a *API) Matchups(ctx context.Context, leagueID string, week int) ([]models.SleeperMatchup, bool) {
	var matchups []models.SleeperMatchup
	if !a.client.Fetch(ctx, fmt.Sprintf("/league/%s/matchups/%d", leagueID, week), &matchups) {
		return nil, false
	}
	return matchups, matchups != nil
}

func (a *API) Transactions(ctx context.Context, leagueID string, week int) ([]models.SleeperTransaction, bool) {
	var txns []models.SleeperTransaction
	if !a.client.Fetch(ctx, fmt.Sprintf("/league/%s/transactions/%d", leagueID, week), &txns) {
		return nil, false
	}
	return txns, txns != nil
}
