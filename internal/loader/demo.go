package loader

import (
	"fmt"
	"math/rand/v2"

	"github.com/omarshaarawi/leaguehub/internal/models"
)

var demoNames = []string{
	"Obi", "Ram", "Prestige", "Be", "Papa", "Lickety",
	"Sneak", "Boom", "Huck", "White", "You", "Many",
}

// Demo is the synthetic league shown when the live API is unreachable.
type Demo struct {
	Members []models.Member
	Rosters []models.Roster
}

// NewDemo builds twelve members with randomized season aggregates. Call it
// once per process so the demo numbers stay put across refreshes.
func NewDemo(r *rand.Rand) Demo {
	d := Demo{
		Members: make([]models.Member, len(demoNames)),
		Rosters: make([]models.Roster, len(demoNames)),
	}
	for i, name := range demoNames {
		id := fmt.Sprintf("u%d", i+1)
		d.Members[i] = models.Member{ID: id, DisplayName: name}
		d.Rosters[i] = models.Roster{
			RosterID:      i + 1,
			OwnerID:       id,
			Wins:          r.IntN(8),
			Losses:        r.IntN(8),
			PointsFor:     900 + r.Float64()*300,
			PointsAgainst: 900 + r.Float64()*300,
		}
	}
	return d
}
