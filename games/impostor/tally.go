/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"sort"
	"strings"
)

// Standing is one leaderboard row.
type Standing struct {
	ID    PlayerID `json:"id"`
	Name  string   `json:"name"`
	Votes int      `json:"votes"`
}

// Tally counts the votes each player received and ranks them: most votes
// first, ties broken by case-insensitive name, then join order. The accused
// is the first-ranked player, or nil when there are no players.
func Tally(players []Player, votes map[PlayerID]PlayerID) (*Player, []Standing) {
	counts := make(map[PlayerID]int, len(players))
	for _, target := range votes {
		counts[target]++
	}

	leaderboard := make([]Standing, 0, len(players))
	for _, p := range players {
		leaderboard = append(leaderboard, Standing{
			ID:    p.ID,
			Name:  p.Name,
			Votes: counts[p.ID],
		})
	}

	sort.SliceStable(leaderboard, func(i, j int) bool {
		if leaderboard[i].Votes != leaderboard[j].Votes {
			return leaderboard[i].Votes > leaderboard[j].Votes
		}

		return strings.ToLower(leaderboard[i].Name) < strings.ToLower(leaderboard[j].Name)
	})

	if len(leaderboard) == 0 {
		return nil, leaderboard
	}

	for i := range players {
		if players[i].ID == leaderboard[0].ID {
			accused := players[i].public()

			return &accused, leaderboard
		}
	}

	return nil, leaderboard
}
