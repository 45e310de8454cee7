/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const minNameLength = 2

// PlayerID names a player in everything the room publishes: the roster,
// votes and the leaderboard.
type PlayerID string

// Token is the secret a browser holds to act as a player. Join hands it out
// and nothing else in the package returns it.
type Token string

// Player is a member of a room. Players are never removed; the same roster
// carries over from one round to the next.
type Player struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`

	token Token
}

// Token returns the player's secret. It is empty on players taken from a
// Snapshot or View.
func (p Player) Token() Token {
	return p.token
}

// public strips the token.
func (p Player) public() Player {
	return Player{ID: p.ID, Name: p.Name}
}

// player returns the player with the given id, or nil.
func (r *Room) player(id PlayerID) *Player {
	if id == "" {
		return nil
	}

	for i := range r.players {
		if r.players[i].ID == id {
			return &r.players[i]
		}
	}

	return nil
}

// playerByToken returns the player holding token, or nil.
func (r *Room) playerByToken(token Token) *Player {
	if token == "" {
		return nil
	}

	for i := range r.players {
		if r.players[i].token == token {
			return &r.players[i]
		}
	}

	return nil
}

// join registers a player, or returns the existing one when candidate is
// the token of a known player. Must be called with r.mu held.
func (r *Room) join(candidate Token, name string) (Player, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minNameLength {
		return Player{}, ErrInvalidName
	}

	if p := r.playerByToken(candidate); p != nil {
		return *p, nil
	}

	if r.phase != PhaseLobby {
		return Player{}, ErrRoundInProgress
	}

	p := Player{
		ID:    r.newPlayerID(),
		Name:  name,
		token: r.newToken(),
	}

	r.players = append(r.players, p)

	if r.hostID == "" {
		r.hostID = p.ID
	}

	return p, nil
}

func (r *Room) newPlayerID() PlayerID {
	for {
		id := PlayerID(uuid.NewString())
		if r.player(id) == nil {
			return id
		}
	}
}

func (r *Room) newToken() Token {
	for {
		token := Token(uuid.NewString())
		if r.playerByToken(token) == nil {
			return token
		}
	}
}
