/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"strings"
	"sync"
)

// Phase is the stage of the current round.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhaseCollect Phase = "collect"
	PhaseVoting  Phase = "voting"
	PhaseResults Phase = "results"
)

// Room is one game session. Every method takes the room's own lock, so
// rooms never contend with each other.
type Room struct {
	mu sync.Mutex

	code    Code
	catalog *Catalog
	random  Random

	category *Category
	players  []Player
	hostID   PlayerID
	phase    Phase

	submissions map[PlayerID]string
	votes       map[PlayerID]PlayerID

	secretWord string
	impostorID PlayerID

	notice string

	// version counts changes to the public state.
	version uint64
}

func newRoom(code Code, catalog *Catalog, r Random) *Room {
	return &Room{
		code:        code,
		catalog:     catalog,
		random:      r,
		category:    catalog.PickRandom(),
		phase:       PhaseLobby,
		submissions: make(map[PlayerID]string),
		votes:       make(map[PlayerID]PlayerID),
	}
}

func (r *Room) Code() Code {
	return r.code
}

// Join adds a player to the room. See join for the rules.
func (r *Room) Join(candidate Token, name string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := len(r.players)

	p, err := r.join(candidate, name)
	if err != nil {
		r.setNotice(err)

		return p, err
	}

	if len(r.players) != count {
		r.version++
	}

	return p, nil
}

// Start begins a round: it draws the secret word and the impostor and
// moves the room from lobby to collect. Only the host may start.
func (r *Room) Start(caller Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.start(caller)
	if err != nil {
		r.setNotice(err)
	}

	return err
}

func (r *Room) start(caller Token) error {
	p := r.playerByToken(caller)
	if p == nil || p.ID != r.hostID {
		return ErrNotHost
	}

	if len(r.players) == 0 {
		return ErrNoPlayers
	}

	if r.phase != PhaseLobby {
		return ErrWrongPhase
	}

	words := r.category.Words

	r.secretWord = words[r.random.Intn(len(words))]
	r.impostorID = r.players[r.random.Intn(len(r.players))].ID
	clear(r.submissions)
	clear(r.votes)
	r.phase = PhaseCollect
	r.version++

	return nil
}

// Submit records the caller's word for the round, replacing any earlier one.
// Once every player has submitted the room moves to voting, and advanced
// is true. Stale calls return a benign error and change nothing.
func (r *Room) Submit(caller Token, word string) (advanced bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseCollect {
		return false, ErrWrongPhase
	}

	p := r.playerByToken(caller)
	if p == nil {
		return false, ErrUnknownPlayer
	}

	word = strings.TrimSpace(word)
	if word == "" {
		return false, ErrEmptyWord
	}

	r.submissions[p.ID] = word
	r.version++

	if r.allSubmitted() {
		r.phase = PhaseVoting

		return true, nil
	}

	return false, nil
}

// Vote records the caller's accusation of targetID, replacing any earlier
// one. Players may vote for themselves. Once every player has voted the
// room moves to results, and advanced is true.
func (r *Room) Vote(voter Token, targetID PlayerID) (advanced bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseVoting {
		return false, ErrWrongPhase
	}

	p := r.playerByToken(voter)
	if p == nil {
		return false, ErrUnknownPlayer
	}

	if r.player(targetID) == nil {
		return false, ErrUnknownTarget
	}

	r.votes[p.ID] = targetID
	r.version++

	if r.allVoted() {
		r.phase = PhaseResults

		return true, nil
	}

	return false, nil
}

// Reset returns the room to the lobby with a fresh category. Players and
// the host are kept.
func (r *Room) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.category = r.catalog.PickRandom()
	r.phase = PhaseLobby
	clear(r.submissions)
	clear(r.votes)
	r.secretWord = ""
	r.impostorID = ""
	r.notice = resetNotice
	r.version++
}

// allSubmitted and allVoted rescan the roster on every call rather than
// keeping counters.
func (r *Room) allSubmitted() bool {
	if len(r.players) == 0 {
		return false
	}

	for _, p := range r.players {
		if _, ok := r.submissions[p.ID]; !ok {
			return false
		}
	}

	return true
}

func (r *Room) allVoted() bool {
	if len(r.players) == 0 {
		return false
	}

	for _, p := range r.players {
		if _, ok := r.votes[p.ID]; !ok {
			return false
		}
	}

	return true
}

func (r *Room) setNotice(err error) {
	if text := Notice(err); text != "" {
		r.notice = text
	}
}

// takeNotice returns the pending notice and clears it.
func (r *Room) takeNotice() string {
	n := r.notice
	r.notice = ""

	return n
}
