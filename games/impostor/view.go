/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

// Submission pairs a player's name with the word they submitted.
type Submission struct {
	Name string `json:"name"`
	Word string `json:"word"`
}

// Member is a roster row as shown to everyone in the room.
type Member struct {
	ID        PlayerID `json:"id"`
	Name      string   `json:"name"`
	IsHost    bool     `json:"isHost"`
	Submitted bool     `json:"submitted"`
	Voted     bool     `json:"voted"`
}

// Reveal is published once the round reaches results.
type Reveal struct {
	Impostor Player `json:"impostor"`
	Word     string `json:"word"`
}

// Snapshot is the public state of a room. It never contains the secret
// word before results, nor any player's token, and is safe to poll from a
// shared display. Version grows with every change to the room, so a newer
// snapshot always has the larger version.
type Snapshot struct {
	Code            Code     `json:"code"`
	Version         uint64   `json:"version"`
	Phase           Phase    `json:"phase"`
	Category        Category `json:"category"`
	Players         []Member `json:"players"`
	PlayerCount     int      `json:"playerCount"`
	SubmissionCount int      `json:"submissionCount"`
	VoteCount       int      `json:"voteCount"`

	// Submissions are only listed once collection is over.
	Submissions []Submission `json:"submissions,omitempty"`

	Accused     *Player    `json:"accused,omitempty"`
	Leaderboard []Standing `json:"leaderboard,omitempty"`
	Reveal      *Reveal    `json:"reveal,omitempty"`
}

// View is a Snapshot seen through one player's eyes.
type View struct {
	Snapshot

	Me         *Player  `json:"me,omitempty"`
	IsHost     bool     `json:"isHost"`
	IsImpostor bool     `json:"isImpostor"`
	SecretWord string   `json:"secretWord,omitempty"`
	Submission string   `json:"submission,omitempty"`
	HasVoted   bool     `json:"hasVoted"`
	VotedFor   PlayerID `json:"votedFor,omitempty"`
	Notice     string   `json:"notice,omitempty"`
}

// Snapshot returns the public state of the room. It leaves the pending
// notice in place.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshot()
}

// View returns the room as seen by the holder of token, who may be unknown
// or empty for a spectator. Reading a view consumes the room's pending
// notice.
func (r *Room) View(token Token) View {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := View{
		Snapshot: r.snapshot(),
		Notice:   r.takeNotice(),
	}

	p := r.playerByToken(token)
	if p == nil {
		return v
	}

	me := p.public()
	v.Me = &me
	v.IsHost = p.ID == r.hostID
	v.IsImpostor = p.ID == r.impostorID
	v.Submission = r.submissions[p.ID]
	v.VotedFor, v.HasVoted = r.votes[p.ID]

	if r.phase != PhaseLobby && !v.IsImpostor {
		v.SecretWord = r.secretWord
	}

	return v
}

func (r *Room) snapshot() Snapshot {
	s := Snapshot{
		Code:            r.code,
		Version:         r.version,
		Phase:           r.phase,
		Category:        Category{Name: r.category.Name, Image: r.category.Image},
		Players:         make([]Member, 0, len(r.players)),
		PlayerCount:     len(r.players),
		SubmissionCount: len(r.submissions),
		VoteCount:       len(r.votes),
	}

	for _, p := range r.players {
		_, submitted := r.submissions[p.ID]
		_, voted := r.votes[p.ID]

		s.Players = append(s.Players, Member{
			ID:        p.ID,
			Name:      p.Name,
			IsHost:    p.ID == r.hostID,
			Submitted: submitted,
			Voted:     voted,
		})
	}

	if r.phase == PhaseVoting || r.phase == PhaseResults {
		for _, p := range r.players {
			if word, ok := r.submissions[p.ID]; ok {
				s.Submissions = append(s.Submissions, Submission{Name: p.Name, Word: word})
			}
		}
	}

	if r.phase == PhaseResults {
		s.Accused, s.Leaderboard = Tally(r.players, r.votes)

		if impostor := r.player(r.impostorID); impostor != nil {
			s.Reveal = &Reveal{
				Impostor: impostor.public(),
				Word:     r.secretWord,
			}
		}
	}

	return s
}
