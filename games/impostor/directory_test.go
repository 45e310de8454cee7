/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DirectorySuite struct {
	suite.Suite
	random    *fakeRandom
	directory *Directory
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.random = &fakeRandom{}
	s.directory = NewDirectory(NewDefaultCatalog(s.random), s.random)
}

func (s *DirectorySuite) createRoom(code string) *Room {
	s.random.queueString(code)

	created, err := s.directory.Create()
	s.Require().NoError(err)
	s.Require().Equal(Code(code), created)

	room, err := s.directory.Room(created)
	s.Require().NoError(err)

	return room
}

func (s *DirectorySuite) join(room *Room, names ...string) []Player {
	players := make([]Player, 0, len(names))
	for _, name := range names {
		p, err := room.Join("", name)
		s.Require().NoError(err)
		players = append(players, p)
	}

	return players
}

// Create

func (s *DirectorySuite) TestCreateStartsInLobby() {
	room := s.createRoom("ABCD")

	s.Equal(PhaseLobby, room.phase)
	s.Equal("Oficina", room.category.Name)
	s.Empty(room.players)
	s.Empty(room.hostID)
	s.Empty(room.secretWord)
	s.Empty(room.impostorID)
	s.Equal(1, s.directory.Len())
}

func (s *DirectorySuite) TestCreateRetriesOnCollision() {
	s.createRoom("ABCD")
	s.random.queueString("ABCD", "WXYZ")

	code, err := s.directory.Create()
	s.Require().NoError(err)
	s.Equal(Code("WXYZ"), code)
	s.Equal(2, s.directory.Len())
}

func (s *DirectorySuite) TestConcurrentCreatesGetDistinctCodes() {
	directory := NewDirectory(NewDefaultCatalog(NewCryptoRandom()), NewCryptoRandom())

	var wg sync.WaitGroup
	codes := make(chan Code, 200)

	for range 200 {
		wg.Go(func() {
			code, err := directory.Create()
			s.NoError(err)
			codes <- code
		})
	}

	wg.Wait()
	close(codes)

	seen := make(map[Code]bool)
	for code := range codes {
		s.False(seen[code], "duplicate code %s", code)
		seen[code] = true
	}

	s.Equal(200, directory.Len())
}

func (s *DirectorySuite) TestLookupIsCaseInsensitive() {
	s.createRoom("AB2C")

	_, err := s.directory.Room(" ab2c ")
	s.NoError(err)
}

func (s *DirectorySuite) TestUnknownRoom() {
	_, err := s.directory.Join("NOPE", "", "Ana")
	s.ErrorIs(err, ErrRoomNotFound)

	s.ErrorIs(s.directory.Start("NOPE", "x"), ErrRoomNotFound)
	s.ErrorIs(s.directory.Reset("NOPE"), ErrRoomNotFound)

	_, err = s.directory.Submit("NOPE", "x", "mesa")
	s.ErrorIs(err, ErrRoomNotFound)

	_, err = s.directory.Vote("NOPE", "x", "y")
	s.ErrorIs(err, ErrRoomNotFound)

	_, err = s.directory.Snapshot("NOPE")
	s.ErrorIs(err, ErrRoomNotFound)

	_, err = s.directory.View("NOPE", "x")
	s.ErrorIs(err, ErrRoomNotFound)
}

// Join

func (s *DirectorySuite) TestJoinAddsPlayerWithFreshID() {
	room := s.createRoom("ABCD")
	seen := make(map[PlayerID]bool)

	for i, name := range []string{"Ana", "Beto", "Cara", "  Dani  "} {
		p, err := s.directory.Join("ABCD", "", name)
		s.Require().NoError(err)

		s.Len(room.players, i+1)
		s.NotEmpty(p.ID)
		s.False(seen[p.ID])
		seen[p.ID] = true
	}

	s.Equal("Dani", room.players[3].Name)
}

func (s *DirectorySuite) TestFirstJoinerIsHost() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto")

	s.Equal(players[0].ID, room.hostID)
}

func (s *DirectorySuite) TestJoinRejectsShortName() {
	room := s.createRoom("ABCD")

	_, err := s.directory.Join("ABCD", "", "A")
	s.ErrorIs(err, ErrInvalidName)

	_, err = s.directory.Join("ABCD", "", "   B   ")
	s.ErrorIs(err, ErrInvalidName)

	s.Empty(room.players)
	s.Empty(room.hostID)
	s.Equal(Notice(ErrInvalidName), room.notice)
}

func (s *DirectorySuite) TestJoinCountsRunesNotBytes() {
	room := s.createRoom("ABCD")

	_, err := room.Join("", "é")
	s.ErrorIs(err, ErrInvalidName)

	_, err = room.Join("", "Ñu")
	s.NoError(err)
}

func (s *DirectorySuite) TestRejoinIsIdempotentInEveryPhase() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto")

	check := func() {
		p, err := room.Join(players[1].Token(), "Otro Nombre")
		s.Require().NoError(err)
		s.Equal(players[1], p)
		s.Equal(players, room.players)
	}

	check()

	s.Require().NoError(room.Start(players[0].Token()))
	check()

	for _, p := range players {
		_, err := room.Submit(p.Token(), "palabra")
		s.Require().NoError(err)
	}
	check()

	for _, p := range players {
		_, err := room.Vote(p.Token(), players[0].ID)
		s.Require().NoError(err)
	}
	check()
}

func (s *DirectorySuite) TestJoinDuringRoundIsRejected() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana")
	s.Require().NoError(room.Start(players[0].Token()))

	_, err := room.Join("", "Beto")
	s.ErrorIs(err, ErrRoundInProgress)
	s.Len(room.players, 1)

	_, err = room.Join("unknown-id", "Beto")
	s.ErrorIs(err, ErrRoundInProgress)
	s.Len(room.players, 1)
}

func (s *DirectorySuite) TestConcurrentJoinsHaveOneHost() {
	room := s.createRoom("ABCD")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			_, err := room.Join("", fmt.Sprintf("Jugador %d", i))
			s.NoError(err)
		})
	}

	wg.Wait()

	s.Len(room.players, 50)
	s.Equal(room.players[0].ID, room.hostID)
}

// Start

func (s *DirectorySuite) TestStartPicksWordAndImpostor() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto", "Cara")

	s.random.queueIntn(3, 2)
	s.Require().NoError(s.directory.Start("ABCD", players[0].Token()))

	s.Equal(PhaseCollect, room.phase)
	s.Equal("libro", room.secretWord)
	s.Contains(room.category.Words, room.secretWord)
	s.Equal(players[2].ID, room.impostorID)
	s.Empty(room.submissions)
	s.Empty(room.votes)
}

func (s *DirectorySuite) TestStartWithRealRandomness() {
	r := NewCryptoRandom()
	directory := NewDirectory(NewDefaultCatalog(r), r)

	code, err := directory.Create()
	s.Require().NoError(err)
	room, _ := directory.Room(code)
	players := s.join(room, "Ana", "Beto", "Cara")

	for range 20 {
		s.Require().NoError(room.Start(players[0].Token()))
		s.Contains(room.category.Words, room.secretWord)
		s.NotNil(room.player(room.impostorID))
		room.Reset()
	}
}

func (s *DirectorySuite) TestNonHostCannotStart() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto")

	err := s.directory.Start("ABCD", players[1].Token())
	s.ErrorIs(err, ErrNotHost)

	s.Equal(PhaseLobby, room.phase)
	s.Empty(room.secretWord)
	s.Empty(room.impostorID)
	s.Equal(Notice(ErrNotHost), room.notice)

	s.ErrorIs(room.Start(""), ErrNotHost)
}

func (s *DirectorySuite) TestStartWithoutPlayers() {
	room := s.createRoom("ABCD")

	s.ErrorIs(room.Start("anyone"), ErrNotHost)
	s.Equal(PhaseLobby, room.phase)
	s.Empty(room.secretWord)
	s.Equal(Notice(ErrNotHost), room.notice)
}

func (s *DirectorySuite) TestPublicIDDoesNotActAsPlayer() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto")

	s.NotEqual(Token(players[0].ID), players[0].Token())

	s.ErrorIs(room.Start(Token(players[0].ID)), ErrNotHost)
	s.Equal(PhaseLobby, room.phase)

	p, err := room.Join(Token(players[1].ID), "Intruso")
	s.Require().NoError(err)
	s.NotEqual(players[1].ID, p.ID)
	s.Equal("Intruso", p.Name)

	s.Require().NoError(room.Start(players[0].Token()))

	_, err = room.Submit(Token(players[1].ID), "mesa")
	s.ErrorIs(err, ErrUnknownPlayer)
	s.Empty(room.submissions)

	v := room.View(Token(players[1].ID))
	s.Nil(v.Me)
	s.Empty(v.SecretWord)
}

func (s *DirectorySuite) TestStartOutsideLobby() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto")

	s.random.queueIntn(0, 0)
	s.Require().NoError(room.Start(players[0].Token()))
	_, _ = room.Submit(players[0].Token(), "escritorio")

	s.random.queueIntn(5, 1)
	s.ErrorIs(room.Start(players[0].Token()), ErrWrongPhase)

	s.Equal("mesa", room.secretWord)
	s.Equal(players[0].ID, room.impostorID)
	s.Len(room.submissions, 1)
}

// Submit

func (s *DirectorySuite) TestSubmitAdvancesOnceEveryoneSubmitted() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto", "Cara")
	s.Require().NoError(room.Start(players[0].Token()))

	orders := [][]int{{0, 1, 2}, {2, 0, 1}, {1, 2, 0}}
	for _, order := range orders {
		room.Reset()
		s.Require().NoError(room.Start(players[0].Token()))

		advances := 0
		for i, idx := range order {
			advanced, err := room.Submit(players[idx].Token(), "palabra")
			s.Require().NoError(err)

			if advanced {
				advances++
			}

			if i < len(order)-1 {
				s.Equal(PhaseCollect, room.phase)
			}
		}

		s.Equal(1, advances)
		s.Equal(PhaseVoting, room.phase)
	}
}

func (s *DirectorySuite) TestSubmitOverwritesBeforeLock() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto")
	s.Require().NoError(room.Start(players[0].Token()))

	_, err := room.Submit(players[0].Token(), "mesa")
	s.Require().NoError(err)
	_, err = room.Submit(players[0].Token(), "  silla  ")
	s.Require().NoError(err)

	s.Equal("silla", room.submissions[players[0].ID])
	s.Len(room.submissions, 1)
	s.Equal(PhaseCollect, room.phase)
}

func (s *DirectorySuite) TestSubmitNoOps() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto")

	_, err := room.Submit(players[0].Token(), "mesa")
	s.ErrorIs(err, ErrWrongPhase)
	s.True(IsBenign(err))

	s.Require().NoError(room.Start(players[0].Token()))

	_, err = room.Submit("stranger", "mesa")
	s.ErrorIs(err, ErrUnknownPlayer)

	_, err = room.Submit("", "mesa")
	s.ErrorIs(err, ErrUnknownPlayer)

	_, err = room.Submit(players[0].Token(), "   ")
	s.ErrorIs(err, ErrEmptyWord)
	s.True(IsBenign(err))

	s.Empty(room.submissions)
	s.Equal(PhaseCollect, room.phase)
	s.Empty(room.notice)
}

func (s *DirectorySuite) TestConcurrentSubmissionsAdvanceExactlyOnce() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto", "Cara", "Dani", "Eva", "Fede", "Gabi", "Hugo")
	s.Require().NoError(room.Start(players[0].Token()))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		advances int
	)

	for _, p := range players {
		wg.Go(func() {
			advanced, err := room.Submit(p.Token(), "palabra de "+p.Name)
			s.NoError(err)

			if advanced {
				mu.Lock()
				advances++
				mu.Unlock()
			}
		})
	}

	wg.Wait()

	s.Equal(1, advances)
	s.Equal(PhaseVoting, room.phase)
	s.Len(room.submissions, len(players))
}

// Vote

func (s *DirectorySuite) startVoting(room *Room, players []Player) {
	s.Require().NoError(room.Start(players[0].Token()))

	for _, p := range players {
		_, err := room.Submit(p.Token(), "palabra")
		s.Require().NoError(err)
	}

	s.Require().Equal(PhaseVoting, room.phase)
}

func (s *DirectorySuite) TestVoteAdvancesOnceEveryoneVoted() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto", "Cara")
	s.startVoting(room, players)

	advanced, err := room.Vote(players[2].Token(), players[0].ID)
	s.Require().NoError(err)
	s.False(advanced)

	advanced, err = room.Vote(players[0].Token(), players[0].ID)
	s.Require().NoError(err)
	s.False(advanced)
	s.Equal(PhaseVoting, room.phase)

	advanced, err = room.Vote(players[1].Token(), players[2].ID)
	s.Require().NoError(err)
	s.True(advanced)
	s.Equal(PhaseResults, room.phase)
}

func (s *DirectorySuite) TestRevoteDoesNotAdvanceOrDoubleCount() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto", "Cara")
	s.startVoting(room, players)

	for _, target := range []Player{players[1], players[2], players[1]} {
		advanced, err := room.Vote(players[0].Token(), target.ID)
		s.Require().NoError(err)
		s.False(advanced)
	}

	s.Equal(PhaseVoting, room.phase)
	s.Len(room.votes, 1)

	_, _ = room.Vote(players[1].Token(), players[2].ID)
	advanced, _ := room.Vote(players[2].Token(), players[0].ID)
	s.True(advanced)

	_, leaderboard := Tally(room.players, room.votes)

	total := 0
	for _, standing := range leaderboard {
		total += standing.Votes
	}

	s.Equal(len(players), total)
}

func (s *DirectorySuite) TestVoteNoOps() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto")

	_, err := room.Vote(players[0].Token(), players[1].ID)
	s.ErrorIs(err, ErrWrongPhase)

	s.startVoting(room, players)

	_, err = room.Vote("stranger", players[1].ID)
	s.ErrorIs(err, ErrUnknownPlayer)

	_, err = room.Vote(players[0].Token(), "stranger")
	s.ErrorIs(err, ErrUnknownTarget)
	s.True(IsBenign(err))

	s.Empty(room.votes)
	s.Equal(PhaseVoting, room.phase)
}

func (s *DirectorySuite) TestVoteAfterResultsIsIgnored() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto")
	s.startVoting(room, players)

	_, _ = room.Vote(players[0].Token(), players[1].ID)
	_, _ = room.Vote(players[1].Token(), players[1].ID)
	s.Require().Equal(PhaseResults, room.phase)

	_, err := room.Vote(players[0].Token(), players[0].ID)
	s.ErrorIs(err, ErrWrongPhase)
	s.Equal(players[1].ID, room.votes[players[0].ID])
}

func (s *DirectorySuite) TestConcurrentVotesAdvanceExactlyOnce() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto", "Cara", "Dani", "Eva", "Fede")
	s.startVoting(room, players)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		advances int
	)

	for i, p := range players {
		wg.Go(func() {
			advanced, err := room.Vote(p.Token(), players[(i+1)%len(players)].ID)
			s.NoError(err)

			if advanced {
				mu.Lock()
				advances++
				mu.Unlock()
			}
		})
	}

	wg.Wait()

	s.Equal(1, advances)
	s.Equal(PhaseResults, room.phase)
}

// Reset

func (s *DirectorySuite) TestResetKeepsRosterAndHost() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto", "Cara")
	s.startVoting(room, players)
	_, _ = room.Vote(players[0].Token(), players[1].ID)

	s.random.queueIntn(2)
	s.Require().NoError(s.directory.Reset("ABCD"))

	s.Equal(PhaseLobby, room.phase)
	s.Equal("Fiesta", room.category.Name)
	s.Empty(room.submissions)
	s.Empty(room.votes)
	s.Empty(room.secretWord)
	s.Empty(room.impostorID)
	s.Equal(players, room.players)
	s.Equal(players[0].ID, room.hostID)
	s.Equal(resetNotice, room.notice)
}

func (s *DirectorySuite) TestResetFromLobbyAndCollect() {
	room := s.createRoom("ABCD")
	players := s.join(room, "Ana", "Beto")

	room.Reset()
	s.Equal(PhaseLobby, room.phase)

	s.Require().NoError(room.Start(players[0].Token()))
	_, _ = room.Submit(players[1].Token(), "mesa")

	room.Reset()
	s.Equal(PhaseLobby, room.phase)
	s.Empty(room.submissions)

	p, err := room.Join("", "Cara")
	s.Require().NoError(err)
	s.Len(room.players, 3)
	s.NotEqual(p.ID, room.hostID)
}

// Notice

func (s *DirectorySuite) TestNoticeIsReadOnce() {
	room := s.createRoom("ABCD")
	_, _ = room.Join("", "A")

	snapshot, err := s.directory.Snapshot("ABCD")
	s.Require().NoError(err)
	s.Equal(PhaseLobby, snapshot.Phase)

	view, err := s.directory.View("ABCD", "")
	s.Require().NoError(err)
	s.Equal(Notice(ErrInvalidName), view.Notice)

	view, _ = s.directory.View("ABCD", "")
	s.Empty(view.Notice)
}

// Scenario

func (s *DirectorySuite) TestFullRound() {
	room := s.createRoom("ABCD")
	s.Require().Equal("Oficina", room.category.Name)

	players := s.join(room, "Ana", "Beto", "Cara")
	ana, beto, cara := players[0], players[1], players[2]
	s.Equal(ana.ID, room.hostID)

	s.random.queueIntn(0, 1)
	s.Require().NoError(s.directory.Start("ABCD", ana.Token()))
	s.Equal("mesa", room.secretWord)
	s.Equal(beto.ID, room.impostorID)

	_, err := s.directory.Submit("ABCD", ana.Token(), "escritorio")
	s.Require().NoError(err)
	_, err = s.directory.Submit("ABCD", cara.Token(), "trabajo")
	s.Require().NoError(err)
	s.Equal(PhaseCollect, room.phase)

	advanced, err := s.directory.Submit("ABCD", beto.Token(), "oficina")
	s.Require().NoError(err)
	s.True(advanced)
	s.Equal(PhaseVoting, room.phase)

	_, _ = s.directory.Vote("ABCD", ana.Token(), beto.ID)
	_, _ = s.directory.Vote("ABCD", cara.Token(), beto.ID)
	s.Equal(PhaseVoting, room.phase)

	advanced, err = s.directory.Vote("ABCD", beto.Token(), ana.ID)
	s.Require().NoError(err)
	s.True(advanced)
	s.Equal(PhaseResults, room.phase)

	snapshot, err := s.directory.Snapshot("ABCD")
	s.Require().NoError(err)

	s.Require().NotNil(snapshot.Accused)
	s.Equal(beto.public(), *snapshot.Accused)
	s.Equal([]Standing{
		{ID: beto.ID, Name: "Beto", Votes: 2},
		{ID: ana.ID, Name: "Ana", Votes: 1},
		{ID: cara.ID, Name: "Cara", Votes: 0},
	}, snapshot.Leaderboard)
	s.Equal(&Reveal{Impostor: beto.public(), Word: "mesa"}, snapshot.Reveal)
	s.Equal([]Submission{
		{Name: "Ana", Word: "escritorio"},
		{Name: "Beto", Word: "oficina"},
		{Name: "Cara", Word: "trabajo"},
	}, snapshot.Submissions)

	again, _ := s.directory.Snapshot("ABCD")
	s.Equal(snapshot, again)
}
