// Package impostor implements the rooms of the Partybox Impostor game.
//
// How to play
//   - Someone opens a room; everybody else joins by code or QR from their phone
//   - The first player to join is the host, and only the host starts rounds
//   - Every round draws a category; all players but one see a secret word from it
//   - The remaining player, the impostor, only sees the category
//   - Each player submits one word related to the secret word
//   - Once everyone has submitted, the words are shown and players vote
//   - Once everyone has voted, the most-voted player is accused and the
//     impostor is revealed
//   - Resetting returns the same players to the lobby with a new category
//
// Phases
//
//	lobby -> collect -> voting -> results -> lobby
//
// A reset from any phase returns to the lobby. Nobody may join once a round
// has started, though known players may rejoin at any time.
package impostor
