/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrNoCodeAvailable = errors.New("no free room code available")

	ErrInvalidName     = errors.New("name must be at least 2 characters")
	ErrRoundInProgress = errors.New("round already in progress")
	ErrNotHost         = errors.New("only the host may start a round")
	ErrNoPlayers       = errors.New("at least one player is required")

	// Reported by Start, Submit and Vote when the room is left untouched.
	ErrWrongPhase    = errors.New("action not allowed in the current phase")
	ErrUnknownPlayer = errors.New("player is not in this room")
	ErrUnknownTarget = errors.New("vote target is not in this room")
	ErrEmptyWord     = errors.New("submitted word is empty")

	ErrEmptyCatalog  = errors.New("catalog has no categories")
	ErrEmptyCategory = errors.New("category has no words")
)

// notices holds the text shown to players when a correctable error
// is stored as the room's pending notice.
var notices = map[error]string{
	ErrInvalidName:     "Escribe un nombre real, minimo 2 letras.",
	ErrRoundInProgress: "La partida ya empezo. Espera la siguiente ronda.",
	ErrNotHost:         "Solo el primer jugador puede iniciar la partida.",
	ErrNoPlayers:       "Necesitas al menos un jugador para iniciar.",
}

const resetNotice = "Nueva ronda lista. Puedes iniciar de nuevo."

// Notice returns the user-facing text for err, or "" if err has none.
func Notice(err error) string {
	for target, text := range notices {
		if errors.Is(err, target) {
			return text
		}
	}

	return ""
}

// IsBenign reports whether err describes a stale or duplicate action that
// was dropped without changing the room.
func IsBenign(err error) bool {
	return errors.Is(err, ErrWrongPhase) ||
		errors.Is(err, ErrUnknownPlayer) ||
		errors.Is(err, ErrUnknownTarget) ||
		errors.Is(err, ErrEmptyWord)
}
