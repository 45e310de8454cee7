/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import "strings"

const (
	// Visually ambiguous characters (0/O, 1/I) are left out so codes can be
	// read off a shared screen.
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 4

	maxCodeAttempts = 64
)

// Code identifies a room.
type Code string

// NormalizeCode trims and upper-cases user input so lookups are
// case-insensitive.
func NormalizeCode(s string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(s)))
}

// generateCode draws codes until taken reports one as free. It gives up
// after maxCodeAttempts draws.
func generateCode(r Random, taken func(Code) bool) (Code, error) {
	for range maxCodeAttempts {
		code := Code(r.String(codeLength, codeAlphabet))
		if code == "" || taken(code) {
			continue
		}

		return code, nil
	}

	return "", ErrNoCodeAvailable
}
