// Package gameid generates short, sortable identifiers for games.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generate creates a new game ID from a UUIDv7 encoded as a 26-character
// base32 string.
func Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		// uuid only fails when the system entropy source fails
		panic("failed to generate game id: " + err.Error())
	}
	return encodeBase32(id)
}

// GenerateFrom creates a game ID whose random bits are read from r, so that
// seeded games get reproducible identifiers apart from the timestamp.
func GenerateFrom(r io.Reader) (string, error) {
	id, err := uuid.NewV7FromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to generate game id: %w", err)
	}
	return encodeBase32(id), nil
}

// encodeBase32 encodes a 128-bit UUID as a 26-character base32 string,
// most significant bits first with two zero padding bits in front.
func encodeBase32(data uuid.UUID) string {
	var b strings.Builder
	b.Grow(26)

	// 130 bits: 2 zero bits followed by the 128 uuid bits
	bit := func(i int) uint8 {
		i -= 2
		if i < 0 {
			return 0
		}
		return (data[i/8] >> (7 - i%8)) & 1
	}
	for c := 0; c < 26; c++ {
		var v uint8
		for k := 0; k < 5; k++ {
			v = v<<1 | bit(c*5+k)
		}
		b.WriteByte(alphabet[v])
	}
	return b.String()
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("game ID must be exactly 26 characters, got %d", len(id))
	}

	// The two padding bits keep the first character within 0-7
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}

	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}
