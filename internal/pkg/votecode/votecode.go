// Package votecode generates the opaque credential strings handed out to
// voters.
package votecode

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

const codeBytes = 10

// Generate returns a random code like "A3F7-K2M9-Q8XW-J4PL". The value
// carries no meaning; uniqueness is enforced by the database.
func Generate() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("rand.Read -> %w", err)
	}

	raw := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)

	code := ""
	for i := 0; i < len(raw); i += 4 {
		if code != "" {
			code += "-"
		}
		end := i + 4
		if end > len(raw) {
			end = len(raw)
		}
		code += raw[i:end]
	}

	return code, nil
}
