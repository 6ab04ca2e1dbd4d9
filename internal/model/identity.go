package model

import (
	"fmt"
	"unicode"
)

// Identity is an opaque caller handle supplied by the external
// authentication provider. It keys all per-caller state and is never
// minted or destroyed by this service.
type Identity string

const maxIdentityLen = 128

func (i Identity) String() string {
	return string(i)
}

// ParseIdentity validates the raw identity syntax. The handle is opaque
// but must be non-empty, bounded, and free of whitespace and control
// characters.
func ParseIdentity(raw string) (Identity, error) {
	if raw == "" {
		return "", fmt.Errorf("identity is empty")
	}
	if len(raw) > maxIdentityLen {
		return "", fmt.Errorf("identity exceeds %d characters", maxIdentityLen)
	}
	for _, r := range raw {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", fmt.Errorf("identity contains whitespace or control characters")
		}
	}
	return Identity(raw), nil
}
