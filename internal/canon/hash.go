package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash domains. The version suffix allows the encoding to change without
// colliding with older cache entries.
const (
	DomainDecls  = "shadow/decls/v1"
	DomainTAC    = "shadow/tac/v1"
	DomainConfig = "shadow/config/v1"
)

// HashWithDomain returns the hex SHA-256 of domain, a zero byte, and data.
// The separator keeps a domain from running into its data.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash marshals v canonically and hashes it under domain.
func Hash(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", domain, err)
	}
	return HashWithDomain(domain, data), nil
}

// HashText hashes text, such as a TAC dump, under domain.
func HashText(domain, text string) string {
	return HashWithDomain(domain, []byte(text))
}
