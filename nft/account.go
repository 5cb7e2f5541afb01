package nft

import (
	"fmt"
	"regexp"
)

const (
	minAccountIdLen = 2
	maxAccountIdLen = 64
)

var accountIdPattern = regexp.MustCompile(`^(([a-z\d]+[-_])*[a-z\d]+\.)*([a-z\d]+[-_])*[a-z\d]+$`)

func ValidateAccountId(id string) error {
	if len(id) < minAccountIdLen || len(id) > maxAccountIdLen {
		return fmt.Errorf("%w: %q length", ErrInvalidAccountId, id)
	}
	if !accountIdPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountId, id)
	}
	return nil
}

// VaultAccountId derives the vault of a token as a sub-account of the
// contract. The derivation is pure: every token has exactly one vault and no
// mapping is stored.
func VaultAccountId(tokenId, contractId string) (string, error) {
	id := tokenId + "." + contractId
	if err := ValidateAccountId(id); err != nil {
		return "", fmt.Errorf("vault for token %q: %w", tokenId, err)
	}
	return id, nil
}
