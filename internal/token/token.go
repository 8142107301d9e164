// Package token provides SPL token metadata and mint address handling.
package token

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// Mint is a base58-encoded SPL token mint address.
type Mint string

// Valid reports whether the mint decodes to a 32-byte public key.
func (m Mint) Valid() bool {
	raw, err := base58.Decode(string(m))
	return err == nil && len(raw) == 32
}

// Short returns an abbreviated form for display: first and last four
// characters joined by an ellipsis.
func (m Mint) Short() string {
	s := string(m)
	if len(s) <= 12 {
		return s
	}
	return s[:4] + "..." + s[len(s)-4:]
}

func (m Mint) String() string {
	return string(m)
}

// Token represents the metadata of an SPL token. The mint is the stable
// identity; symbol and name are display metadata only.
type Token struct {
	mint     Mint
	symbol   string
	name     string
	decimals uint8
}

// NewToken creates a Token with the given parameters.
func NewToken(mint Mint, symbol string, decimals uint8) *Token {
	if mint == "" {
		panic("token: empty mint")
	}
	if decimals > 30 {
		panic("token: suspicious decimals (>30)")
	}

	return &Token{
		mint:     mint,
		symbol:   symbol,
		decimals: decimals,
	}
}

// NewTokenWithName creates a Token with a human-readable name.
func NewTokenWithName(mint Mint, symbol, name string, decimals uint8) *Token {
	t := NewToken(mint, symbol, decimals)
	t.name = name
	return t
}

// Mint returns the token's mint address.
func (t *Token) Mint() Mint {
	return t.mint
}

// Symbol returns the ticker symbol, falling back to the short mint form
// for tokens discovered on the fly.
func (t *Token) Symbol() string {
	if t.symbol == "" {
		return t.mint.Short()
	}
	return t.symbol
}

// Name returns the human-readable name.
func (t *Token) Name() string {
	if t.name == "" {
		return t.Symbol()
	}
	return t.name
}

// Decimals returns the number of decimal places.
func (t *Token) Decimals() uint8 {
	return t.decimals
}

// String returns a human-readable representation.
func (t *Token) String() string {
	return t.Symbol()
}

// Equals compares two Tokens by mint.
func (t *Token) Equals(other *Token) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.mint == other.mint
}

// ParseMint validates s and returns it as a Mint.
func ParseMint(s string) (Mint, error) {
	m := Mint(s)
	if !m.Valid() {
		return "", fmt.Errorf("token: invalid mint address %q", s)
	}
	return m, nil
}
