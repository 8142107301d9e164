package token

import (
	"strings"
	"testing"
)

func TestMintValid(t *testing.T) {
	tests := []struct {
		name string
		mint Mint
		want bool
	}{
		{"wrapped sol", MintWSOL, true},
		{"usdc", MintUSDC, true},
		{"empty", Mint(""), false},
		{"not base58", Mint("0OIl-not-base58"), false},
		{"too short", Mint("abc"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mint.Valid(); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.mint, got, tt.want)
			}
		})
	}
}

func TestMintShort(t *testing.T) {
	got := MintBonk.Short()
	if !strings.HasPrefix(got, "DezX") || !strings.HasSuffix(got, "B263") {
		t.Errorf("Short() = %q, want DezX...B263", got)
	}
	if len(got) != 11 {
		t.Errorf("Short() length = %d, want 11", len(got))
	}

	short := Mint("tiny")
	if short.Short() != "tiny" {
		t.Errorf("Short() on short mint = %q, want unchanged", short.Short())
	}
}

func TestParseMint(t *testing.T) {
	m, err := ParseMint(string(MintJup))
	if err != nil {
		t.Fatalf("ParseMint valid mint: %v", err)
	}
	if m != MintJup {
		t.Errorf("ParseMint = %q, want %q", m, MintJup)
	}

	if _, err := ParseMint("nope"); err == nil {
		t.Error("ParseMint accepted an invalid mint")
	}
}

func TestTokenSymbolFallback(t *testing.T) {
	anon := NewToken(MintBonk, "", 5)
	if anon.Symbol() != MintBonk.Short() {
		t.Errorf("Symbol() = %q, want short mint form", anon.Symbol())
	}
	if !anon.Equals(BONK) {
		t.Error("tokens with the same mint should be equal")
	}
}

func TestRegistryDisplayName(t *testing.T) {
	r := DefaultRegistry()

	if got := r.DisplayName(MintBonk); got != "BONK" {
		t.Errorf("DisplayName(known) = %q, want BONK", got)
	}

	unknown := Mint("EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm")
	if got := r.DisplayName(unknown); got != unknown.Short() {
		t.Errorf("DisplayName(unknown) = %q, want %q", got, unknown.Short())
	}
}

func TestRegistryLookups(t *testing.T) {
	r := DefaultRegistry()

	if !r.Has(MintUSDC) {
		t.Error("registry missing USDC")
	}
	if _, ok := r.GetBySymbol("JUP"); !ok {
		t.Error("registry missing JUP by symbol")
	}
	if r.Count() != 5 {
		t.Errorf("Count() = %d, want 5", r.Count())
	}
}
