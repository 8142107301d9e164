package token

// Well-known mint addresses on Solana mainnet.
const (
	MintWSOL  = Mint("So11111111111111111111111111111111111111112")
	MintUSDC  = Mint("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	MintUSDT  = Mint("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
	MintBonk  = Mint("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
	MintJup   = Mint("JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN")
)

// Well-known Tokens (pre-created instances).
var (
	WSOL = NewTokenWithName(MintWSOL, "WSOL", "Wrapped SOL", 9)
	USDC = NewTokenWithName(MintUSDC, "USDC", "USD Coin", 6)
	USDT = NewTokenWithName(MintUSDT, "USDT", "Tether USD", 6)
	BONK = NewTokenWithName(MintBonk, "BONK", "Bonk", 5)
	JUP  = NewTokenWithName(MintJup, "JUP", "Jupiter", 6)
)

// DefaultRegistry returns a registry pre-populated with well-known tokens.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(WSOL)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(BONK)
	r.Register(JUP)

	return r
}
