package pumpswap

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/token"
)

const (
	solDecimals = 9
	// PumpSwap pools trade tokens with 6 decimals.
	tokenDecimals = 6

	// Anchor event layout: discriminator, pool, mint, sol amount,
	// token amount, direction flag.
	tradeEventSize = 8 + 32 + 32 + 8 + 8 + 1
)

// tradeEventDiscriminator tags TradeEvent payloads emitted by the
// PumpSwap program.
var tradeEventDiscriminator = []byte{0xbd, 0xdb, 0x7f, 0xd3, 0x4e, 0xe6, 0x61, 0xee}

// decodeTradeEvent parses a raw anchor event payload into a trade.
// Returns false for payloads of other event types or truncated data.
func decodeTradeEvent(data []byte, slot uint64, signature string) (domain.PumpSwapTrade, bool) {
	if len(data) < tradeEventSize || !bytes.Equal(data[:8], tradeEventDiscriminator) {
		return domain.PumpSwapTrade{}, false
	}

	pool := base58.Encode(data[8:40])
	mint := base58.Encode(data[40:72])
	solLamports := binary.LittleEndian.Uint64(data[72:80])
	tokenRaw := binary.LittleEndian.Uint64(data[80:88])

	return domain.PumpSwapTrade{
		Pool:        pool,
		Mint:        token.Mint(mint),
		SolAmount:   decimal.NewFromBigInt(new(big.Int).SetUint64(solLamports), -solDecimals),
		TokenAmount: decimal.NewFromBigInt(new(big.Int).SetUint64(tokenRaw), -tokenDecimals),
		Slot:        slot,
		Signature:   signature,
	}, true
}
