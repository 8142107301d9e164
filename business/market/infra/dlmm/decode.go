package dlmm

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/token"
)

const (
	solDecimals   = 9
	tokenDecimals = 6

	// Anchor event layout: discriminator, lb pair, mint, active bin id
	// (i32), bin step (u16).
	swapEventSize = 8 + 32 + 32 + 4 + 2
)

// swapEventDiscriminator tags Swap payloads emitted by the DLMM program.
var swapEventDiscriminator = []byte{0x81, 0xcc, 0xe4, 0x5b, 0x2f, 0xab, 0x84, 0xad}

// priceFromBin converts a DLMM active bin into a SOL-per-token price.
// Each bin is a fixed step of binStep/10000 away from price 1.
func priceFromBin(activeID int32, binStep uint16, baseDecimals, quoteDecimals int32) decimal.Decimal {
	if binStep == 0 {
		return decimal.Zero
	}

	perBin := 1 + float64(binStep)/10000
	raw := math.Pow(perBin, float64(activeID))
	if math.IsInf(raw, 0) || math.IsNaN(raw) || raw <= 0 {
		return decimal.Zero
	}

	return decimal.NewFromFloat(raw).Shift(baseDecimals - quoteDecimals)
}

// decodeSwapEvent parses a raw anchor event payload into a swap.
// Returns false for payloads of other event types or truncated data.
func decodeSwapEvent(data []byte, slot uint64, signature string) (domain.DLMMSwap, bool) {
	if len(data) < swapEventSize || !bytes.Equal(data[:8], swapEventDiscriminator) {
		return domain.DLMMSwap{}, false
	}

	pool := base58.Encode(data[8:40])
	mint := base58.Encode(data[40:72])
	activeID := int32(binary.LittleEndian.Uint32(data[72:76]))
	binStep := binary.LittleEndian.Uint16(data[76:78])

	price := priceFromBin(activeID, binStep, tokenDecimals, solDecimals)
	if !price.IsPositive() {
		return domain.DLMMSwap{}, false
	}

	return domain.DLMMSwap{
		Pool:      pool,
		Mint:      token.Mint(mint),
		Price:     price,
		Slot:      slot,
		Signature: signature,
	}, true
}
