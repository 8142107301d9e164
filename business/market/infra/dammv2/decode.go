package dammv2

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
	solDecimals   = 9
	tokenDecimals = 6

	// Anchor event layout: discriminator, pool, mint, post-swap sqrt
	// price (u128).
	swapEventSize = 8 + 32 + 32 + 16

	// Pool account layout offsets. The sqrt price sits after the
	// account discriminator and the token mint/vault pubkeys.
	poolMintOffset      = 8 + 32
	poolSqrtPriceOffset = 8 + 32 + 32 + 32 + 32
	poolAccountMinSize  = poolSqrtPriceOffset + 16
)

// swapEventDiscriminator tags EvtSwap payloads emitted by the DAMM v2
// program.
var swapEventDiscriminator = []byte{0x51, 0x6c, 0xe3, 0xbe, 0xcd, 0xd0, 0x0a, 0xc4}

// two128 is the Q64.64 fixed point divisor squared.
var two128 = new(big.Int).Lsh(big.NewInt(1), 128)

// priceFromSqrtPrice converts a Q64.64 sqrt price into a SOL-per-token
// price at the given token decimals.
func priceFromSqrtPrice(sqrtPrice *big.Int, baseDecimals, quoteDecimals int32) decimal.Decimal {
	if sqrtPrice.Sign() <= 0 {
		return decimal.Zero
	}
	squared := new(big.Int).Mul(sqrtPrice, sqrtPrice)
	raw := decimal.NewFromBigInt(squared, 0).Div(decimal.NewFromBigInt(two128, 0))
	return raw.Shift(baseDecimals - quoteDecimals)
}

// readUint128LE reads a little-endian u128 as a big.Int.
func readUint128LE(data []byte) *big.Int {
	lo := binary.LittleEndian.Uint64(data[:8])
	hi := binary.LittleEndian.Uint64(data[8:16])

	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	return v.Add(v, new(big.Int).SetUint64(lo))
}

// decodeSwapEvent parses a raw anchor event payload into a swap.
// Returns false for payloads of other event types or truncated data.
func decodeSwapEvent(data []byte, slot uint64, signature string) (domain.DammV2Swap, bool) {
	if len(data) < swapEventSize || !bytes.Equal(data[:8], swapEventDiscriminator) {
		return domain.DammV2Swap{}, false
	}

	pool := base58.Encode(data[8:40])
	mint := base58.Encode(data[40:72])
	sqrtPrice := readUint128LE(data[72:88])

	price := priceFromSqrtPrice(sqrtPrice, tokenDecimals, solDecimals)
	if !price.IsPositive() {
		return domain.DammV2Swap{}, false
	}

	return domain.DammV2Swap{
		Pool:      pool,
		Mint:      token.Mint(mint),
		Price:     price,
		Slot:      slot,
		Signature: signature,
	}, true
}

// decodePoolState extracts the current sqrt price from a pool account.
func decodePoolState(data []byte) (*big.Int, bool) {
	if len(data) < poolAccountMinSize {
		return nil, false
	}
	return readUint128LE(data[poolSqrtPriceOffset : poolSqrtPriceOffset+16]), true
}
