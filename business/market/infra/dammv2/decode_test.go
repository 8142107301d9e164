package dammv2

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
)

func u128LE(v *big.Int) []byte {
	buf := make([]byte, 16)
	lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(v, 64)
	binary.LittleEndian.PutUint64(buf[:8], lo.Uint64())
	binary.LittleEndian.PutUint64(buf[8:], hi.Uint64())
	return buf
}

func TestPriceFromSqrtPrice(t *testing.T) {
	// sqrtPrice = 2^64 means raw price 1 per raw unit; shifting by the
	// decimal gap (6 - 9) gives 0.001 SOL per token.
	one := new(big.Int).Lsh(big.NewInt(1), 64)

	got := priceFromSqrtPrice(one, tokenDecimals, solDecimals)
	want := decimal.RequireFromString("0.001")
	if !got.Equal(want) {
		t.Errorf("priceFromSqrtPrice(2^64) = %s, want %s", got, want)
	}

	// Doubling the sqrt price quadruples the price.
	double := new(big.Int).Lsh(big.NewInt(1), 65)
	got = priceFromSqrtPrice(double, tokenDecimals, solDecimals)
	want = decimal.RequireFromString("0.004")
	if !got.Equal(want) {
		t.Errorf("priceFromSqrtPrice(2^65) = %s, want %s", got, want)
	}

	if !priceFromSqrtPrice(big.NewInt(0), tokenDecimals, solDecimals).IsZero() {
		t.Error("zero sqrt price should yield zero")
	}
}

func TestDecodeSwapEvent(t *testing.T) {
	poolKey := make([]byte, 32)
	poolKey[0] = 0xAA
	mintKey := make([]byte, 32)
	mintKey[0] = 0xBB

	payload := make([]byte, 0, swapEventSize)
	payload = append(payload, swapEventDiscriminator...)
	payload = append(payload, poolKey...)
	payload = append(payload, mintKey...)
	payload = append(payload, u128LE(new(big.Int).Lsh(big.NewInt(1), 64))...)

	swap, ok := decodeSwapEvent(payload, 42, "sig-1")
	if !ok {
		t.Fatal("decodeSwapEvent rejected a valid payload")
	}
	if swap.Pool != base58.Encode(poolKey) {
		t.Errorf("pool = %s, want %s", swap.Pool, base58.Encode(poolKey))
	}
	if string(swap.Mint) != base58.Encode(mintKey) {
		t.Errorf("mint = %s, want %s", swap.Mint, base58.Encode(mintKey))
	}
	if !swap.Price.Equal(decimal.RequireFromString("0.001")) {
		t.Errorf("price = %s, want 0.001", swap.Price)
	}
	if swap.Slot != 42 || swap.Signature != "sig-1" {
		t.Errorf("slot/signature = %d/%s, want 42/sig-1", swap.Slot, swap.Signature)
	}
}

func TestDecodeSwapEventRejects(t *testing.T) {
	t.Run("wrong discriminator", func(t *testing.T) {
		payload := make([]byte, swapEventSize)
		if _, ok := decodeSwapEvent(payload, 0, ""); ok {
			t.Error("decoded a payload with the wrong discriminator")
		}
	})

	t.Run("truncated payload", func(t *testing.T) {
		payload := append([]byte{}, swapEventDiscriminator...)
		if _, ok := decodeSwapEvent(payload, 0, ""); ok {
			t.Error("decoded a truncated payload")
		}
	})

	t.Run("zero sqrt price", func(t *testing.T) {
		payload := make([]byte, 0, swapEventSize)
		payload = append(payload, swapEventDiscriminator...)
		payload = append(payload, make([]byte, 32+32+16)...)
		if _, ok := decodeSwapEvent(payload, 0, ""); ok {
			t.Error("decoded a swap with zero sqrt price")
		}
	})
}

func TestDecodePoolState(t *testing.T) {
	data := make([]byte, poolAccountMinSize)
	sqrt := new(big.Int).Lsh(big.NewInt(3), 64)
	copy(data[poolSqrtPriceOffset:], u128LE(sqrt))

	got, ok := decodePoolState(data)
	if !ok {
		t.Fatal("decodePoolState rejected a full-size account")
	}
	if got.Cmp(sqrt) != 0 {
		t.Errorf("sqrt price = %s, want %s", got, sqrt)
	}

	if _, ok := decodePoolState(data[:poolAccountMinSize-1]); ok {
		t.Error("decodePoolState accepted a truncated account")
	}
}
