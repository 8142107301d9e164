package dlmm

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPriceFromBin(t *testing.T) {
	t.Run("bin zero is parity", func(t *testing.T) {
		// Active bin 0 means raw price 1; the decimal gap shifts it to
		// 0.001 SOL per token.
		got := priceFromBin(0, 100, tokenDecimals, solDecimals)
		if !got.Equal(decimal.RequireFromString("0.001")) {
			t.Errorf("priceFromBin(0) = %s, want 0.001", got)
		}
	})

	t.Run("positive bins step up", func(t *testing.T) {
		// binStep 100 = 1% per bin: bin 1 is 1.01 raw.
		got := priceFromBin(1, 100, tokenDecimals, solDecimals)
		want := 0.00101
		f, _ := got.Float64()
		if math.Abs(f-want) > 1e-12 {
			t.Errorf("priceFromBin(1) = %v, want %v", f, want)
		}
	})

	t.Run("negative bins step down", func(t *testing.T) {
		got := priceFromBin(-1, 100, tokenDecimals, solDecimals)
		want := 0.001 / 1.01
		f, _ := got.Float64()
		if math.Abs(f-want) > 1e-12 {
			t.Errorf("priceFromBin(-1) = %v, want %v", f, want)
		}
	})

	t.Run("zero bin step rejected", func(t *testing.T) {
		if !priceFromBin(5, 0, tokenDecimals, solDecimals).IsZero() {
			t.Error("zero bin step should yield zero")
		}
	})

	t.Run("overflowing exponent rejected", func(t *testing.T) {
		if !priceFromBin(math.MaxInt32, 10000, tokenDecimals, solDecimals).IsZero() {
			t.Error("overflowing bin should yield zero")
		}
	})
}

func TestDecodeSwapEvent(t *testing.T) {
	payload := make([]byte, 0, swapEventSize)
	payload = append(payload, swapEventDiscriminator...)
	payload = append(payload, make([]byte, 64)...) // pool + mint
	var bin [4]byte
	binary.LittleEndian.PutUint32(bin[:], uint32(int32(2)))
	payload = append(payload, bin[:]...)
	var step [2]byte
	binary.LittleEndian.PutUint16(step[:], 100)
	payload = append(payload, step[:]...)

	swap, ok := decodeSwapEvent(payload, 7, "sig-2")
	if !ok {
		t.Fatal("decodeSwapEvent rejected a valid payload")
	}

	f, _ := swap.Price.Float64()
	want := 0.001 * 1.01 * 1.01
	if math.Abs(f-want) > 1e-12 {
		t.Errorf("price = %v, want %v", f, want)
	}
	if swap.Slot != 7 || swap.Signature != "sig-2" {
		t.Errorf("slot/signature = %d/%s, want 7/sig-2", swap.Slot, swap.Signature)
	}
}

func TestDecodeSwapEventRejects(t *testing.T) {
	if _, ok := decodeSwapEvent(make([]byte, swapEventSize), 0, ""); ok {
		t.Error("decoded a payload with the wrong discriminator")
	}
	if _, ok := decodeSwapEvent(swapEventDiscriminator, 0, ""); ok {
		t.Error("decoded a truncated payload")
	}
}
