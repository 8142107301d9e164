package pumpswap

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func buildTradePayload(solLamports, tokenRaw uint64) []byte {
	payload := make([]byte, 0, tradeEventSize)
	payload = append(payload, tradeEventDiscriminator...)
	payload = append(payload, make([]byte, 64)...) // pool + mint

	var amount [8]byte
	binary.LittleEndian.PutUint64(amount[:], solLamports)
	payload = append(payload, amount[:]...)
	binary.LittleEndian.PutUint64(amount[:], tokenRaw)
	payload = append(payload, amount[:]...)

	return append(payload, 0) // direction flag
}

func TestDecodeTradeEvent(t *testing.T) {
	// 1 SOL for 2 tokens.
	trade, ok := decodeTradeEvent(buildTradePayload(1_000_000_000, 2_000_000), 99, "sig-3")
	if !ok {
		t.Fatal("decodeTradeEvent rejected a valid payload")
	}

	if !trade.SolAmount.Equal(decimal.NewFromInt(1)) {
		t.Errorf("sol amount = %s, want 1", trade.SolAmount)
	}
	if !trade.TokenAmount.Equal(decimal.NewFromInt(2)) {
		t.Errorf("token amount = %s, want 2", trade.TokenAmount)
	}
	if trade.Slot != 99 || trade.Signature != "sig-3" {
		t.Errorf("slot/signature = %d/%s, want 99/sig-3", trade.Slot, trade.Signature)
	}

	update, ok := trade.Normalize(time.Now())
	if !ok {
		t.Fatal("Normalize rejected the trade")
	}
	if !update.Price.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("price = %s, want 0.5", update.Price)
	}
}

func TestDecodeTradeEventRejects(t *testing.T) {
	t.Run("wrong discriminator", func(t *testing.T) {
		if _, ok := decodeTradeEvent(make([]byte, tradeEventSize), 0, ""); ok {
			t.Error("decoded a payload with the wrong discriminator")
		}
	})

	t.Run("truncated payload", func(t *testing.T) {
		if _, ok := decodeTradeEvent(buildTradePayload(1, 1)[:40], 0, ""); ok {
			t.Error("decoded a truncated payload")
		}
	})

	t.Run("zero token amount fails normalize", func(t *testing.T) {
		trade, ok := decodeTradeEvent(buildTradePayload(1_000_000_000, 0), 0, "")
		if !ok {
			t.Fatal("decode should succeed, normalize should reject")
		}
		if _, ok := trade.Normalize(time.Now()); ok {
			t.Error("normalized a trade with zero token amount")
		}
	})
}
