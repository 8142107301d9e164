package swap

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"io"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"github.com/solarb/solana-arb-bot/business/execution/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/logger"
	"github.com/solarb/solana-arb-bot/internal/token"
)

const testMint = token.Mint("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")

func key32(fill byte) string {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = fill
	}
	return base58.Encode(raw)
}

func testRequest() domain.TradeRequest {
	amount := decimal.RequireFromString("0.01")
	return domain.NewTradeRequest(testMint,
		domain.SwapLeg{
			Side:      domain.SideBuy,
			Venue:     marketDomain.VenueDammV2,
			Pool:      "damm-pool",
			Mint:      testMint,
			Price:     decimal.RequireFromString("0.001"),
			AmountSOL: amount,
		},
		domain.SwapLeg{
			Side:      domain.SideSell,
			Venue:     marketDomain.VenueDLMM,
			Pool:      "dlmm-pool",
			Mint:      testMint,
			Price:     decimal.RequireFromString("0.00105"),
			AmountSOL: amount,
		},
		decimal.RequireFromString("0.5"),
	)
}

func TestEncodeTransaction(t *testing.T) {
	blockhash := key32(0x01)
	program := key32(0x02)
	account := key32(0x03)
	data := []byte{0xDE, 0xAD}

	encoded, err := encodeTransaction(blockhash, instruction{
		program:  program,
		accounts: []string{account},
		data:     data,
	})
	if err != nil {
		t.Fatalf("encodeTransaction: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("output is not base64: %v", err)
	}

	wantLen := 32 + 32 + 1 + 32 + 2 + len(data)
	if len(raw) != wantLen {
		t.Fatalf("wire length = %d, want %d", len(raw), wantLen)
	}

	if !bytes.Equal(raw[:32], bytes.Repeat([]byte{0x01}, 32)) {
		t.Error("blockhash bytes wrong")
	}
	if !bytes.Equal(raw[32:64], bytes.Repeat([]byte{0x02}, 32)) {
		t.Error("program bytes wrong")
	}
	if raw[64] != 1 {
		t.Errorf("account count = %d, want 1", raw[64])
	}
	if !bytes.Equal(raw[65:97], bytes.Repeat([]byte{0x03}, 32)) {
		t.Error("account bytes wrong")
	}
	if binary.LittleEndian.Uint16(raw[97:99]) != uint16(len(data)) {
		t.Error("data length wrong")
	}
	if !bytes.Equal(raw[99:], data) {
		t.Error("data bytes wrong")
	}
}

func TestEncodeTransactionRejects(t *testing.T) {
	valid := key32(0x01)
	ix := instruction{program: valid, accounts: []string{valid}}

	if _, err := encodeTransaction("not-a-hash", ix); err == nil {
		t.Error("accepted an invalid blockhash")
	}
	if _, err := encodeTransaction(valid, instruction{program: "bogus"}); err == nil {
		t.Error("accepted an invalid program id")
	}
	if _, err := encodeTransaction(valid, instruction{program: valid, accounts: []string{"bogus"}}); err == nil {
		t.Error("accepted an invalid account address")
	}
}

func TestLegAmounts(t *testing.T) {
	req := testRequest()

	t.Run("buy leg", func(t *testing.T) {
		in, minOut := legAmounts(req, req.Buy)
		if in != 10_000_000 {
			t.Errorf("buy input = %d lamports, want 10000000", in)
		}
		// 0.01 SOL at 0.001 buys 10 tokens; 0.5% slippage floors the
		// output at 9.95 tokens in raw units.
		if minOut != 9_950_000 {
			t.Errorf("buy min out = %d, want 9950000", minOut)
		}
	})

	t.Run("sell leg", func(t *testing.T) {
		in, minOut := legAmounts(req, req.Sell)
		// Selling the 0.01 SOL notional at the sell price moves
		// 0.01/0.00105 tokens, about 9.52.
		wantIn := uint64(decimal.RequireFromString("0.01").
			Div(decimal.RequireFromString("0.00105")).
			Shift(6).IntPart())
		if in != wantIn {
			t.Errorf("sell input = %d, want %d", in, wantIn)
		}
		// 10 tokens at 0.00105 is 0.0105 SOL, floored by 0.5%.
		wantOut := uint64(decimal.RequireFromString("0.0105").
			Mul(decimal.RequireFromString("0.995")).
			Shift(9).IntPart())
		if minOut != wantOut {
			t.Errorf("sell min out = %d, want %d", minOut, wantOut)
		}
	})
}

func TestInstructionLayouts(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "test", nil)
	req := testRequest()
	program := key32(0x04)

	t.Run("pumpswap uses side discriminators", func(t *testing.T) {
		ex, err := NewPumpSwapExecutor(program, nil, log)
		if err != nil {
			t.Fatalf("NewPumpSwapExecutor: %v", err)
		}

		buyData := ex.layout(req, req.Buy)
		sellData := ex.layout(req, req.Sell)

		if !bytes.Equal(buyData[:8], pumpSwapBuyDisc) {
			t.Error("buy data missing buy discriminator")
		}
		if !bytes.Equal(sellData[:8], pumpSwapSellDisc) {
			t.Error("sell data missing sell discriminator")
		}
		if len(buyData) != 24 || len(sellData) != 24 {
			t.Errorf("data lengths = %d/%d, want 24/24", len(buyData), len(sellData))
		}
	})

	t.Run("dammv2 marks direction in trailing flag", func(t *testing.T) {
		ex, err := NewDammV2Executor(program, nil, log)
		if err != nil {
			t.Fatalf("NewDammV2Executor: %v", err)
		}

		buyData := ex.layout(req, req.Buy)
		sellData := ex.layout(req, req.Sell)

		if !bytes.Equal(buyData[:8], dammV2SwapDisc) || !bytes.Equal(sellData[:8], dammV2SwapDisc) {
			t.Error("swap discriminator missing")
		}
		if len(buyData) != 25 || len(sellData) != 25 {
			t.Fatalf("data lengths = %d/%d, want 25/25", len(buyData), len(sellData))
		}
		if buyData[24] != 0 || sellData[24] != 1 {
			t.Errorf("direction flags = %d/%d, want 0/1", buyData[24], sellData[24])
		}

		in, minOut := legAmounts(req, req.Buy)
		if binary.LittleEndian.Uint64(buyData[8:16]) != in {
			t.Error("input amount not encoded")
		}
		if binary.LittleEndian.Uint64(buyData[16:24]) != minOut {
			t.Error("min output not encoded")
		}
	})

	t.Run("dlmm shares the single-instruction layout", func(t *testing.T) {
		ex, err := NewDLMMExecutor(program, nil, log)
		if err != nil {
			t.Fatalf("NewDLMMExecutor: %v", err)
		}

		sellData := ex.layout(req, req.Sell)
		if !bytes.Equal(sellData[:8], dlmmSwapDisc) {
			t.Error("swap discriminator missing")
		}
		if len(sellData) != 25 || sellData[24] != 1 {
			t.Errorf("sell data = %d bytes flag %d, want 25 bytes flag 1", len(sellData), sellData[24])
		}
	})
}
