package swap

import (
	"github.com/solarb/solana-arb-bot/business/execution/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/logger"
	"github.com/solarb/solana-arb-bot/internal/solana"
)

// Anchor instruction discriminators, first 8 bytes of
// sha256("global:<name>").
var (
	pumpSwapBuyDisc  = []byte{0x66, 0x06, 0x3d, 0x12, 0x01, 0xda, 0xeb, 0xea}
	pumpSwapSellDisc = []byte{0x33, 0xe6, 0x85, 0xa4, 0x01, 0x7f, 0x83, 0xad}
	dammV2SwapDisc   = []byte{0xf8, 0xc6, 0x9e, 0x91, 0xe1, 0x75, 0x87, 0xc8}
	dlmmSwapDisc     = []byte{0x14, 0x8c, 0xb0, 0x8a, 0xc1, 0x2b, 0x1e, 0xce}
)

// legAmounts returns the input amount and minimum output for a leg in
// raw integer units, slippage applied to the output side.
func legAmounts(req domain.TradeRequest, leg domain.SwapLeg) (in, minOut uint64) {
	if leg.Side == domain.SideBuy {
		return lamports(leg.AmountSOL), tokenRaw(req.MinTokensOut())
	}
	return tokenRaw(leg.AmountSOL.Div(leg.Price)), lamports(req.MinSOLOut())
}

// NewPumpSwapExecutor creates the PumpSwap AMM executor. PumpSwap has
// distinct buy and sell instructions.
func NewPumpSwapExecutor(program string, client *solana.Client, log logger.LoggerInterface) (*Executor, error) {
	layout := func(req domain.TradeRequest, leg domain.SwapLeg) []byte {
		disc := pumpSwapBuyDisc
		if leg.Side == domain.SideSell {
			disc = pumpSwapSellDisc
		}
		in, minOut := legAmounts(req, leg)

		data := make([]byte, 0, 24)
		data = append(data, disc...)
		data = appendU64(data, in)
		data = appendU64(data, minOut)
		return data
	}

	return newExecutor(marketDomain.VenuePumpSwap, program, layout, client, log)
}

// NewDammV2Executor creates the Meteora DAMM v2 executor. DAMM v2 uses
// a single swap instruction; direction comes from the account order, a
// trailing flag mirrors it for the relay.
func NewDammV2Executor(program string, client *solana.Client, log logger.LoggerInterface) (*Executor, error) {
	layout := func(req domain.TradeRequest, leg domain.SwapLeg) []byte {
		in, minOut := legAmounts(req, leg)

		data := make([]byte, 0, 25)
		data = append(data, dammV2SwapDisc...)
		data = appendU64(data, in)
		data = appendU64(data, minOut)
		if leg.Side == domain.SideSell {
			data = append(data, 1)
		} else {
			data = append(data, 0)
		}
		return data
	}

	return newExecutor(marketDomain.VenueDammV2, program, layout, client, log)
}

// NewDLMMExecutor creates the Meteora DLMM executor.
func NewDLMMExecutor(program string, client *solana.Client, log logger.LoggerInterface) (*Executor, error) {
	layout := func(req domain.TradeRequest, leg domain.SwapLeg) []byte {
		in, minOut := legAmounts(req, leg)

		data := make([]byte, 0, 25)
		data = append(data, dlmmSwapDisc...)
		data = appendU64(data, in)
		data = appendU64(data, minOut)
		if leg.Side == domain.SideSell {
			data = append(data, 1)
		} else {
			data = append(data, 0)
		}
		return data
	}

	return newExecutor(marketDomain.VenueDLMM, program, layout, client, log)
}
