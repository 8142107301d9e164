// Package di contains dependency injection tokens for the execution context.
package di

import (
	"github.com/solarb/solana-arb-bot/business/execution/app"
	"github.com/solarb/solana-arb-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Dispatcher = di.NewToken[*app.Dispatcher]("execution.Dispatcher")
)

// Private dependency tokens - internal to execution module
var (
	PumpSwapExecutor = di.NewToken[app.SwapExecutor]("execution:pumpswapExecutor")
	DammV2Executor   = di.NewToken[app.SwapExecutor]("execution:dammv2Executor")
	DLMMExecutor     = di.NewToken[app.SwapExecutor]("execution:dlmmExecutor")
)

// Helper functions for type-safe access
func GetDispatcher(c di.ServiceRegistry) *app.Dispatcher {
	return di.GetToken(c, Dispatcher)
}

func GetPumpSwapExecutor(c di.ServiceRegistry) app.SwapExecutor {
	return di.GetToken(c, PumpSwapExecutor)
}

func GetDammV2Executor(c di.ServiceRegistry) app.SwapExecutor {
	return di.GetToken(c, DammV2Executor)
}

func GetDLMMExecutor(c di.ServiceRegistry) app.SwapExecutor {
	return di.GetToken(c, DLMMExecutor)
}
