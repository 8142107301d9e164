// Package execution implements the execution bounded context: routing
// trades to per-venue swap executors.
package execution

import (
	"context"

	"github.com/solarb/solana-arb-bot/business/execution/app"
	executionDI "github.com/solarb/solana-arb-bot/business/execution/di"
	"github.com/solarb/solana-arb-bot/business/execution/infra/swap"
	"github.com/solarb/solana-arb-bot/internal/config"
	"github.com/solarb/solana-arb-bot/internal/di"
	"github.com/solarb/solana-arb-bot/internal/logger"
	"github.com/solarb/solana-arb-bot/internal/monolith"
	"github.com/solarb/solana-arb-bot/internal/solana"
)

// Module implements the execution bounded context.
type Module struct{}

// RegisterServices registers all execution services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register PumpSwap executor - private dependency
	di.RegisterToken(c, executionDI.PumpSwapExecutor, func(sr di.ServiceRegistry) app.SwapExecutor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("solClient").(*solana.Client)

		ex, err := swap.NewPumpSwapExecutor(cfg.Venues.PumpSwapProgram, client, log)
		if err != nil {
			panic("failed to create pumpswap executor: " + err.Error())
		}
		return ex
	})

	// Register DAMM v2 executor - private dependency
	di.RegisterToken(c, executionDI.DammV2Executor, func(sr di.ServiceRegistry) app.SwapExecutor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("solClient").(*solana.Client)

		ex, err := swap.NewDammV2Executor(cfg.Venues.DammV2Program, client, log)
		if err != nil {
			panic("failed to create dammv2 executor: " + err.Error())
		}
		return ex
	})

	// Register DLMM executor - private dependency
	di.RegisterToken(c, executionDI.DLMMExecutor, func(sr di.ServiceRegistry) app.SwapExecutor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("solClient").(*solana.Client)

		ex, err := swap.NewDLMMExecutor(cfg.Venues.DLMMProgram, client, log)
		if err != nil {
			panic("failed to create dlmm executor: " + err.Error())
		}
		return ex
	})

	// Register Dispatcher (public - exposed to the arbitrage module)
	di.RegisterToken(c, executionDI.Dispatcher, func(sr di.ServiceRegistry) *app.Dispatcher {
		log := sr.Get("logger").(logger.LoggerInterface)

		dispatcher, err := app.NewDispatcher(log,
			executionDI.GetPumpSwapExecutor(sr),
			executionDI.GetDammV2Executor(sr),
			executionDI.GetDLMMExecutor(sr),
		)
		if err != nil {
			panic("failed to create dispatcher: " + err.Error())
		}
		return dispatcher
	})

	return nil
}

// Startup resolves the dispatcher so executor construction errors
// surface at boot rather than on the first trade.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	executionDI.GetDispatcher(mono.Services())
	mono.Logger().Info(ctx, "execution module started")
	return nil
}
