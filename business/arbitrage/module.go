// Package arbitrage implements the arbitrage bounded context: divergence
// detection, reporting and trade gating.
package arbitrage

import (
	"context"

	"github.com/solarb/solana-arb-bot/business/arbitrage/app"
	arbitrageDI "github.com/solarb/solana-arb-bot/business/arbitrage/di"
	"github.com/solarb/solana-arb-bot/business/arbitrage/infra"
	executionDI "github.com/solarb/solana-arb-bot/business/execution/di"
	marketDI "github.com/solarb/solana-arb-bot/business/market/di"
	"github.com/solarb/solana-arb-bot/internal/config"
	"github.com/solarb/solana-arb-bot/internal/di"
	"github.com/solarb/solana-arb-bot/internal/logger"
	"github.com/solarb/solana-arb-bot/internal/monolith"
	"github.com/solarb/solana-arb-bot/internal/token"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register OpportunityStore - private dependency
	di.RegisterToken(c, arbitrageDI.Store, func(sr di.ServiceRegistry) *app.OpportunityStore {
		return app.NewOpportunityStore()
	})

	// Register DebounceScheduler - private dependency
	di.RegisterToken(c, arbitrageDI.Debounce, func(sr di.ServiceRegistry) *app.DebounceScheduler {
		return app.NewDebounceScheduler()
	})

	// Register ExecutionGate - private dependency
	di.RegisterToken(c, arbitrageDI.Gate, func(sr di.ServiceRegistry) *app.ExecutionGate {
		cfg := sr.Get("config").(*config.Config)
		return app.NewExecutionGate(cfg.Arbitrage.ExecutionCooldown)
	})

	// Register Reporter - private dependency, selected by run mode
	di.RegisterToken(c, arbitrageDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("tokenRegistry").(*token.Registry)

		var reporters []app.Reporter
		if cfg.Arbitrage.TUIMode {
			reporters = append(reporters, infra.NewTUIReporter(registry))
		} else {
			reporters = append(reporters, infra.NewConsoleReporter(registry))
		}
		if cfg.Redis.Enabled {
			reporters = append(reporters, infra.NewRedisPublisher(cfg.Redis, log))
		}
		return infra.NewMultiReporter(reporters...)
	})

	// Register TradeDispatcher - private adapter over the execution module
	di.RegisterToken(c, arbitrageDI.Dispatcher, func(sr di.ServiceRegistry) app.TradeDispatcher {
		return infra.NewExecutionDispatcher(executionDI.GetDispatcher(sr))
	})

	// Register ArbitrageEngine (public - the context's entry point)
	di.RegisterToken(c, arbitrageDI.Engine, func(sr di.ServiceRegistry) *app.ArbitrageEngine {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		engine, err := app.NewArbitrageEngine(
			app.EngineConfig{
				MinDivergencePercent: cfg.Arbitrage.MinDivergencePercent,
				DebounceDelay:        cfg.Arbitrage.DebounceDelay,
				TradeAmount:          cfg.Arbitrage.TradeAmountDecimal(),
				SlippagePercent:      cfg.Arbitrage.SlippagePercentDecimal(),
				DispatchEnabled:      cfg.Arbitrage.DispatchEnabled,
			},
			arbitrageDI.GetStore(sr),
			arbitrageDI.GetDebounce(sr),
			arbitrageDI.GetGate(sr),
			marketDI.GetPoolQuoter(sr),
			marketDI.GetFeedService(sr),
			arbitrageDI.GetDispatcher(sr),
			arbitrageDI.GetReporter(sr),
			log,
		)
		if err != nil {
			panic("failed to create arbitrage engine: " + err.Error())
		}
		return engine
	})

	return nil
}

// Startup starts the engine: reporter first, then the feed loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	engine := arbitrageDI.GetEngine(mono.Services())
	if err := engine.Start(ctx); err != nil {
		return err
	}

	mono.Logger().Info(ctx, "arbitrage module started")
	return nil
}
