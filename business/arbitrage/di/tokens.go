// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/solarb/solana-arb-bot/business/arbitrage/app"
	"github.com/solarb/solana-arb-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Engine = di.NewToken[*app.ArbitrageEngine]("arbitrage.Engine")
)

// Private dependency tokens - internal to arbitrage module
var (
	Store      = di.NewToken[*app.OpportunityStore]("arbitrage:store")
	Debounce   = di.NewToken[*app.DebounceScheduler]("arbitrage:debounce")
	Gate       = di.NewToken[*app.ExecutionGate]("arbitrage:gate")
	Reporter   = di.NewToken[app.Reporter]("arbitrage:reporter")
	Dispatcher = di.NewToken[app.TradeDispatcher]("arbitrage:dispatcher")
)

// Helper functions for type-safe access
func GetEngine(c di.ServiceRegistry) *app.ArbitrageEngine {
	return di.GetToken(c, Engine)
}

func GetStore(c di.ServiceRegistry) *app.OpportunityStore {
	return di.GetToken(c, Store)
}

func GetDebounce(c di.ServiceRegistry) *app.DebounceScheduler {
	return di.GetToken(c, Debounce)
}

func GetGate(c di.ServiceRegistry) *app.ExecutionGate {
	return di.GetToken(c, Gate)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}

func GetDispatcher(c di.ServiceRegistry) app.TradeDispatcher {
	return di.GetToken(c, Dispatcher)
}
