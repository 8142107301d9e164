// Package di contains dependency injection tokens for the market context.
package di

import (
	"github.com/solarb/solana-arb-bot/business/market/app"
	"github.com/solarb/solana-arb-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	FeedService = di.NewToken[*app.FeedService]("market.FeedService")
	PoolQuoter  = di.NewToken[app.PoolQuoter]("market.PoolQuoter")
)

// Private dependency tokens - internal to market module
var (
	PumpSwapListener = di.NewToken[app.VenueListener]("market:pumpswapListener")
	DammV2Listener   = di.NewToken[app.VenueListener]("market:dammv2Listener")
	DLMMListener     = di.NewToken[app.VenueListener]("market:dlmmListener")
)

// Helper functions for type-safe access
func GetFeedService(c di.ServiceRegistry) *app.FeedService {
	return di.GetToken(c, FeedService)
}

func GetPoolQuoter(c di.ServiceRegistry) app.PoolQuoter {
	return di.GetToken(c, PoolQuoter)
}

func GetPumpSwapListener(c di.ServiceRegistry) app.VenueListener {
	return di.GetToken(c, PumpSwapListener)
}

func GetDammV2Listener(c di.ServiceRegistry) app.VenueListener {
	return di.GetToken(c, DammV2Listener)
}

func GetDLMMListener(c di.ServiceRegistry) app.VenueListener {
	return di.GetToken(c, DLMMListener)
}
