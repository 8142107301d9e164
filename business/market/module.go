// Package market implements the market bounded context: venue feeds and
// on-demand pool quotes.
package market

import (
	"context"

	"github.com/solarb/solana-arb-bot/business/market/app"
	marketDI "github.com/solarb/solana-arb-bot/business/market/di"
	"github.com/solarb/solana-arb-bot/business/market/infra/dammv2"
	"github.com/solarb/solana-arb-bot/business/market/infra/dlmm"
	"github.com/solarb/solana-arb-bot/business/market/infra/pumpswap"
	"github.com/solarb/solana-arb-bot/internal/config"
	"github.com/solarb/solana-arb-bot/internal/di"
	"github.com/solarb/solana-arb-bot/internal/logger"
	"github.com/solarb/solana-arb-bot/internal/monolith"
	"github.com/solarb/solana-arb-bot/internal/solana"
)

// Module implements the market bounded context.
type Module struct{}

// RegisterServices registers all market services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register PumpSwap listener - private dependency
	di.RegisterToken(c, marketDI.PumpSwapListener, func(sr di.ServiceRegistry) app.VenueListener {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		listener, err := pumpswap.NewListener(pumpswap.ListenerConfig{
			WebSocketURL:   cfg.Solana.WebSocketURL,
			Program:        cfg.Venues.PumpSwapProgram,
			Commitment:     cfg.Solana.Commitment,
			MaxReconnects:  cfg.Solana.MaxReconnects,
			InitialBackoff: cfg.Solana.InitialBackoff,
			MaxBackoff:     cfg.Solana.MaxBackoff,
		}, log)
		if err != nil {
			panic("failed to create pumpswap listener: " + err.Error())
		}
		return listener
	})

	// Register DAMM v2 listener - private dependency
	di.RegisterToken(c, marketDI.DammV2Listener, func(sr di.ServiceRegistry) app.VenueListener {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		listener, err := dammv2.NewListener(dammv2.ListenerConfig{
			WebSocketURL:   cfg.Solana.WebSocketURL,
			Program:        cfg.Venues.DammV2Program,
			Commitment:     cfg.Solana.Commitment,
			MaxReconnects:  cfg.Solana.MaxReconnects,
			InitialBackoff: cfg.Solana.InitialBackoff,
			MaxBackoff:     cfg.Solana.MaxBackoff,
		}, log)
		if err != nil {
			panic("failed to create dammv2 listener: " + err.Error())
		}
		return listener
	})

	// Register DLMM listener - private dependency
	di.RegisterToken(c, marketDI.DLMMListener, func(sr di.ServiceRegistry) app.VenueListener {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		listener, err := dlmm.NewListener(dlmm.ListenerConfig{
			WebSocketURL:   cfg.Solana.WebSocketURL,
			Program:        cfg.Venues.DLMMProgram,
			Commitment:     cfg.Solana.Commitment,
			MaxReconnects:  cfg.Solana.MaxReconnects,
			InitialBackoff: cfg.Solana.InitialBackoff,
			MaxBackoff:     cfg.Solana.MaxBackoff,
		}, log)
		if err != nil {
			panic("failed to create dlmm listener: " + err.Error())
		}
		return listener
	})

	// Register PoolQuoter (public - used by the arbitrage recheck path)
	di.RegisterToken(c, marketDI.PoolQuoter, func(sr di.ServiceRegistry) app.PoolQuoter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("solClient").(*solana.Client)

		quoterCfg := dammv2.DefaultQuoterConfig(cfg.Venues.DammV2Program)
		quoterCfg.RequestsPerMinute = cfg.Venues.QuoteRatePerMinute

		quoter, err := dammv2.NewQuoter(quoterCfg, client, log)
		if err != nil {
			panic("failed to create dammv2 quoter: " + err.Error())
		}
		return quoter
	})

	// Register FeedService (public - exposed to other modules)
	di.RegisterToken(c, marketDI.FeedService, func(sr di.ServiceRegistry) *app.FeedService {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewFeedService(log,
			marketDI.GetPumpSwapListener(sr),
			marketDI.GetDammV2Listener(sr),
			marketDI.GetDLMMListener(sr),
		)
	})

	return nil
}

// Startup connects the venue feeds.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	feeds := marketDI.GetFeedService(mono.Services())
	if err := feeds.Start(ctx); err != nil {
		return err
	}

	log.Info(ctx, "market module started", "venues", len(feeds.ConnectionStatus()))
	return nil
}
