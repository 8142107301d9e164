package app

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/solarb/solana-arb-bot/business/arbitrage/domain"
	marketApp "github.com/solarb/solana-arb-bot/business/market/app"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/logger"
	"github.com/solarb/solana-arb-bot/internal/token"
)

const meterName = "arbitrage-engine"

const (
	recheckTimeout     = 5 * time.Second
	feedStatusInterval = 2 * time.Second
)

// EngineConfig holds detection and dispatch settings.
type EngineConfig struct {
	MinDivergencePercent float64
	DebounceDelay        time.Duration
	TradeAmount          decimal.Decimal
	SlippagePercent      decimal.Decimal
	DispatchEnabled      bool
}

type engineMetrics struct {
	updates        metric.Int64Counter
	recomputes     metric.Int64Counter
	rechecks       metric.Int64Counter
	recheckErrors  metric.Int64Counter
	dispatches     metric.Int64Counter
	dispatchBlocks metric.Int64Counter
	tableSize      metric.Int64Gauge
}

// ArbitrageEngine consumes normalized price updates, maintains the
// opportunity store and decides when to report and trade. Updates for
// different assets proceed in parallel; a per-asset mutex serializes
// the read-compare-write cycle for each asset.
type ArbitrageEngine struct {
	config     EngineConfig
	store      *OpportunityStore
	debounce   *DebounceScheduler
	gate       *ExecutionGate
	quoter     marketApp.PoolQuoter
	feeds      *marketApp.FeedService
	dispatcher TradeDispatcher
	reporter   Reporter
	logger     logger.LoggerInterface

	assetLocks sync.Map // token.Mint -> *sync.Mutex
	metrics    *engineMetrics

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewArbitrageEngine wires the engine together.
func NewArbitrageEngine(
	cfg EngineConfig,
	store *OpportunityStore,
	debounce *DebounceScheduler,
	gate *ExecutionGate,
	quoter marketApp.PoolQuoter,
	feeds *marketApp.FeedService,
	dispatcher TradeDispatcher,
	reporter Reporter,
	log logger.LoggerInterface,
) (*ArbitrageEngine, error) {
	e := &ArbitrageEngine{
		config:     cfg,
		store:      store,
		debounce:   debounce,
		gate:       gate,
		quoter:     quoter,
		feeds:      feeds,
		dispatcher: dispatcher,
		reporter:   reporter,
		logger:     log,
	}

	if err := e.initMetrics(); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *ArbitrageEngine) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	e.metrics = &engineMetrics{}

	e.metrics.updates, err = meter.Int64Counter(
		"arb_price_updates_total",
		metric.WithDescription("Price updates consumed"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return err
	}

	e.metrics.recomputes, err = meter.Int64Counter(
		"arb_divergence_recomputes_total",
		metric.WithDescription("Divergence recomputations"),
		metric.WithUnit("{recompute}"),
	)
	if err != nil {
		return err
	}

	e.metrics.rechecks, err = meter.Int64Counter(
		"arb_debounced_rechecks_total",
		metric.WithDescription("Debounced pool price rechecks executed"),
		metric.WithUnit("{recheck}"),
	)
	if err != nil {
		return err
	}

	e.metrics.recheckErrors, err = meter.Int64Counter(
		"arb_debounced_recheck_errors_total",
		metric.WithDescription("Debounced rechecks that failed to fetch a price"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	e.metrics.dispatches, err = meter.Int64Counter(
		"arb_trades_dispatched_total",
		metric.WithDescription("Trades handed to the execution context"),
		metric.WithUnit("{trade}"),
	)
	if err != nil {
		return err
	}

	e.metrics.dispatchBlocks, err = meter.Int64Counter(
		"arb_dispatch_blocked_total",
		metric.WithDescription("Dispatch attempts blocked by the execution gate"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return err
	}

	e.metrics.tableSize, err = meter.Int64Gauge(
		"arb_opportunities_above_threshold",
		metric.WithDescription("Opportunities currently above the divergence threshold"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Start begins consuming price updates. Non-blocking.
func (e *ArbitrageEngine) Start(ctx context.Context) error {
	e.logger.Info(ctx, "starting arbitrage engine",
		"min_divergence_percent", e.config.MinDivergencePercent,
		"debounce_delay", e.config.DebounceDelay,
		"dispatch_enabled", e.config.DispatchEnabled,
	)

	if err := e.reporter.Start(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	e.wg.Add(2)
	go func() {
		defer e.wg.Done()
		if err := e.feeds.Run(runCtx, e.OnPriceUpdate); err != nil && runCtx.Err() == nil {
			e.logger.Error(runCtx, "feed loop stopped", "error", err)
		}
	}()
	go func() {
		defer e.wg.Done()
		e.feedStatusLoop(runCtx)
	}()

	return nil
}

// Stop shuts the engine down.
func (e *ArbitrageEngine) Stop() error {
	e.logger.Info(context.Background(), "stopping arbitrage engine")

	if e.cancel != nil {
		e.cancel()
	}
	e.debounce.CancelAll()
	e.gate.Close()
	e.wg.Wait()

	return e.reporter.Stop()
}

// OnPriceUpdate applies one venue observation. Safe for concurrent
// calls; updates for the same asset serialize on the asset's mutex.
func (e *ArbitrageEngine) OnPriceUpdate(ctx context.Context, update marketDomain.PriceUpdate) {
	if update.Asset == "" {
		// Updates without an asset key have nowhere to land.
		return
	}
	if !update.Valid() {
		e.logger.Debug(ctx, "ignoring invalid price update",
			"venue", update.Venue.String(), "mint", update.Asset.Short())
		return
	}

	e.metrics.updates.Add(ctx, 1,
		metric.WithAttributes(attribute.String("venue", update.Venue.String())))

	lock := e.lockFor(update.Asset)
	lock.Lock()
	defer lock.Unlock()

	prior, existed := e.store.Get(update.Asset)
	current := e.store.Upsert(update.Asset, update.Venue, update.Price, update.PoolID, update.ObservedAt)

	// A PumpSwap tick against a known DAMM v2 pool is not compared
	// immediately: the streamed DAMM v2 price may be stale by the time
	// PumpSwap moves, so the comparison waits behind a debounce and
	// uses a fresh pool quote. The snapshot from before the PumpSwap
	// write rides along; change detection must see the PumpSwap move,
	// not just the quote delta. Rescheduling replaces the task, so the
	// last burst update's snapshot wins.
	if update.Venue == marketDomain.VenuePumpSwap {
		if dammPrice, ok := current.Venues[marketDomain.VenueDammV2]; ok && dammPrice.PoolID != "" {
			asset, poolID := update.Asset, dammPrice.PoolID
			e.debounce.Schedule(asset, e.config.DebounceDelay, func() {
				e.recheck(asset, poolID, prior, existed)
			})
			return
		}
	}

	e.evaluate(ctx, update.Asset, prior, existed, current)
}

// recheck runs on the debounce timer goroutine: it re-fetches the DAMM
// v2 pool price and re-evaluates the asset with fresh numbers. prior is
// the snapshot captured before the PumpSwap price entered the store.
func (e *ArbitrageEngine) recheck(asset token.Mint, poolID string, prior domain.Opportunity, existed bool) {
	ctx, cancel := context.WithTimeout(context.Background(), recheckTimeout)
	defer cancel()

	e.metrics.rechecks.Add(ctx, 1)

	price, err := e.quoter.PoolPrice(ctx, poolID)
	if err != nil {
		e.metrics.recheckErrors.Add(ctx, 1)
		e.logger.Warn(ctx, "debounced pool recheck failed",
			"mint", asset.Short(), "pool", poolID, "error", err)
		return
	}

	lock := e.lockFor(asset)
	lock.Lock()
	defer lock.Unlock()

	current := e.store.Upsert(asset, marketDomain.VenueDammV2, price, poolID, time.Now())

	e.evaluate(ctx, asset, prior, existed, current)
}

// evaluate runs change detection and, on a real change, reports and
// possibly dispatches. Caller must hold the asset's lock.
func (e *ArbitrageEngine) evaluate(ctx context.Context, asset token.Mint, prior domain.Opportunity, existed bool, current domain.Opportunity) {
	e.metrics.recomputes.Add(ctx, 1)

	if existed && !domain.MaterialChange(prior, current) {
		return
	}

	table := e.store.AboveThreshold(e.config.MinDivergencePercent)
	e.metrics.tableSize.Record(ctx, int64(len(table)))
	e.reporter.PublishTable(table)

	if current.DivergenceDefined && current.DivergencePercent > e.config.MinDivergencePercent {
		e.maybeDispatch(ctx, current)
	}
}

// maybeDispatch claims the execution gate and hands the trade to the
// execution context. The gate is released from the completion callback,
// success or failure, which starts the cooldown.
func (e *ArbitrageEngine) maybeDispatch(ctx context.Context, opp domain.Opportunity) {
	if !e.config.DispatchEnabled || e.dispatcher == nil {
		return
	}

	buyVenue, sellVenue, ok := opp.Spread()
	if !ok || buyVenue == sellVenue {
		return
	}

	if !e.gate.TryAcquire(opp.Asset) {
		e.metrics.dispatchBlocks.Add(ctx, 1)
		e.logger.Debug(ctx, "trade suppressed, asset gated",
			"mint", opp.Asset.Short())
		return
	}

	buy := opp.Venues[buyVenue]
	sell := opp.Venues[sellVenue]

	order := TradeOrder{
		Asset:           opp.Asset,
		BuyVenue:        buyVenue,
		SellVenue:       sellVenue,
		BuyPool:         buy.PoolID,
		SellPool:        sell.PoolID,
		BuyPrice:        buy.Price,
		SellPrice:       sell.Price,
		Amount:          e.config.TradeAmount,
		SlippagePercent: e.config.SlippagePercent,
	}

	e.metrics.dispatches.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("buy_venue", buyVenue.String()),
			attribute.String("sell_venue", sellVenue.String()),
		))
	e.logger.Info(ctx, "dispatching trade",
		"mint", opp.Asset.Short(),
		"buy_venue", buyVenue.String(),
		"sell_venue", sellVenue.String(),
		"divergence_percent", opp.DivergencePercent,
	)

	asset := opp.Asset
	e.dispatcher.Dispatch(context.WithoutCancel(ctx), order, func(outcome TradeOutcome) {
		e.gate.Release(asset)
		e.reporter.ReportTrade(order, outcome)

		if outcome.Success {
			e.logger.Info(context.Background(), "trade completed",
				"mint", asset.Short(), "txid", outcome.TxID)
		} else {
			e.logger.Warn(context.Background(), "trade failed",
				"mint", asset.Short(), "error", outcome.Err)
		}
	})
}

// feedStatusLoop pushes venue connection states to the reporter.
func (e *ArbitrageEngine) feedStatusLoop(ctx context.Context) {
	ticker := time.NewTicker(feedStatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for venue, connected := range e.feeds.ConnectionStatus() {
				e.reporter.UpdateFeedStatus(venue, connected)
			}
		}
	}
}

func (e *ArbitrageEngine) lockFor(asset token.Mint) *sync.Mutex {
	v, _ := e.assetLocks.LoadOrStore(asset, &sync.Mutex{})
	return v.(*sync.Mutex)
}
