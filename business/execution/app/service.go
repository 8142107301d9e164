package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/solarb/solana-arb-bot/business/execution/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/apperror"
	"github.com/solarb/solana-arb-bot/internal/logger"
)

const (
	tracerName = "execution-dispatcher"
	meterName  = "execution-dispatcher"
)

const tradeTimeout = 30 * time.Second

type dispatcherMetrics struct {
	submitted metric.Int64Counter
	succeeded metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram
}

// Dispatcher routes trade requests to per-venue swap executors. Both
// legs run sequentially: buy first, then sell. A trade never retries;
// the done callback fires exactly once with the terminal result.
type Dispatcher struct {
	executors map[marketDomain.Venue]SwapExecutor
	logger    logger.LoggerInterface
	tracer    trace.Tracer
	metrics   *dispatcherMetrics
}

// NewDispatcher creates a dispatcher over the given executors.
func NewDispatcher(log logger.LoggerInterface, executors ...SwapExecutor) (*Dispatcher, error) {
	byVenue := make(map[marketDomain.Venue]SwapExecutor, len(executors))
	for _, ex := range executors {
		byVenue[ex.Venue()] = ex
	}

	d := &Dispatcher{
		executors: byVenue,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}

	if err := d.initMetrics(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Dispatcher) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	d.metrics = &dispatcherMetrics{}

	d.metrics.submitted, err = meter.Int64Counter(
		"exec_trades_submitted_total",
		metric.WithDescription("Trade requests accepted for execution"),
		metric.WithUnit("{trade}"),
	)
	if err != nil {
		return err
	}

	d.metrics.succeeded, err = meter.Int64Counter(
		"exec_trades_succeeded_total",
		metric.WithDescription("Trades where both legs confirmed"),
		metric.WithUnit("{trade}"),
	)
	if err != nil {
		return err
	}

	d.metrics.failed, err = meter.Int64Counter(
		"exec_trades_failed_total",
		metric.WithDescription("Trades that failed on either leg"),
		metric.WithUnit("{trade}"),
	)
	if err != nil {
		return err
	}

	d.metrics.duration, err = meter.Float64Histogram(
		"exec_trade_duration_seconds",
		metric.WithDescription("Wall time from submit to terminal result"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Submit executes the trade asynchronously. done receives the terminal
// result exactly once, whether the trade succeeds or fails.
func (d *Dispatcher) Submit(ctx context.Context, req domain.TradeRequest, done func(domain.TradeResult)) {
	d.metrics.submitted.Add(ctx, 1)

	go func() {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tradeTimeout)
		defer cancel()

		start := time.Now()
		result := d.execute(runCtx, req)
		result.CompletedAt = time.Now()

		elapsed := time.Since(start).Seconds()
		d.metrics.duration.Record(runCtx, elapsed)
		if result.Success {
			d.metrics.succeeded.Add(runCtx, 1)
		} else {
			d.metrics.failed.Add(runCtx, 1)
		}

		done(result)
	}()
}

func (d *Dispatcher) execute(ctx context.Context, req domain.TradeRequest) domain.TradeResult {
	ctx, span := d.tracer.Start(ctx, "dispatcher.execute")
	defer span.End()

	span.SetAttributes(
		attribute.String("trade.id", req.ID.String()),
		attribute.String("trade.mint", req.Mint.Short()),
		attribute.String("trade.buy_venue", req.Buy.Venue.String()),
		attribute.String("trade.sell_venue", req.Sell.Venue.String()),
	)

	result := domain.TradeResult{RequestID: req.ID}

	if !req.Valid() {
		result.Err = apperror.New(apperror.CodeTradeRejected,
			apperror.WithMessage("invalid trade request"),
			apperror.WithContext(req.ID.String()),
		)
		span.SetStatus(codes.Error, "invalid trade request")
		return result
	}

	buyExec, ok := d.executors[req.Buy.Venue]
	if !ok {
		result.Err = apperror.New(apperror.CodeTradeRejected,
			apperror.WithMessage("no executor for buy venue"),
			apperror.WithContext(req.Buy.Venue.String()),
		)
		span.SetStatus(codes.Error, "no buy executor")
		return result
	}
	sellExec, ok := d.executors[req.Sell.Venue]
	if !ok {
		result.Err = apperror.New(apperror.CodeTradeRejected,
			apperror.WithMessage("no executor for sell venue"),
			apperror.WithContext(req.Sell.Venue.String()),
		)
		span.SetStatus(codes.Error, "no sell executor")
		return result
	}

	d.logger.Info(ctx, "executing trade",
		"trade_id", req.ID.String(),
		"mint", req.Mint.Short(),
		"buy_venue", req.Buy.Venue.String(),
		"sell_venue", req.Sell.Venue.String(),
		"amount_sol", req.Buy.AmountSOL.String(),
	)

	buySig, err := buyExec.Execute(ctx, req, req.Buy)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "buy leg failed")
		result.Err = err
		return result
	}
	result.BuySig = buySig

	sellSig, err := sellExec.Execute(ctx, req, req.Sell)
	if err != nil {
		// The buy already landed; the position stays open. Surfacing
		// the failure is all the dispatcher does, unwinding is manual.
		d.logger.Error(ctx, "sell leg failed after buy landed",
			"trade_id", req.ID.String(), "buy_sig", buySig, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "sell leg failed")
		result.Err = err
		return result
	}
	result.SellSig = sellSig

	result.Success = true
	return result
}
