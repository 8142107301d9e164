package dammv2

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/solarb/solana-arb-bot/internal/apperror"
	"github.com/solarb/solana-arb-bot/internal/cache"
	"github.com/solarb/solana-arb-bot/internal/circuitbreaker"
	"github.com/solarb/solana-arb-bot/internal/logger"
	"github.com/solarb/solana-arb-bot/internal/ratelimit"
	"github.com/solarb/solana-arb-bot/internal/solana"
)

const tracerName = "market-dammv2"

// QuoterConfig holds configuration for the pool price quoter.
type QuoterConfig struct {
	Program           string // pool accounts must be owned by this program
	RequestsPerMinute int
	CacheTTL          time.Duration
}

// DefaultQuoterConfig returns sensible defaults.
func DefaultQuoterConfig(program string) QuoterConfig {
	return QuoterConfig{
		Program:           program,
		RequestsPerMinute: 120,
		CacheTTL:          200 * time.Millisecond,
	}
}

type quoterMetrics struct {
	quotes     metric.Int64Counter
	cacheHits  metric.Int64Counter
	quoteError metric.Int64Counter
}

// Quoter fetches the current pool price of a DAMM v2 pool straight
// from its on-chain account. Used by the debounced recheck path, where
// the streamed event price may already be stale.
type Quoter struct {
	config  QuoterConfig
	client  *solana.Client
	logger  logger.LoggerInterface
	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[decimal.Decimal]

	priceCache *cache.Cache[string, decimal.Decimal]

	tracer  trace.Tracer
	metrics *quoterMetrics
}

// NewQuoter creates a pool price quoter.
func NewQuoter(cfg QuoterConfig, client *solana.Client, log logger.LoggerInterface) (*Quoter, error) {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 120
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 200 * time.Millisecond
	}

	q := &Quoter{
		config:     cfg,
		client:     client,
		logger:     log,
		limiter:    ratelimit.New(cfg.RequestsPerMinute),
		priceCache: cache.New[string, decimal.Decimal](time.Minute),
		tracer:     otel.Tracer(tracerName),
	}

	if err := q.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	q.initCircuitBreaker()

	return q, nil
}

func (q *Quoter) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	q.metrics = &quoterMetrics{}

	q.metrics.quotes, err = meter.Int64Counter(
		"dammv2_pool_quotes_total",
		metric.WithDescription("On-demand pool price fetches"),
		metric.WithUnit("{quote}"),
	)
	if err != nil {
		return err
	}

	q.metrics.cacheHits, err = meter.Int64Counter(
		"dammv2_pool_quote_cache_hits_total",
		metric.WithDescription("Pool price cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	q.metrics.quoteError, err = meter.Int64Counter(
		"dammv2_pool_quote_errors_total",
		metric.WithDescription("Failed pool price fetches"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	return nil
}

func (q *Quoter) initCircuitBreaker() {
	cfg := circuitbreaker.DefaultConfig("dammv2-quoter")
	q.cb = circuitbreaker.New[decimal.Decimal](cfg)
}

// PoolPrice returns the pool's current SOL-per-token price.
func (q *Quoter) PoolPrice(ctx context.Context, poolID string) (decimal.Decimal, error) {
	ctx, span := q.tracer.Start(ctx, "dammv2.pool_price",
		trace.WithAttributes(attribute.String("pool", poolID)),
	)
	defer span.End()

	if price, found := q.priceCache.Get(ctx, poolID); found {
		q.metrics.cacheHits.Add(ctx, 1)
		span.AddEvent("cache_hit")
		return price, nil
	}

	q.metrics.quotes.Add(ctx, 1)

	if err := q.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		return decimal.Zero, err
	}

	price, err := q.cb.Execute(func() (decimal.Decimal, error) {
		return q.fetchPoolPrice(ctx, poolID)
	})
	if err != nil {
		q.metrics.quoteError.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return decimal.Zero, err
	}

	q.priceCache.Set(ctx, poolID, price, q.config.CacheTTL)

	span.SetAttributes(attribute.String("price", price.String()))
	span.SetStatus(codes.Ok, "fetched")

	return price, nil
}

func (q *Quoter) fetchPoolPrice(ctx context.Context, poolID string) (decimal.Decimal, error) {
	account, err := q.client.GetAccountInfo(ctx, poolID)
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodePoolQuoteFailed,
			apperror.WithCause(err),
			apperror.WithContext(poolID))
	}

	if q.config.Program != "" && account.Owner != q.config.Program {
		return decimal.Zero, apperror.New(apperror.CodeInvalidPoolState,
			apperror.WithContext(fmt.Sprintf("%s owned by %s", poolID, account.Owner)))
	}

	sqrtPrice, ok := decodePoolState(account.Data)
	if !ok {
		return decimal.Zero, apperror.New(apperror.CodeInvalidPoolState,
			apperror.WithContext(fmt.Sprintf("%s: account data too short (%d bytes)", poolID, len(account.Data))))
	}

	price := priceFromSqrtPrice(sqrtPrice, tokenDecimals, solDecimals)
	if !price.IsPositive() {
		return decimal.Zero, apperror.New(apperror.CodeInvalidPoolState,
			apperror.WithContext(poolID + ": non-positive price"))
	}

	return price, nil
}

// Close releases the quoter's resources.
func (q *Quoter) Close() error {
	q.priceCache.Close()
	return nil
}
