package swap

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/solarb/solana-arb-bot/business/execution/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/logger"
	"github.com/solarb/solana-arb-bot/internal/solana"
)

// Executor submits swaps for one venue. The venues share the same
// submission path and differ only in program id and instruction layout.
type Executor struct {
	venue   marketDomain.Venue
	program string
	layout  instructionLayout
	client  *solana.Client
	logger  logger.LoggerInterface
	tracer  trace.Tracer

	submits metric.Int64Counter
	errors  metric.Int64Counter
}

// instructionLayout builds venue-specific instruction data for a leg.
type instructionLayout func(req domain.TradeRequest, leg domain.SwapLeg) []byte

func newExecutor(venue marketDomain.Venue, program string, layout instructionLayout, client *solana.Client, log logger.LoggerInterface) (*Executor, error) {
	e := &Executor{
		venue:   venue,
		program: program,
		layout:  layout,
		client:  client,
		logger:  log,
		tracer:  otel.Tracer("swap-executor"),
	}

	meter := otel.Meter("swap-executor")
	var err error

	e.submits, err = meter.Int64Counter(
		"swap_submissions_total",
		metric.WithDescription("Swap transactions submitted"),
		metric.WithUnit("{swap}"),
	)
	if err != nil {
		return nil, err
	}

	e.errors, err = meter.Int64Counter(
		"swap_submission_errors_total",
		metric.WithDescription("Swap submissions that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return e, nil
}

// Venue identifies which venue this executor trades on.
func (e *Executor) Venue() marketDomain.Venue {
	return e.venue
}

// Execute assembles the swap transaction for the leg and submits it,
// returning the signature. No retries.
func (e *Executor) Execute(ctx context.Context, req domain.TradeRequest, leg domain.SwapLeg) (string, error) {
	ctx, span := e.tracer.Start(ctx, "swap.execute")
	defer span.End()

	span.SetAttributes(
		attribute.String("swap.venue", e.venue.String()),
		attribute.String("swap.side", string(leg.Side)),
		attribute.String("swap.pool", leg.Pool),
	)

	attrs := metric.WithAttributes(attribute.String("venue", e.venue.String()))
	e.submits.Add(ctx, 1, attrs)

	blockhash, err := e.client.GetLatestBlockhash(ctx)
	if err != nil {
		e.errors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "blockhash fetch failed")
		return "", err
	}

	txB64, err := encodeTransaction(blockhash.Hash, instruction{
		program:  e.program,
		accounts: []string{leg.Pool, string(leg.Mint)},
		data:     e.layout(req, leg),
	})
	if err != nil {
		e.errors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction build failed")
		return "", err
	}

	sig, err := e.client.SendTransaction(ctx, txB64)
	if err != nil {
		e.errors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction submit failed")
		return "", err
	}

	e.logger.Info(ctx, "swap submitted",
		"venue", e.venue.String(),
		"side", string(leg.Side),
		"pool", leg.Pool,
		"signature", sig,
	)

	return sig, nil
}
