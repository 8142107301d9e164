// Package dammv2 streams swap events from the Meteora DAMM v2 program
// and serves on-demand pool price quotes.
package dammv2

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/business/market/infra/solstream"
	"github.com/solarb/solana-arb-bot/internal/logger"
)

const meterName = "market-dammv2"

// ListenerConfig holds configuration for the DAMM v2 listener.
type ListenerConfig struct {
	WebSocketURL   string
	Program        string
	Commitment     string
	MaxReconnects  int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BufferSize     int
}

type listenerMetrics struct {
	swaps         metric.Int64Counter
	skipped       metric.Int64Counter
	updateDropped metric.Int64Counter
}

// Listener converts DAMM v2 swap events into PriceUpdates.
type Listener struct {
	config  ListenerConfig
	logger  logger.LoggerInterface
	sub     *solstream.Subscriber
	updates chan domain.PriceUpdate
	metrics *listenerMetrics
	closed  atomic.Bool
}

// NewListener creates a DAMM v2 listener.
func NewListener(cfg ListenerConfig, log logger.LoggerInterface) (*Listener, error) {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 100
	}

	subCfg := solstream.DefaultConfig(cfg.WebSocketURL, cfg.Program, "dammv2")
	subCfg.Commitment = cfg.Commitment
	subCfg.MaxReconnects = cfg.MaxReconnects
	if cfg.InitialBackoff > 0 {
		subCfg.InitialBackoff = cfg.InitialBackoff
	}
	if cfg.MaxBackoff > 0 {
		subCfg.MaxBackoff = cfg.MaxBackoff
	}

	sub, err := solstream.NewSubscriber(subCfg, log)
	if err != nil {
		return nil, err
	}

	l := &Listener{
		config:  cfg,
		logger:  log,
		sub:     sub,
		updates: make(chan domain.PriceUpdate, cfg.BufferSize),
	}

	if err := l.initMetrics(); err != nil {
		return nil, err
	}

	sub.OnLogs(l.handleLogs)

	return l, nil
}

func (l *Listener) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	l.metrics = &listenerMetrics{}

	l.metrics.swaps, err = meter.Int64Counter(
		"dammv2_swaps_total",
		metric.WithDescription("Decoded DAMM v2 swap events"),
		metric.WithUnit("{swap}"),
	)
	if err != nil {
		return err
	}

	l.metrics.skipped, err = meter.Int64Counter(
		"dammv2_events_skipped_total",
		metric.WithDescription("Payloads that were not decodable swap events"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	l.metrics.updateDropped, err = meter.Int64Counter(
		"dammv2_updates_dropped_total",
		metric.WithDescription("Price updates dropped because the buffer was full"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Start connects the underlying log stream.
func (l *Listener) Start(ctx context.Context) error {
	return l.sub.Connect(ctx)
}

// Updates returns the channel of normalized price updates.
func (l *Listener) Updates() <-chan domain.PriceUpdate {
	return l.updates
}

// Venue returns the venue this listener feeds.
func (l *Listener) Venue() domain.Venue {
	return domain.VenueDammV2
}

// IsConnected reports whether the stream is up.
func (l *Listener) IsConnected() bool {
	return l.sub.IsConnected()
}

// Close shuts the listener down.
func (l *Listener) Close() error {
	l.closed.Store(true)
	return l.sub.Close()
}

func (l *Listener) handleLogs(ctx context.Context, ev solstream.LogEvent) {
	if l.closed.Load() {
		return
	}

	now := time.Now()
	for _, payload := range ev.ProgramData {
		swap, ok := decodeSwapEvent(payload, ev.Slot, ev.Signature)
		if !ok {
			l.metrics.skipped.Add(ctx, 1)
			continue
		}

		update, ok := swap.Normalize(now)
		if !ok || !update.Valid() {
			l.metrics.skipped.Add(ctx, 1)
			l.logger.Debug(ctx, "dropping malformed dammv2 swap",
				"signature", ev.Signature, "slot", ev.Slot)
			continue
		}

		l.metrics.swaps.Add(ctx, 1,
			metric.WithAttributes(attribute.String("mint", update.Asset.Short())))
		l.emit(ctx, update)
	}
}

func (l *Listener) emit(ctx context.Context, update domain.PriceUpdate) {
	select {
	case l.updates <- update:
	default:
		l.metrics.updateDropped.Add(ctx, 1)
		l.logger.Warn(ctx, "dammv2 update dropped, buffer full",
			"mint", update.Asset.Short())
	}
}
