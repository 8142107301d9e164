// Package solstream subscribes to program logs over the Solana
// websocket RPC and hands decoded notifications to venue listeners.
package solstream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/solarb/solana-arb-bot/internal/apperror"
	"github.com/solarb/solana-arb-bot/internal/logger"
	"github.com/solarb/solana-arb-bot/internal/wsconn"
)

const (
	meterName = "market-solstream"

	programDataPrefix = "Program data: "
	subscribeTimeout  = 10 * time.Second
)

// Config holds subscriber configuration.
type Config struct {
	WebSocketURL   string
	Program        string // base58 program id to filter on
	Commitment     string
	Name           string // used for logs and metric labels
	MaxReconnects  int    // 0 = infinite
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(wsURL, program, name string) Config {
	return Config{
		WebSocketURL:   wsURL,
		Program:        program,
		Commitment:     "confirmed",
		Name:           name,
		MaxReconnects:  0,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

// LogEvent is one successful transaction's logs for the watched program.
type LogEvent struct {
	Slot        uint64
	Signature   string
	Logs        []string
	ProgramData [][]byte // decoded "Program data:" payloads, in log order
}

// LogsHandler receives every LogEvent.
type LogsHandler func(ctx context.Context, ev LogEvent)

// subscriberMetrics holds OTEL metric instruments.
type subscriberMetrics struct {
	notifications  metric.Int64Counter
	failedTxSkips  metric.Int64Counter
	decodeFailures metric.Int64Counter
	connState      metric.Int64Gauge
}

// Subscriber maintains a logsSubscribe stream for one program.
type Subscriber struct {
	config Config
	logger logger.LoggerInterface

	ws      *wsconn.Client
	handler LogsHandler

	metrics *subscriberMetrics
	nextID  atomic.Uint64
	closed  atomic.Bool
}

// NewSubscriber creates a subscriber for cfg.Program.
func NewSubscriber(cfg Config, log logger.LoggerInterface) (*Subscriber, error) {
	if cfg.Program == "" {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext(cfg.Name + ": program id is required"))
	}

	wsCfg := wsconn.DefaultConfig(cfg.WebSocketURL, cfg.Name)
	wsCfg.InitialBackoff = cfg.InitialBackoff
	wsCfg.MaxBackoff = cfg.MaxBackoff
	wsCfg.MaxReconnects = cfg.MaxReconnects

	ws, err := wsconn.New(wsCfg)
	if err != nil {
		return nil, err
	}

	s := &Subscriber{
		config: cfg,
		logger: log,
		ws:     ws,
	}

	if err := s.initMetrics(); err != nil {
		return nil, err
	}

	ws.OnMessage(s.handleMessage)
	ws.OnStateChange(s.handleStateChange)

	return s, nil
}

func (s *Subscriber) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &subscriberMetrics{}

	s.metrics.notifications, err = meter.Int64Counter(
		"venue_log_notifications_total",
		metric.WithDescription("Log notifications received per venue"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return err
	}

	s.metrics.failedTxSkips, err = meter.Int64Counter(
		"venue_failed_tx_skips_total",
		metric.WithDescription("Notifications skipped because the transaction failed"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return err
	}

	s.metrics.decodeFailures, err = meter.Int64Counter(
		"venue_stream_decode_failures_total",
		metric.WithDescription("Inbound messages that could not be parsed"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return err
	}

	s.metrics.connState, err = meter.Int64Gauge(
		"venue_stream_connected",
		metric.WithDescription("1 when the venue stream is connected"),
	)
	if err != nil {
		return err
	}

	return nil
}

// OnLogs registers the handler for incoming log events. Must be called
// before Connect.
func (s *Subscriber) OnLogs(handler LogsHandler) {
	s.handler = handler
}

// Connect dials the websocket endpoint. The subscription request itself
// is sent on every (re)connect from the state change handler.
func (s *Subscriber) Connect(ctx context.Context) error {
	return s.ws.Connect(ctx)
}

// IsConnected reports whether the stream is currently up.
func (s *Subscriber) IsConnected() bool {
	return s.ws.IsConnected()
}

// Close shuts the stream down.
func (s *Subscriber) Close() error {
	s.closed.Store(true)
	return s.ws.Close()
}

func (s *Subscriber) handleStateChange(state wsconn.State, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("venue", s.config.Name))

	switch state {
	case wsconn.StateConnected:
		s.metrics.connState.Record(ctx, 1, attrs)
		s.logger.Info(ctx, "venue stream connected",
			"venue", s.config.Name, "program", s.config.Program)
		go s.subscribe()
	case wsconn.StateReconnecting:
		s.metrics.connState.Record(ctx, 0, attrs)
		s.logger.Warn(ctx, "venue stream reconnecting",
			"venue", s.config.Name, "error", err)
	case wsconn.StateDisconnected:
		s.metrics.connState.Record(ctx, 0, attrs)
		if err != nil {
			s.logger.Error(ctx, "venue stream disconnected",
				"venue", s.config.Name, "error", err)
		}
	}
}

// subscribe sends the logsSubscribe request for the watched program.
func (s *Subscriber) subscribe() {
	if s.closed.Load() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), subscribeTimeout)
	defer cancel()

	req := subscribeRequest{
		JSONRPC: "2.0",
		ID:      s.nextID.Add(1),
		Method:  "logsSubscribe",
		Params: []any{
			mentionsFilter{Mentions: []string{s.config.Program}},
			commitmentOpts{Commitment: s.config.Commitment},
		},
	}

	if err := s.ws.SendJSON(ctx, req); err != nil {
		s.logger.Error(ctx, "failed to send logsSubscribe",
			"venue", s.config.Name, "error", err)
	}
}

func (s *Subscriber) handleMessage(ctx context.Context, raw []byte) {
	if s.closed.Load() {
		return
	}

	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.metrics.decodeFailures.Add(ctx, 1,
			metric.WithAttributes(attribute.String("venue", s.config.Name)))
		s.logger.Debug(ctx, "unparsable stream message",
			"venue", s.config.Name, "error", err)
		return
	}

	attrs := metric.WithAttributes(attribute.String("venue", s.config.Name))

	// Subscription confirmations and errors come back with our request id.
	if msg.ID != nil {
		if msg.Error != nil {
			s.logger.Error(ctx, "logsSubscribe rejected",
				"venue", s.config.Name, "code", msg.Error.Code, "message", msg.Error.Message)
		} else {
			s.logger.Debug(ctx, "logsSubscribe confirmed",
				"venue", s.config.Name, "subscription", string(msg.Result))
		}
		return
	}

	if msg.Method != "logsNotification" || msg.Params == nil {
		return
	}

	s.metrics.notifications.Add(ctx, 1, attrs)

	value := msg.Params.Result.Value
	if value.failed() {
		s.metrics.failedTxSkips.Add(ctx, 1, attrs)
		return
	}

	ev := LogEvent{
		Slot:        msg.Params.Result.Context.Slot,
		Signature:   value.Signature,
		Logs:        value.Logs,
		ProgramData: extractProgramData(value.Logs),
	}

	if s.handler != nil {
		s.handler(ctx, ev)
	}
}

// extractProgramData collects the base64 payloads of "Program data:"
// log lines. Undecodable lines are skipped.
func extractProgramData(logs []string) [][]byte {
	var out [][]byte
	for _, line := range logs {
		idx := strings.Index(line, programDataPrefix)
		if idx < 0 {
			continue
		}
		payload := line[idx+len(programDataPrefix):]
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			continue
		}
		out = append(out, raw)
	}
	return out
}
