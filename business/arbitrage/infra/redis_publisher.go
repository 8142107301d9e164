// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/solarb/solana-arb-bot/business/arbitrage/app"
	"github.com/solarb/solana-arb-bot/business/arbitrage/domain"
	marketDomain "github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/apperror"
	"github.com/solarb/solana-arb-bot/internal/config"
	"github.com/solarb/solana-arb-bot/internal/logger"
)

const (
	redisOpTimeout  = 2 * time.Second
	tradeLogMaxSize = 100
)

// opportunitySnapshot is the JSON shape published to Redis.
type opportunitySnapshot struct {
	Mint              string            `json:"mint"`
	Venues            map[string]string `json:"venues"`
	PriceDiff         string            `json:"priceDiff"`
	DivergencePercent float64           `json:"divergencePercent"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

type tradeRecord struct {
	Mint      string    `json:"mint"`
	BuyVenue  string    `json:"buyVenue"`
	SellVenue string    `json:"sellVenue"`
	BuyPrice  string    `json:"buyPrice"`
	SellPrice string    `json:"sellPrice"`
	Amount    string    `json:"amount"`
	Success   bool      `json:"success"`
	TxID      string    `json:"txId,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

// RedisPublisher implements app.Reporter by mirroring the opportunity
// table and trade log into Redis, for dashboards and other consumers.
// Identical consecutive table payloads are published once.
type RedisPublisher struct {
	client *redis.Client
	cfg    config.RedisConfig
	logger logger.LoggerInterface

	mu          sync.Mutex
	lastPayload string
}

// NewRedisPublisher creates a publisher from the Redis section of the
// configuration.
func NewRedisPublisher(cfg config.RedisConfig, log logger.LoggerInterface) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisPublisher{
		client: client,
		cfg:    cfg,
		logger: log,
	}
}

// Start verifies the connection.
func (p *RedisPublisher) Start(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := p.client.Ping(pingCtx).Err(); err != nil {
		return apperror.New(apperror.CodeCacheConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext(p.cfg.Addr),
		)
	}

	p.logger.Info(ctx, "redis publisher connected", "addr", p.cfg.Addr)
	return nil
}

// PublishTable stores the table snapshot under a key with TTL and
// notifies subscribers on the updates channel.
func (p *RedisPublisher) PublishTable(opps []domain.Opportunity) {
	snapshots := make([]opportunitySnapshot, 0, len(opps))
	for _, opp := range opps {
		venues := make(map[string]string, len(opp.Venues))
		for v, vp := range opp.Venues {
			venues[v.String()] = vp.Price.String()
		}
		snapshots = append(snapshots, opportunitySnapshot{
			Mint:              string(opp.Asset),
			Venues:            venues,
			PriceDiff:         opp.PriceDiff.String(),
			DivergencePercent: opp.DivergencePercent,
			UpdatedAt:         opp.UpdatedAt,
		})
	}

	payload, err := json.Marshal(snapshots)
	if err != nil {
		p.logger.Error(context.Background(), "marshal opportunity snapshot", "error", err)
		return
	}

	p.mu.Lock()
	if string(payload) == p.lastPayload {
		p.mu.Unlock()
		return
	}
	p.lastPayload = string(payload)
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	key := p.cfg.KeyPrefix + "opportunities"
	pipe := p.client.Pipeline()
	pipe.Set(ctx, key, payload, p.cfg.TTL)
	pipe.Publish(ctx, key+":updates", payload)
	if _, err := pipe.Exec(ctx); err != nil {
		p.logger.Warn(ctx, "redis publish failed", "key", key, "error", err)
	}
}

// UpdateFeedStatus mirrors venue connection state into a hash.
func (p *RedisPublisher) UpdateFeedStatus(venue marketDomain.Venue, connected bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	key := p.cfg.KeyPrefix + "feeds"
	if err := p.client.HSet(ctx, key, venue.String(), connected).Err(); err != nil {
		p.logger.Warn(ctx, "redis feed status update failed", "venue", venue.String(), "error", err)
	}
}

// ReportTrade appends the trade to a capped list and notifies the
// trades channel.
func (p *RedisPublisher) ReportTrade(order app.TradeOrder, outcome app.TradeOutcome) {
	record := tradeRecord{
		Mint:      string(order.Asset),
		BuyVenue:  order.BuyVenue.String(),
		SellVenue: order.SellVenue.String(),
		BuyPrice:  order.BuyPrice.String(),
		SellPrice: order.SellPrice.String(),
		Amount:    order.Amount.String(),
		Success:   outcome.Success,
		TxID:      outcome.TxID,
		At:        time.Now(),
	}
	if outcome.Err != nil {
		record.Error = outcome.Err.Error()
	}

	payload, err := json.Marshal(record)
	if err != nil {
		p.logger.Error(context.Background(), "marshal trade record", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	key := p.cfg.KeyPrefix + "trades"
	pipe := p.client.Pipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, tradeLogMaxSize-1)
	pipe.Publish(ctx, key+":updates", payload)
	if _, err := pipe.Exec(ctx); err != nil {
		p.logger.Warn(ctx, "redis trade publish failed", "key", key, "error", err)
	}
}

// Stop closes the client.
func (p *RedisPublisher) Stop() error {
	return p.client.Close()
}
