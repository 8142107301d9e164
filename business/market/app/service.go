package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/solarb/solana-arb-bot/business/market/domain"
	"github.com/solarb/solana-arb-bot/internal/logger"
)

// FeedService owns the venue listeners and fans their updates into a
// single sink, one goroutine per venue.
type FeedService struct {
	listeners []VenueListener
	logger    logger.LoggerInterface
}

// NewFeedService creates the feed service over the given listeners.
func NewFeedService(log logger.LoggerInterface, listeners ...VenueListener) *FeedService {
	return &FeedService{
		listeners: listeners,
		logger:    log,
	}
}

// Start connects every venue feed. A feed that fails to connect keeps
// retrying internally, so only configuration-level errors surface here.
func (s *FeedService) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, l := range s.listeners {
		g.Go(func() error {
			if err := l.Start(ctx); err != nil {
				s.logger.Warn(ctx, "venue feed connect failed, will keep retrying",
					"venue", l.Venue().String(), "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Run forwards each venue's updates to sink until ctx is done. Blocks.
func (s *FeedService) Run(ctx context.Context, sink UpdateSink) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, l := range s.listeners {
		g.Go(func() error {
			updates := l.Updates()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case update, ok := <-updates:
					if !ok {
						return nil
					}
					sink(ctx, update)
				}
			}
		})
	}

	return g.Wait()
}

// ConnectionStatus reports each venue's current feed state.
func (s *FeedService) ConnectionStatus() map[domain.Venue]bool {
	status := make(map[domain.Venue]bool, len(s.listeners))
	for _, l := range s.listeners {
		status[l.Venue()] = l.IsConnected()
	}
	return status
}

// Close shuts every feed down.
func (s *FeedService) Close() error {
	var firstErr error
	for _, l := range s.listeners {
		if err := l.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
