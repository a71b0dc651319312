package service

import (
	"context"
	"log"
	"time"
)

type tokenSweepStore interface {
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// TokenSweeper periodically deletes refresh-token rows past their
// expiry. It runs independently of request traffic; the delete-where-
// expired predicate commutes with the deletes done by refresh/logout.
type TokenSweeper struct {
	store    tokenSweepStore
	interval time.Duration
}

func NewTokenSweeper(store tokenSweepStore, interval time.Duration) *TokenSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenSweeper{store: store, interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *TokenSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *TokenSweeper) Sweep(ctx context.Context) {
	deleted, err := s.store.DeleteExpiredRefreshTokens(ctx, time.Now())
	if err != nil {
		log.Printf("[TokenSweeper] Failed to clean up expired tokens: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[TokenSweeper] Cleaned up %d expired refresh tokens", deleted)
	}
}
