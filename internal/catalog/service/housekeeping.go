package service

import (
	"context"
	"log/slog"
	"time"
)

// HousekeepingService periodically purges expired refresh tokens so the
// table does not grow forever.
type HousekeepingService struct {
	tokens   *TokenService
	log      *slog.Logger
	interval time.Duration

	stop chan struct{}
	done chan struct{}
}

func NewHousekeepingService(tokens *TokenService, log *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		tokens:   tokens,
		log:      log,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background loop. One sweep runs immediately.
func (s *HousekeepingService) Start() {
	go func() {
		defer close(s.done)

		s.sweep()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *HousekeepingService) Stop() {
	close(s.stop)
	<-s.done
}

func (s *HousekeepingService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.tokens.PurgeExpiredRefreshTokens(ctx)
	if err != nil {
		s.log.Error("refresh token purge failed", "error", err)
		return
	}
	if n > 0 {
		s.log.Info("purged expired refresh tokens", "count", n)
	}
}
