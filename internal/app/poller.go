package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/postboard/internal/records"
	"github.com/five82/postboard/internal/session"
)

// maxBackoff caps the delay between failed refreshes.
const maxBackoff = 30 * time.Second

// Refresher is the part of a session the background loop drives.
// *session.Session implements it.
type Refresher interface {
	Refresh(ctx context.Context) session.Result[[]records.Record]
}

// StartRefresher re-fetches the collection every interval in a background
// goroutine and returns immediately. The current page survives a refresh. Consecutive failures back off
// exponentially up to maxBackoff. A non-positive interval disables it.
func StartRefresher(ctx context.Context, src Refresher, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	go runRefresher(ctx, src, interval, logger.Named("refresher"))
}

func runRefresher(ctx context.Context, src Refresher, interval time.Duration, logger *zap.Logger) {
	failures := 0
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		res := src.Refresh(ctx)
		if res.Err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			logger.Warn("refresh failed",
				zap.Int("failures", failures),
				zap.String("kind", records.Kind(res.Err)),
				zap.Error(res.Err))
		} else {
			if failures > 0 {
				logger.Info("refresh recovered", zap.Int("after_failures", failures))
			}
			failures = 0
		}
		timer.Reset(calculateBackoff(failures, interval))
	}
}

// calculateBackoff doubles base per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
