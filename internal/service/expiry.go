package service

import (
    "context"
    "log"
    "time"
)

// ExpiredMarker flips overdue passes to EXPIRED. Implemented by the
// pass repository.
type ExpiredMarker interface {
    MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

// RunPassExpiry sweeps overdue passes once immediately and then every
// interval until ctx is cancelled. Validation rejects on the expiry
// date regardless; the sweep only keeps stored statuses and dashboard
// listings in line with it.
func RunPassExpiry(ctx context.Context, store ExpiredMarker, interval time.Duration) {
    ticker := time.NewTicker(interval)
    defer ticker.Stop()
    for {
        n, err := store.MarkExpired(ctx, time.Now())
        if err != nil {
            if ctx.Err() != nil {
                return
            }
            log.Printf("pass expiry: sweep failed: %v", err)
        } else if n > 0 {
            log.Printf("pass expiry: marked %d passes expired", n)
        }
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
        }
    }
}
