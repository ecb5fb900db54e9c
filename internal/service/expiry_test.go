package service

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

type fakeMarker struct {
    calls chan time.Time
}

func (m *fakeMarker) MarkExpired(_ context.Context, now time.Time) (int64, error) {
    m.calls <- now
    return 1, nil
}

func TestRunPassExpirySweepsPeriodically(t *testing.T) {
    marker := &fakeMarker{calls: make(chan time.Time, 16)}
    ctx, cancel := context.WithCancel(context.Background())

    done := make(chan struct{})
    go func() {
        RunPassExpiry(ctx, marker, time.Millisecond)
        close(done)
    }()

    // First sweep runs immediately, the second after a tick.
    for i := 0; i < 2; i++ {
        select {
        case <-marker.calls:
        case <-time.After(2 * time.Second):
            t.Fatalf("sweep %d never ran", i+1)
        }
    }

    cancel()
    select {
    case <-done:
    case <-time.After(2 * time.Second):
        t.Fatal("sweep loop did not stop on cancel")
    }
}

func TestRunPassExpiryStopsWhenCancelledBeforeTick(t *testing.T) {
    marker := &fakeMarker{calls: make(chan time.Time, 16)}
    ctx, cancel := context.WithCancel(context.Background())

    done := make(chan struct{})
    go func() {
        RunPassExpiry(ctx, marker, time.Hour)
        close(done)
    }()

    var first time.Time
    select {
    case first = <-marker.calls:
    case <-time.After(2 * time.Second):
        t.Fatal("initial sweep never ran")
    }
    require.False(t, first.IsZero())

    cancel()
    select {
    case <-done:
    case <-time.After(2 * time.Second):
        t.Fatal("sweep loop did not stop on cancel")
    }
    assert.Empty(t, marker.calls)
}
