package sweepers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeExpirer struct {
	calls atomic.Int32
	ids   []int64
	err   error
	at    time.Time
}

func (f *fakeExpirer) ExpireDue(_ context.Context, now time.Time) ([]int64, error) {
	f.calls.Add(1)
	f.at = now
	return f.ids, f.err
}

func TestSweep(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	exp := &fakeExpirer{ids: []int64{1, 2}}
	s := NewSubscriptionSweeper(exp, &logger, time.Hour)
	s.now = func() time.Time { return now }

	assert.Equal(t, 2, s.Sweep(context.Background()))
	assert.Equal(t, now, exp.at)

	exp.ids, exp.err = []int64{1}, errors.New("db down")
	assert.Equal(t, 1, s.Sweep(context.Background()))
}

func TestStartStops(t *testing.T) {
	logger := zerolog.Nop()
	exp := &fakeExpirer{}
	s := NewSubscriptionSweeper(exp, &logger, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Start(context.Background())
		close(done)
	}()

	assert.Eventually(t, func() bool { return exp.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestStartHonoursContext(t *testing.T) {
	logger := zerolog.Nop()
	s := NewSubscriptionSweeper(&fakeExpirer{}, &logger, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper ignored cancelled context")
	}
}
