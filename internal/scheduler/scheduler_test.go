package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/sebastiangueler-commits/cARTE/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	calls atomic.Int32
	rqIDs chan string
}

func (f *fakeRefresher) RefreshAllPrices(ctx context.Context) error {
	f.calls.Add(1)
	select {
	case f.rqIDs <- utils.GetRequestIDFromCtx(ctx):
	default:
	}
	return nil
}

func TestTaskWithRecover(t *testing.T) {
	s := New(context.Background())

	var gotRqID string
	task := s.taskWithRecover(func(ctx context.Context) error {
		gotRqID = utils.GetRequestIDFromCtx(ctx)
		panic("boom")
	}, "panicking")

	assert.NotPanics(t, task)
	assert.NotEmpty(t, gotRqID)

	failing := s.taskWithRecover(func(context.Context) error { return errors.New("failed") }, "failing")
	assert.NotPanics(t, failing)
}

func TestRegisterJobs_StartsRefreshImmediately(t *testing.T) {
	cfg := &config.Config{}
	cfg.Jobs.RefreshPricesInterval = time.Hour

	refresher := &fakeRefresher{rqIDs: make(chan string, 1)}

	s := New(context.Background())
	s.RegisterJobs(cfg, refresher, nil, nil)
	require.Len(t, s.scheduler.Jobs(), 1)
	assert.Equal(t, RefreshPricesJob, s.scheduler.Jobs()[0].Name())

	s.Start()
	defer s.Stop()

	select {
	case rqID := <-refresher.rqIDs:
		assert.NotEmpty(t, rqID)
	case <-time.After(3 * time.Second):
		t.Fatal("refresh job was not started")
	}
	assert.Equal(t, int32(1), refresher.calls.Load())
}

func TestNewIntervalJob_RejectsZeroInterval(t *testing.T) {
	s := New(context.Background())
	assert.Panics(t, func() {
		s.NewIntervalJob("broken", func(context.Context) error { return nil }, 0, false)
	})
}
