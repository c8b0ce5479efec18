package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sebastiangueler-commits/cARTE/utils"
)

type taskFn func(ctx context.Context) error

// Scheduler runs background jobs. Every run gets its own request id and is never overlapped by the next one.
type Scheduler struct {
	scheduler gocron.Scheduler
	ctx       context.Context
}

func New(ctx context.Context) *Scheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		panic(err.Error())
	}
	return &Scheduler{scheduler: scheduler, ctx: ctx}
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
	slog.Info("scheduler started", slog.Int("jobs", len(s.scheduler.Jobs())))
}

func (s *Scheduler) Stop() {
	slog.Info("start stopping scheduler")
	if err := s.scheduler.Shutdown(); err != nil {
		slog.Error("scheduler shutdown failed", slog.String("err", err.Error()))
		return
	}
	slog.Info("scheduler stopped")
}

func (s *Scheduler) NewIntervalJob(name string, fn taskFn, interval time.Duration, startImmediately bool) {
	if interval <= 0 {
		panic(fmt.Sprintf("job %q: interval must be positive", name))
	}

	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err := s.scheduler.NewJob(gocron.DurationJob(interval), gocron.NewTask(s.taskWithRecover(fn, name)), opts...)
	if err != nil {
		slog.Error("Scheduler creating job error", slog.String("jobName", name), slog.String("err", err.Error()))
		panic(err.Error())
	}
}

func (s *Scheduler) taskWithRecover(fn taskFn, jobName string) func() {
	return func() {
		ctx := utils.CtxWithRqID(s.ctx, "")
		rqID := utils.GetRequestIDFromCtx(ctx)
		now := time.Now()

		defer func() {
			if r := recover(); r != nil {
				slog.Error(
					"Panic recovered in scheduler job",
					slog.String("rqID", rqID),
					slog.String("jobName", jobName),
					slog.Any("panic", r),
					slog.String("stacktrace", string(debug.Stack())),
				)
			}
		}()

		slog.Info("job start", slog.String("rqID", rqID), slog.String("jobName", jobName))

		if err := fn(ctx); err != nil {
			slog.Error("job failed", slog.String("rqID", rqID), slog.String("jobName", jobName), slog.String("err", err.Error()))
			return
		}

		slog.Info(
			"job completed",
			slog.String("rqID", rqID),
			slog.String("jobName", jobName),
			slog.String("duration", fmt.Sprintf("%.2fs", time.Since(now).Seconds())),
		)
	}
}
