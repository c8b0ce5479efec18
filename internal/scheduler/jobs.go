package scheduler

import (
	"context"
	"log/slog"

	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/sebastiangueler-commits/cARTE/utils"
)

const (
	RefreshPricesJob  = "refresh prices"
	DeleteOldFilesJob = "delete old statement images"
	PurgeQuotesJob    = "purge expired quotes"
)

type PriceRefresher interface {
	RefreshAllPrices(ctx context.Context) error
}

type FileCleaner interface {
	DeleteOldFiles(ctx context.Context) (int, error)
}

type QuotePurger interface {
	Purge(ctx context.Context) int
}

// RegisterJobs adds the application jobs. files and quotes may be nil: Drive is optional and
// the Redis cache expires keys by itself.
func (s *Scheduler) RegisterJobs(cfg *config.Config, prices PriceRefresher, files FileCleaner, quotes QuotePurger) {
	s.NewIntervalJob(RefreshPricesJob, prices.RefreshAllPrices, cfg.Jobs.RefreshPricesInterval, true)

	if files != nil {
		s.NewIntervalJob(DeleteOldFilesJob, func(ctx context.Context) error {
			deleted, err := files.DeleteOldFiles(ctx)
			if err != nil {
				return err
			}
			slog.Info("old statement images deleted", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.Int("deleted", deleted))
			return nil
		}, cfg.Jobs.DeleteOldFilesInterval, false)
	}

	if quotes != nil {
		s.NewIntervalJob(PurgeQuotesJob, func(ctx context.Context) error {
			removed := quotes.Purge(ctx)
			slog.Debug("expired quotes purged", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.Int("removed", removed))
			return nil
		}, cfg.Cache.QuotesExpiration, false)
	}
}
