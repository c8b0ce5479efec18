package service

import (
	"context"
	"log/slog"

	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/utils"
)

type ActivityRepository interface {
	InsertActivity(ctx context.Context, activity model.Activity) error
}

// LogActivity records a user action. Failures are logged and never returned.
func LogActivity(ctx context.Context, repo ActivityRepository, userID int64, action model.ActivityAction, details map[string]any) {
	err := repo.InsertActivity(ctx, model.Activity{UserID: userID, Action: action, Details: details})
	if err != nil {
		slog.Error(
			"can't save user activity",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.Int64("userID", userID),
			slog.String("action", string(action)),
			slog.String("err", err.Error()),
		)
	}
}
