package postgres

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sebastiangueler-commits/cARTE/internal/converter/dbConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/model/dbModel"
)

func (r *Postgres) InsertActivity(ctx context.Context, activity model.Activity) (err error) {
	query := `INSERT INTO user_activity(user_id, action, details) VALUES ($1, $2, $3)`

	defer trace(ctx, "Postgres.InsertActivity", query, map[string]any{"userID": activity.UserID, "action": activity.Action})(&err)

	details := []byte("{}")
	if activity.Details != nil {
		if details, err = json.Marshal(activity.Details); err != nil {
			return err
		}
	}

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, activity.UserID, string(activity.Action), string(details))
	return mapErr(err)
}

// GetActivity returns the latest records of the user, newest first. Empty actions means any action.
func (r *Postgres) GetActivity(ctx context.Context, userID int64, actions []model.ActivityAction, limit int) (activity []model.Activity, err error) {
	query := `
		SELECT id, user_id, action, details, created_at
		FROM user_activity
		WHERE user_id = $1 AND ($2 = '' OR action = ANY(string_to_array($2, ',')))
		ORDER BY created_at DESC, id DESC
		LIMIT $3
		`

	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, string(a))
	}
	actionsArg := strings.Join(names, ",")

	defer trace(ctx, "Postgres.GetActivity", query, map[string]any{"userID": userID, "actions": actionsArg, "limit": limit})(&err)

	dbActivity := []dbModel.Activity{}
	if err = r.txOrDb(ctx).SelectContext(ctx, &dbActivity, query, userID, actionsArg, limit); err != nil {
		return nil, err
	}

	activity = make([]model.Activity, 0, len(dbActivity))
	for _, a := range dbActivity {
		activity = append(activity, dbConverter.ConvertActivity(a))
	}

	return activity, nil
}
