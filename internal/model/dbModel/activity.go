package dbModel

import "time"

type Activity struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Action    string    `db:"action"`
	Details   []byte    `db:"details"`
	CreatedAt time.Time `db:"created_at"`
}
