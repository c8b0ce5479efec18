package postgres

import (
	"context"

	"github.com/sebastiangueler-commits/cARTE/internal/converter/dbConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/model/dbModel"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, created_at, updated_at`

func (r *Postgres) InsertUser(ctx context.Context, user model.User) (_ model.User, err error) {
	query := `
		INSERT INTO users(email, password_hash, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	defer trace(ctx, "Postgres.InsertUser", query, map[string]any{"email": user.Email, "role": user.Role})(&err)

	dbUser := dbModel.User{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, user.Email, user.PasswordHash, user.FirstName, user.LastName, string(user.Role)).StructScan(&dbUser)
	if err != nil {
		return model.User{}, mapErr(err)
	}

	return dbConverter.ConvertUser(dbUser), nil
}

func (r *Postgres) GetUserByEmail(ctx context.Context, email string) (_ model.User, err error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	defer trace(ctx, "Postgres.GetUserByEmail", query, map[string]any{"email": email})(&err)

	dbUser := dbModel.User{}
	if err = r.txOrDb(ctx).GetContext(ctx, &dbUser, query, email); err != nil {
		return model.User{}, mapErr(err)
	}

	return dbConverter.ConvertUser(dbUser), nil
}

func (r *Postgres) GetUserByID(ctx context.Context, userID int64) (_ model.User, err error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	defer trace(ctx, "Postgres.GetUserByID", query, map[string]any{"userID": userID})(&err)

	dbUser := dbModel.User{}
	if err = r.txOrDb(ctx).GetContext(ctx, &dbUser, query, userID); err != nil {
		return model.User{}, mapErr(err)
	}

	return dbConverter.ConvertUser(dbUser), nil
}

// GetUsers returns a page of users matching search (email or name) together with the total match count.
func (r *Postgres) GetUsers(ctx context.Context, search string, limit, offset int) (users []model.UserOverview, total int, err error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.role, u.created_at, u.updated_at,
			(SELECT COUNT(*) FROM portfolios p WHERE p.user_id = u.id) AS portfolio_count,
			(SELECT COUNT(*) FROM assets a JOIN portfolios p ON p.id = a.portfolio_id WHERE p.user_id = u.id) AS asset_count,
			COUNT(*) OVER() AS total
		FROM users u
		WHERE $1 = '' OR u.email ILIKE '%' || $1 || '%' OR u.first_name ILIKE '%' || $1 || '%' OR u.last_name ILIKE '%' || $1 || '%'
		ORDER BY u.created_at DESC, u.id DESC
		LIMIT $2
		OFFSET $3
		`

	defer trace(ctx, "Postgres.GetUsers", query, map[string]any{"search": search, "limit": limit, "offset": offset})(&err)

	rows := []struct {
		dbModel.UserOverview
		Total int `db:"total"`
	}{}
	if err = r.txOrDb(ctx).SelectContext(ctx, &rows, query, search, limit, offset); err != nil {
		return nil, 0, err
	}

	users = make([]model.UserOverview, 0, len(rows))
	for _, row := range rows {
		users = append(users, dbConverter.ConvertUserOverview(row.UserOverview))
		total = row.Total
	}

	return users, total, nil
}

func (r *Postgres) UpdateUserRole(ctx context.Context, userID int64, role model.Role) (_ model.User, err error) {
	query := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns

	defer trace(ctx, "Postgres.UpdateUserRole", query, map[string]any{"userID": userID, "role": role})(&err)

	dbUser := dbModel.User{}
	if err = r.txOrDb(ctx).QueryRowxContext(ctx, query, string(role), userID).StructScan(&dbUser); err != nil {
		return model.User{}, mapErr(err)
	}

	return dbConverter.ConvertUser(dbUser), nil
}

func (r *Postgres) DeleteUser(ctx context.Context, userID int64) (err error) {
	query := `DELETE FROM users WHERE id = $1`

	defer trace(ctx, "Postgres.DeleteUser", query, map[string]any{"userID": userID})(&err)

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}

	return requireAffected(res)
}
