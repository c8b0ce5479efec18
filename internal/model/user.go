package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Requester is the authenticated caller of an operation.
type Requester struct {
	UserID int64
	Role   Role
}

func (r Requester) IsAdmin() bool {
	return r.Role == RoleAdmin
}

// CanAccess reports whether the requester may read or mutate data owned by ownerID.
func (r Requester) CanAccess(ownerID int64) bool {
	return r.UserID == ownerID || r.IsAdmin()
}

// UserOverview is a user row with aggregated counters for the admin panel.
type UserOverview struct {
	User
	PortfolioCount int
	AssetCount     int
}

type UserDetails struct {
	User
	Portfolios     []PortfolioSummary
	RecentActivity []Activity
}
