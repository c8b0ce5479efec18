package adminService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sebastiangueler-commits/cARTE/data/repository"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/service"
	"github.com/sebastiangueler-commits/cARTE/utils"
)

const (
	defaultLimit   = 20
	maxLimit       = 100
	recentActivity = 20
)

type Repository interface {
	GetUsers(ctx context.Context, search string, limit, offset int) ([]model.UserOverview, int, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
	UpdateUserRole(ctx context.Context, userID int64, role model.Role) (model.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	GetActivity(ctx context.Context, userID int64, actions []model.ActivityAction, limit int) ([]model.Activity, error)
}

type PortfolioSummarizer interface {
	ListPortfolios(ctx context.Context, requester model.Requester) ([]model.PortfolioSummary, error)
}

type AdminService struct {
	repo       Repository
	portfolios PortfolioSummarizer
}

func New(repo Repository, portfolios PortfolioSummarizer) *AdminService {
	return &AdminService{repo: repo, portfolios: portfolios}
}

type UsersPage struct {
	Users  []model.UserOverview
	Total  int
	Limit  int
	Offset int
}

func (s *AdminService) ListUsers(ctx context.Context, search string, limit, offset int) (UsersPage, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AdminService.ListUsers"

	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)
	offset = max(offset, 0)

	slog.Debug("ListUsers start", slog.String("rqID", rqID), slog.String("op", op), slog.String("search", search), slog.Int("limit", limit), slog.Int("offset", offset))

	users, total, err := s.repo.GetUsers(ctx, search, limit, offset)
	if err != nil {
		return UsersPage{}, err
	}

	return UsersPage{Users: users, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *AdminService) GetUserDetails(ctx context.Context, userID int64) (model.UserDetails, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return model.UserDetails{}, mapRepoErr(err)
	}

	portfolios, err := s.portfolios.ListPortfolios(ctx, model.Requester{UserID: user.ID, Role: user.Role})
	if err != nil {
		return model.UserDetails{}, err
	}

	activity, err := s.repo.GetActivity(ctx, user.ID, nil, recentActivity)
	if err != nil {
		return model.UserDetails{}, err
	}

	return model.UserDetails{User: user, Portfolios: portfolios, RecentActivity: activity}, nil
}

func (s *AdminService) UpdateUserRole(ctx context.Context, requester model.Requester, userID int64, role model.Role) (model.User, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AdminService.UpdateUserRole"

	if requester.UserID == userID && role != model.RoleAdmin {
		return model.User{}, service.ErrForbidden
	}

	user, err := s.repo.UpdateUserRole(ctx, userID, role)
	if err != nil {
		return model.User{}, mapRepoErr(err)
	}

	slog.Info("user role changed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.String("role", string(role)), slog.Int64("by", requester.UserID))

	return user, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, requester model.Requester, userID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AdminService.DeleteUser"

	if requester.UserID == userID {
		return service.ErrSelfDelete
	}

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return mapRepoErr(err)
	}

	slog.Info("user deleted", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.Int64("by", requester.UserID))

	return nil
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return service.ErrNotFound
	}
	return err
}
