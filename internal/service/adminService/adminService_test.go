package adminService

import (
	"context"
	"fmt"
	"testing"

	"github.com/sebastiangueler-commits/cARTE/data/repository/memory"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummarizer struct {
	requesters []model.Requester
}

func (f *fakeSummarizer) ListPortfolios(_ context.Context, requester model.Requester) ([]model.PortfolioSummary, error) {
	f.requesters = append(f.requesters, requester)
	return []model.PortfolioSummary{{Portfolio: model.Portfolio{ID: 1, UserID: requester.UserID, Name: "Main"}}}, nil
}

func newTestService(t *testing.T) (*AdminService, *memory.Store, *fakeSummarizer, model.Requester) {
	t.Helper()

	store := memory.New()
	admin, err := store.InsertUser(context.Background(), model.User{Email: "admin@x.io", Role: model.RoleAdmin})
	require.NoError(t, err)

	summarizer := &fakeSummarizer{}
	return New(store, summarizer), store, summarizer, model.Requester{UserID: admin.ID, Role: model.RoleAdmin}
}

func TestListUsers_Paging(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	for i := range 3 {
		_, err := store.InsertUser(ctx, model.User{Email: fmt.Sprintf("user%d@x.io", i), FirstName: "Ann"})
		require.NoError(t, err)
	}

	page, err := svc.ListUsers(ctx, "", 0, -5)
	require.NoError(t, err)
	assert.Equal(t, defaultLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, 4, page.Total)
	assert.Len(t, page.Users, 4)

	page, err = svc.ListUsers(ctx, "ann", 1000, 1)
	require.NoError(t, err)
	assert.Equal(t, maxLimit, page.Limit)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Users, 2)
}

func TestGetUserDetails(t *testing.T) {
	svc, store, summarizer, _ := newTestService(t)
	ctx := context.Background()

	user, err := store.InsertUser(ctx, model.User{Email: "user@x.io"})
	require.NoError(t, err)
	require.NoError(t, store.InsertActivity(ctx, model.Activity{UserID: user.ID, Action: model.ActionLogin}))

	details, err := svc.GetUserDetails(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, details.User.Email)
	require.Len(t, details.Portfolios, 1)
	require.Len(t, details.RecentActivity, 1)
	assert.Equal(t, model.ActionLogin, details.RecentActivity[0].Action)

	// портфели запрашиваются от имени владельца
	assert.Equal(t, []model.Requester{{UserID: user.ID, Role: model.RoleUser}}, summarizer.requesters)

	_, err = svc.GetUserDetails(ctx, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateUserRole(t *testing.T) {
	svc, store, _, admin := newTestService(t)
	ctx := context.Background()

	user, err := store.InsertUser(ctx, model.User{Email: "user@x.io"})
	require.NoError(t, err)

	updated, err := svc.UpdateUserRole(ctx, admin, user.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)

	_, err = svc.UpdateUserRole(ctx, admin, admin.UserID, model.RoleUser)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.UpdateUserRole(ctx, admin, 9999, model.RoleUser)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc, store, _, admin := newTestService(t)
	ctx := context.Background()

	user, err := store.InsertUser(ctx, model.User{Email: "user@x.io"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteUser(ctx, admin, admin.UserID), service.ErrSelfDelete)

	require.NoError(t, svc.DeleteUser(ctx, admin, user.ID))
	_, err = store.GetUserByID(ctx, user.ID)
	assert.Error(t, err)

	assert.ErrorIs(t, svc.DeleteUser(ctx, admin, user.ID), service.ErrNotFound)
}
