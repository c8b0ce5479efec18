package googleDriveApi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestDeleteOldFiles(t *testing.T) {
	var (
		deletedIDs []string
		trashed    bool
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/files":
			assert.Equal(t, "createdTime < '2025-01-01T00:00:00Z' and trashed = false", r.URL.Query().Get("q"))
			if r.URL.Query().Get("pageToken") == "" {
				_, _ = w.Write([]byte(`{"nextPageToken":"p2","files":[{"id":"a"},{"id":"b"}]}`))
				return
			}
			_, _ = w.Write([]byte(`{"files":[{"id":"c"}]}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/files/trash":
			trashed = true
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/files/"):
			id := strings.TrimPrefix(r.URL.Path, "/files/")
			if id == "b" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			deletedIDs = append(deletedIDs, id)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.GoogleDrive.FileTTL = 24 * time.Hour

	api, err := NewWithOptions(context.Background(), cfg,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	api.now = func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) }

	deleted, err := api.DeleteOldFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.Equal(t, []string{"a", "c"}, deletedIDs)
	assert.True(t, trashed)
}
