package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSession(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisSession(db, time.Hour)
	ctx := context.Background()

	chatSession := model.Session{Action: model.ExpectingStatement, LastSymbol: "AAPL"}
	payload, err := json.Marshal(chatSession)
	require.NoError(t, err)

	mock.ExpectSet("tg_session:42", payload, time.Hour).SetVal("OK")
	require.NoError(t, s.SetSession(ctx, "42", chatSession))

	mock.ExpectGet("tg_session:42").SetVal(string(payload))
	got, err := s.GetSession(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, chatSession, got)

	mock.ExpectGet("tg_session:7").RedisNil()
	_, err = s.GetSession(ctx, "7")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
