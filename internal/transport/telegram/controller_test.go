package telegram

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sebastiangueler-commits/cARTE/data/session"
	"github.com/sebastiangueler-commits/cARTE/internal/assetParser"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/model/tg/tgCallback"
	"github.com/sebastiangueler-commits/cARTE/internal/service"
	"github.com/sebastiangueler-commits/cARTE/internal/service/detectionService"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	chat     *tele.Chat
	message  *tele.Message
	callback *tele.Callback
	store    map[string]any
	sent     []string
	edited   []string
}

func newFakeContext(text string) *fakeContext {
	return &fakeContext{
		chat:    &tele.Chat{ID: 42},
		message: &tele.Message{Text: text},
		store:   map[string]any{"rqID": "test-rq"},
	}
}

func (c *fakeContext) Chat() *tele.Chat          { return c.chat }
func (c *fakeContext) Message() *tele.Message    { return c.message }
func (c *fakeContext) Callback() *tele.Callback  { return c.callback }
func (c *fakeContext) Get(key string) any        { return c.store[key] }
func (c *fakeContext) Set(key string, value any) { c.store[key] = value }

func (c *fakeContext) Send(what any, _ ...any) error {
	c.sent = append(c.sent, fmt.Sprint(what))
	return nil
}

func (c *fakeContext) Edit(what any, _ ...any) error {
	c.edited = append(c.edited, fmt.Sprint(what))
	return nil
}

func (c *fakeContext) Respond(...*tele.CallbackResponse) error { return nil }

type fakeSession struct {
	sessions map[string]model.Session
}

func (s *fakeSession) GetSession(_ context.Context, key string) (model.Session, error) {
	chatSession, ok := s.sessions[key]
	if !ok {
		return model.Session{}, session.ErrNotFound
	}
	return chatSession, nil
}

func (s *fakeSession) SetSession(_ context.Context, key string, chatSession model.Session) error {
	s.sessions[key] = chatSession
	return nil
}

type fakePrices struct{}

func (fakePrices) GetQuote(_ context.Context, symbol string) (model.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol != "AAPL" {
		return model.Quote{}, service.ErrNotFound
	}
	return model.Quote{Symbol: symbol, Currency: "USD", Price: decimal.RequireFromString("190.5")}, nil
}

func (fakePrices) GetPrices(_ context.Context, symbols []string) map[string]decimal.Decimal {
	res := make(map[string]decimal.Decimal)
	for _, s := range symbols {
		if s == "SCHD" {
			res[s] = decimal.NewFromInt(28)
		}
	}
	return res
}

func newTestController() (*Controller, *fakeSession) {
	sessions := &fakeSession{sessions: make(map[string]model.Session)}
	detection := detectionService.New(
		assetParser.New(assetParser.DefaultSymbols()),
		assetParser.Extract,
		nil,
		nil,
		nil,
		0,
	)
	return NewController(detection, fakePrices{}, sessions), sessions
}

func TestQuote(t *testing.T) {
	ctrl, sessions := newTestController()

	c := newFakeContext("/quote aapl")
	c.message.Payload = "aapl"
	require.NoError(t, ctrl.Quote(c))
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "$190.50")
	assert.Equal(t, "AAPL", sessions.sessions["42"].LastSymbol)

	c = newFakeContext("/quote")
	require.NoError(t, ctrl.Quote(c))
	assert.Equal(t, model.ExpectingSymbol, sessions.sessions["42"].Action)

	c = newFakeContext("zzzz")
	require.NoError(t, ctrl.ProcessQuote(c))
	assert.Contains(t, c.sent[0], `"ZZZZ" not found`)
}

func TestProcessStatementText(t *testing.T) {
	ctrl, sessions := newTestController()
	sessions.sessions["42"] = model.Session{Action: model.ExpectingStatement}

	c := newFakeContext("SCHD Arca 27.50  +0.03 10 0.30\nEWZ Arca 30.84 -0.10 al -0.10")
	require.NoError(t, ctrl.ProcessStatementText(c))

	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "Detected assets: 2")
	assert.Contains(t, c.sent[0], "Value: $280.00")
	assert.Equal(t, model.DefaultAction, sessions.sessions["42"].Action)
}

func TestProcessStatementPhoto_OCRDisabled(t *testing.T) {
	ctrl, _ := newTestController()

	c := newFakeContext("")
	c.message.Photo = &tele.Photo{}
	require.NoError(t, ctrl.ProcessStatementPhoto(c))
	assert.Contains(t, c.sent[0], "not available")
}

func TestHandleCallback(t *testing.T) {
	ctrl, sessions := newTestController()

	c := newFakeContext("")
	c.callback = &tele.Callback{Data: "\f" + tgCallback.RefreshQuotePrefix + "AAPL"}
	require.NoError(t, ctrl.HandleCallback(c))
	require.Len(t, c.edited, 1)
	assert.Contains(t, c.edited[0], "AAPL")

	c = newFakeContext("")
	c.callback = &tele.Callback{Data: "\f" + tgCallback.DetectAgain}
	require.NoError(t, ctrl.HandleCallback(c))
	assert.Equal(t, model.ExpectingStatement, sessions.sessions["42"].Action)
	assert.Contains(t, c.sent[0], "Paste the statement text")
	assert.NotContains(t, c.sent[0], "photo")
}
