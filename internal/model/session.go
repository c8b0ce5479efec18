package model

type Action int

const (
	DefaultAction Action = iota
	ExpectingStatement
	ExpectingSymbol
)

// Session is the per-chat state of the Telegram bot.
type Session struct {
	Action     Action
	LastSymbol string
}
