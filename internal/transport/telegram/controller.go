package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sebastiangueler-commits/cARTE/data/session"
	"github.com/sebastiangueler-commits/cARTE/internal/converter/telebotConverter"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/model/tg/tgCallback"
	"github.com/sebastiangueler-commits/cARTE/internal/service"
	"github.com/sebastiangueler-commits/cARTE/utils"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg = "something went wrong..."
	// бот анонимный, активность не пишем
	anonymousUserID = 0
	maxPhotoBytes   = 10 << 20
)

type DetectionService interface {
	DetectFromText(ctx context.Context, userID int64, text string) model.Detection
	DetectFromImage(ctx context.Context, userID int64, image []byte, filename string) (model.Detection, error)
	OCREnabled() bool
}

type PriceService interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
	GetPrices(ctx context.Context, symbols []string) map[string]decimal.Decimal
}

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, session model.Session) error
}

// FileDownloader fetches Telegram files; it is satisfied by *tele.Bot.
type FileDownloader interface {
	File(file *tele.File) (io.ReadCloser, error)
}

type Controller struct {
	detectionService DetectionService
	priceService     PriceService
	session          Session
}

func NewController(detectionService DetectionService, priceService PriceService, session Session) *Controller {
	return &Controller{
		detectionService: detectionService,
		priceService:     priceService,
		session:          session,
	}
}

func (ctrl *Controller) Start(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	_ = ctrl.setAction(ctx, c, model.DefaultAction)
	return c.Send(telebotConverter.HelpText)
}

func (ctrl *Controller) InitDetect(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if err := ctrl.setAction(ctx, c, model.ExpectingStatement); err != nil {
		return c.Send(internalErrMsg)
	}

	msg := "Paste the statement text"
	if ctrl.detectionService.OCREnabled() {
		msg += " or send a photo of it"
	}
	return c.Send(msg + ":")
}

// Quote answers /quote SYMBOL right away; a bare /quote waits for the symbol.
func (ctrl *Controller) Quote(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	if symbol := strings.TrimSpace(c.Message().Payload); symbol != "" {
		return ctrl.sendQuote(ctx, c, symbol, false)
	}

	if err := ctrl.setAction(ctx, c, model.ExpectingSymbol); err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send("Enter a symbol, e.g. AAPL:")
}

func (ctrl *Controller) ProcessQuote(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	return ctrl.sendQuote(ctx, c, c.Message().Text, false)
}

func (ctrl *Controller) ProcessStatementText(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	detection := ctrl.detectionService.DetectFromText(ctx, anonymousUserID, c.Message().Text)

	return ctrl.sendDetection(ctx, c, detection)
}

func (ctrl *Controller) ProcessStatementPhoto(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	if !ctrl.detectionService.OCREnabled() {
		return c.Send("Photo recognition is not available, please paste the statement text.")
	}

	photo := c.Message().Photo
	if photo == nil {
		return c.Send("Send the statement as a photo or text.")
	}
	if photo.FileSize > maxPhotoBytes {
		return c.Send("The photo is too large, the limit is 10MB.")
	}

	image, err := downloadFile(c.Bot(), &photo.File)
	if err != nil {
		slog.Error("can't download photo", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	detection, err := ctrl.detectionService.DetectFromImage(ctx, anonymousUserID, image, photo.UniqueID+".jpg")
	if err != nil {
		slog.Error("got error from detectionService.DetectFromImage", slog.String("rqID", rqID), slog.String("err", err.Error()))
		if errors.Is(err, service.ErrInvalidInput) {
			return c.Send("Can't read this photo, please try another one.")
		}
		return c.Send(internalErrMsg)
	}

	return ctrl.sendDetection(ctx, c, detection)
}

// HandleCallback dispatches inline button presses.
func (ctrl *Controller) HandleCallback(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	data := strings.TrimPrefix(c.Callback().Data, "\f")

	_ = c.Respond()

	switch {
	case data == tgCallback.DetectAgain:
		return ctrl.InitDetect(c)
	case data == tgCallback.QuoteAgain:
		if err := ctrl.setAction(ctx, c, model.ExpectingSymbol); err != nil {
			return c.Send(internalErrMsg)
		}
		return c.Send("Enter a symbol, e.g. AAPL:")
	case strings.HasPrefix(data, tgCallback.RefreshQuotePrefix):
		return ctrl.sendQuote(ctx, c, strings.TrimPrefix(data, tgCallback.RefreshQuotePrefix), true)
	}

	slog.Warn("unknown callback", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("data", data))
	return nil
}

func (ctrl *Controller) sendQuote(ctx context.Context, c tele.Context, symbol string, edit bool) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, _ := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)

	quote, err := ctrl.priceService.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Send(fmt.Sprintf("Symbol %q not found.", strings.ToUpper(strings.TrimSpace(symbol))))
		}
		slog.Error("got error from priceService.GetQuote", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("The price is temporarily unavailable, try again later.")
	}

	chatSession.Action = model.DefaultAction
	chatSession.LastSymbol = quote.Symbol
	_ = ctrl.session.SetSession(ctx, chatKey(c), chatSession)

	text, markup := telebotConverter.QuoteResponse(quote)
	if edit {
		return c.Edit(text, markup)
	}
	return c.Send(text, markup)
}

func (ctrl *Controller) sendDetection(ctx context.Context, c tele.Context, detection model.Detection) error {
	symbols := make([]string, 0, len(detection.Candidates))
	for _, candidate := range detection.Candidates {
		symbols = append(symbols, candidate.Symbol)
	}

	var prices map[string]decimal.Decimal
	if len(symbols) > 0 {
		prices = ctrl.priceService.GetPrices(ctx, symbols)
	}

	_ = ctrl.setAction(ctx, c, model.DefaultAction)

	text, markup := telebotConverter.DetectionResponse(detection, prices)
	return c.Send(text, markup)
}

func (ctrl *Controller) setAction(ctx context.Context, c tele.Context, action model.Action) error {
	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return err
	}

	chatSession.Action = action
	return ctrl.session.SetSession(ctx, chatKey(c), chatSession)
}

func (ctrl *Controller) getSessionFromTeleCtxOrStorage(ctx context.Context, c tele.Context) (model.Session, error) {
	chatSession, ok := c.Get("session").(model.Session)
	if ok {
		return chatSession, nil
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	chatSession, err := ctrl.session.GetSession(ctx, chatKey(c))
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		}
		return model.Session{}, err
	}
	return chatSession, nil
}

func chatKey(c tele.Context) string {
	return strconv.FormatInt(c.Chat().ID, 10)
}

func downloadFile(downloader FileDownloader, file *tele.File) ([]byte, error) {
	reader, err := downloader.File(file)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(io.LimitReader(reader, maxPhotoBytes+1))
}
