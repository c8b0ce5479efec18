package detectionService

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebastiangueler-commits/cARTE/internal/metrics"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/service"
	"github.com/sebastiangueler-commits/cARTE/utils"
)

const historyLimit = 50

var historyActions = []model.ActivityAction{
	model.ActionOCRProcess,
	model.ActionOCRTextProcess,
	model.ActionDetectAssets,
}

type Parser interface {
	Parse(text string) []model.Candidate
}

type Extractor func(text string, source model.TextSource) model.TextExtraction

type TextRecognizer interface {
	RecognizeText(ctx context.Context, image []byte) (string, error)
}

type FileStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (string, error)
}

type Repository interface {
	service.ActivityRepository
	GetActivity(ctx context.Context, userID int64, actions []model.ActivityAction, limit int) ([]model.Activity, error)
}

type DetectionService struct {
	parser        Parser
	extract       Extractor
	recognizer    TextRecognizer
	storage       FileStorage
	repo          Repository
	maxImageBytes int
	now           func() time.Time
}

// New builds the service. recognizer and storage may be nil when OCR or Drive are not configured.
func New(parser Parser, extract Extractor, recognizer TextRecognizer, storage FileStorage, repo Repository, maxImageBytes int) *DetectionService {
	return &DetectionService{
		parser:        parser,
		extract:       extract,
		recognizer:    recognizer,
		storage:       storage,
		repo:          repo,
		maxImageBytes: maxImageBytes,
		now:           time.Now,
	}
}

func (s *DetectionService) OCREnabled() bool {
	return s.recognizer != nil
}

// DetectFromText runs typed statement text through the asset parser.
func (s *DetectionService) DetectFromText(ctx context.Context, userID int64, text string) model.Detection {
	detection := s.detect(ctx, text, model.SourceManual)

	s.logActivity(ctx, userID, model.ActionDetectAssets, map[string]any{
		"source": "text",
		"assets": len(detection.Candidates),
	})

	return detection
}

// DetectFromImage recognizes the statement photo and parses the text. An unreadable image gives
// a detection with empty text and no candidates, not an error.
func (s *DetectionService) DetectFromImage(ctx context.Context, userID int64, image []byte, filename string) (model.Detection, error) {
	text, imageURL, err := s.recognize(ctx, image, filename)
	if err != nil {
		return model.Detection{}, err
	}

	detection := s.detect(ctx, text, model.SourceOCR)
	detection.ImageURL = imageURL

	s.logActivity(ctx, userID, model.ActionDetectAssets, map[string]any{
		"source":   "image",
		"filename": filename,
		"assets":   len(detection.Candidates),
	})

	return detection, nil
}

func (s *DetectionService) ExtractFromText(ctx context.Context, userID int64, text string) model.TextExtraction {
	extraction := s.extract(text, model.SourceManual)

	s.logActivity(ctx, userID, model.ActionOCRTextProcess, map[string]any{
		"isins":  len(extraction.ISINs),
		"length": len(text),
	})

	return extraction
}

func (s *DetectionService) ExtractFromImage(ctx context.Context, userID int64, image []byte, filename string) (model.TextExtraction, error) {
	text, _, err := s.recognize(ctx, image, filename)
	if err != nil {
		return model.TextExtraction{}, err
	}

	extraction := s.extract(text, model.SourceOCR)

	s.logActivity(ctx, userID, model.ActionOCRProcess, map[string]any{
		"filename": filename,
		"isins":    len(extraction.ISINs),
		"length":   len(text),
	})

	return extraction, nil
}

// History returns the latest OCR and detection records of the user, newest first.
func (s *DetectionService) History(ctx context.Context, userID int64) ([]model.Activity, error) {
	return s.repo.GetActivity(ctx, userID, historyActions, historyLimit)
}

func (s *DetectionService) detect(ctx context.Context, text string, source model.TextSource) model.Detection {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DetectionService.detect"

	candidates := s.parser.Parse(text)

	sourceLabel := "text"
	if source == model.SourceOCR {
		sourceLabel = "image"
	}
	metrics.Detections.WithLabelValues(sourceLabel).Inc()
	for _, c := range candidates {
		metrics.ParsedCandidates.WithLabelValues(c.Template).Inc()
	}

	slog.Debug("text parsed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("length", len(text)), slog.Int("candidates", len(candidates)))

	return model.Detection{Text: text, Source: source, Candidates: candidates}
}

// recognize returns the image text; OCR failures are logged and yield empty text.
func (s *DetectionService) recognize(ctx context.Context, image []byte, filename string) (text, imageURL string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DetectionService.recognize"

	if s.recognizer == nil {
		return "", "", service.ErrOCRDisabled
	}
	if len(image) == 0 {
		return "", "", fmt.Errorf("%w: empty image", service.ErrInvalidInput)
	}
	if s.maxImageBytes > 0 && len(image) > s.maxImageBytes {
		return "", "", fmt.Errorf("%w: image exceeds %d bytes", service.ErrInvalidInput, s.maxImageBytes)
	}

	text, err = s.recognizer.RecognizeText(ctx, image)
	if err != nil {
		slog.Warn("ocr failed, no text extracted", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		text = ""
	}

	if s.storage != nil {
		imageURL, err = s.storage.UploadFile(ctx, bytes.NewReader(image), s.storedName(filename))
		if err != nil {
			slog.Warn("can't store statement image", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			imageURL = ""
		}
	}

	return text, imageURL, nil
}

func (s *DetectionService) storedName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("statement_%s_%s%s", s.now().UTC().Format("20060102T150405"), uuid.NewString()[:8], ext)
}

func (s *DetectionService) logActivity(ctx context.Context, userID int64, action model.ActivityAction, details map[string]any) {
	if userID <= 0 {
		return
	}
	service.LogActivity(ctx, s.repo, userID, action, details)
}
