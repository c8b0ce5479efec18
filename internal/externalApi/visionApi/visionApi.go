package visionApi

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/sebastiangueler-commits/cARTE/utils"
	"google.golang.org/api/option"
	"google.golang.org/api/vision/v1"
)

const documentTextDetection = "DOCUMENT_TEXT_DETECTION"

var ErrEmptyImage = errors.New("error empty image")

type VisionApi struct {
	srv           *vision.Service
	languageHints []string
}

func New(ctx context.Context, cfg *config.Config) *VisionApi {
	api, err := NewWithOptions(ctx, cfg, option.WithCredentialsFile(cfg.OCR.CredentialsFile))
	if err != nil {
		slog.Error("failed on vision.NewService")
		panic(err)
	}
	return api
}

func NewWithOptions(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*VisionApi, error) {
	srv, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &VisionApi{srv: srv, languageHints: cfg.OCR.LanguageHints}, nil
}

// RecognizeText returns the full text found on the image. An image without text gives an empty string.
func (a *VisionApi) RecognizeText(ctx context.Context, image []byte) (_ string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "VisionApi.RecognizeText"

	slog.Debug("RecognizeText start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("size", len(image)))
	defer func() {
		if err != nil {
			slog.Error("RecognizeText failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if len(image) == 0 {
		return "", ErrEmptyImage
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []*vision.Feature{{Type: documentTextDetection}},
			ImageContext: &vision.ImageContext{
				LanguageHints: a.languageHints,
			},
		}},
	}

	resp, err := a.srv.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", err
	}

	if len(resp.Responses) == 0 {
		return "", nil
	}

	annotation := resp.Responses[0]
	if annotation.Error != nil && annotation.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error %d: %s", annotation.Error.Code, annotation.Error.Message)
	}

	var text string
	switch {
	case annotation.FullTextAnnotation != nil:
		text = annotation.FullTextAnnotation.Text
	case len(annotation.TextAnnotations) > 0:
		text = annotation.TextAnnotations[0].Description
	}

	slog.Debug("RecognizeText completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("chars", len(text)))

	return strings.TrimSpace(text), nil
}
