package visionApi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/vision/v1"
)

func newTestApi(t *testing.T, handler http.HandlerFunc) *VisionApi {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.OCR.LanguageHints = []string{"en", "es"}

	api, err := NewWithOptions(context.Background(), cfg,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return api
}

func TestRecognizeText(t *testing.T) {
	image := []byte{0x89, 'P', 'N', 'G'}

	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/images:annotate", r.URL.Path)

		req := vision.BatchAnnotateImagesRequest{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Requests, 1)
		assert.Equal(t, base64.StdEncoding.EncodeToString(image), req.Requests[0].Image.Content)
		assert.Equal(t, documentTextDetection, req.Requests[0].Features[0].Type)
		assert.Equal(t, []string{"en", "es"}, req.Requests[0].ImageContext.LanguageHints)

		_, _ = w.Write([]byte(`{"responses":[{"fullTextAnnotation":{"text":"AAPL 10 $150\nTSLA 5\n"}}]}`))
	})

	text, err := api.RecognizeText(context.Background(), image)
	require.NoError(t, err)
	assert.Equal(t, "AAPL 10 $150\nTSLA 5", text)
}

func TestRecognizeText_FallsBackToTextAnnotations(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responses":[{"textAnnotations":[{"description":"MSFT 3"},{"description":"MSFT"}]}]}`))
	})

	text, err := api.RecognizeText(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "MSFT 3", text)
}

func TestRecognizeText_NoText(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responses":[{}]}`))
	})

	text, err := api.RecognizeText(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRecognizeText_AnnotateError(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responses":[{"error":{"code":3,"message":"Bad image data."}}]}`))
	})

	_, err := api.RecognizeText(context.Background(), []byte("img"))
	assert.ErrorContains(t, err, "Bad image data.")
}

func TestRecognizeText_EmptyImage(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected request")
	})

	_, err := api.RecognizeText(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
}
