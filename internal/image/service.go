package image

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"adventure-server/internal/config"
)

// ErrImageGenerationFailed - ошибка при генерации изображения.
var ErrImageGenerationFailed = errors.New("image generation failed")

var (
	imageRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_image_requests_total",
			Help: "Total number of requests to the image generation API.",
		},
		[]string{"status"},
	)
	imageRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adventure_image_request_duration_seconds",
			Help:    "Histogram of image generation request durations.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Service generates an illustration for a scene prompt and returns the raw
// image bytes. The backing server exposes a single /generate endpoint that
// accepts a prompt and an aspect ratio.
type Service struct {
	logger            *zap.Logger
	client            *http.Client
	baseURL           string
	ratio             string
	promptStyleSuffix string
}

// apiRequest is the request body of the image server's /generate endpoint.
type apiRequest struct {
	Prompt string `json:"prompt"`
	Ratio  string `json:"ratio"`
}

// NewService creates a new image generation Service.
func NewService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if cfg.ImageServerBaseURL == "" {
		return nil, errors.New("image server base URL (IMAGE_SERVER_BASE_URL) is not configured")
	}
	return &Service{
		logger:            logger.Named("ImageService"),
		client:            &http.Client{Timeout: cfg.ImageServerTimeout},
		baseURL:           cfg.ImageServerBaseURL,
		ratio:             cfg.ImageRatio,
		promptStyleSuffix: cfg.PromptStyleSuffix,
	}, nil
}

// Generate renders an illustration for the given prompt. The configured style
// suffix is appended so every scene shares one visual style.
func (s *Service) Generate(ctx context.Context, prompt string) ([]byte, error) {
	log := s.logger.With(zap.Int("prompt_chars", len(prompt)))
	log.Info("Generating scene image...")

	fullPrompt := prompt + s.promptStyleSuffix
	log.Debug("Full prompt for image API", zap.String("prompt", fullPrompt))

	startTime := time.Now()
	data, err := s.callAPI(ctx, fullPrompt)
	imageRequestDuration.Observe(time.Since(startTime).Seconds())
	if err != nil {
		imageRequestsTotal.With(prometheus.Labels{"status": "error"}).Inc()
		log.Error("Image API call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrImageGenerationFailed, err)
	}
	if len(data) == 0 {
		imageRequestsTotal.With(prometheus.Labels{"status": "error"}).Inc()
		log.Error("Image API returned empty image data")
		return nil, fmt.Errorf("%w: API returned empty data", ErrImageGenerationFailed)
	}

	imageRequestsTotal.With(prometheus.Labels{"status": "success"}).Inc()
	log.Info("Image data received", zap.Int("size_bytes", len(data)))
	return data, nil
}

// callAPI POSTs the prompt to the image server and returns the raw bytes.
func (s *Service) callAPI(ctx context.Context, prompt string) ([]byte, error) {
	reqBodyBytes, err := json.Marshal(apiRequest{Prompt: prompt, Ratio: s.ratio})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	endpointURL := s.baseURL + "/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(reqBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/*")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	if readErr != nil {
		return nil, fmt.Errorf("failed to read response body: %w", readErr)
	}

	return bodyBytes, nil
}
