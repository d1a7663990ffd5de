// Package predictor is the HTTP client for the remote tennis prediction service.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/models"
)

const bodyExcerptLimit = 512

// Predictor fetches head-to-head win probabilities
type Predictor interface {
	Predict(ctx context.Context, category models.Category, player1, player2 string) (*models.RemotePrediction, error)
}

// Client calls POST {base}/predict/{category}
type Client struct {
	transport *RateLimitedTransport
	cache     *PredictionCache
	baseURL   string
	apiKey    string
	timeout   time.Duration
	log       *logger.MatchLogger
	now       func() time.Time
}

type predictRequest struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

type predictResponse struct {
	Player1WinProbability *float64 `json:"player1_win_probability"`
}

// NewClient creates a prediction client from configuration
func NewClient(cfg *config.PredictorConfig, log *logrus.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	tc := DefaultTransportConfig()
	tc.Timeout = timeout
	tc.MaxRetries = cfg.RetryAttempts
	if cfg.RateLimit > 0 {
		tc.RateLimit = cfg.RateLimit
	}

	return &Client{
		transport: NewRateLimitedTransport(tc, log),
		cache:     NewPredictionCache(time.Duration(cfg.CacheTTLSeconds)*time.Second, cfg.CacheMaxSize),
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		apiKey:    cfg.APIKey,
		timeout:   timeout,
		log:       logger.NewMatchLogger(log),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Predict returns the probability that player1 beats player2 in category
func (c *Client) Predict(ctx context.Context, category models.Category, player1, player2 string) (*models.RemotePrediction, error) {
	player1, player2 = strings.TrimSpace(player1), strings.TrimSpace(player2)
	if player1 == "" || player2 == "" {
		return nil, fmt.Errorf("%w: both player names are required", models.ErrInvalidInput)
	}
	if player1 == player2 {
		return nil, fmt.Errorf("%w: players must differ", models.ErrInvalidInput)
	}
	if _, err := models.ParseCategory(string(category)); err != nil {
		return nil, err
	}

	key := CacheKey{Category: category, Player1: player1, Player2: player2}
	if cached, ok := c.cache.Get(key); ok {
		c.recordServed(category, player1, player2, cached.Player1WinProbability, true, 0)
		return cached, nil
	}

	start := time.Now()
	prediction, err := c.fetch(ctx, category, player1, player2)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, prediction)
	c.recordServed(category, player1, player2, prediction.Player1WinProbability, false, time.Since(start))
	return prediction, nil
}

func (c *Client) fetch(ctx context.Context, category models.Category, player1, player2 string) (*models.RemotePrediction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(predictRequest{Player1: player1, Player2: player2})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		headers["X-API-Key"] = c.apiKey
	}

	url := fmt.Sprintf("%s/predict/%s", c.baseURL, category)
	resp, err := c.transport.Post(ctx, url, "application/json", bytes.NewReader(body), headers)
	if err != nil {
		metrics.RecordPredictorError(string(category), "network")
		return nil, fmt.Errorf("%w: connection to prediction service failed: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordPredictorError(string(category), "network")
		return nil, fmt.Errorf("%w: reading prediction response: %v", models.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.RecordPredictorError(string(category), "http_status")
		return nil, fmt.Errorf("%w: prediction service returned status %d: %s", models.ErrUpstream, resp.StatusCode, excerpt(raw))
	}

	var decoded predictResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		metrics.RecordPredictorError(string(category), "decode")
		return nil, fmt.Errorf("%w: malformed prediction response: %v", models.ErrUpstream, err)
	}
	if decoded.Player1WinProbability == nil {
		metrics.RecordPredictorError(string(category), "decode")
		return nil, fmt.Errorf("%w: prediction response missing player1_win_probability", models.ErrUpstream)
	}
	p := *decoded.Player1WinProbability
	if p < 0 || p > 1 {
		metrics.RecordPredictorError(string(category), "decode")
		return nil, fmt.Errorf("%w: probability %v outside [0, 1]", models.ErrUpstream, p)
	}

	return &models.RemotePrediction{
		Category:              category,
		Player1:               player1,
		Player2:               player2,
		Player1WinProbability: p,
		Raw:                   json.RawMessage(raw),
		FetchedAt:             c.now(),
	}, nil
}

func (c *Client) recordServed(category models.Category, player1, player2 string, p float64, cacheHit bool, latency time.Duration) {
	metrics.RecordPrediction(string(category), cacheHit, latency.Seconds())
	metrics.UpdatePredictorCacheHitRatio(c.cache.HitRatio())
	c.log.LogRemotePrediction(string(category), player1, player2, p, cacheHit, float64(latency.Milliseconds()))
}

// Close releases the underlying transport
func (c *Client) Close() error {
	return c.transport.Close()
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > bodyExcerptLimit {
		return s[:bodyExcerptLimit] + "..."
	}
	return s
}
