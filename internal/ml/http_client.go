package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HTTPClient implementa Regressor contra un servidor de inferencia remoto.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient construye un cliente apuntando a POST {baseURL}/predict.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *HTTPClient) Predict(ctx context.Context, row FeatureRow) (float64, error) {
	bodyBytes, err := json.Marshal(predictRequest{Rows: []FeatureRow{row}})
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(bodyBytes))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("model server error", zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody))
		return 0, fmt.Errorf("model http error: status=%d", resp.StatusCode)
	}

	var pr predictResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return 0, fmt.Errorf("unmarshal response: %w", err)
	}
	if pr.Error != "" {
		return 0, fmt.Errorf("model api error: %s", pr.Error)
	}
	if len(pr.Predictions) == 0 {
		return 0, fmt.Errorf("model empty response")
	}

	value := pr.Predictions[0]
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrInvalidPrediction
	}
	return value, nil
}

type predictRequest struct {
	Rows []FeatureRow `json:"rows"`
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
	Error       string    `json:"error,omitempty"`
}
