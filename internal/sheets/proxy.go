package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/talentgate/forms-service/internal/config"
)

// ProxyClient delegates the append to a local backend that performs the
// actual spreadsheet call and reports back {success, synced}.
type ProxyClient struct {
	base       string
	httpClient HTTPDoer
	logger     *zap.Logger
}

// NewProxyClient creates a ProxyClient for the configured backend base URL.
func NewProxyClient(cfg config.SheetsConfig, logger *zap.Logger) *ProxyClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ProxyClient{
		base:       strings.TrimRight(cfg.ProxyBase, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type proxyStatusResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Configured bool `json:"configured"`
	} `json:"data"`
}

type proxySyncResponse struct {
	Success bool   `json:"success"`
	Synced  bool   `json:"synced"`
	Error   string `json:"error,omitempty"`
}

// Configured asks the backend whether it holds a usable destination.
func (c *ProxyClient) Configured() bool {
	if c.base == "" {
		return false
	}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, c.base+"/status", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("sheet proxy status check failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close() //nolint:errcheck

	var status proxyStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		c.logger.Warn("sheet proxy status decode failed", zap.Error(err))
		return false
	}
	return status.Success && status.Data.Configured
}

// AppendRow posts the submission's fields to the variant endpoint and
// trusts the backend's synced flag. Every failure resolves to false.
func (c *ProxyClient) AppendRow(ctx context.Context, req AppendRequest) bool {
	if !c.Configured() {
		c.logger.Warn("sheet sync skipped: proxy backend not configured",
			zap.String("sheet", req.Sheet))
		return false
	}

	payload, err := json.Marshal(req.Fields)
	if err != nil {
		c.logger.Error("sheet sync failed: marshal fields", zap.String("sheet", req.Sheet), zap.Error(err))
		return false
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/sync/"+req.Endpoint, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("sheet sync failed: build request", zap.String("sheet", req.Sheet), zap.Error(err))
		return false
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("sheet sync failed: proxy request error",
			zap.String("sheet", req.Sheet), zap.Error(err))
		return false
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.logger.Warn("sheet sync rejected by proxy: credential lacks write permission (read-only key?)",
			zap.String("sheet", req.Sheet),
			zap.Int("status", resp.StatusCode))
		return false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("sheet sync failed: proxy non-success response",
			zap.String("sheet", req.Sheet),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return false
	}

	var result proxySyncResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Error("sheet sync failed: proxy response decode",
			zap.String("sheet", req.Sheet), zap.Error(err))
		return false
	}
	if !result.Success || !result.Synced {
		c.logger.Error("sheet sync failed: proxy reported failure",
			zap.String("sheet", req.Sheet),
			zap.String("error", result.Error))
		return false
	}

	c.logger.Info("sheet sync delivered via proxy", zap.String("sheet", req.Sheet))
	return true
}
