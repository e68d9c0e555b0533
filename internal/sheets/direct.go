package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/talentgate/forms-service/internal/config"
	"github.com/talentgate/forms-service/internal/forms"
)

// HTTPDoer is the subset of http.Client the sheet clients need.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DirectClient appends rows straight to the spreadsheet API, carrying the
// access key as a query parameter.
type DirectClient struct {
	cfg        config.SheetsConfig
	httpClient HTTPDoer
	logger     *zap.Logger
}

// NewDirectClient creates a DirectClient from the sheet destination config.
func NewDirectClient(cfg config.SheetsConfig, logger *zap.Logger) *DirectClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DirectClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Configured reports true iff both the spreadsheet ID and the API key are
// present.
func (c *DirectClient) Configured() bool {
	return c.cfg.SpreadsheetID != "" && c.cfg.APIKey != ""
}

type appendBody struct {
	Values []forms.Row `json:"values"`
}

// AppendRow performs a single append call. Not-configured short-circuits
// without network I/O; every failure resolves to false.
func (c *DirectClient) AppendRow(ctx context.Context, req AppendRequest) bool {
	if !c.Configured() {
		c.logger.Warn("sheet sync skipped: spreadsheet id or api key not configured",
			zap.String("sheet", req.Sheet))
		return false
	}

	endpoint := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=RAW&key=%s",
		c.cfg.APIBase,
		url.PathEscape(c.cfg.SpreadsheetID),
		url.PathEscape(req.Sheet),
		url.QueryEscape(c.cfg.APIKey),
	)

	payload, err := json.Marshal(appendBody{Values: req.Rows})
	if err != nil {
		c.logger.Error("sheet sync failed: marshal rows", zap.String("sheet", req.Sheet), zap.Error(err))
		return false
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("sheet sync failed: build request", zap.String("sheet", req.Sheet), zap.Error(err))
		return false
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("sheet sync failed: request error", zap.String("sheet", req.Sheet), zap.Error(err))
		return false
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.logger.Info("sheet sync delivered",
			zap.String("sheet", req.Sheet),
			zap.Int("rows", len(req.Rows)))
		return true
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// API keys grant read-only access to the sheets API; writes need an
		// OAuth credential. Call that out instead of a generic failure.
		c.logger.Warn("sheet sync rejected: credential lacks write permission (read-only key?)",
			zap.String("sheet", req.Sheet),
			zap.Int("status", resp.StatusCode))
		return false
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("sheet sync failed: non-success response",
			zap.String("sheet", req.Sheet),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return false
	}
}
