package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/talentgate/forms-service/internal/config"
	"github.com/talentgate/forms-service/internal/forms"
)

func proxyServer(t *testing.T, configured bool, syncHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := proxyStatusResponse{Success: true}
		resp.Data.Configured = configured
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})
	if syncHandler != nil {
		mux.HandleFunc("POST /sync/", syncHandler)
	}
	return httptest.NewServer(mux)
}

func proxyClientFor(base string) *ProxyClient {
	return NewProxyClient(config.SheetsConfig{Mode: "proxy", ProxyBase: base}, zap.NewNop())
}

func TestProxyClient_Configured(t *testing.T) {
	t.Parallel()

	srv := proxyServer(t, true, nil)
	defer srv.Close()

	assert.True(t, proxyClientFor(srv.URL).Configured())
}

func TestProxyClient_NotConfigured(t *testing.T) {
	t.Parallel()

	srv := proxyServer(t, false, nil)
	defer srv.Close()

	assert.False(t, proxyClientFor(srv.URL).Configured())
}

func TestProxyClient_Configured_BackendDown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	assert.False(t, proxyClientFor(srv.URL).Configured())
}

func TestProxyClient_AppendRow_PostsSubmissionFields(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotFields map[string]any
	srv := proxyServer(t, true, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotFields))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(proxySyncResponse{Success: true, Synced: true}))
	})
	defer srv.Close()

	c := proxyClientFor(srv.URL)
	ok := c.AppendRow(context.Background(), AppendRequest{
		Sheet:    SheetNewsletter,
		Endpoint: "newsletter",
		Fields:   forms.NewsletterSubscription{Email: "sub@example.com"},
	})

	require.True(t, ok)
	assert.Equal(t, "/sync/newsletter", gotPath)
	assert.Equal(t, "sub@example.com", gotFields["email"])
}

func TestProxyClient_AppendRow_BackendReportsNotSynced(t *testing.T) {
	t.Parallel()

	srv := proxyServer(t, true, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(proxySyncResponse{Success: true, Synced: false, Error: "sheet tab missing"})
	})
	defer srv.Close()

	c := proxyClientFor(srv.URL)
	assert.False(t, c.AppendRow(context.Background(), AppendRequest{Sheet: SheetContacts, Endpoint: "contact"}))
}

func TestProxyClient_AppendRow_NotConfiguredShortCircuits(t *testing.T) {
	t.Parallel()

	srv := proxyServer(t, false, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("sync endpoint must not be called when the backend is unconfigured")
	})
	defer srv.Close()

	c := proxyClientFor(srv.URL)
	assert.False(t, c.AppendRow(context.Background(), AppendRequest{Sheet: SheetContacts, Endpoint: "contact"}))
}
