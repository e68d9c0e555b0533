package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/talentgate/forms-service/internal/config"
	"github.com/talentgate/forms-service/internal/forms"
)

func directClientFor(t *testing.T, base string) *DirectClient {
	t.Helper()
	return NewDirectClient(config.SheetsConfig{
		Mode:          "direct",
		SpreadsheetID: "sheet-123",
		APIKey:        "key-abc",
		APIBase:       base,
	}, zap.NewNop())
}

func TestDirectClient_Configured(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		id   string
		key  string
		want bool
	}{
		{"both present", "sheet", "key", true},
		{"missing id", "", "key", false},
		{"missing key", "sheet", "", false},
		{"both missing", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := NewDirectClient(config.SheetsConfig{
				SpreadsheetID: tc.id,
				APIKey:        tc.key,
			}, zap.NewNop())
			assert.Equal(t, tc.want, c.Configured())
		})
	}
}

func TestDirectClient_AppendRow_Success(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery string
	var gotBody appendBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := directClientFor(t, srv.URL)
	ok := c.AppendRow(context.Background(), AppendRequest{
		Sheet: SheetContacts,
		Rows:  []forms.Row{{"2024-01-01T00:00:00.000Z", "A", "a@x.com", "", "", "hi"}},
	})

	require.True(t, ok)
	assert.Equal(t, "/sheet-123/values/Contacts:append", gotPath)
	assert.Contains(t, gotQuery, "valueInputOption=RAW")
	assert.Contains(t, gotQuery, "key=key-abc")
	require.Len(t, gotBody.Values, 1)
	assert.Equal(t, forms.Row{"2024-01-01T00:00:00.000Z", "A", "a@x.com", "", "", "hi"}, gotBody.Values[0])
}

func TestDirectClient_AppendRow_NotConfiguredSkipsNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewDirectClient(config.SheetsConfig{APIBase: srv.URL}, zap.NewNop())
	ok := c.AppendRow(context.Background(), AppendRequest{Sheet: SheetContacts})

	assert.False(t, ok)
	assert.Zero(t, calls.Load(), "unconfigured client must not touch the network")
}

func TestDirectClient_AppendRow_AuthorizationFailure(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		c := directClientFor(t, srv.URL)
		ok := c.AppendRow(context.Background(), AppendRequest{Sheet: SheetJobs})

		assert.False(t, ok, "status %d must resolve to false", status)
		srv.Close()
	}
}

func TestDirectClient_AppendRow_GenericFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := directClientFor(t, srv.URL)
	assert.False(t, c.AppendRow(context.Background(), AppendRequest{Sheet: SheetJobs}))
}

func TestDirectClient_AppendRow_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // refused connection

	c := directClientFor(t, srv.URL)
	assert.False(t, c.AppendRow(context.Background(), AppendRequest{Sheet: SheetNewsletter}))
}
