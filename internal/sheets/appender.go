// Package sheets mirrors form submissions to an external spreadsheet.
//
// The mirror is a best-effort side channel: every failure path resolves to
// a logged false, never an error, so a sync can never fail the caller's
// primary operation.
package sheets

import (
	"context"

	"github.com/talentgate/forms-service/internal/forms"
)

// AppendRequest carries one submission to a destination tab. Direct
// clients use Sheet and Rows; the proxy client posts Fields to Endpoint.
// The sync service fills in all of them so either strategy can serve.
type AppendRequest struct {
	// Sheet is the destination tab name, e.g. "Contacts".
	Sheet string
	// Endpoint is the proxy route suffix for this variant, e.g. "contact".
	Endpoint string
	// Rows holds the positionally flattened cells.
	Rows []forms.Row
	// Fields is the typed submission, serialized as-is in proxy mode.
	Fields any
}

// Appender performs the remote append. Implementations must never return
// an error or panic outward; delivery failure is a logged false.
type Appender interface {
	// Configured reports whether a destination and credential are present.
	// Used as a fast pre-check to avoid a doomed network call.
	Configured() bool

	// AppendRow appends the request's rows to the destination. Returns
	// true only when the remote reports success.
	AppendRow(ctx context.Context, req AppendRequest) bool
}
