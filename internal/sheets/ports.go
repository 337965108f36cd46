package sheets

import (
	"context"

	"paybot/internal/core"
)

// MirrorWriter is the outbound port for the operator-facing ledger copy.
// The sheet is a passive mirror: the SQLite store stays authoritative and
// the audit engine never reads from here.
type MirrorWriter interface {
	AppendPayment(ctx context.Context, rec core.PaymentRecord) error
}
