// Package storage persists payment records and the creator/app name
// registries.
package storage

import (
	"context"

	"paybot/internal/core"
)

// Store is the narrow query interface the core reads and writes through.
//
// Payment records are append-only; there is no update or delete. Registry
// inserts are insert-or-ignore: the UNIQUE constraints in the store are the
// sole correctness backstop against concurrent duplicate ensures.
type Store interface {
	// AppendPayment inserts a new immutable record and returns its id.
	AppendPayment(ctx context.Context, rec core.PaymentRecord) (int64, error)

	// GetPayment returns a single record by id, core.ErrNotFound if absent.
	GetPayment(ctx context.Context, id int64) (core.PaymentRecord, error)

	// QueryPayments returns all records whose date falls in [start, end)
	// and whose submitter/app contain the given substrings
	// case-insensitively. An empty filter string matches everything. No
	// ordering is guaranteed; presentation ordering belongs to the audit
	// engine.
	QueryPayments(ctx context.Context, start, end core.Date, userFilter, appFilter string) ([]core.PaymentRecord, error)

	// EnsureCreator / EnsureApp insert a registry name if it is not
	// already present, reporting whether a new entry was created.
	// Duplicate detection is case-sensitive exact match.
	EnsureCreator(ctx context.Context, name string) (bool, error)
	EnsureApp(ctx context.Context, name string) (bool, error)

	// ListCreators / ListApps return the registry names sorted ascending.
	ListCreators(ctx context.Context) ([]string, error)
	ListApps(ctx context.Context) ([]string, error)

	// ListUnmirrored returns ids of records not yet mirrored to the
	// external sheet, oldest first, up to limit.
	ListUnmirrored(ctx context.Context, limit int) ([]int64, error)

	// MarkMirrored flags a record as mirrored.
	MarkMirrored(ctx context.Context, id int64) error

	Close() error
}
