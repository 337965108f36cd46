// Package worker mirrors persisted payment records to the external sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paybot/internal/amqp"
	"paybot/internal/metrics"
	"paybot/internal/sheets"
	"paybot/internal/storage"
)

// MirrorWorker consumes mirror messages and keeps the sheet copy of the
// payment log up to date.
type MirrorWorker struct {
	store     storage.Store
	writer    sheets.MirrorWriter
	batchSize int
}

func NewMirrorWorker(store storage.Store, writer sheets.MirrorWriter, batchSize int) *MirrorWorker {
	return &MirrorWorker{
		store:     store,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleMirrorMessage mirrors a single record. The record is fetched fresh
// from the store; the message only names it.
func (w *MirrorWorker) HandleMirrorMessage(ctx context.Context, msg *amqp.PaymentMirrorMessage) error {
	return w.mirror(ctx, msg.ID)
}

// ProcessPending mirrors records whose mirror message was lost. This is the
// backup path; under normal operation the queue keeps the sheet current.
func (w *MirrorWorker) ProcessPending(ctx context.Context) error {
	ids, err := w.store.ListUnmirrored(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unmirrored payments: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Catch-up scan found unmirrored payments", "count", len(ids))

	for _, id := range ids {
		if err := w.mirror(ctx, id); err != nil {
			// Keep going; the next scan retries whatever failed.
			slog.ErrorContext(ctx, "Failed to mirror payment", "id", id, "error", err)
		}
	}
	return nil
}

// RunCatchUp runs ProcessPending on a ticker until ctx is cancelled.
func (w *MirrorWorker) RunCatchUp(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Catch-up scan failed", "error", err)
			}
		}
	}
}

func (w *MirrorWorker) mirror(ctx context.Context, id int64) error {
	rec, err := w.store.GetPayment(ctx, id)
	if err != nil {
		metrics.MirroredTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("load payment %d: %w", id, err)
	}

	if err := w.writer.AppendPayment(ctx, rec); err != nil {
		metrics.MirroredTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("append payment %d to sheet: %w", id, err)
	}

	if err := w.store.MarkMirrored(ctx, id); err != nil {
		metrics.MirroredTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("mark payment %d mirrored: %w", id, err)
	}

	metrics.MirroredTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	slog.InfoContext(ctx, "Payment mirrored",
		"id", id,
		"creator", rec.CreatorName,
		"app", rec.AppName)
	return nil
}
