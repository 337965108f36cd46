// Package services orchestrates submissions and audits across the store,
// the registry and the mirror queue.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paybot/internal/amqp"
	"paybot/internal/audit"
	"paybot/internal/core"
	"paybot/internal/metrics"
	"paybot/internal/registry"
	"paybot/internal/storage"
)

// MirrorPublisher is the async side-channel for freshly appended records.
type MirrorPublisher interface {
	PublishPaymentMirror(ctx context.Context, id int64) error
}

type PaymentService struct {
	store     storage.Store
	registry  *registry.Registry
	engine    *audit.Engine
	publisher MirrorPublisher
}

// NewPaymentService wires the service. publisher may be nil; submissions
// then skip the mirror message and rely on the worker's catch-up scan.
func NewPaymentService(store storage.Store, reg *registry.Registry, publisher MirrorPublisher) *PaymentService {
	return &PaymentService{
		store:     store,
		registry:  reg,
		engine:    audit.NewEngine(store),
		publisher: publisher,
	}
}

// Submit validates and persists one payment submission. The creator is
// auto-registered; the app must already be a registry entry. Validation
// failures happen before any write, so no partial record is ever persisted.
func (s *PaymentService) Submit(ctx context.Context, sub core.Submission) (int64, error) {
	rec, err := sub.Record()
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return 0, err
	}

	if !s.registry.HasApp(rec.AppName) {
		// The cache may trail a concurrent add by one write; re-read
		// before rejecting.
		if err := s.registry.Refresh(ctx); err != nil {
			metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
			return 0, fmt.Errorf("refresh registry: %w", err)
		}
		if !s.registry.HasApp(rec.AppName) {
			metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return 0, fmt.Errorf("app %q: %w", rec.AppName, core.ErrUnknownApp)
		}
	}

	if _, err := s.registry.EnsureCreator(ctx, rec.CreatorName); err != nil {
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return 0, fmt.Errorf("register creator: %w", err)
	}

	id, err := s.store.AppendPayment(ctx, rec)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return 0, fmt.Errorf("save payment: %w", err)
	}

	// Mirror publish is best-effort: the record is durable either way and
	// the worker's catch-up scan picks up anything missed here.
	if s.publisher != nil {
		if err := s.publisher.PublishPaymentMirror(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish mirror message",
				"id", id, "error", err)
		}
	}

	metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return id, nil
}

// Audit parses the period token, runs the aggregation and renders the
// report. A failed audit returns nothing partial.
func (s *PaymentService) Audit(ctx context.Context, userFilter, appFilter, periodToken string) (audit.Report, string, error) {
	started := time.Now()

	period, err := core.ParsePeriod(periodToken)
	if err != nil {
		metrics.AuditsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return audit.Report{}, "", err
	}

	report, err := s.engine.Run(ctx, core.AuditQuery{
		User:   userFilter,
		App:    appFilter,
		Period: period,
	})
	if err != nil {
		metrics.AuditsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return audit.Report{}, "", err
	}

	metrics.AuditsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.AuditDuration.Observe(time.Since(started).Seconds())
	return report, audit.Format(report), nil
}

// AddCreator and AddApp are the explicit registry additions behind the
// /addcreator and /addapp commands.
func (s *PaymentService) AddCreator(ctx context.Context, name string) (bool, error) {
	return s.registry.EnsureCreator(ctx, name)
}

func (s *PaymentService) AddApp(ctx context.Context, name string) (bool, error) {
	return s.registry.EnsureApp(ctx, name)
}

// Registry exposes the cached name lists for autocomplete and menus.
func (s *PaymentService) Registry() *registry.Registry {
	return s.registry
}

func (s *PaymentService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if closer, ok := s.publisher.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close payment service: %v", errs)
	}
	return nil
}

var _ MirrorPublisher = (*amqp.Client)(nil)
