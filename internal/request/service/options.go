package service

import (
	"log/slog"

	"siteflow/internal/audit"
	"siteflow/internal/request/metrics"
	"siteflow/internal/request/tracer"
)

// Option configures optional Service collaborators.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used for workflow spans.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithStoreTx sets the transaction runner. Defaults to an in-process
// serializer suited to the in-memory stores.
func WithStoreTx(tx StoreTx) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

// WithNotifier enables outbound notifications. Without one, transitions
// complete silently.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithAudit enables the audit trail for workflow actions.
func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) {
		s.audit = p
	}
}

// WithAdminEmail sets the address notified when a new request arrives.
func WithAdminEmail(addr string) Option {
	return func(s *Service) {
		s.adminEmail = addr
	}
}
