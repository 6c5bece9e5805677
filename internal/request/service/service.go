// Package service implements the site request approval workflow: visitors
// submit requests for new sites, administrators approve or reject them, and
// approval provisions the site through the site provisioner.
package service

import (
	"context"
	"log/slog"

	"siteflow/internal/audit"
	"siteflow/internal/request/metrics"
	"siteflow/internal/request/tracer"
)

// SiteConfig controls how approved site names map to public addresses.
type SiteConfig struct {
	// BaseDomain is the domain sites are provisioned under.
	BaseDomain string
	// Subdirectory provisions sites as BaseDomain/name/ instead of
	// name.BaseDomain.
	Subdirectory bool
}

// AddressFor derives the (domain, path) pair an approved name would occupy.
func (c SiteConfig) AddressFor(name string) (domain, path string) {
	if c.Subdirectory {
		return c.BaseDomain, "/" + name + "/"
	}
	return name + "." + c.BaseDomain, "/"
}

// Service orchestrates the request lifecycle. All state lives behind the
// store interfaces; the service holds no mutable state of its own and is
// safe for concurrent use.
type Service struct {
	requests    RequestStore
	identities  IdentityStore
	provisioner SiteProvisioner
	notifier    Notifier
	site        SiteConfig
	adminEmail  string

	tx      StoreTx
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	audit   *audit.Publisher
}

// New creates the workflow service. Ambient collaborators (logger, metrics,
// tracer, transactions, notifications) are supplied through options.
func New(requests RequestStore, identities IdentityStore, provisioner SiteProvisioner, site SiteConfig, opts ...Option) *Service {
	s := &Service{
		requests:    requests,
		identities:  identities,
		provisioner: provisioner,
		site:        site,
		tx:          newInMemoryStoreTx(),
		logger:      slog.Default(),
		tracer:      tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// notify delivers a notification outside the transaction boundary.
// Delivery failures are logged, never surfaced: a lost email must not
// undo a committed transition.
func (s *Service) notify(ctx context.Context, to, subject, body string) {
	if s.notifier == nil || to == "" {
		return
	}
	if err := s.notifier.Send(ctx, to, subject, body); err != nil {
		s.logger.WarnContext(ctx, "notification delivery failed",
			"to", to,
			"subject", subject,
			"error", err,
		)
	}
}

// emitAudit records the event in the audit trail; persistence failures are
// logged and swallowed so the workflow outcome stands.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}

func renderAddress(domain, path string) string {
	if path == "/" || path == "" {
		return domain
	}
	return domain + path
}
