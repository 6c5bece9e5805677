package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"siteflow/internal/audit"
	"siteflow/internal/identity"
	"siteflow/internal/notifier"
	"siteflow/internal/platform/config"
	"siteflow/internal/platform/database"
	"siteflow/internal/platform/health"
	"siteflow/internal/platform/logger"
	requesthandler "siteflow/internal/request/handler"
	requestmetrics "siteflow/internal/request/metrics"
	"siteflow/internal/request/service"
	requeststore "siteflow/internal/request/store/request"
	"siteflow/internal/request/tracer"
	"siteflow/internal/site"
	adminmw "siteflow/pkg/platform/middleware/admin"
	requestmw "siteflow/pkg/platform/middleware/request"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New()

	log.Info("initializing siteflow",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"base_domain", cfg.Site.BaseDomain,
		"subdirectory", cfg.Site.Subdirectory,
	)

	pool, err := database.New(database.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	// Stores: Postgres when configured, in-memory otherwise.
	var (
		requests   service.RequestStore
		identities identity.Store
		sites      site.Store
		txOpt      service.Option
	)
	if pool != nil {
		requests = requeststore.NewPostgres(pool.DB())
		identities = identity.NewPostgres(pool.DB())
		sites = site.NewPostgres(pool.DB())
		txOpt = service.WithStoreTx(service.NewSQLStoreTx(pool.DB()))
		log.Info("using postgres stores")
	} else {
		requests = requeststore.NewInMemory()
		identities = identity.NewInMemory()
		sites = site.NewInMemory()
		txOpt = func(*service.Service) {}
		log.Info("using in-memory stores")
	}

	var notify service.Notifier
	if cfg.SMTP.Host != "" {
		notify = notifier.NewSMTP(notifier.SMTPConfig{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			From: cfg.SMTP.From,
		})
	} else {
		notify = notifier.NewLog(log)
	}

	auditTrail := audit.NewPublisher(
		audit.NewInMemoryStore(),
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	)
	defer auditTrail.Close()

	tr := tracer.Tracer(tracer.NewNoop())
	if cfg.TracingEnabled {
		tr = tracer.NewOTel()
	}

	provisioner := site.NewProvisioner(sites, log)
	identitySvc := identity.NewService(identities, log)
	requestSvc := service.New(
		requests,
		identities,
		provisioner,
		service.SiteConfig{BaseDomain: cfg.Site.BaseDomain, Subdirectory: cfg.Site.Subdirectory},
		service.WithLogger(log),
		service.WithMetrics(requestmetrics.New()),
		service.WithTracer(tr),
		service.WithNotifier(notify),
		service.WithAdminEmail(cfg.Admin.NotifyAddress),
		service.WithAudit(auditTrail),
		txOpt,
	)

	identityHandler := identity.NewHandler(identitySvc, log)
	requestHandler := requesthandler.NewHandler(requestSvc, log)
	siteHandler := site.NewHandler(provisioner, log)

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
	}

	router := chi.NewRouter()
	router.Use(requestmw.RequestID)
	router.Use(requestmw.Recovery(log))
	router.Use(requestmw.Logger(log))
	router.Use(requestmw.Timeout(cfg.RequestTimeout))

	healthHandler.Register(router)

	router.Group(func(r chi.Router) {
		r.Use(requestmw.BodyLimit(cfg.MaxBodyBytes))
		r.Use(requestmw.ContentTypeJSON)
		identityHandler.Register(r)
		requestHandler.Register(r)
	})

	if cfg.AdminToken != "" {
		router.Group(func(r chi.Router) {
			r.Use(adminmw.RequireAdminToken(cfg.AdminToken, log))
			identityHandler.RegisterAdmin(r)
			requestHandler.RegisterAdmin(r)
			siteHandler.RegisterAdmin(r)
		})
	} else {
		log.Warn("admin token not configured, admin routes disabled")
	}

	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting metrics server", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var errs []error
		errs = append(errs, srv.Shutdown(shutdownCtx))
		errs = append(errs, metricsSrv.Shutdown(shutdownCtx))
		if pool != nil {
			errs = append(errs, pool.Close())
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
