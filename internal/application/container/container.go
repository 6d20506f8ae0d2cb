// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"
	"time"

	"github.com/Faseeh100/orphancare-web/internal/application/fetch"
	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/application/listing"
	"github.com/Faseeh100/orphancare-web/internal/application/services"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/email"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/performance"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/security"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/session"
	"github.com/Faseeh100/orphancare-web/internal/presentation/site"
	"github.com/Faseeh100/orphancare-web/internal/presentation/templates"
	"github.com/Faseeh100/orphancare-web/pkg/config"
)

// Options are the settings the container is built from. Zero values for
// the injectable parts are filled from pkg/config.
type Options struct {
	APIBaseURL         string
	APITimeout         time.Duration
	FetchFlightTimeout time.Duration
	ValidateMaxElapsed time.Duration
	SubmitGuardTTL     time.Duration
	ConfirmTTL         time.Duration
	FormRatePerMinute  int
	CORSOrigins        []string
	Cookies            session.CookieOptions

	// Injectable parts; tests pass in-memory or discarding versions
	Logger   *logging.ChanneledLogger
	Sessions session.Provider
	Notifier email.Notifier
}

// DefaultOptions reads every setting from pkg/config
func DefaultOptions() Options {
	return Options{
		APIBaseURL:         config.APIBaseURL,
		APITimeout:         config.APITimeout,
		FetchFlightTimeout: config.FetchFlightTimeout,
		ValidateMaxElapsed: config.ValidateMaxElapsed,
		SubmitGuardTTL:     config.SubmitGuardTTL,
		ConfirmTTL:         config.ConfirmTTL,
		FormRatePerMinute:  config.FormRatePerMinute,
		CORSOrigins:        config.CORSOrigins,
		Cookies:            session.CookieOptions{Secure: config.CookieSecure, TTL: config.SessionTTL},
	}
}

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services (stateless singletons)
	ContentService *services.ContentService
	AdminService   *services.AdminService
	AuthService    *services.AuthService
	LeadService    *services.LeadService
	AuthGate       *services.AuthGate

	// Shared in-memory state, swept by the cleanup worker
	Fetcher       *fetch.Fetcher
	Guard         *forms.Guard
	Confirmations *listing.Confirmations

	// Infrastructure Dependencies
	Client      *api.Client
	Sessions    session.Provider
	Notifier    email.Notifier
	Renderer    *templates.Renderer
	Site        *site.Site
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker

	Options Options
}

// NewContainer creates and wires all singleton services
func NewContainer(opts Options) (*Container, error) {
	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = newLogger()
		if err != nil {
			return nil, err
		}
	}

	perfTracker := performance.NewTracker(nil)

	sessions := opts.Sessions
	if sessions == nil {
		var err error
		sessions, err = newSessionProvider(opts.Cookies, logger)
		if err != nil {
			return nil, err
		}
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = email.NewNotifier(email.Config{
			APIKey:   config.ResendAPIKey,
			To:       config.NotifyEmailTo,
			From:     config.NotifyEmailFrom,
			FromName: config.NotifyFromName,
		}, logger)
	}

	siteCopy, err := site.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load site copy: %w", err)
	}

	client := api.NewClient(api.Config{BaseURL: opts.APIBaseURL, Timeout: opts.APITimeout}, logger, perfTracker)
	fetcher := fetch.New(opts.FetchFlightTimeout, logger)

	contentService := services.NewContentService(client, fetcher, logger)
	renderer, err := templates.New(contentService.AssetOrigin())
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Container{
		ContentService: contentService,
		AdminService:   services.NewAdminService(client, contentService, logger),
		AuthService:    services.NewAuthService(client, logger),
		LeadService:    services.NewLeadService(client, notifier, logger),
		AuthGate:       services.NewAuthGate(client, opts.ValidateMaxElapsed, logger, perfTracker),

		Fetcher:       fetcher,
		Guard:         forms.NewGuard(opts.SubmitGuardTTL),
		Confirmations: listing.NewConfirmations(opts.ConfirmTTL),

		Client:      client,
		Sessions:    sessions,
		Notifier:    notifier,
		Renderer:    renderer,
		Site:        siteCopy,
		Logger:      logger,
		PerfTracker: perfTracker,

		Options: opts,
	}, nil
}

func newLogger() (*logging.ChanneledLogger, error) {
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)
	logger, err := logging.NewChanneledLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// newSessionProvider picks the store named by SESSION_STORE. Without a
// configured secret the cookie store signs with a per-process key, so
// sessions end on restart.
func newSessionProvider(cookies session.CookieOptions, logger *logging.ChanneledLogger) (session.Provider, error) {
	if config.SessionStore == "memory" {
		logger.Startup().Info("Using in-memory session store")
		return session.NewMemoryProvider(cookies), nil
	}

	secret := config.SessionSecret
	if secret == "" {
		key, err := security.RandomKey(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		secret = key
		logger.Startup().Warn("SESSION_SECRET not set, using a temporary key; sessions will not survive a restart")
	}
	return session.NewCookieProvider(secret, cookies), nil
}
