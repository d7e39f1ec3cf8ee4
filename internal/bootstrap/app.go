package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/phegonbank/webclient-go/config"
	"github.com/phegonbank/webclient-go/internal/adapters/filestore"
	"github.com/phegonbank/webclient-go/internal/adapters/redisstore"
	"github.com/phegonbank/webclient-go/internal/api"
	"github.com/phegonbank/webclient-go/internal/busy"
	"github.com/phegonbank/webclient-go/internal/gateway"
	"github.com/phegonbank/webclient-go/internal/observability/statsd"
	"github.com/phegonbank/webclient-go/internal/ports"
	"github.com/phegonbank/webclient-go/internal/session"
)

// App holds the assembled client. Construction wires the one cycle in the
// graph by hand: the gateway's 401 hook invalidates the session manager,
// which in turn watches the same store the gateway clears.
type App struct {
	Config  config.AppConfig
	Logger  *slog.Logger
	Store   ports.CredentialStore
	Prefs   *filestore.PrefsStore
	Busy    *busy.Broadcaster
	Gateway *gateway.Client
	Session *session.Manager
	Metrics *statsd.Client

	Auth         *api.AuthClient
	Users        *api.UserClient
	Accounts     *api.AccountClient
	Transactions *api.TransactionClient
	Audit        *api.AuditClient

	redisClient *redis.Client
}

// NewApp assembles the client from configuration.
func NewApp(cfg config.AppConfig, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	app := &App{Config: cfg, Logger: logger}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  "bankclient",
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create metrics client: %w", err)
	}
	app.Metrics = metrics

	if err := app.initStore(cfg); err != nil {
		_ = metrics.Close()
		return nil, err
	}

	app.Busy = busy.New(busy.WithMetrics(metrics))
	app.Gateway = gateway.New(gateway.Options{
		BaseURL: cfg.Client.BaseURL,
		Timeout: cfg.Client.Timeout,
		Store:   app.Store,
		Busy:    app.Busy,
		Logger:  logger,
		Metrics: metrics,
	})
	app.Session = session.New(session.Options{
		Store:        app.Store,
		PollInterval: cfg.Store.PollInterval,
		Logger:       logger,
	})
	// The gateway has already cleared the store by the time this fires;
	// Invalidate just makes the state flip immediate.
	app.Gateway.SetOnUnauthorized(app.Session.Invalidate)

	app.Auth = api.NewAuthClient(app.Gateway, app.Session)
	app.Users = api.NewUserClient(app.Gateway)
	app.Accounts = api.NewAccountClient(app.Gateway)
	app.Transactions = api.NewTransactionClient(app.Gateway)
	app.Audit = api.NewAuditClient(app.Gateway)

	return app, nil
}

func (a *App) initStore(cfg config.AppConfig) error {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.URI,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.redisClient = client
		a.Store = redisstore.New(redisstore.Options{
			Client: client,
			Prefix: cfg.Redis.KeyPrefix,
			Logger: a.Logger,
		})
		// Preferences stay file-based even with a redis credential store.
		dir, err := StateDir(cfg.Store)
		if err != nil {
			return err
		}
		a.Prefs = filestore.NewPrefsStore(dir)
		return nil

	case config.StoreBackendFile:
		fallthrough
	default:
		dir, err := StateDir(cfg.Store)
		if err != nil {
			return err
		}
		a.Store = filestore.New(filestore.Options{
			Dir:          dir,
			PollInterval: cfg.Store.PollInterval,
			Logger:       a.Logger,
		})
		a.Prefs = filestore.NewPrefsStore(dir)
		return nil
	}
}

// Run starts the session manager's resync loops and blocks until ctx is
// done.
func (a *App) Run(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "client starting",
		"base_url", a.Config.Client.BaseURL,
		"store_backend", string(a.Config.Store.Backend))
	return a.Session.Run(ctx)
}

// Close releases held connections.
func (a *App) Close() error {
	var firstErr error
	if a.Metrics != nil {
		if err := a.Metrics.Close(); err != nil {
			firstErr = err
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
