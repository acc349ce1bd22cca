package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/postboard/internal/config"
	"github.com/five82/postboard/internal/logging"
	"github.com/five82/postboard/internal/metrics"
	"github.com/five82/postboard/internal/placeholder"
	"github.com/five82/postboard/internal/prefs"
	"github.com/five82/postboard/internal/query"
	"github.com/five82/postboard/internal/session"
	"github.com/five82/postboard/internal/ui"
)

// Options configure the postboard application. Non-zero fields override the
// config file.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty places prefs.toml beside the config file
	APIBase      string
	LogPath      string
	LogLevel     string
	RefreshEvery time.Duration
}

// Env holds the wired components. CLI subcommands use it without the TUI.
type Env struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *zap.Logger
	Metrics   *metrics.Collector
	Client    *placeholder.Client
	Session   *session.Session
}

// Setup loads configuration and preferences and builds the gateway, the
// session and the logger. Callers must Close the returned Env.
func Setup(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.APIBase != "" {
		cfg.APIBase = opts.APIBase
	}
	if opts.LogPath != "" {
		cfg.LogPath = opts.LogPath
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.RefreshEvery > 0 {
		cfg.RefreshEvery = opts.RefreshEvery
	}

	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = config.PrefsPath(opts.ConfigPath)
	}
	userPrefs, _ := prefs.Load(prefsPath)

	client, err := placeholder.NewClient(cfg.APIBase, placeholder.Options{
		Timeout:   cfg.RequestTimeout,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init gateway: %w", err)
	}

	params := query.DefaultParams()
	params.PageSize = cfg.PageSize
	params = userPrefs.ApplyTo(params)

	collector := metrics.New()
	sess, err := session.New(session.Options{
		Gateway:  client,
		Params:   params,
		Strategy: cfg.WriteStrategy,
		Logger:   logger,
		Recorder: collector,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init session: %w", err)
	}

	logger.Info("postboard configured",
		zap.String("api_base", client.BaseURL()),
		zap.String("write_strategy", string(cfg.WriteStrategy)),
		zap.Float64("rate_limit", cfg.RateLimit),
		zap.Duration("refresh_every", cfg.RefreshEvery))

	return &Env{
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Logger:    logger,
		Metrics:   collector,
		Client:    client,
		Session:   sess,
	}, nil
}

// Close flushes the logger.
func (e *Env) Close() error {
	// Sync on a file-less core reports EINVAL for stderr; nothing to act on.
	_ = e.Logger.Sync()
	return nil
}

// StartMetrics serves /metrics in the background when metrics_addr is set.
func (e *Env) StartMetrics(ctx context.Context) {
	addr := e.Config.MetricsAddr
	if addr == "" {
		return
	}
	go func() {
		if err := e.Metrics.Serve(ctx, addr, e.Logger); err != nil {
			e.Logger.Error("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
}

// Run boots the postboard TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	env.StartMetrics(ctx)
	StartRefresher(ctx, env.Session, env.Config.RefreshEvery, env.Logger)

	return ui.Run(ui.Options{
		Context:   ctx,
		Session:   env.Session,
		Prefs:     env.Prefs,
		PrefsPath: env.PrefsPath,
		LogPath:   env.Config.LogPath,
		Logger:    env.Logger,
	})
}
