package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/kodhane/mevra/internal/artifact"
	"github.com/kodhane/mevra/internal/cache"
	"github.com/kodhane/mevra/internal/livefetch"
	"github.com/kodhane/mevra/internal/model"
	"github.com/kodhane/mevra/internal/preview"
	"github.com/kodhane/mevra/internal/search"
	"github.com/kodhane/mevra/internal/store"
	"github.com/kodhane/mevra/internal/util"
	"github.com/kodhane/mevra/internal/worker"
)

// loadConfig builds the effective configuration: defaults, then config file
// and MEVRA_* environment overrides, then flags applied by the commands.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("store.sqlite_path"); v != "" {
		cfg.Store.SQLitePath = v
	}
	if v := viper.GetString("live.base_url"); v != "" {
		cfg.Live.BaseURL = v
	}
	if v := viper.GetString("live.search_path"); v != "" {
		cfg.Live.SearchPath = v
	}
	if viper.IsSet("http.insecure_tls") {
		cfg.HTTP.InsecureTLS = viper.GetBool("http.insecure_tls")
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("live.respect_robots") {
		cfg.Live.RespectRobots = viper.GetBool("live.respect_robots")
	}
	if viper.IsSet("browser.enabled") {
		cfg.Browser.Enabled = viper.GetBool("browser.enabled")
	}
	if v := viper.GetString("browser.remote_url"); v != "" {
		cfg.Browser.RemoteURL = v
	}
	if v := viper.GetString("preview.provider"); v != "" {
		cfg.Preview.Provider = v
	}
	if v := viper.GetString("preview.model"); v != "" {
		cfg.Preview.Model = v
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Preview.APIKey = key
	}
	cfg.Output.Verbose = verbose

	return cfg
}

func newLogger(cfg *model.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildApp wires the full pipeline. The returned cleanup closes the store.
func buildApp(cfg *model.Config) (*search.Coordinator, func(), error) {
	logger := newLogger(cfg)

	localStore, err := store.NewSQLiteStore(cfg.Store.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	cleanup := func() {
		if cerr := localStore.Close(); cerr != nil {
			logger.Warn("close store", "error", cerr)
		}
	}

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	limiter := worker.NewLimiter(cfg.Live.RequestsPerSecond, cfg.Live.Burst)

	var robots *util.RobotsChecker
	if cfg.Live.RespectRobots {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	var fetchers []livefetch.Fetcher
	if cfg.Browser.Enabled {
		fetchers = append(fetchers, livefetch.NewFormFetcher(cfg.Live.BaseURL, cfg.Browser.RemoteURL, cfg.Browser.Headless, logger))
	}
	fetchers = append(fetchers,
		livefetch.NewDirectURLFetcher(cfg.Live.BaseURL, cfg.Live.SearchPath, cfg.HTTP, limiter),
		livefetch.NewSessionFetcher(cfg.Live.BaseURL, cfg.HTTP, limiter, robots),
	)
	chain := livefetch.NewChain(fetchers, cfg.Live.StrategyTimeout, logger)

	prober := artifact.NewProber(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.Concurrency.ProbeWorkers)
	finder := artifact.NewFinder(cfg.HTTP, limiter, prober, nil, logger)

	opts := search.Options{
		Store:  localStore,
		Live:   chain,
		Cache:  resultCache,
		Finder: finder,
		Config: cfg,
		Logger: logger,
	}

	summarizer, perr := preview.New(cfg.Preview)
	if perr != nil {
		logger.Warn("preview summarizer disabled", "error", perr)
	} else if summarizer != nil {
		opts.Summarizer = summarizer
	}

	return search.NewCoordinator(opts), cleanup, nil
}
