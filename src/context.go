package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/contre95/neteaselyrics/src/features/config"
	"github.com/contre95/neteaselyrics/src/features/logging"
	"github.com/contre95/neteaselyrics/src/features/lyrics"
	"github.com/contre95/neteaselyrics/src/features/metrics"
	"github.com/contre95/neteaselyrics/src/infra/artwork"
	"github.com/contre95/neteaselyrics/src/infra/providers"
)

// application holds the services shared by every command.
type application struct {
	config   *config.Manager
	recorder *metrics.Recorder
	lyrics   *lyrics.Service
	artwork  *artwork.Service
}

type providerFactory func(cfg *config.Manager, client *http.Client, recorder *metrics.Recorder) []lyrics.LyricsProvider

type commandContext struct {
	configFlag *string
	providers  providerFactory

	appOnce sync.Once
	app     *application
	appErr  error
}

func newCommandContext(configFlag *string, providers providerFactory) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		providers:  providers,
	}
}

func defaultProviders(cfg *config.Manager, client *http.Client, recorder *metrics.Recorder) []lyrics.LyricsProvider {
	c := cfg.Get()
	netease := providers.NewNetEaseProvider(c.ProviderEnabled(providers.NetEaseName),
		providers.WithHTTPClient(client),
		providers.WithUserAgent(c.HTTP.UserAgent),
		providers.WithTimeout(httpTimeout(c)),
		providers.WithRecorder(recorder),
	)
	cfg.OnUpdate(func(c *config.Config) {
		netease.Configure(c.HTTP.UserAgent, httpTimeout(c))
	})
	return []lyrics.LyricsProvider{netease}
}

// httpTimeout bounds each outbound request.
func httpTimeout(c *config.Config) time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

func (c *commandContext) ensureApp() (*application, error) {
	c.appOnce.Do(func() {
		path := strings.TrimSpace(*c.configFlag)
		if path == "" {
			path = "config.yaml"
		}
		cfgManager, err := config.Load(path)
		if err != nil {
			c.appErr = fmt.Errorf("failed to load config: %w", err)
			return
		}

		logger, handler := logging.SetupLogger(os.Stderr, cfgManager.Get().Logger)
		slog.SetDefault(logger)
		cfgManager.OnUpdate(func(cfg *config.Config) {
			handler.SetLevel(logging.ParseLevel(cfg.Logger.Level))
		})

		client := &http.Client{}
		recorder := metrics.NewRecorder()

		c.app = &application{
			config:   cfgManager,
			recorder: recorder,
			lyrics:   lyrics.NewService(c.providers(cfgManager, client, recorder), cfgManager, recorder),
			artwork:  artwork.NewService(cfgManager, client),
		}
		slog.Debug("Application initialized", "config", path)
	})
	return c.app, c.appErr
}

// providerName resolves the --provider flag, defaulting to the first
// enabled provider.
func (a *application) providerName(flag string) string {
	if flag != "" {
		return flag
	}
	return a.lyrics.DefaultProvider()
}
