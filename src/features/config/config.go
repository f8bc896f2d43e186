package config

// Config holds the application configuration.
type Config struct {
	Telegram Telegram `yaml:"telegram"`
	Logger   Logger   `yaml:"logger"`
	Server   Server   `yaml:"server"`
	HTTP     HTTP     `yaml:"http"`
	Lyrics   Lyrics   `yaml:"lyrics"`
	Artwork  Artwork  `yaml:"artwork"`
	Metrics  Metrics  `yaml:"metrics"`
}

// Server hold the configuration for the Fiber server Config
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port" validate:"required,min=1,max=65535"`
	Views       string `yaml:"views"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" validate:"omitempty,oneof=json text logfmt"`
}

type Telegram struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token" validate:"required_if=Enabled true"`
	AllowedUsers []string `yaml:"allowedUsers"`
	BotHandle    string   `yaml:"bot_handle"`
}

// HTTP holds the settings of the outbound client used by lyrics providers.
type HTTP struct {
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"min=1,max=120"`
	UserAgent      string `yaml:"user_agent"`
}

// Lyrics holds the configuration for lyrics providers
type Lyrics struct {
	Providers        map[string]LyricsProvider `yaml:"providers"`
	FetchConcurrency int                       `yaml:"fetch_concurrency" validate:"min=1,max=10"`
}

// LyricsProvider holds configuration for individual lyric providers
type LyricsProvider struct {
	Enabled bool `yaml:"enabled"`
}

// Artwork holds configuration for artwork thumbnails
type Artwork struct {
	Size    int `yaml:"size" validate:"min=16,max=3000"`
	Quality int `yaml:"quality" validate:"min=1,max=100"`
}

// Metrics holds the configuration of the prometheus endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"omitempty,startswith=/"`
}

// ProviderEnabled reports whether the named lyrics provider is enabled.
// Providers missing from the configuration are disabled.
func (c *Config) ProviderEnabled(name string) bool {
	p, ok := c.Lyrics.Providers[name]
	return ok && p.Enabled
}
