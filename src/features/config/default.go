package config

// Default returns a new Config with sensible default values.
func Default() *Config {
	return &Config{
		Telegram: Telegram{
			Enabled:      false,
			Token:        "",                                   // Can be obtained with https://t.me/BotFather
			AllowedUsers: []string{"<your_telegram_username>"}, // No @
			BotHandle:    "@<YourTelegramUserBot>",             // With @
		},
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		Server: Server{
			PrintRoutes: false,
			Port:        3535,
			Views:       "./views",
		},
		HTTP: HTTP{
			TimeoutSeconds: 10,
			UserAgent:      "neteaselyrics/1.0",
		},
		Lyrics: Lyrics{
			Providers: map[string]LyricsProvider{
				"netease": {
					Enabled: true,
				},
			},
			FetchConcurrency: 4,
		},
		Artwork: Artwork{
			Size:    300,
			Quality: 85,
		},
		Metrics: Metrics{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
