package main

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

// Config holds the defaults the flags fall back to. Values come from an
// optional config.hcl and REDDITOP_* environment variables.
type Config struct {
	APIBaseURL     string        `hcl:"api_base_url" env:"API_BASE_URL" default:"https://api.pullpush.io/reddit"`
	RequestTimeout time.Duration `hcl:"request_timeout" env:"REQUEST_TIMEOUT" default:"30s"`
	PageDelay      time.Duration `hcl:"page_delay" env:"PAGE_DELAY" default:"1s"`
	UserAgent      string        `hcl:"user_agent" env:"USER_AGENT" default:"redditop/1.0"`
	DatabasePath   string        `hcl:"database_path" env:"DATABASE_PATH"`
}

var (
	cfg  Config
	once sync.Once
)

func getConfig() Config {
	once.Do(func() {
		loader := aconfig.LoaderFor(&cfg, aconfig.Config{
			EnvPrefix:          "REDDITOP",
			SkipFlags:          true,
			AllowUnknownFields: true,
			Files:              []string{"./config.hcl"},
			FileDecoders: map[string]aconfig.FileDecoder{
				".hcl": aconfighcl.New(),
			},
		})

		if err := loader.Load(); err != nil {
			slog.Error("failed to load config", "err", err)
		}
	})

	return cfg
}
