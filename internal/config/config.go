package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	AppName    = "feedsync"
	AppVersion = "1.0.0"
)

// DefaultUserAgent identifies feedsync to feed publishers.
var DefaultUserAgent = "Mozilla/5.0 (compatible; " + AppName + "/" + AppVersion + ")"

type Config struct {
	Addr    string `env:"FEEDSYNC_ADDR, default=:8080"`
	DataDir string `env:"FEEDSYNC_DATA_DIR, default=./data"`
	DBPath  string `env:"FEEDSYNC_DB_PATH"`

	// Which format to use for logging: either text or json
	LogLevel  string `env:"FEEDSYNC_LOG_LEVEL, default=info"`
	LogFormat string `env:"FEEDSYNC_LOG_FORMAT, default=text"`

	// Optional http(s) or socks5 proxy for outbound feed requests.
	ProxyURL  string `env:"FEEDSYNC_PROXY_URL"`
	UserAgent string `env:"FEEDSYNC_USER_AGENT"`

	// Zero disables the background scheduler; refreshes are then only
	// triggered through the API or CLI.
	RefreshInterval    time.Duration `env:"FEEDSYNC_REFRESH_INTERVAL, default=0s"`
	RefreshConcurrency int           `env:"FEEDSYNC_REFRESH_CONCURRENCY, default=4"`
	RefreshPerSecond   float64       `env:"FEEDSYNC_REFRESH_PER_SECOND, default=2"`

	NodeID int64 `env:"FEEDSYNC_NODE_ID, default=1"`
}

// Load reads the configuration from the environment.
func Load(ctx context.Context) (Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "feedsync.db")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RefreshConcurrency < 1 {
		cfg.RefreshConcurrency = 1
	}
	if cfg.NodeID < 0 || cfg.NodeID > 1023 {
		return Config{}, fmt.Errorf("node id %d out of range 0-1023", cfg.NodeID)
	}

	cfg.DBPath = filepath.Clean(cfg.DBPath)
	cfg.DataDir = filepath.Clean(cfg.DataDir)
	return cfg, nil
}
