// Package config defines the wallet-monitor configuration file shape and
// validation, grounded on alanyoungcy-polymarketbot's internal/config
// loader/validate split, adapted for this system's monitor.*, logging.*,
// persistence.* and observability.* sections.
package config

import "time"

// Config is the root configuration structure, populated from a TOML file
// and then optionally overridden by SNIPER_* environment variables.
type Config struct {
	Monitor       MonitorConfig       `toml:"monitor"`
	Logging       LoggingConfig       `toml:"logging"`
	Persistence   PersistenceConfig   `toml:"persistence"`
	Observability ObservabilityConfig `toml:"observability"`
}

// MonitorConfig holds the watched address and node endpoints.
type MonitorConfig struct {
	TargetWallet           string   `toml:"target_wallet"`
	RPCEndpoints           []string `toml:"rpc_endpoints"`
	WebsocketEndpoint      string   `toml:"websocket_endpoint"`
	ConnectionTimeoutSecs  int      `toml:"connection_timeout_secs"`
	MaxReconnectAttempts   int      `toml:"max_reconnect_attempts"`
	UseConfirmedCommitment bool     `toml:"use_confirmed_commitment"`
}

// LoggingConfig holds the logging.level setting.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// PersistenceConfig selects the portfolio persistence backend.
type PersistenceConfig struct {
	Backend       string `toml:"backend"` // "file" (default) or "postgres"
	PortfolioPath string `toml:"portfolio_path"`
	PostgresDSN   string `toml:"postgres_dsn"`
	ClickhouseDSN string `toml:"clickhouse_dsn"` // optional analytics sink, component F
}

// ObservabilityConfig holds the Prometheus metrics HTTP server setting.
type ObservabilityConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// Commitment returns the commitment level named in push subscribe and
// fetch calls ("confirmed" or "finalized") per UseConfirmedCommitment.
func (m MonitorConfig) Commitment() string {
	if m.UseConfirmedCommitment {
		return "confirmed"
	}
	return "finalized"
}

// ConnectionTimeout returns ConnectionTimeoutSecs as a time.Duration.
func (m MonitorConfig) ConnectionTimeout() time.Duration {
	return time.Duration(m.ConnectionTimeoutSecs) * time.Second
}

// Defaults returns the built-in defaults applied before the TOML file and
// environment overrides are layered on top.
func Defaults() Config {
	return Config{
		Monitor: MonitorConfig{
			ConnectionTimeoutSecs:  30,
			MaxReconnectAttempts:   5,
			UseConfirmedCommitment: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Persistence: PersistenceConfig{
			Backend:       "file",
			PortfolioPath: "portfolio.json",
		},
		Observability: ObservabilityConfig{
			ListenAddr: ":9102",
		},
	}
}
