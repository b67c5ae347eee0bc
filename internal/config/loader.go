package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/swap"
)

// Load reads the TOML configuration file at path, merges it on top of the
// built-in defaults, applies SNIPER_* environment variable overrides, then
// validates the result. ErrConfig wraps every failure so the caller can
// treat startup config problems uniformly per the spec's ConfigError kind.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, &ErrConfig{Op: "decode", Err: err}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, &ErrConfig{Op: "validate", Err: err}
	}

	return &cfg, nil
}

// ErrConfig wraps a configuration error with the stage at which it occurred.
// It corresponds to spec.md's ConfigError kind: startup aborts before any
// pipeline task spawns.
type ErrConfig struct {
	Op  string
	Err error
}

func (e *ErrConfig) Error() string { return fmt.Sprintf("config %s: %v", e.Op, e.Err) }
func (e *ErrConfig) Unwrap() error { return e.Err }

// Validate applies the rules spec.md §6 requires: a nonempty RPC endpoint
// list, every RPC URL http(s), the websocket URL ws(s), and a parseable
// base58 target wallet address.
func (c *Config) Validate() error {
	var problems []string

	if len(c.Monitor.RPCEndpoints) == 0 {
		problems = append(problems, "monitor.rpc_endpoints must not be empty")
	}
	for _, endpoint := range c.Monitor.RPCEndpoints {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			problems = append(problems, fmt.Sprintf("monitor.rpc_endpoints: %q is not http(s)://", endpoint))
		}
	}

	ws := c.Monitor.WebsocketEndpoint
	if !strings.HasPrefix(ws, "ws://") && !strings.HasPrefix(ws, "wss://") {
		problems = append(problems, fmt.Sprintf("monitor.websocket_endpoint: %q is not ws(s)://", ws))
	}

	if _, err := swap.ParseAddress(c.Monitor.TargetWallet); err != nil {
		problems = append(problems, fmt.Sprintf("monitor.target_wallet: %v", err))
	}

	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level: unknown level %q", c.Logging.Level))
	}

	switch c.Persistence.Backend {
	case "", "file", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("persistence.backend: unknown backend %q", c.Persistence.Backend))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(problems, "; "))
}

// applyEnvOverrides reads well-known SNIPER_* environment variables and
// overwrites the corresponding Config fields when the variable is set and
// non-empty, letting operators inject endpoints/secrets without editing the
// TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Monitor.TargetWallet, "SNIPER_TARGET_WALLET")
	setStr(&cfg.Monitor.WebsocketEndpoint, "SNIPER_WEBSOCKET_ENDPOINT")
	setStringSlice(&cfg.Monitor.RPCEndpoints, "SNIPER_RPC_ENDPOINTS")
	setInt(&cfg.Monitor.ConnectionTimeoutSecs, "SNIPER_CONNECTION_TIMEOUT_SECS")
	setInt(&cfg.Monitor.MaxReconnectAttempts, "SNIPER_MAX_RECONNECT_ATTEMPTS")
	setBool(&cfg.Monitor.UseConfirmedCommitment, "SNIPER_USE_CONFIRMED_COMMITMENT")

	setStr(&cfg.Logging.Level, "SNIPER_LOG_LEVEL")

	setStr(&cfg.Persistence.Backend, "SNIPER_PERSISTENCE_BACKEND")
	setStr(&cfg.Persistence.PortfolioPath, "SNIPER_PORTFOLIO_PATH")
	setStr(&cfg.Persistence.PostgresDSN, "SNIPER_POSTGRES_DSN")
	setStr(&cfg.Persistence.ClickhouseDSN, "SNIPER_CLICKHOUSE_DSN")

	setStr(&cfg.Observability.ListenAddr, "SNIPER_METRICS_LISTEN_ADDR")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
