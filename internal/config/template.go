package config

import "os"

// defaultTemplate is written out when the configured path is missing or
// fails to parse, so an operator has a starting point to edit.
const defaultTemplate = `# Sniper wallet monitor configuration.

[monitor]
target_wallet = ""
rpc_endpoints = ["https://api.mainnet-beta.solana.com"]
websocket_endpoint = "wss://api.mainnet-beta.solana.com"
connection_timeout_secs = 30
max_reconnect_attempts = 5
use_confirmed_commitment = true

[logging]
level = "info"

[persistence]
backend = "file"
portfolio_path = "portfolio.json"
postgres_dsn = ""
clickhouse_dsn = ""

[observability]
listen_addr = ":9102"
`

// WriteDefault writes the default configuration template to path,
// overwriting whatever is there. Called on both a missing config file and
// an invalid one (spec.md §6), so it must not refuse to clobber an
// existing-but-broken file.
func WriteDefault(path string) error {
	return os.WriteFile(path, []byte(defaultTemplate), 0o644)
}
