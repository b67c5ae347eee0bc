// Command sniper watches a single Solana wallet and reconciles every
// detected swap into a persistent portfolio, grounded on the teacher's
// cmd/ingest/main.go wiring style: flags/args parsed here, business logic
// lives in internal/ingestion and internal/consumer.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/config"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/consumer"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/ingestion"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/logging"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/observability"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/portfolio"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/solana"
	chstore "github.com/OFUZORCHUKWUEMEKE/Sniper/internal/storage/clickhouse"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/storage/jsonfile"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/storage/migrations"
	pgstore "github.com/OFUZORCHUKWUEMEKE/Sniper/internal/storage/postgres"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/swap"
)

// pipelineChannelCapacity approximates the spec's "unbounded" SPSC
// channel: large enough that the fetcher's send never blocks under
// ordinary load. It is smaller than the WS client's own 10000-deep
// notification buffer (internal/solana/ws_client.go).
const pipelineChannelCapacity = 4096

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	logger := logging.Default("sniper")

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Errorf("config load failed: %v", err)
		if writeErr := config.WriteDefault(configPath); writeErr != nil {
			logger.Errorf("failed to write default config to %s: %v", configPath, writeErr)
		} else {
			logger.Infof("wrote default config template to %s; edit it and rerun", configPath)
		}
		os.Exit(1)
	}

	logger = logging.New(os.Stdout, "sniper", logging.ParseLevel(cfg.Logging.Level))

	if err := run(cfg, logger); err != nil {
		logger.Errorf("fatal: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.New("")
	startMetricsServer(ctx, cfg.Observability.ListenAddr, logger)

	watched, err := swap.ParseAddress(cfg.Monitor.TargetWallet)
	if err != nil {
		return fmt.Errorf("parse target_wallet: %w", err)
	}

	rpc := buildRPCClient(cfg)

	wsClient, err := solana.NewWSClient(ctx, cfg.Monitor.WebsocketEndpoint, &solana.WSClientConfig{
		MaxReconnectAttempts: cfg.Monitor.MaxReconnectAttempts,
		Commitment:           cfg.Monitor.Commitment(),
		Metrics:              metrics,
	})
	if err != nil {
		return fmt.Errorf("connect websocket: %w", err)
	}
	defer wsClient.Close()

	store, closeStore, err := buildPortfolioStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build portfolio store: %w", err)
	}
	if closeStore != nil {
		defer closeStore()
	}

	engine, err := portfolio.NewEngine(store, func() int64 { return time.Now().Unix() })
	if err != nil {
		return fmt.Errorf("load portfolio: %w", err)
	}

	sink, closeSink := buildSignalSink(ctx, cfg, logger, metrics)
	if closeSink != nil {
		defer closeSink()
	}

	stats := engine.Snapshot()
	logger.Infof("loaded portfolio: %d active, %d closed, realized pnl %d",
		stats.ActivePositions, stats.ClosedPositions, stats.TotalRealizedPnL)
	logger.Infof("monitoring wallet %s at %s commitment", watched, cfg.Monitor.Commitment())

	ingester := ingestion.NewIngester(ingestion.IngesterOptions{
		WS:      wsClient,
		RPC:     rpc,
		Wallet:  cfg.Monitor.TargetWallet,
		Logger:  logging.New(os.Stdout, "fetch", logging.ParseLevel(cfg.Logging.Level)),
		Metrics: metrics,
	})

	cons := consumer.New(consumer.Options{
		Watched: watched,
		Engine:  engine,
		Sink:    sink,
		Logger:  logging.New(os.Stdout, "consumer", logging.ParseLevel(cfg.Logging.Level)),
		Metrics: metrics,
	})

	pipeline := make(chan *solana.Transaction, pipelineChannelCapacity)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ingestDone := make(chan error, 1)
	go func() { ingestDone <- ingester.Run(ctx, pipeline) }()

	consumeDone := make(chan error, 1)
	go func() { consumeDone <- cons.Run(ctx, pipeline) }()

	var runErr error
	remaining := 2
	select {
	case sig := <-sigCh:
		logger.Infof("received signal %v, shutting down", sig)
		cancel()
	case runErr = <-ingestDone:
		logger.Errorf("ingester task exited: %v", runErr)
		cancel()
		remaining--
	case runErr = <-consumeDone:
		logger.Errorf("consumer task exited: %v", runErr)
		cancel()
		remaining--
	}

	// Give the remaining task(s) a bounded window to observe cancellation
	// at their sleep/receive boundaries (spec.md §5's cancellation model)
	// before forcing the final save.
	shutdownTimer := time.NewTimer(10 * time.Second)
	defer shutdownTimer.Stop()
drain:
	for remaining > 0 {
		select {
		case <-ingestDone:
			remaining--
		case <-consumeDone:
			remaining--
		case <-shutdownTimer.C:
			logger.Warnf("shutdown timed out waiting for tasks to exit")
			break drain
		}
	}

	engine.SaveSafe(logger.Errorf)
	logger.Infof("final portfolio save complete, shutdown done")

	return runErr
}

func buildRPCClient(cfg *config.Config) solana.RPCClient {
	clients := make([]solana.RPCClient, 0, len(cfg.Monitor.RPCEndpoints))
	for _, endpoint := range cfg.Monitor.RPCEndpoints {
		clients = append(clients, solana.NewHTTPClient(endpoint,
			solana.WithCommitment(cfg.Monitor.Commitment()),
			solana.WithTimeout(cfg.Monitor.ConnectionTimeout()),
			// The fetcher (component B) owns retry policy per spec.md §4.B;
			// the HTTP client itself must not add a second, uncoordinated
			// retry loop underneath it.
			solana.WithMaxRetries(0),
		))
	}
	if len(clients) == 1 {
		return clients[0]
	}
	return solana.NewFailoverClient(clients...)
}

func buildPortfolioStore(ctx context.Context, cfg *config.Config) (portfolio.Store, func(), error) {
	switch cfg.Persistence.Backend {
	case "postgres":
		pool, err := pgstore.NewPool(ctx, cfg.Persistence.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return pgstore.NewPortfolioStore(pool), pool.Close, nil
	default:
		path := cfg.Persistence.PortfolioPath
		if path == "" {
			path = "portfolio.json"
		}
		return jsonfile.NewStore(path), nil, nil
	}
}

func buildSignalSink(ctx context.Context, cfg *config.Config, logger *logging.Logger, metrics *observability.Metrics) (consumer.SignalSink, func()) {
	if cfg.Persistence.ClickhouseDSN == "" {
		return nil, nil
	}
	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Persistence.ClickhouseDSN)
	if err != nil {
		logger.Warnf("clickhouse analytics sink disabled, migrate failed: %v", err)
		return nil, nil
	}
	sink := chstore.NewSignalSink(conn, logger.Warnf, metrics)
	return sink, func() { sink.Close() }
}

func startMetricsServer(ctx context.Context, addr string, logger *logging.Logger) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Infof("metrics server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warnf("metrics server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
}
