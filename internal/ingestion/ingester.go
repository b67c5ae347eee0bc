package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/logging"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/observability"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/solana"
)

// ErrMaxReconnectAttempts is returned by Ingester.Run when the underlying
// push connection exhausts its reconnect budget — a fatal condition per
// spec.md §7 (MaxReconnectAttemptsExceeded).
var ErrMaxReconnectAttempts = errors.New("ingestion: max reconnect attempts exceeded")

// IngesterOptions configures the combined subscription+fetch task
// (components A and B), grounded on the teacher's RunnerOptions struct.
type IngesterOptions struct {
	WS      solana.WSClient
	RPC     solana.RPCClient
	Wallet  string // base58 watched address, named in the logsSubscribe filter
	Logger  *logging.Logger
	Metrics *observability.Metrics // optional
}

// Ingester wires the subscription manager (component A) to the
// transaction fetcher (component B): it subscribes once, then hands the
// resulting notification channel to a Fetcher whose fetched transactions
// are relayed to the caller-supplied output channel.
type Ingester struct {
	ws      solana.WSClient
	fetcher *Fetcher
	wallet  string
	logger  *logging.Logger
}

// NewIngester constructs an Ingester from opts. A nil Logger gets a
// default "[ingest]"-prefixed one.
func NewIngester(opts IngesterOptions) *Ingester {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default("ingest")
	}
	return &Ingester{
		ws:      opts.WS,
		fetcher: NewFetcher(opts.RPC, logger, opts.Metrics),
		wallet:  opts.Wallet,
		logger:  logger,
	}
}

// Run subscribes to logs mentioning the watched wallet and drives the
// fetcher until ctx is cancelled, the push connection's reconnect budget
// is exhausted, or the fetcher returns. Reconnect exhaustion is fatal per
// spec.md §7 and is returned as ErrMaxReconnectAttempts for process-level
// shutdown. A consumer that stops receiving blocks the fetcher's send
// until ctx is cancelled.
func (in *Ingester) Run(ctx context.Context, out chan<- *solana.Transaction) error {
	notifCh, err := in.ws.SubscribeLogs(ctx, solana.LogsFilter{Mentions: []string{in.wallet}})
	if err != nil {
		return fmt.Errorf("subscribe logs: %w", err)
	}
	in.logger.Infof("subscribed to logs mentioning %s", in.wallet)

	fatalCh := fatalErrorsOf(in.ws)

	fetchDone := make(chan error, 1)
	go func() { fetchDone <- in.fetcher.Run(ctx, notifCh, out) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-fetchDone:
		if err != nil && errors.Is(err, ErrChannelClosed) {
			return ErrChannelClosed
		}
		return err
	case err, ok := <-fatalCh:
		if !ok {
			// fatalCh is only closed alongside client shutdown; treat as
			// a plain context-style exit rather than surfacing a nil error.
			return nil
		}
		in.logger.Errorf("push connection fatal: %v", err)
		return ErrMaxReconnectAttempts
	}
}

// DedupSize exposes the fetcher's dedup set size for metrics.
func (in *Ingester) DedupSize() int { return in.fetcher.DedupSize() }

// fatalErrorsOf extracts a FatalErrors() channel from ws if it implements
// one (solana.WSClientImpl does); other implementations (e.g. a test
// double) simply never signal a fatal condition.
func fatalErrorsOf(ws solana.WSClient) <-chan error {
	type fatalSource interface {
		FatalErrors() <-chan error
	}
	if fs, ok := ws.(fatalSource); ok {
		return fs.FatalErrors()
	}
	return nil
}
