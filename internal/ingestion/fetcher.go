// Package ingestion implements the streaming pipeline's ingester task:
// consuming push notifications, deduplicating signatures, and fetching full
// confirmed transactions with retry, grounded on the teacher's
// internal/ingestion retry/runner conventions but rewritten around the
// dedup+linear-backoff rules this system requires instead of the teacher's
// exponential backfill policy.
package ingestion

import (
	"context"
	"errors"
	"time"

	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/logging"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/observability"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/solana"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/swap"
)

// fetchInitialDelay absorbs propagation lag between a logs notification and
// the transaction becoming fetchable at the subscribed commitment.
const fetchInitialDelay = 500 * time.Millisecond

// retryBackoff is the fixed linear backoff schedule: 1s, 2s, 3s.
var retryBackoff = []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}

// ErrChannelClosed names the fatal condition of the output channel's
// consumer having exited. Fetcher.Run cannot detect that condition (see
// Run) and never returns this error itself.
var ErrChannelClosed = errors.New("ingestion: output channel consumer has exited")

// Fetcher consumes log notifications, deduplicates by signature, and
// fetches the full transaction for each surviving signature, forwarding
// results on an unbounded pipeline channel to the consumer task.
type Fetcher struct {
	rpc     solana.RPCClient
	dedup   *signatureDedup
	logger  *logging.Logger
	metrics *observability.Metrics

	sleep func(time.Duration) // overridable for tests
}

// NewFetcher constructs a Fetcher around an RPC client used to pull full
// transactions. logger may be nil, in which case a default is created.
// metrics may be nil, in which case counters are simply not incremented.
func NewFetcher(rpc solana.RPCClient, logger *logging.Logger, metrics *observability.Metrics) *Fetcher {
	if logger == nil {
		logger = logging.Default("fetch")
	}
	return &Fetcher{
		rpc:     rpc,
		dedup:   newSignatureDedup(),
		logger:  logger,
		metrics: metrics,
		sleep:   time.Sleep,
	}
}

// Run consumes notifications from in until it is closed or ctx is
// cancelled, sending every successfully fetched transaction on out. Send
// failure on out — the consumer has exited — is returned as
// ErrChannelClosed, a fatal condition for the caller to act on.
func (f *Fetcher) Run(ctx context.Context, in <-chan solana.LogNotification, out chan<- *solana.Transaction) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notif, ok := <-in:
			if !ok {
				return nil
			}
			f.incReceived()
			if err := f.handle(ctx, notif, out); err != nil {
				return err
			}
		}
	}
}

func (f *Fetcher) handle(ctx context.Context, notif solana.LogNotification, out chan<- *solana.Transaction) error {
	sig, err := swap.ParseSignature(notif.Signature)
	if err != nil {
		f.logger.Warnf("dropping notification with unparseable signature %q: %v", notif.Signature, err)
		f.incDropped("unparseable")
		return nil
	}

	if f.dedup.Contains(sig) {
		f.logger.Debugf("duplicate notification for %s, dropping", sig)
		f.incDropped("duplicate")
		return nil
	}
	f.dedup.Add(sig)
	f.setDedupSize(f.dedup.Len())

	tx, err := f.fetchWithRetry(ctx, notif.Signature)
	if err != nil {
		f.logger.Warnf("fetch failed for %s after retries: %v", sig, err)
		f.incFetchError()
		return nil
	}
	f.incFetched()

	select {
	case out <- tx:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, signature string) (*solana.Transaction, error) {
	f.sleep(fetchInitialDelay)

	var lastErr error
	tx, err := f.rpc.GetTransaction(ctx, signature)
	if err == nil {
		return tx, nil
	}
	lastErr = err

	for _, backoff := range retryBackoff {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		f.sleep(backoff)
		f.incFetchRetry()

		tx, err = f.rpc.GetTransaction(ctx, signature)
		if err == nil {
			return tx, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// DedupSize reports the number of signatures currently tracked, for metrics
// and tests.
func (f *Fetcher) DedupSize() int { return f.dedup.Len() }

func (f *Fetcher) incReceived() {
	if f.metrics != nil {
		f.metrics.NotificationsReceived.Inc()
	}
}

func (f *Fetcher) incDropped(reason string) {
	if f.metrics != nil {
		f.metrics.NotificationsDropped.WithLabelValues(reason).Inc()
	}
}

func (f *Fetcher) incFetched() {
	if f.metrics != nil {
		f.metrics.TransactionsFetched.Inc()
	}
}

func (f *Fetcher) incFetchError() {
	if f.metrics != nil {
		f.metrics.FetchErrors.Inc()
	}
}

func (f *Fetcher) incFetchRetry() {
	if f.metrics != nil {
		f.metrics.FetchRetries.Inc()
	}
}

func (f *Fetcher) setDedupSize(n int) {
	if f.metrics != nil {
		f.metrics.DedupSetSize.Set(float64(n))
	}
}
