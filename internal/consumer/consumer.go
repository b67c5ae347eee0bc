// Package consumer implements the pipeline's second cooperative task:
// balance analysis, swap classification/detection, direction tagging,
// and portfolio reconciliation (components C, D, E, and the optional
// analytics sink F), grounded on the teacher's internal/orchestrator
// Options-struct convention.
package consumer

import (
	"context"
	"errors"
	"time"

	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/logging"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/observability"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/portfolio"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/solana"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/swap"
)

// SignalSink appends a classified SwapSignal for offline analysis. It
// must never block the caller beyond its own bounded timeout and must
// never propagate an error — internal/storage/clickhouse.SignalSink
// satisfies this.
type SignalSink interface {
	Append(signal swap.SwapSignal)
}

// Options configures a Consumer.
type Options struct {
	Watched swap.Address
	Engine  *portfolio.Engine
	Sink    SignalSink // optional; nil disables component F
	Logger  *logging.Logger
	Metrics *observability.Metrics // optional
}

// Consumer owns the balance analyzer and drives classification, swap
// detection, direction tagging, and portfolio reconciliation for every
// transaction received from the ingester. It is the exclusive owner of
// the Portfolio for the process lifetime (spec.md §5, §9).
type Consumer struct {
	analyzer *swap.Analyzer
	watched  swap.Address
	engine   *portfolio.Engine
	sink     SignalSink
	logger   *logging.Logger
	metrics  *observability.Metrics
}

// New constructs a Consumer from opts. A nil Logger gets a default
// "[consumer]"-prefixed one.
func New(opts Options) *Consumer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default("consumer")
	}
	return &Consumer{
		analyzer: swap.NewAnalyzer(opts.Watched),
		watched:  opts.Watched,
		engine:   opts.Engine,
		sink:     opts.Sink,
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// Run consumes transactions from in until it is closed or ctx is
// cancelled, processing each in program order: balance deltas, then
// classification, then (for Swap/MultiHopSwap) detection, direction,
// and portfolio mutation. A parse error on any single transaction is
// logged and that transaction is skipped; it never tears down the loop.
func (c *Consumer) Run(ctx context.Context, in <-chan *solana.Transaction) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case tx, ok := <-in:
			if !ok {
				return nil
			}
			c.handle(tx)
		}
	}
}

func (c *Consumer) handle(tx *solana.Transaction) {
	sig, err := swap.ParseSignature(tx.Signature)
	if err != nil {
		c.logger.Warnf("dropping transaction with unparseable signature %q: %v", tx.Signature, err)
		c.incParseError()
		return
	}

	deltas := c.analyzer.Deltas(tx.Meta)
	class := swap.Classify(deltas)
	c.incClassified(class)

	if !class.ShouldForward() {
		return
	}

	signal, ok := swap.Detect(deltas, class)
	if !ok {
		c.logger.Warnf("transaction %s classified %s but detection failed", sig, class)
		c.incParseError()
		return
	}
	signal.Signature = sig
	signal.BlockTime = tx.BlockTime
	signal.Trader = c.watched
	if tx.Message != nil {
		if venue, found := swap.GuessVenue(tx.Message.AccountKeys); found {
			signal.LikelyVenue = venue
		}
	}
	c.incSignalEmitted()

	if c.sink != nil {
		c.sink.Append(signal)
	}

	direction := swap.ClassifyDirection(signal)
	switch direction.Kind {
	case swap.DirectionBuy:
		c.engine.OpenPosition(direction.Token, direction.Payment, signal.OutputAmount, signal.InputAmount, sig.Text())
		c.incPositionOpened()
		c.save()
	case swap.DirectionSell:
		_, err := c.engine.ClosePosition(direction.Token, signal.InputAmount, signal.OutputAmount, sig.Text())
		if err != nil {
			if errors.Is(err, portfolio.ErrNoPosition) {
				c.logger.Warnf("sell of %s (%s) has no matching open position, skipping", direction.Token, sig)
				return
			}
			c.logger.Errorf("close position %s failed: %v", direction.Token, err)
			return
		}
		exitKind := "partial"
		if !c.engine.HasPosition(direction.Token) {
			exitKind = "full"
		}
		c.incPositionClosed(exitKind)
		c.save()
	default:
		// Neutral token-to-token swap: no portfolio interaction.
	}
}

func (c *Consumer) save() {
	start := time.Now()
	err := c.engine.Save()
	if c.metrics != nil {
		c.metrics.PortfolioSaveTime.Observe(time.Since(start).Seconds())
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.metrics.PortfolioSaves.WithLabelValues(outcome).Inc()

		stats := c.engine.Snapshot()
		c.metrics.ActivePositions.Set(float64(stats.ActivePositions))
		c.metrics.RealizedPnLTotal.Set(float64(stats.TotalRealizedPnL))
	}
	if err != nil {
		c.logger.Errorf("portfolio save failed: %v", err)
	}
}

func (c *Consumer) incClassified(class swap.TransactionClass) {
	if c.metrics != nil {
		c.metrics.TransactionsClassified.WithLabelValues(class.String()).Inc()
	}
}

func (c *Consumer) incSignalEmitted() {
	if c.metrics != nil {
		c.metrics.SwapSignalsEmitted.Inc()
	}
}

func (c *Consumer) incParseError() {
	if c.metrics != nil {
		c.metrics.ParseErrors.Inc()
	}
}

func (c *Consumer) incPositionOpened() {
	if c.metrics != nil {
		c.metrics.PositionsOpened.Inc()
	}
}

func (c *Consumer) incPositionClosed(exitKind string) {
	if c.metrics != nil {
		c.metrics.PositionsClosed.WithLabelValues(exitKind).Inc()
	}
}
