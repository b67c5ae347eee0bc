package clickhouse

import (
	"context"
	"time"

	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/observability"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/swap"
)

// signalSinkTimeout bounds a single append call so a ClickHouse outage can
// never stall the consumer task past this ceiling.
const signalSinkTimeout = 3 * time.Second

// SignalSink appends every emitted swap.SwapSignal to the swap_signals
// table (internal/storage/migrations/clickhouse/0001_swap_signals.sql)
// for offline analysis. It is component F: best-effort and non-blocking
// with respect to the portfolio engine — Append swallows its own error
// after logging, matching spec.md §7's treatment of storage errors as
// non-fatal. Close returns the connection's close error.
type SignalSink struct {
	conn    *Conn
	logger  func(format string, args ...any)
	metrics *observability.Metrics
}

// NewSignalSink returns a SignalSink writing to conn. logger may be nil,
// in which case append failures are silently dropped. metrics may be nil.
func NewSignalSink(conn *Conn, logger func(format string, args ...any), metrics *observability.Metrics) *SignalSink {
	return &SignalSink{conn: conn, logger: logger, metrics: metrics}
}

// Append inserts one SwapSignal row. Failure is logged and swallowed; it
// never propagates to the caller, matching component F's "never blocks
// or drops a swap signal" contract in SPEC_FULL.md.
func (s *SignalSink) Append(signal swap.SwapSignal) {
	if s == nil || s.conn == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), signalSinkTimeout)
	defer cancel()

	intermediates := make([]string, len(signal.Intermediates))
	for i, m := range signal.Intermediates {
		intermediates[i] = m.Text()
	}

	err := s.conn.Exec(ctx, `
		INSERT INTO swap_signals (
			signature, block_time, trader, kind, input_mint, input_amount,
			output_mint, output_amount, intermediates, likely_venue
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		signal.Signature.Text(),
		signal.BlockTime,
		signal.Trader.Text(),
		signal.Kind.String(),
		signal.InputMint.Text(),
		signal.InputAmount,
		signal.OutputMint.Text(),
		signal.OutputAmount,
		intermediates,
		signal.LikelyVenue,
	)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		if s.logger != nil {
			s.logger("clickhouse: append swap signal %s failed: %v", signal.Signature, err)
		}
	}
	if s.metrics != nil {
		s.metrics.SignalSinkAppends.WithLabelValues(outcome).Inc()
	}
}

// Close releases the underlying connection.
func (s *SignalSink) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
