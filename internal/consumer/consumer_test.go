package consumer

import (
	"context"
	"testing"

	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/portfolio"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/solana"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/swap"
)

var (
	watchedAddr = swap.Address{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	usdcAddr    = mustAddr("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	tokenAddr   = swap.Address{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
)

func mustAddr(text string) swap.Address {
	a, err := swap.ParseAddress(text)
	if err != nil {
		panic(err)
	}
	return a
}

func sigText(seed byte) string {
	var sig swap.Signature
	sig[0] = seed
	return sig.Text()
}

// memStore is a minimal in-memory portfolio.Store, mirroring the shape
// used by internal/portfolio's own tests.
type memStore struct{ saved *portfolio.Portfolio }

func (m *memStore) Load() (*portfolio.Portfolio, error) {
	if m.saved == nil {
		return portfolio.NewPortfolio(), nil
	}
	return m.saved, nil
}

func (m *memStore) Save(p *portfolio.Portfolio) error {
	m.saved = p
	return nil
}

type recordingSink struct{ signals []swap.SwapSignal }

func (r *recordingSink) Append(signal swap.SwapSignal) { r.signals = append(r.signals, signal) }

func newTestConsumer(engine *portfolio.Engine, sink SignalSink) *Consumer {
	return New(Options{Watched: watchedAddr, Engine: engine, Sink: sink})
}

func balanceEntry(mint, owner swap.Address, amount string) solana.TokenBalanceEntry {
	return solana.TokenBalanceEntry{Mint: mint.Text(), Owner: owner.Text(), Amount: amount, Decimals: 6}
}

func TestConsumer_Handle_BuyOpensPosition(t *testing.T) {
	engine, err := portfolio.NewEngine(&memStore{}, func() int64 { return 100 })
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	sink := &recordingSink{}
	c := newTestConsumer(engine, sink)

	tx := &solana.Transaction{
		Signature: sigText(1),
		Meta: &solana.TransactionMeta{
			PreTokenBalances:  []solana.TokenBalanceEntry{balanceEntry(usdcAddr, watchedAddr, "1000000")},
			PostTokenBalances: []solana.TokenBalanceEntry{balanceEntry(tokenAddr, watchedAddr, "500000000")},
		},
	}

	c.handle(tx)

	if !engine.HasPosition(tokenAddr) {
		t.Fatal("expected a buy to open a position in the acquired token")
	}
	if len(sink.signals) != 1 {
		t.Errorf("expected one signal appended to the sink, got %d", len(sink.signals))
	}
}

func TestConsumer_Handle_SellClosesPosition(t *testing.T) {
	engine, _ := portfolio.NewEngine(&memStore{}, func() int64 { return 100 })
	engine.OpenPosition(tokenAddr, usdcAddr, 500000000, 1000000, "sig-a")

	c := newTestConsumer(engine, nil)

	tx := &solana.Transaction{
		Signature: sigText(2),
		Meta: &solana.TransactionMeta{
			PreTokenBalances:  []solana.TokenBalanceEntry{balanceEntry(tokenAddr, watchedAddr, "500000000")},
			PostTokenBalances: []solana.TokenBalanceEntry{balanceEntry(usdcAddr, watchedAddr, "1500000")},
		},
	}

	c.handle(tx)

	if engine.HasPosition(tokenAddr) {
		t.Error("expected the sell to fully close the position")
	}
	stats := engine.Snapshot()
	if stats.TotalRealizedPnL != 500000 {
		t.Errorf("expected realized pnl 500000, got %d", stats.TotalRealizedPnL)
	}
}

func TestConsumer_Handle_SellWithNoPositionIsSkipped(t *testing.T) {
	engine, _ := portfolio.NewEngine(&memStore{}, func() int64 { return 100 })
	c := newTestConsumer(engine, nil)

	tx := &solana.Transaction{
		Signature: sigText(3),
		Meta: &solana.TransactionMeta{
			PreTokenBalances:  []solana.TokenBalanceEntry{balanceEntry(tokenAddr, watchedAddr, "500000000")},
			PostTokenBalances: []solana.TokenBalanceEntry{balanceEntry(usdcAddr, watchedAddr, "1500000")},
		},
	}

	c.handle(tx) // must not panic despite no matching position

	stats := engine.Snapshot()
	if stats.ClosedPositions != 0 {
		t.Errorf("expected no closed positions to be recorded, got %d", stats.ClosedPositions)
	}
}

func TestConsumer_Handle_UnparseableSignatureIsSkipped(t *testing.T) {
	engine, _ := portfolio.NewEngine(&memStore{}, func() int64 { return 100 })
	c := newTestConsumer(engine, nil)

	tx := &solana.Transaction{Signature: "not-base58!!"}
	c.handle(tx) // must not panic

	if engine.Snapshot().ActivePositions != 0 {
		t.Error("expected no state change from an unparseable transaction")
	}
}

func TestConsumer_Run_StopsOnContextCancel(t *testing.T) {
	engine, _ := portfolio.NewEngine(&memStore{}, func() int64 { return 100 })
	c := newTestConsumer(engine, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := make(chan *solana.Transaction)
	if err := c.Run(ctx, in); err == nil {
		t.Error("expected Run to return the context's cancellation error")
	}
}
