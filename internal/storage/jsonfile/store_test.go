package jsonfile

import (
	"path/filepath"
	"testing"

	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/portfolio"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/swap"
)

func TestStore_Load_MissingFileReturnsEmptyPortfolio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	store := NewStore(path)

	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(p.Active) != 0 || len(p.History) != 0 {
		t.Errorf("expected an empty portfolio, got %+v", p)
	}
}

func TestStore_SaveThenLoad_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	store := NewStore(path)

	token := swap.Address{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32}
	payment := swap.Address{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}

	original := portfolio.NewPortfolio()
	original.Active[token] = portfolio.Position{
		Token:          token,
		PaymentToken:   payment,
		Amount:         100,
		CostBasis:      1000,
		EntryTime:      12345,
		EntrySignature: "sig-a",
		AvgEntryPrice:  10,
	}
	original.History = append(original.History, portfolio.ClosedPosition{
		Position:      portfolio.Position{Token: token, Amount: 50, CostBasis: 500},
		ExitTime:      67890,
		ExitSignature: "sig-b",
		ExitValue:     600,
		RealizedPnL:   100,
	})
	original.TotalRealizedPnL = 100

	if err := store.Save(original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	pos, ok := loaded.Active[token]
	if !ok {
		t.Fatal("expected the saved position to survive a round trip")
	}
	if pos.Amount != 100 || pos.CostBasis != 1000 || pos.EntrySignature != "sig-a" {
		t.Errorf("unexpected position after round trip: %+v", pos)
	}
	if len(loaded.History) != 1 || loaded.History[0].RealizedPnL != 100 {
		t.Errorf("unexpected history after round trip: %+v", loaded.History)
	}
	if loaded.TotalRealizedPnL != 100 {
		t.Errorf("expected total realized pnl 100, got %d", loaded.TotalRealizedPnL)
	}
}
