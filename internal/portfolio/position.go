// Package portfolio reconciles classified buy/sell signals against a
// durable set of open positions, computing cost basis and realized
// profit/loss on full and partial exits.
package portfolio

import "github.com/OFUZORCHUKWUEMEKE/Sniper/internal/swap"

// Position is an active holding of a non-stable token purchased with
// a stable payment token.
type Position struct {
	Token          swap.Address `json:"token"`
	Amount         uint64       `json:"amount"`
	PaymentToken   swap.Address `json:"payment_token"`
	CostBasis      uint64       `json:"cost_basis"`
	EntryTime      int64        `json:"entry_time"`
	EntrySignature string       `json:"entry_signature"`
	AvgEntryPrice  float64      `json:"avg_entry_price"`
}

// recomputeAvgEntryPrice refreshes the diagnostic average-entry-price
// field from the integer cost_basis/amount. Zero when amount is zero.
func (p *Position) recomputeAvgEntryPrice() {
	if p.Amount == 0 {
		p.AvgEntryPrice = 0
		return
	}
	p.AvgEntryPrice = float64(p.CostBasis) / float64(p.Amount)
}

// ClosedPosition is a snapshot of a position at the moment it was
// fully or partially closed, plus the exit fields.
type ClosedPosition struct {
	Position

	ExitTime           int64   `json:"exit_time"`
	ExitSignature      string  `json:"exit_signature"`
	ExitValue          uint64  `json:"exit_value"`
	RealizedPnL        int64   `json:"realized_pnl"`
	RealizedPnLPercent float64 `json:"realized_pnl_percent"`
}

// Stats is a read-only summary derived from a Portfolio. It is never
// persisted — it is always recomputed from active/history.
type Stats struct {
	ActivePositions  int
	ClosedPositions  int
	TotalInvested    uint64
	TotalRealizedPnL int64
	WinRate          float64 // percentage, 0 when there are no closed positions
}
