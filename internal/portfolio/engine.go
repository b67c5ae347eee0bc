package portfolio

import (
	"fmt"
	"math"
	"sync"

	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/swap"
)

// Portfolio holds the active position map, the closed-position
// history, and the running realized-PnL total. total_realized_pnl is
// always the sum of history[i].realized_pnl.
type Portfolio struct {
	Active           map[swap.Address]Position
	History          []ClosedPosition
	TotalRealizedPnL int64
}

// NewPortfolio returns an empty portfolio.
func NewPortfolio() *Portfolio {
	return &Portfolio{Active: make(map[swap.Address]Position)}
}

// Stats computes the read-only PortfolioStats summary.
func (p *Portfolio) Stats() Stats {
	var invested uint64
	for _, pos := range p.Active {
		invested += pos.CostBasis
	}

	wins := 0
	for _, c := range p.History {
		if c.RealizedPnL > 0 {
			wins++
		}
	}

	winRate := 0.0
	if len(p.History) > 0 {
		winRate = 100 * float64(wins) / float64(len(p.History))
	}

	return Stats{
		ActivePositions:  len(p.Active),
		ClosedPositions:  len(p.History),
		TotalInvested:    invested,
		TotalRealizedPnL: p.TotalRealizedPnL,
		WinRate:          winRate,
	}
}

// Engine is the single owner of a Portfolio for the process lifetime.
// In the intended pipeline the engine is driven exclusively by one
// cooperative task, so its mutex exists only to make it safe to expose
// a read-only view (e.g. for a status endpoint) without plumbing the
// owning task's message loop for every read.
type Engine struct {
	mu        sync.RWMutex
	portfolio *Portfolio
	store     Store
	now       func() int64
}

// Store persists and loads a Portfolio. Implementations live under
// internal/storage/jsonfile (default) and internal/storage/postgres.
type Store interface {
	Load() (*Portfolio, error)
	Save(*Portfolio) error
}

// NewEngine loads the portfolio from store once (or starts empty if
// none exists) and returns an Engine that owns it for the rest of the
// process lifetime.
func NewEngine(store Store, now func() int64) (*Engine, error) {
	p, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load portfolio: %w", err)
	}
	if p == nil {
		p = NewPortfolio()
	}
	return &Engine{portfolio: p, store: store, now: now}, nil
}

// Snapshot returns a read-only copy of the current Stats.
func (e *Engine) Snapshot() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.portfolio.Stats()
}

// HasPosition reports whether token has an active position.
func (e *Engine) HasPosition(token swap.Address) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.portfolio.Active[token]
	return ok
}

// OpenPosition creates a new position for token, or averages into an
// existing one, preserving the original entry_time/entry_signature.
func (e *Engine) OpenPosition(token, payment swap.Address, amount, cost uint64, signature string) Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, exists := e.portfolio.Active[token]
	if !exists {
		pos = Position{
			Token:          token,
			PaymentToken:   payment,
			Amount:         amount,
			CostBasis:      cost,
			EntryTime:      e.now(),
			EntrySignature: signature,
		}
	} else {
		pos.Amount += amount
		pos.CostBasis += cost
	}
	pos.recomputeAvgEntryPrice()

	e.portfolio.Active[token] = pos
	return pos
}

// ErrNoPosition is returned by ClosePosition when token has no active
// position.
var ErrNoPosition = fmt.Errorf("no active position for token")

// ClosePosition reduces or removes the active position for token by
// amountSold, realizing P&L against exitValue. A full exit (amountSold
// >= position.Amount) removes the position and records a ClosedPosition
// against the full cost basis. A partial exit removes a proportional
// slice of the cost basis (cost_removed = round(f * cost_basis)) and
// records the pre-reduction snapshot.
func (e *Engine) ClosePosition(token swap.Address, amountSold, exitValue uint64, signature string) (ClosedPosition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, exists := e.portfolio.Active[token]
	if !exists {
		return ClosedPosition{}, ErrNoPosition
	}

	now := e.now()

	if amountSold >= pos.Amount {
		realized := int64(exitValue) - int64(pos.CostBasis)
		percent := 0.0
		if pos.CostBasis != 0 {
			percent = 100 * float64(realized) / float64(pos.CostBasis)
		}

		closed := ClosedPosition{
			Position:           pos,
			ExitTime:           now,
			ExitSignature:      signature,
			ExitValue:          exitValue,
			RealizedPnL:        realized,
			RealizedPnLPercent: percent,
		}

		delete(e.portfolio.Active, token)
		e.portfolio.History = append(e.portfolio.History, closed)
		e.portfolio.TotalRealizedPnL += realized
		return closed, nil
	}

	fraction := float64(amountSold) / float64(pos.Amount)
	costRemoved := uint64(math.Round(fraction * float64(pos.CostBasis)))

	realized := int64(exitValue) - int64(costRemoved)
	percent := 0.0
	if costRemoved != 0 {
		percent = 100 * float64(realized) / float64(costRemoved)
	}

	closed := ClosedPosition{
		Position:           pos, // pre-reduction snapshot
		ExitTime:           now,
		ExitSignature:      signature,
		ExitValue:          exitValue,
		RealizedPnL:        realized,
		RealizedPnLPercent: percent,
	}

	pos.Amount -= amountSold
	pos.CostBasis -= costRemoved
	pos.recomputeAvgEntryPrice()
	e.portfolio.Active[token] = pos

	e.portfolio.History = append(e.portfolio.History, closed)
	e.portfolio.TotalRealizedPnL += realized

	return closed, nil
}

// Save persists the portfolio, propagating any error.
func (e *Engine) Save() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Save(e.portfolio)
}

// SaveSafe persists the portfolio, logging failures through logFn
// instead of propagating them — callers that must not be interrupted
// by a storage hiccup (e.g. mid-pipeline after a successful close)
// use this.
func (e *Engine) SaveSafe(logFn func(format string, args ...interface{})) {
	if err := e.Save(); err != nil && logFn != nil {
		logFn("portfolio save failed: %v", err)
	}
}
