package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/portfolio"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/swap"
)

// portfolioStoreTimeout bounds every Load/Save round trip so a database
// hiccup cannot hang the consumer task past a portfolio mutation.
const portfolioStoreTimeout = 10 * time.Second

// PortfolioStore implements portfolio.Store against the positions and
// closed_positions tables created by
// internal/storage/migrations/postgres/0001_portfolio.sql. It is the
// durable alternative to internal/storage/jsonfile, selected by
// persistence.backend = "postgres".
type PortfolioStore struct {
	pool *Pool
}

// NewPortfolioStore returns a PortfolioStore backed by pool.
func NewPortfolioStore(pool *Pool) *PortfolioStore {
	return &PortfolioStore{pool: pool}
}

var _ portfolio.Store = (*PortfolioStore)(nil)

// Load reconstructs the active position map and closed-position history
// from their relational rows. An empty database yields an empty
// portfolio, not an error.
func (s *PortfolioStore) Load() (*portfolio.Portfolio, error) {
	ctx, cancel := context.WithTimeout(context.Background(), portfolioStoreTimeout)
	defer cancel()

	p := portfolio.NewPortfolio()

	rows, err := s.pool.Query(ctx, `
		SELECT token, amount, payment_token, cost_basis, entry_time, entry_signature, avg_entry_price
		FROM positions
	`)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}

	for rows.Next() {
		var tokenText, paymentText, entrySig string
		var amountText, costBasisText string
		var entryTime int64
		var avgEntryPrice float64

		if err := rows.Scan(&tokenText, &amountText, &paymentText, &costBasisText, &entryTime, &entrySig, &avgEntryPrice); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan position row: %w", err)
		}

		pos, err := positionFromRow(tokenText, amountText, paymentText, costBasisText, entryTime, entrySig, avgEntryPrice)
		if err != nil {
			rows.Close()
			return nil, err
		}
		p.Active[pos.Token] = pos
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}
	rows.Close()

	histRows, err := s.pool.Query(ctx, `
		SELECT token, amount, payment_token, cost_basis, entry_time, entry_signature, avg_entry_price,
		       exit_time, exit_signature, exit_value, realized_pnl, realized_pnl_percent
		FROM closed_positions
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query closed_positions: %w", err)
	}
	defer histRows.Close()

	for histRows.Next() {
		var tokenText, paymentText, entrySig, exitSig string
		var amountText, costBasisText, exitValueText string
		var entryTime, exitTime, realizedPnL int64
		var avgEntryPrice, realizedPnLPercent float64

		if err := histRows.Scan(&tokenText, &amountText, &paymentText, &costBasisText, &entryTime, &entrySig, &avgEntryPrice,
			&exitTime, &exitSig, &exitValueText, &realizedPnL, &realizedPnLPercent); err != nil {
			return nil, fmt.Errorf("scan closed_position row: %w", err)
		}

		pos, err := positionFromRow(tokenText, amountText, paymentText, costBasisText, entryTime, entrySig, avgEntryPrice)
		if err != nil {
			return nil, err
		}
		exitValue, err := strconv.ParseUint(exitValueText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse exit_value %q: %w", exitValueText, err)
		}

		p.History = append(p.History, portfolio.ClosedPosition{
			Position:           pos,
			ExitTime:           exitTime,
			ExitSignature:      exitSig,
			ExitValue:          exitValue,
			RealizedPnL:        realizedPnL,
			RealizedPnLPercent: realizedPnLPercent,
		})
		p.TotalRealizedPnL += realizedPnL
	}
	if err := histRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate closed_positions: %w", err)
	}

	return p, nil
}

func positionFromRow(tokenText, amountText, paymentText, costBasisText string, entryTime int64, entrySig string, avgEntryPrice float64) (portfolio.Position, error) {
	token, err := swap.ParseAddress(tokenText)
	if err != nil {
		return portfolio.Position{}, fmt.Errorf("parse position token %q: %w", tokenText, err)
	}
	payment, err := swap.ParseAddress(paymentText)
	if err != nil {
		return portfolio.Position{}, fmt.Errorf("parse payment_token %q: %w", paymentText, err)
	}
	amount, err := strconv.ParseUint(amountText, 10, 64)
	if err != nil {
		return portfolio.Position{}, fmt.Errorf("parse amount %q: %w", amountText, err)
	}
	costBasis, err := strconv.ParseUint(costBasisText, 10, 64)
	if err != nil {
		return portfolio.Position{}, fmt.Errorf("parse cost_basis %q: %w", costBasisText, err)
	}
	return portfolio.Position{
		Token:          token,
		Amount:         amount,
		PaymentToken:   payment,
		CostBasis:      costBasis,
		EntryTime:      entryTime,
		EntrySignature: entrySig,
		AvgEntryPrice:  avgEntryPrice,
	}, nil
}

// Save replaces the entire positions and closed_positions tables inside a
// single transaction so a reader never observes a half-written portfolio.
//
// closed_positions is rewritten wholesale alongside positions rather than
// appended incrementally: the whole Portfolio value is always available
// in memory and small relative to a single JSON document, so there is no
// benefit to tracking which history rows are already durable, matching
// the "write the whole document" model the JSON-file store uses.
func (s *PortfolioStore) Save(p *portfolio.Portfolio) error {
	ctx, cancel := context.WithTimeout(context.Background(), portfolioStoreTimeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE positions`); err != nil {
		return fmt.Errorf("truncate positions: %w", err)
	}
	if _, err := tx.Exec(ctx, `TRUNCATE closed_positions`); err != nil {
		return fmt.Errorf("truncate closed_positions: %w", err)
	}

	for token, pos := range p.Active {
		_, err := tx.Exec(ctx, `
			INSERT INTO positions (token, amount, payment_token, cost_basis, entry_time, entry_signature, avg_entry_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, token.Text(), strconv.FormatUint(pos.Amount, 10), pos.PaymentToken.Text(),
			strconv.FormatUint(pos.CostBasis, 10), pos.EntryTime, pos.EntrySignature, pos.AvgEntryPrice)
		if err != nil {
			return fmt.Errorf("insert position %s: %w", token, err)
		}
	}

	for _, c := range p.History {
		_, err := tx.Exec(ctx, `
			INSERT INTO closed_positions (
				token, amount, payment_token, cost_basis, entry_time, entry_signature, avg_entry_price,
				exit_time, exit_signature, exit_value, realized_pnl, realized_pnl_percent
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, c.Token.Text(), strconv.FormatUint(c.Amount, 10), c.PaymentToken.Text(),
			strconv.FormatUint(c.CostBasis, 10), c.EntryTime, c.EntrySignature, c.AvgEntryPrice,
			c.ExitTime, c.ExitSignature, strconv.FormatUint(c.ExitValue, 10), c.RealizedPnL, c.RealizedPnLPercent)
		if err != nil {
			return fmt.Errorf("insert closed_position %s: %w", c.Token, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
