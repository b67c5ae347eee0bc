package swap

import (
	"sort"
	"strconv"

	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/solana"
)

// TokenBalance is a single owner-scoped token balance snapshot, as
// parsed from a preTokenBalances/postTokenBalances entry.
type TokenBalance struct {
	Mint     Address
	Owner    Address
	Amount   uint64
	Decimals int
}

// BalanceDelta is the signed change of one mint's balance for the
// watched owner between the pre- and post-transaction snapshots.
type BalanceDelta struct {
	Mint     Address
	Pre      uint64
	Post     uint64
	Delta    int64
	Decimals int
}

// IsDecrease reports whether the delta is negative (a sell leg).
func (d BalanceDelta) IsDecrease() bool { return d.Delta < 0 }

// IsIncrease reports whether the delta is positive (a buy leg).
func (d BalanceDelta) IsIncrease() bool { return d.Delta > 0 }

// AbsAmount returns the unsigned magnitude of the delta.
func (d BalanceDelta) AbsAmount() uint64 {
	if d.Delta < 0 {
		return uint64(-d.Delta)
	}
	return uint64(d.Delta)
}

// extractBalances converts the wire-level entries into owner-scoped
// TokenBalance values, keyed by mint text. Entries whose owner does
// not match the watched address, or whose owner is absent, are
// dropped rather than defaulted to the zero address — an absent
// owner must never be mistaken for a match.
func extractBalances(entries []solana.TokenBalanceEntry, watched Address) map[string]TokenBalance {
	out := make(map[string]TokenBalance, len(entries))
	for _, e := range entries {
		if e.Owner == "" {
			continue
		}
		owner, err := ParseAddress(e.Owner)
		if err != nil || owner != watched {
			continue
		}
		mint, err := ParseAddress(e.Mint)
		if err != nil {
			continue
		}
		amount, err := strconv.ParseUint(e.Amount, 10, 64)
		if err != nil {
			continue
		}
		out[mint.Text()] = TokenBalance{
			Mint:     mint,
			Owner:    owner,
			Amount:   amount,
			Decimals: e.Decimals,
		}
	}
	return out
}

// Analyzer computes owner-scoped balance deltas for a watched address.
type Analyzer struct {
	Watched Address
}

// NewAnalyzer returns an Analyzer scoped to the given watched address.
func NewAnalyzer(watched Address) *Analyzer {
	return &Analyzer{Watched: watched}
}

// Deltas extracts owner-scoped pre/post token balances from meta and
// returns the per-mint deltas, sorted ascending by signed delta. The
// wrapped-native mint is dropped unconditionally and zero deltas are
// dropped; decimals prefer the pre snapshot, then post, then 9.
func (a *Analyzer) Deltas(meta *solana.TransactionMeta) []BalanceDelta {
	if meta == nil {
		return nil
	}

	pre := extractBalances(meta.PreTokenBalances, a.Watched)
	post := extractBalances(meta.PostTokenBalances, a.Watched)

	mints := make(map[string]struct{}, len(pre)+len(post))
	for k := range pre {
		mints[k] = struct{}{}
	}
	for k := range post {
		mints[k] = struct{}{}
	}

	deltas := make([]BalanceDelta, 0, len(mints))
	for mintText := range mints {
		preBal, hasPre := pre[mintText]
		postBal, hasPost := post[mintText]

		if !hasPre && !hasPost {
			continue
		}

		var mint Address
		decimals := 9
		var preAmount, postAmount uint64

		switch {
		case hasPre && hasPost:
			mint = preBal.Mint
			decimals = preBal.Decimals
			preAmount, postAmount = preBal.Amount, postBal.Amount
		case hasPre:
			mint = preBal.Mint
			decimals = preBal.Decimals
			preAmount = preBal.Amount
		default:
			mint = postBal.Mint
			decimals = postBal.Decimals
			postAmount = postBal.Amount
		}

		if mint == WrappedNativeMint {
			continue
		}

		delta := int64(postAmount) - int64(preAmount)
		if delta == 0 {
			continue
		}

		deltas = append(deltas, BalanceDelta{
			Mint:     mint,
			Pre:      preAmount,
			Post:     postAmount,
			Delta:    delta,
			Decimals: decimals,
		})
	}

	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].Delta < deltas[j].Delta
	})

	return deltas
}
