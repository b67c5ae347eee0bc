package swap

// Stablecoin mints used to distinguish an entry (buy) from an exit
// (sell). The set is fixed here but config-shaped enough to become
// configurable without changing any call site.
var stablecoins = map[Address]struct{}{
	mustParseAddress("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"): {}, // USDC
	mustParseAddress("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"): {}, // USDT
	mustParseAddress("USD1ttGY1N17NEEHLmELoaybftRBUSErhqYiQzvEmuB"):  {}, // USD1
}

// IsStablecoin reports whether mint is a member of the fixed
// stablecoin set.
func IsStablecoin(mint Address) bool {
	_, ok := stablecoins[mint]
	return ok
}

// DirectionKind distinguishes the three possible trade directions.
type DirectionKind int

const (
	DirectionSwap DirectionKind = iota
	DirectionBuy
	DirectionSell
)

// Direction is the classified trade intent of a signal relative to
// the stablecoin set. Only Buy and Sell are ever handed to the
// portfolio engine.
type Direction struct {
	Kind DirectionKind

	// Buy: Token is the non-stable mint acquired, Payment is the
	// stablecoin mint spent.
	Token   Address
	Payment Address

	// Sell: Token is the non-stable mint sold, Receives is the
	// stablecoin mint obtained. Receives is populated instead of Payment.
	Receives Address

	// Swap (neutral): From/To name the two non-stable-relative mints.
	From Address
	To   Address
}

// ClassifyDirection applies the stablecoin rule to a signal's input
// and output mints.
//
// The reference implementation this was ported from assigns the Sell
// case's fields backwards (Token set to the output/stablecoin mint
// instead of the input mint actually sold). That is a bug in the
// source, not an intended semantic: Token must always name the
// non-stable asset changing hands, matching the Buy case's own
// convention. This function implements the corrected mapping.
func ClassifyDirection(signal SwapSignal) Direction {
	inputStable := IsStablecoin(signal.InputMint)
	outputStable := IsStablecoin(signal.OutputMint)

	switch {
	case inputStable && !outputStable:
		return Direction{Kind: DirectionBuy, Token: signal.OutputMint, Payment: signal.InputMint}
	case !inputStable && outputStable:
		return Direction{Kind: DirectionSell, Token: signal.InputMint, Receives: signal.OutputMint}
	default:
		return Direction{Kind: DirectionSwap, From: signal.InputMint, To: signal.OutputMint}
	}
}
