package swap

// Venue program IDs. The table is deliberately small and advisory
// only — it is never consulted by Classify or Detect, only used to
// attach a human-readable hint to an already-classified signal.
// Addresses are drawn from the Jupiter aggregator, the Raydium AMM
// family, and the Orca concentrated-liquidity family, plus the
// pump.fun bonding-curve program.
var venuePrograms = map[string]string{
	"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4":  "Jupiter",
	"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8": "Raydium AMM V4",
	"whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc":  "Orca Whirlpool",
	"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P":  "pump.fun",
}

// UnknownVenue is the generic hint returned when a transaction carries
// account keys but none of them match a known program ID.
const UnknownVenue = "Unknown"

// GuessVenue scans the account keys referenced by a transaction's
// message for a known program ID and returns the first match. It
// returns ("", false) when there are no account keys to scan at all
// (an unparsed or empty message), and (UnknownVenue, true) when there
// are account keys but none match — matching the reference behavior
// of never leaving a parsed transaction without some hint.
func GuessVenue(accountKeys []string) (string, bool) {
	if len(accountKeys) == 0 {
		return "", false
	}
	for _, key := range accountKeys {
		if name, ok := venuePrograms[key]; ok {
			return name, true
		}
	}
	return UnknownVenue, true
}
