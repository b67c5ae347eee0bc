package swap

import "testing"

func TestClassifyDirection_Buy(t *testing.T) {
	signal := SwapSignal{InputMint: usdcMint, OutputMint: tokenA}
	dir := ClassifyDirection(signal)

	if dir.Kind != DirectionBuy {
		t.Fatalf("expected DirectionBuy, got %v", dir.Kind)
	}
	if dir.Token != tokenA {
		t.Errorf("expected Token to be the acquired asset %s, got %s", tokenA, dir.Token)
	}
	if dir.Payment != usdcMint {
		t.Errorf("expected Payment to be the stablecoin spent %s, got %s", usdcMint, dir.Payment)
	}
}

func TestClassifyDirection_Sell(t *testing.T) {
	signal := SwapSignal{InputMint: tokenA, OutputMint: usdcMint}
	dir := ClassifyDirection(signal)

	if dir.Kind != DirectionSell {
		t.Fatalf("expected DirectionSell, got %v", dir.Kind)
	}
	// Token must name the non-stable asset sold (the input), never the
	// stablecoin received, regardless of leg order.
	if dir.Token != tokenA {
		t.Errorf("expected Token to be the sold asset %s, got %s", tokenA, dir.Token)
	}
	if dir.Receives != usdcMint {
		t.Errorf("expected Receives to be the stablecoin obtained %s, got %s", usdcMint, dir.Receives)
	}
}

func TestClassifyDirection_NeutralSwap(t *testing.T) {
	signal := SwapSignal{InputMint: tokenA, OutputMint: watched}
	dir := ClassifyDirection(signal)

	if dir.Kind != DirectionSwap {
		t.Fatalf("expected DirectionSwap for two non-stable mints, got %v", dir.Kind)
	}
	if dir.From != tokenA || dir.To != watched {
		t.Errorf("unexpected From/To: %+v", dir)
	}
}

func TestClassifyDirection_BothStable(t *testing.T) {
	usdt := mustParseAddress("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
	signal := SwapSignal{InputMint: usdcMint, OutputMint: usdt}
	dir := ClassifyDirection(signal)

	if dir.Kind != DirectionSwap {
		t.Errorf("expected DirectionSwap when both legs are stable, got %v", dir.Kind)
	}
}

func TestIsStablecoin(t *testing.T) {
	if !IsStablecoin(usdcMint) {
		t.Error("expected USDC to be classified as stable")
	}
	if IsStablecoin(tokenA) {
		t.Error("expected an arbitrary mint to not be classified as stable")
	}
}
