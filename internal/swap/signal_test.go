package swap

import "testing"

func delta(mint Address, amount int64) BalanceDelta {
	return BalanceDelta{Mint: mint, Delta: amount, Decimals: 6}
}

func TestClassify_Swap(t *testing.T) {
	deltas := []BalanceDelta{delta(usdcMint, -1000), delta(tokenA, 500)}
	if got := Classify(deltas); got != ClassSwap {
		t.Errorf("expected ClassSwap, got %s", got)
	}
}

func TestClassify_MultiHopSwap(t *testing.T) {
	deltas := []BalanceDelta{delta(usdcMint, -1000), delta(watched, 200), delta(tokenA, 500)}
	if got := Classify(deltas); got != ClassMultiHopSwap {
		t.Errorf("expected ClassMultiHopSwap, got %s", got)
	}
}

func TestClassify_Transfer(t *testing.T) {
	deltas := []BalanceDelta{delta(usdcMint, -1000)}
	if got := Classify(deltas); got != ClassTransfer {
		t.Errorf("expected ClassTransfer, got %s", got)
	}
}

func TestClassify_Receive(t *testing.T) {
	deltas := []BalanceDelta{delta(usdcMint, 1000)}
	if got := Classify(deltas); got != ClassReceive {
		t.Errorf("expected ClassReceive, got %s", got)
	}
}

// One decrease with several increases matches the MultiHopSwap rule
// before the AddLiquidity rule is reached.
func TestClassify_OneDecreaseManyIncreasesIsMultiHop(t *testing.T) {
	deltas := []BalanceDelta{delta(usdcMint, -1000), delta(tokenA, 500), delta(watched, 300)}
	if got := Classify(deltas); got != ClassMultiHopSwap {
		t.Errorf("expected ClassMultiHopSwap, got %s", got)
	}
}

// Several decreases with one increase matches the MultiHopSwap rule
// before the RemoveLiquidity rule is reached.
func TestClassify_ManyDecreasesOneIncreaseIsMultiHop(t *testing.T) {
	deltas := []BalanceDelta{delta(usdcMint, -1000), delta(tokenA, -500), delta(watched, 300)}
	if got := Classify(deltas); got != ClassMultiHopSwap {
		t.Errorf("expected ClassMultiHopSwap, got %s", got)
	}
}

func TestClassify_Unknown_Empty(t *testing.T) {
	if got := Classify(nil); got != ClassUnknown {
		t.Errorf("expected ClassUnknown for empty deltas, got %s", got)
	}
}

func TestDetect_SimpleSwap(t *testing.T) {
	deltas := []BalanceDelta{
		{Mint: usdcMint, Delta: -1000000},
		{Mint: tokenA, Delta: 500000000},
	}
	class := Classify(deltas)
	signal, ok := Detect(deltas, class)
	if !ok {
		t.Fatal("expected Detect to succeed")
	}
	if signal.Kind != KindSimple {
		t.Errorf("expected KindSimple, got %s", signal.Kind)
	}
	if signal.InputMint != usdcMint || signal.InputAmount != 1000000 {
		t.Errorf("unexpected input leg: %+v", signal)
	}
	if signal.OutputMint != tokenA || signal.OutputAmount != 500000000 {
		t.Errorf("unexpected output leg: %+v", signal)
	}
	if len(signal.Intermediates) != 0 {
		t.Errorf("expected no intermediates for a simple swap, got %v", signal.Intermediates)
	}
}

func TestDetect_MultiHopSwap(t *testing.T) {
	// decreases[0] is the input leg, increases[last] is the output leg;
	// everything else in the sorted set is an intermediate hop.
	deltas := []BalanceDelta{
		{Mint: usdcMint, Delta: -1000000},
		{Mint: watched, Delta: 200000},
		{Mint: tokenA, Delta: 500000000},
	}
	class := Classify(deltas)
	if class != ClassMultiHopSwap {
		t.Fatalf("expected ClassMultiHopSwap, got %s", class)
	}

	signal, ok := Detect(deltas, class)
	if !ok {
		t.Fatal("expected Detect to succeed")
	}
	if signal.Kind != KindMultiHop {
		t.Errorf("expected KindMultiHop, got %s", signal.Kind)
	}
	if signal.InputMint != usdcMint {
		t.Errorf("expected input mint usdc, got %s", signal.InputMint)
	}
	if signal.OutputMint != tokenA {
		t.Errorf("expected output mint tokenA, got %s", signal.OutputMint)
	}
	if len(signal.Intermediates) != 1 || signal.Intermediates[0] != watched {
		t.Errorf("expected one intermediate hop, got %v", signal.Intermediates)
	}
}

func TestDetect_RejectsNonForwardedClass(t *testing.T) {
	deltas := []BalanceDelta{{Mint: usdcMint, Delta: -1000}}
	if _, ok := Detect(deltas, ClassTransfer); ok {
		t.Error("expected Detect to reject a Transfer class")
	}
}

func TestDetect_RejectsSameMintBothLegs(t *testing.T) {
	deltas := []BalanceDelta{
		{Mint: usdcMint, Delta: -1000},
		{Mint: usdcMint, Delta: 1000},
	}
	if _, ok := Detect(deltas, ClassSwap); ok {
		t.Error("expected Detect to reject identical input/output mints")
	}
}
