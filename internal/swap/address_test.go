package swap

import "testing"

func TestParseAddress_RoundTrip(t *testing.T) {
	text := "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	addr, err := ParseAddress(text)
	if err != nil {
		t.Fatalf("ParseAddress failed: %v", err)
	}
	if addr.Text() != text {
		t.Errorf("round trip mismatch: got %s, want %s", addr.Text(), text)
	}
}

func TestParseAddress_WrongLength(t *testing.T) {
	// "abc" is valid base58 but decodes to far fewer than 32 bytes.
	if _, err := ParseAddress("abc"); err == nil {
		t.Error("expected error for undersized address")
	}
}

func TestParseAddress_InvalidBase58(t *testing.T) {
	if _, err := ParseAddress("not-valid-base58-!!!"); err == nil {
		t.Error("expected error for invalid base58 input")
	}
}

func TestAddress_MarshalUnmarshalText(t *testing.T) {
	addr := WrappedNativeMint

	text, err := addr.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}

	var got Address
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if got != addr {
		t.Errorf("unmarshaled address mismatch: got %s, want %s", got, addr)
	}
}

func TestAddress_UnmarshalText_Empty(t *testing.T) {
	var got Address
	if err := got.UnmarshalText(nil); err != nil {
		t.Fatalf("UnmarshalText(nil) should not error: %v", err)
	}
	if !got.IsZero() {
		t.Error("expected zero address for empty text")
	}
}

func TestParseSignature_RoundTrip(t *testing.T) {
	raw := make([]byte, 64)
	for i := range raw {
		raw[i] = byte(i)
	}
	var sig Signature
	copy(sig[:], raw)

	parsed, err := ParseSignature(sig.Text())
	if err != nil {
		t.Fatalf("ParseSignature failed: %v", err)
	}
	if parsed != sig {
		t.Error("signature round trip mismatch")
	}
}

func TestParseSignature_WrongLength(t *testing.T) {
	if _, err := ParseSignature("abc"); err == nil {
		t.Error("expected error for undersized signature")
	}
}
