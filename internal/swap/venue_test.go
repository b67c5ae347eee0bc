package swap

import "testing"

func TestGuessVenue_KnownProgram(t *testing.T) {
	keys := []string{"someOtherAccount", "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"}
	venue, found := GuessVenue(keys)
	if !found {
		t.Fatal("expected a match")
	}
	if venue != "Jupiter" {
		t.Errorf("expected Jupiter, got %s", venue)
	}
}

func TestGuessVenue_NoMatch(t *testing.T) {
	keys := []string{"accountOne", "accountTwo"}
	venue, found := GuessVenue(keys)
	if !found {
		t.Fatal("expected found=true even without a program match")
	}
	if venue != UnknownVenue {
		t.Errorf("expected UnknownVenue, got %s", venue)
	}
}

func TestGuessVenue_EmptyKeys(t *testing.T) {
	venue, found := GuessVenue(nil)
	if found {
		t.Error("expected found=false for an empty key list")
	}
	if venue != "" {
		t.Errorf("expected empty venue string, got %q", venue)
	}
}
