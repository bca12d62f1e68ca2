package validate

import "testing"

func TestUnknownTokenRatioTooFewTokens(t *testing.T) {
	_, ok := unknownTokenRatio("a b c")
	if ok {
		t.Fatalf("expected ok=false for a short sample")
	}
}

func TestUnknownTokenRatioAllKnown(t *testing.T) {
	ratio, ok := unknownTokenRatio("let add x y = x + y in add 1 2 |> printfn \"%d\"")
	if !ok {
		t.Fatalf("expected a ratio for a long-enough sample")
	}
	if ratio > 0.4 {
		t.Fatalf("expected a low unknown ratio for mostly-identifier tokens, got %f", ratio)
	}
}

func TestIsKnownTokenPunctuationOnly(t *testing.T) {
	if !isKnownToken("->") {
		t.Fatalf("expected arrow token to be treated as known punctuation")
	}
	if isKnownToken("->??##") {
		t.Fatalf("expected mixed unknown-symbol token to be unknown")
	}
}
