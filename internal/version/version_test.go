package version

import "testing"

func TestWordRoundTrip(t *testing.T) {
	word := Word()
	v, err := Parse(word)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.String() != LayoutVersion {
		t.Errorf("round-tripped version = %s, want %s", v.String(), LayoutVersion)
	}
}

func TestSatisfies(t *testing.T) {
	word := Word()
	ok, err := Satisfies(word, ">= 1.0.0, < 2.0.0")
	if err != nil {
		t.Fatalf("Satisfies: %v", err)
	}
	if !ok {
		t.Errorf("Satisfies(%#x, \">=1.0.0,<2.0.0\") = false, want true", word)
	}

	ok, err = Satisfies(word, ">= 2.0.0")
	if err != nil {
		t.Fatalf("Satisfies: %v", err)
	}
	if ok {
		t.Errorf("Satisfies(%#x, \">=2.0.0\") = true, want false", word)
	}
}

func TestSatisfiesRejectsBadConstraint(t *testing.T) {
	if _, err := Satisfies(Word(), "not a constraint"); err == nil {
		t.Fatalf("Satisfies with malformed constraint: expected error, got nil")
	}
}
