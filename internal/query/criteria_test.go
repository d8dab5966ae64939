package query

import "testing"

func TestCriteriaWithRemovesEmptyValues(t *testing.T) {
	c := NewCriteria("alerts").With("status", "new")
	if got := c.Get("status"); got != "new" {
		t.Fatalf("expected status=new, got %q", got)
	}

	cleared := c.With("status", "")
	if got := cleared.Get("status"); got != "" {
		t.Fatalf("expected status cleared, got %q", got)
	}
	if len(cleared.Keys()) != 0 {
		t.Fatalf("expected no keys after clearing, got %v", cleared.Keys())
	}

	// The original is untouched; With returns copies.
	if got := c.Get("status"); got != "new" {
		t.Fatalf("original criteria mutated: status=%q", got)
	}
}

func TestCriteriaSignatureIsCanonical(t *testing.T) {
	a := NewCriteria("alerts").With("status", "new").With("priority", "critical")
	b := NewCriteria("alerts").With("priority", "critical").With("status", "new")

	if a.Signature() != b.Signature() {
		t.Fatalf("signatures differ for equal criteria: %q vs %q", a.Signature(), b.Signature())
	}
	want := "alerts|priority=critical|status=new"
	if a.Signature() != want {
		t.Fatalf("signature = %q, want %q", a.Signature(), want)
	}
}

func TestCriteriaEqual(t *testing.T) {
	a := NewCriteria("alerts").With("status", "new")
	b := NewCriteria("alerts").With("status", "new").With("priority", "")
	if !a.Equal(b) {
		t.Fatalf("criteria with empty-value key should equal criteria without it")
	}

	c := NewCriteria("incidents").With("status", "new")
	if a.Equal(c) {
		t.Fatalf("criteria for different resources should not be equal")
	}
}
