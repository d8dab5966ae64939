package model

import "testing"

func TestPriorityRankOrder(t *testing.T) {
	want := []string{PriorityInfo, PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
	for i := 1; i < len(want); i++ {
		if PriorityRank(want[i]) <= PriorityRank(want[i-1]) {
			t.Fatalf("%s should rank above %s", want[i], want[i-1])
		}
	}
	if PriorityRank("bogus") != 0 {
		t.Fatalf("unknown priority should rank 0")
	}
	if PriorityRank(PriorityInfo) != 1 || PriorityRank(PriorityCritical) != 5 {
		t.Fatalf("rank endpoints wrong: info=%d critical=%d", PriorityRank(PriorityInfo), PriorityRank(PriorityCritical))
	}
}

func TestSeverityRankOrder(t *testing.T) {
	want := []string{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(want); i++ {
		if SeverityRank(want[i]) <= SeverityRank(want[i-1]) {
			t.Fatalf("%s should rank above %s", want[i], want[i-1])
		}
	}
}

func TestFormatScore(t *testing.T) {
	if got := FormatScore(nil); got != "N/A" {
		t.Fatalf("nil score = %q, want N/A", got)
	}
	score := 0.875
	if got := FormatScore(&score); got != "0.88" {
		t.Fatalf("score = %q, want 0.88", got)
	}
}

func TestFormatOptionalHelpers(t *testing.T) {
	if got := FormatOptionalTime(nil); got != "" {
		t.Fatalf("nil time = %q", got)
	}
	if got := FormatOptionalInt(nil); got != "" {
		t.Fatalf("nil int = %q", got)
	}
	n := 42
	if got := FormatOptionalInt(&n); got != "42" {
		t.Fatalf("int = %q", got)
	}
}
