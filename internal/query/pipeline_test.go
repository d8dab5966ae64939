package query

import (
	"reflect"
	"testing"
	"time"
)

type rec struct {
	ID       int
	Title    string
	Status   string
	Priority string
	Created  time.Time
}

var recRanks = map[string]int{"critical": 5, "high": 4, "medium": 3, "low": 2, "info": 1}

var recFields = FieldSet[rec]{
	Sort: map[string]func(rec) Value{
		"title":      func(r rec) Value { return String(r.Title) },
		"priority":   func(r rec) Value { return Rank(recRanks[r.Priority]) },
		"created_at": func(r rec) Value { return Instant(r.Created) },
	},
	Filter: map[string]func(rec) string{
		"status":   func(r rec) string { return r.Status },
		"priority": func(r rec) string { return r.Priority },
	},
	Search: []func(rec) string{
		func(r rec) string { return r.Title },
	},
}

func sampleRecs() []rec {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []rec{
		{ID: 1, Title: "Brute force on vpn", Status: "new", Priority: "high", Created: base},
		{ID: 2, Title: "Malware beacon", Status: "new", Priority: "critical", Created: base.Add(time.Hour)},
		{ID: 3, Title: "Port scan", Status: "resolved", Priority: "low", Created: base.Add(2 * time.Hour)},
		{ID: 4, Title: "Phishing campaign", Status: "new", Priority: "critical", Created: base.Add(3 * time.Hour)},
		{ID: 5, Title: "Failed logins", Status: "in_progress", Priority: "medium", Created: base.Add(4 * time.Hour)},
	}
}

func ids(items []rec) []int {
	out := make([]int, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}

func TestFilterMatchesAllCriteria(t *testing.T) {
	c := NewCriteria("recs").With("status", "new").With("priority", "critical")
	got := Filter(sampleRecs(), recFields, c)
	if !reflect.DeepEqual(ids(got), []int{2, 4}) {
		t.Fatalf("expected records 2 and 4, got %v", ids(got))
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	c := NewCriteria("recs").With("status", "new")
	once := Filter(sampleRecs(), recFields, c)
	twice := Filter(once, recFields, c)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Fatalf("second filter pass changed the result: %v vs %v", ids(once), ids(twice))
	}
}

func TestFilterSearchIsCaseInsensitiveSubstring(t *testing.T) {
	c := NewCriteria("recs").With(SearchKey, "BRUTE")
	got := Filter(sampleRecs(), recFields, c)
	if !reflect.DeepEqual(ids(got), []int{1}) {
		t.Fatalf("expected record 1, got %v", ids(got))
	}

	// Search combines with enum filters rather than replacing them.
	c = NewCriteria("recs").With(SearchKey, "brute").With("status", "resolved")
	if got := Filter(sampleRecs(), recFields, c); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", ids(got))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	items := sampleRecs()
	before := ids(items)
	_ = Filter(items, recFields, NewCriteria("recs").With("status", "new"))
	if !reflect.DeepEqual(ids(items), before) {
		t.Fatalf("input slice reordered: %v", ids(items))
	}
}

func TestSortByRankBothDirections(t *testing.T) {
	desc := Sort(sampleRecs(), recFields, SortSpec{Field: "priority", Descending: true})
	if !reflect.DeepEqual(ids(desc), []int{2, 4, 1, 5, 3}) {
		t.Fatalf("descending priority order wrong: %v", ids(desc))
	}

	asc := Sort(sampleRecs(), recFields, SortSpec{Field: "priority"})
	if !reflect.DeepEqual(ids(asc), []int{3, 5, 1, 2, 4}) {
		t.Fatalf("ascending priority order wrong: %v", ids(asc))
	}
}

func TestSortIsStableUnderBothDirections(t *testing.T) {
	// Records 2 and 4 tie on priority; both directions must keep their
	// input order because the comparator flips, not the result.
	desc := Sort(sampleRecs(), recFields, SortSpec{Field: "priority", Descending: true})
	if desc[0].ID != 2 || desc[1].ID != 4 {
		t.Fatalf("equal records reordered descending: %v", ids(desc))
	}
	asc := Sort(sampleRecs(), recFields, SortSpec{Field: "priority"})
	if asc[3].ID != 2 || asc[4].ID != 4 {
		t.Fatalf("equal records reordered ascending: %v", ids(asc))
	}
}

func TestSortUnknownFieldKeepsOrder(t *testing.T) {
	got := Sort(sampleRecs(), recFields, SortSpec{Field: "nope"})
	if !reflect.DeepEqual(ids(got), []int{1, 2, 3, 4, 5}) {
		t.Fatalf("unknown sort field changed order: %v", ids(got))
	}
}

func TestSortStringsCaseInsensitive(t *testing.T) {
	items := []rec{
		{ID: 1, Title: "zeta"},
		{ID: 2, Title: "Alpha"},
		{ID: 3, Title: "beta"},
	}
	got := Sort(items, recFields, SortSpec{Field: "title"})
	if !reflect.DeepEqual(ids(got), []int{2, 3, 1}) {
		t.Fatalf("case-insensitive title order wrong: %v", ids(got))
	}
}

func TestPaginateClampsAndCounts(t *testing.T) {
	items := sampleRecs()

	page := Paginate(items, PageRequest{Page: 1, Size: 2})
	if page.TotalCount != 5 || page.TotalPages != 3 {
		t.Fatalf("totals wrong: count=%d pages=%d", page.TotalCount, page.TotalPages)
	}
	if !reflect.DeepEqual(ids(page.Items), []int{1, 2}) {
		t.Fatalf("page 1 wrong: %v", ids(page.Items))
	}

	// Out-of-range pages clamp to the last page.
	page = Paginate(items, PageRequest{Page: 99, Size: 2})
	if page.Page != 3 || !reflect.DeepEqual(ids(page.Items), []int{5}) {
		t.Fatalf("clamped page wrong: page=%d items=%v", page.Page, ids(page.Items))
	}

	// Below-range pages clamp to the first.
	page = Paginate(items, PageRequest{Page: 0, Size: 2})
	if page.Page != 1 {
		t.Fatalf("expected page 1, got %d", page.Page)
	}
}

func TestPaginateEmptyCollection(t *testing.T) {
	page := Paginate([]rec{}, PageRequest{Page: 3, Size: 10})
	if len(page.Items) != 0 || page.TotalCount != 0 || page.TotalPages != 0 {
		t.Fatalf("empty pagination wrong: %+v", page)
	}
}

func TestPagesReconstructFilteredSet(t *testing.T) {
	c := NewCriteria("recs").With("status", "new")
	spec := SortSpec{Field: "created_at", Descending: true}
	want := ApplyAll(sampleRecs(), recFields, c, spec)

	var got []rec
	for p := 1; ; p++ {
		page := Apply(sampleRecs(), recFields, c, spec, PageRequest{Page: p, Size: 2})
		got = append(got, page.Items...)
		if p >= page.TotalPages {
			break
		}
	}
	if !reflect.DeepEqual(ids(got), ids(want)) {
		t.Fatalf("concatenated pages differ from full set: %v vs %v", ids(got), ids(want))
	}
}
