package query

import "testing"

func TestSetFilterResetsPage(t *testing.T) {
	v := NewViewState("alerts", SortSpec{Field: "created_at", Descending: true}, 10)
	v.SetPage(4)

	v.SetFilter("status", "new")
	if v.Page() != 1 {
		t.Fatalf("expected page reset to 1 after filter change, got %d", v.Page())
	}
}

func TestSetFilterSameValueKeepsPage(t *testing.T) {
	v := NewViewState("alerts", SortSpec{Field: "created_at", Descending: true}, 10)
	v.SetFilter("status", "new")
	v.SetPage(3)

	// Re-applying the identical constraint is a no-op.
	v.SetFilter("status", "new")
	if v.Page() != 3 {
		t.Fatalf("expected page 3 preserved, got %d", v.Page())
	}
}

func TestSearchChangeResetsPage(t *testing.T) {
	v := NewViewState("alerts", SortSpec{Field: "created_at", Descending: true}, 10)
	v.SetPage(2)

	v.SetFilter(SearchKey, "malware")
	if v.Page() != 1 {
		t.Fatalf("expected page reset after search change, got %d", v.Page())
	}
}

func TestClearFilters(t *testing.T) {
	v := NewViewState("alerts", SortSpec{Field: "created_at", Descending: true}, 10)
	v.SetFilter("status", "new")
	v.SetFilter("priority", "critical")
	v.SetPage(2)

	v.ClearFilters()
	if len(v.Criteria().Keys()) != 0 {
		t.Fatalf("expected no criteria after clear, got %v", v.Criteria().Keys())
	}
	if v.Page() != 1 {
		t.Fatalf("expected page 1 after clear, got %d", v.Page())
	}
}

func TestSortByTogglesDirection(t *testing.T) {
	v := NewViewState("alerts", SortSpec{Field: "created_at", Descending: true}, 10)

	v.SortBy("priority")
	if spec := v.Sort(); spec.Field != "priority" || spec.Descending {
		t.Fatalf("new sort field should start ascending, got %+v", spec)
	}

	v.SortBy("priority")
	if spec := v.Sort(); !spec.Descending {
		t.Fatalf("repeated sort on same field should flip to descending, got %+v", spec)
	}

	v.SortBy("title")
	if spec := v.Sort(); spec.Field != "title" || spec.Descending {
		t.Fatalf("switching field should reset to ascending, got %+v", spec)
	}
}

func TestSortKeepsPage(t *testing.T) {
	v := NewViewState("alerts", SortSpec{Field: "created_at", Descending: true}, 10)
	v.SetPage(2)
	v.SortBy("priority")
	if v.Page() != 2 {
		t.Fatalf("sorting should not reset the page, got %d", v.Page())
	}
}
