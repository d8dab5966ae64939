package query

// ViewState tracks the client-local presentation state of one list view:
// active criteria, sort, and current page. It enforces the page-reset
// invariant: any filter change returns the view to page 1.
type ViewState struct {
	criteria Criteria
	sortSpec SortSpec
	page     int
	pageSize int
}

// NewViewState creates view state for a resource with its default sort.
func NewViewState(resource string, defaultSort SortSpec, pageSize int) *ViewState {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &ViewState{
		criteria: NewCriteria(resource),
		sortSpec: defaultSort,
		page:     1,
		pageSize: pageSize,
	}
}

// Criteria returns the active filter criteria.
func (v *ViewState) Criteria() Criteria { return v.criteria }

// Sort returns the active sort spec.
func (v *ViewState) Sort() SortSpec { return v.sortSpec }

// Page returns the current 1-based page number.
func (v *ViewState) Page() int { return v.page }

// PageSize returns the fixed page size.
func (v *ViewState) PageSize() int { return v.pageSize }

// Request returns the pagination request for the current page.
func (v *ViewState) Request() PageRequest {
	return PageRequest{Page: v.page, Size: v.pageSize}
}

// SetFilter updates one criteria key. A changed filter invalidates the
// current page position, so the page resets to 1.
func (v *ViewState) SetFilter(key, value string) {
	next := v.criteria.With(key, value)
	if next.Equal(v.criteria) {
		return
	}
	v.criteria = next
	v.page = 1
}

// ClearFilters removes all criteria and resets to page 1.
func (v *ViewState) ClearFilters() {
	if len(v.criteria.Keys()) == 0 {
		return
	}
	v.criteria = NewCriteria(v.criteria.Resource())
	v.page = 1
}

// SortBy sorts by field, toggling direction when the field is already
// active; a new field starts ascending. The page is kept: sorting reorders
// the same filtered set.
func (v *ViewState) SortBy(field string) {
	if v.sortSpec.Field == field {
		v.sortSpec.Descending = !v.sortSpec.Descending
		return
	}
	v.sortSpec = SortSpec{Field: field}
}

// SetPage moves to the given page; pagination clamps out-of-range values.
func (v *ViewState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.page = page
}
