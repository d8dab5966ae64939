package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sentinelops/triage-console/internal/cache"
	"github.com/sentinelops/triage-console/internal/export"
	"github.com/sentinelops/triage-console/internal/model"
	"github.com/sentinelops/triage-console/internal/query"
)

// column describes one table column of a list view. A non-empty field makes
// the column sortable via its number key.
type column[T any] struct {
	title string
	field string
	width int
	value func(T) string
}

// filterSpec describes one enumerated filter dropdown.
type filterSpec struct {
	key     string
	label   string
	options []string
}

// listView is one resource tab: filter bar, table, pagination footer. The
// resource-specific behavior is bound in by buildListView closures so the
// tab itself stays type-free.
type listView struct {
	ui       *UI
	title    string
	resource string
	state    *query.ViewState

	layout   *tview.Flex
	table    *tview.Table
	search   *tview.InputField
	filters  []*tview.DropDown
	pageInfo *tview.TextView

	sortFields []string
	renderFn   func()
	exportFn   func()
	onKey      func(event *tcell.EventKey, row int) bool
	unsub      func()
	watchFn    func()
}

// buildListView assembles a list view over one resource cache.
func buildListView[T any](u *UI, title, resource string, c *cache.Cache[T], cols []column[T],
	exportCols []export.Column[T], filters []filterSpec, pageSize int,
	onKey func(v *listView, item T, event *tcell.EventKey) bool) *listView {

	v := &listView{
		ui:       u,
		title:    title,
		resource: resource,
		state:    query.NewViewState(resource, model.DefaultSort, pageSize),
	}
	for _, col := range cols {
		if col.field != "" {
			v.sortFields = append(v.sortFields, col.field)
		}
	}

	v.table = tview.NewTable().SetSelectable(true, false).SetFixed(1, 0)
	v.table.SetBorder(true).SetTitle(" " + title + " ")

	v.search = tview.NewInputField().SetLabel("Search: ").SetFieldWidth(28)
	v.search.SetChangedFunc(func(text string) {
		v.setFilter(query.SearchKey, text)
	})
	v.search.SetDoneFunc(func(tcell.Key) { u.app.SetFocus(v.table) })

	filterBar := tview.NewFlex().AddItem(v.search, 40, 0, false)
	for _, spec := range filters {
		spec := spec
		options := append([]string{"all"}, spec.options...)
		dd := tview.NewDropDown().SetLabel(spec.label + ": ").SetOptions(options, nil)
		// SetCurrentOption invokes the selection handler synchronously, so
		// the handler goes in after the initial selection; the render
		// closure it reaches does not exist yet at this point.
		dd.SetCurrentOption(0)
		dd.SetSelectedFunc(func(option string, _ int) {
			if option == "all" {
				option = ""
			}
			v.setFilter(spec.key, option)
			u.app.SetFocus(v.table)
		})
		v.filters = append(v.filters, dd)
		filterBar.AddItem(dd, 0, 1, false)
	}

	v.pageInfo = tview.NewTextView().SetDynamicColors(true)

	v.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(filterBar, 1, 0, false).
		AddItem(v.table, 0, 1, true).
		AddItem(v.pageInfo, 1, 0, false)

	// page holds the records currently on screen, for selection handling.
	var page query.Page[T]

	v.renderFn = func() {
		page = c.GetPage(v.state.Criteria(), v.state.Sort(), v.state.Request())
		v.state.SetPage(page.Page)

		v.table.Clear()
		for colIdx, col := range cols {
			header := col.title
			if col.field != "" && col.field == v.state.Sort().Field {
				if v.state.Sort().Descending {
					header += " ▼"
				} else {
					header += " ▲"
				}
			}
			cell := tview.NewTableCell("[#eab308::b]" + header).
				SetSelectable(false).SetExpansion(col.width)
			v.table.SetCell(0, colIdx, cell)
		}
		for rowIdx, item := range page.Items {
			for colIdx, col := range cols {
				v.table.SetCell(rowIdx+1, colIdx,
					tview.NewTableCell(col.value(item)).SetExpansion(col.width))
			}
		}

		if page.TotalPages > 1 {
			v.pageInfo.SetText(fmt.Sprintf("[#8a939f]Page %d/%d · %d items[-]",
				page.Page, page.TotalPages, page.TotalCount))
		} else {
			v.pageInfo.SetText(fmt.Sprintf("[#8a939f]%d items[-]", page.TotalCount))
		}
	}

	v.exportFn = func() {
		records := c.GetAll(v.state.Criteria(), v.state.Sort())
		content, err := export.EncodeCSV(records, exportCols)
		if err != nil {
			u.queue.Error("No records to export")
			return
		}
		filename := export.CSVFileName(resource, time.Now())
		if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
			u.queue.Error("Failed to write " + filename)
			return
		}
		u.coord.ExportRecorded(u.ctx, resource, filename, len(records))
	}

	v.onKey = func(event *tcell.EventKey, row int) bool {
		if row < 0 || row >= len(page.Items) {
			return false
		}
		return onKey(v, page.Items[row], event)
	}

	v.watchFn = func() {
		v.resubscribe(func(crit query.Criteria, fn func()) func() {
			return c.Subscribe(crit, fn)
		})
	}

	v.table.SetInputCapture(v.handleKeys)
	return v
}

func (v *listView) render() { v.renderFn() }

func (v *listView) watch() { v.watchFn() }

// resubscribe points the snapshot-change subscription at the current
// criteria, dropping the previous one.
func (v *listView) resubscribe(subscribe func(query.Criteria, func()) func()) {
	if v.unsub != nil {
		v.unsub()
	}
	v.unsub = subscribe(v.state.Criteria(), func() {
		v.ui.app.QueueUpdateDraw(v.renderFn)
	})
}

// setFilter routes every filter change through the view state so the page
// resets, then re-subscribes and re-renders.
func (v *listView) setFilter(key, value string) {
	before := v.state.Criteria()
	v.state.SetFilter(key, value)
	if !v.state.Criteria().Equal(before) {
		v.watchFn()
	}
	v.renderFn()
}

func (v *listView) handleKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case '/':
		v.ui.app.SetFocus(v.search)
		return nil
	case 'f':
		if len(v.filters) > 0 {
			v.ui.app.SetFocus(v.filters[0])
		}
		return nil
	case 'c':
		v.search.SetText("")
		for _, dd := range v.filters {
			dd.SetCurrentOption(0)
		}
		v.state.ClearFilters()
		v.watchFn()
		v.renderFn()
		return nil
	case 'n':
		v.state.SetPage(v.state.Page() + 1)
		v.renderFn()
		return nil
	case 'p':
		v.state.SetPage(v.state.Page() - 1)
		v.renderFn()
		return nil
	case 'e':
		v.exportFn()
		return nil
	}

	if r := event.Rune(); r >= '1' && r <= '9' {
		idx := int(r - '1')
		if idx < len(v.sortFields) {
			v.state.SortBy(v.sortFields[idx])
			v.renderFn()
			return nil
		}
	}

	row, _ := v.table.GetSelection()
	if v.onKey(event, row-1) {
		return nil
	}
	return event
}
