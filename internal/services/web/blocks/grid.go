package blocks

import (
	"context"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/uslusolutions/clinicweb/internal/services/web/content"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/markup"
)

// GridClasses returns the layout classes for a 12-column grid cell.
func GridClasses(columnSpan, rowSpan int) string {
	var classes []string
	switch {
	case columnSpan == 12:
		classes = append(classes, "col-span-full")
	case columnSpan > 0:
		classes = append(classes, "md:col-span-"+strconv.Itoa(columnSpan))
	}
	if rowSpan > 1 {
		classes = append(classes, "md:row-span-"+strconv.Itoa(rowSpan))
	}
	return strings.Join(classes, " ")
}

// RenderGrid renders a block grid. Items with areas render their area
// items; other items without content are skipped.
func (d *Dispatcher) RenderGrid(grid content.BlockGrid) templ.Component {
	if len(grid.Items) == 0 {
		return templ.NopComponent
	}
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		w.Open("div", markup.Class("grid grid-cols-12 gap-6"))
		for _, item := range grid.Items {
			if len(item.Areas) > 0 {
				d.renderGridAreas(ctx, w, item)
				continue
			}
			if item.Content == nil {
				continue
			}
			w.Open("div", markup.Class(GridClasses(item.ColumnSpan, item.RowSpan)))
			w.Component(ctx, d.Render(item.Content))
			w.Close("div")
		}
		w.Close("div")
	})
}

func (d *Dispatcher) renderGridAreas(ctx context.Context, w *markup.Writer, item content.GridItem) {
	w.Open("div", markup.Class(GridClasses(item.ColumnSpan, item.RowSpan)))
	w.Open("div", markup.Class("grid grid-cols-12 gap-6 items-start"))
	for _, area := range item.Areas {
		classes := strings.TrimSpace(GridClasses(area.ColumnSpan, area.RowSpan) + " self-start")
		w.Open("div", markup.Class(classes), markup.Opt("data-area", area.Alias))
		for _, areaItem := range area.Items {
			if areaItem.Content == nil {
				continue
			}
			w.Open("div")
			w.Component(ctx, d.Render(areaItem.Content))
			w.Close("div")
		}
		w.Close("div")
	}
	w.Close("div")
	w.Close("div")
}
