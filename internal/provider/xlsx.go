package provider

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/takeoff-cli/internal/model"
)

// XLSX treats each worksheet of a schedule workbook as one page whose
// grid is a single table. Fixture and equipment schedules usually ship
// this way.
type XLSX struct {
	path string
}

func NewXLSX(path string) *XLSX {
	return &XLSX{path: path}
}

func (p *XLSX) Source() string { return p.path }

func (p *XLSX) Pages(ctx context.Context) ([]model.PageText, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "provider: context done")
	}
	f, err := xlsx.OpenFile(p.path)
	if err != nil {
		return nil, eris.Wrap(err, "provider: open xlsx")
	}

	pages := make([]model.PageText, 0, len(f.Sheets))
	for i, sheet := range f.Sheets {
		table := make(model.Table, 0, len(sheet.Rows))
		for _, row := range sheet.Rows {
			cells := make([]*string, len(row.Cells))
			for j, cell := range row.Cells {
				v := cell.String()
				cells[j] = &v
			}
			table = append(table, cells)
		}
		page := model.PageText{PageNumber: i + 1}
		if len(table) > 0 {
			page.Tables = []model.Table{table}
		}
		pages = append(pages, page)
	}
	return pages, nil
}
