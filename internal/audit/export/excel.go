package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Events"

// Row fill colors keyed by level, so severity is scannable at a glance.
var levelFills = map[string]string{
	"error": "FFC7CE",
	"warn":  "FFEB9C",
	"info":  "DDEBF7",
	"debug": "EDEDED",
}

func encodeExcel(events []FlatEvent) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
	})
	if err != nil {
		return nil, err
	}

	cols := Columns()
	for i, name := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	// One style per level, created lazily and reused across rows.
	rowStyles := make(map[string]int, len(levelFills))
	for level, color := range levelFills {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return nil, err
		}
		rowStyles[level] = style
	}

	for r, e := range events {
		rowNum := r + 2
		values := e.Row()
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, rowNum)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
		if style, ok := rowStyles[e.Level]; ok {
			first, _ := excelize.CoordinatesToCellName(1, rowNum)
			last, _ := excelize.CoordinatesToCellName(len(values), rowNum)
			if err := f.SetCellStyle(sheetName, first, last, style); err != nil {
				return nil, err
			}
		}
	}

	// Freeze the header row.
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
