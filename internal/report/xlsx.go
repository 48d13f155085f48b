package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"ztFilter/internal/model"
)

const defaultSheet = "Sheet1"

// Sheet 导出到 Excel 的单个工作表。
type Sheet struct {
	Name  string
	Table *model.Table
}

// WriteXLSX 将多个表写入同一个 xlsx 文件，首行为列名。
func WriteXLSX(path string, sheets ...Sheet) (err error) {
	if len(sheets) == 0 {
		return fmt.Errorf("xlsx: no sheets")
	}
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("xlsx: close: %w", cerr)
		}
	}()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sh.Name); err != nil {
				return fmt.Errorf("xlsx: rename sheet %q: %w", sh.Name, err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("xlsx: new sheet %q: %w", sh.Name, err)
		}
		if err := writeSheet(f, sh); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh Sheet) error {
	if sh.Table == nil {
		return nil
	}
	header := make([]any, len(sh.Table.Columns))
	for i, c := range sh.Table.Columns {
		header[i] = c
	}
	if err := setRow(f, sh.Name, 1, header); err != nil {
		return err
	}
	for i, row := range sh.Table.Rows {
		if err := setRow(f, sh.Name, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("xlsx: cell name: %w", err)
	}
	row := make([]any, len(values))
	copy(row, values)
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("xlsx: write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
