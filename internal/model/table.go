package model

import "fmt"

// Table 接口返回的二维表：有序列名 + 行。不同版本数据源的列集合可能不同。
type Table struct {
	Columns []string
	Rows    [][]any
}

func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty 无行或无列均视为空表。
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0 || len(t.Columns) == 0
}

func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Append 追加一行，值个数须与列数一致。
func (t *Table) Append(values ...any) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("model: row has %d values, table has %d columns", len(values), len(t.Columns))
	}
	row := make([]any, len(values))
	copy(row, values)
	t.Rows = append(t.Rows, row)
	return nil
}

// Value 取单元格，列不存在或越界返回 nil。
func (t *Table) Value(row int, column string) any {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= t.Len() {
		return nil
	}
	return t.Rows[row][idx]
}

func (t *Table) Column(name string) []any {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out
}

// AddColumn 追加一列（已存在则覆盖该列的值）。
func (t *Table) AddColumn(name string, values []any) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("model: column %q has %d values, table has %d rows", name, len(values), len(t.Rows))
	}
	if idx := t.ColumnIndex(name); idx >= 0 {
		for i := range t.Rows {
			t.Rows[i][idx] = values[i]
		}
		return nil
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// Clone 复制列名与每一行，单元格值按值拷贝。
func (t *Table) Clone() *Table {
	if t == nil {
		return NewTable()
	}
	out := NewTable(t.Columns...)
	out.Rows = make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]any, len(r))
		copy(row, r)
		out.Rows[i] = row
	}
	return out
}

// Select 按给定顺序投影列，不存在的列忽略。
func (t *Table) Select(columns ...string) *Table {
	if t == nil {
		return NewTable()
	}
	idx := make([]int, 0, len(columns))
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		if i := t.ColumnIndex(c); i >= 0 {
			idx = append(idx, i)
			names = append(names, c)
		}
	}
	out := NewTable(names...)
	out.Rows = make([][]any, 0, t.Len())
	for _, r := range t.Rows {
		row := make([]any, len(idx))
		for j, i := range idx {
			row[j] = r[i]
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Rename 返回列名按 mapping 替换后的副本。
func (t *Table) Rename(mapping map[string]string) *Table {
	out := t.Clone()
	for i, c := range out.Columns {
		if n, ok := mapping[c]; ok {
			out.Columns[i] = n
		}
	}
	return out
}
