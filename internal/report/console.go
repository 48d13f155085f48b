package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
	"golang.org/x/text/width"

	"ztFilter/internal/model"
)

const (
	columnSep = "  "
	nullCell  = "-"
)

// FormatCell 单元格显示文本：缺失为 "-"，浮点保留两位小数。
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return nullCell
	case model.Num:
		if !x.Valid {
			return nullCell
		}
		return strconv.FormatFloat(x.Value, 'f', 2, 64)
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', 2, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		if x == "" {
			return nullCell
		}
		return x
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return nullCell
	}
	return s
}

// displayWidth 终端显示宽度，全角与宽字符按 2 列计。
func displayWidth(s string) int {
	n := 0
	for len(s) > 0 {
		p, size := width.LookupString(s)
		switch p.Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			if size > 0 {
				n++
			}
		}
		if size == 0 {
			_, size = utf8.DecodeRuneInString(s)
		}
		s = s[size:]
	}
	return n
}

func padLeft(s string, w int) string {
	if d := w - displayWidth(s); d > 0 {
		return strings.Repeat(" ", d) + s
	}
	return s
}

// Fprint 以右对齐文本表格打印，首行为列名，不输出行号。
func Fprint(w io.Writer, t *model.Table) error {
	if t == nil || len(t.Columns) == 0 {
		return nil
	}
	cells := make([][]string, 0, t.Len()+1)
	cells = append(cells, t.Columns)
	for _, row := range t.Rows {
		line := make([]string, len(row))
		for j, v := range row {
			line[j] = FormatCell(v)
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(t.Columns))
	for _, line := range cells {
		for j, s := range line {
			if dw := displayWidth(s); dw > widths[j] {
				widths[j] = dw
			}
		}
	}

	bw := bufio.NewWriter(w)
	for _, line := range cells {
		for j, s := range line {
			if j > 0 {
				bw.WriteString(columnSep)
			}
			bw.WriteString(padLeft(s, widths[j]))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Head 前 n 行的副本。
func Head(t *model.Table, n int) *model.Table {
	out := t.Clone()
	if n >= 0 && len(out.Rows) > n {
		out.Rows = out.Rows[:n]
	}
	return out
}
