package filter

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"ztFilter/internal/model"
	"ztFilter/internal/trace"
)

// FilterStocks 按首板策略过滤涨停股池，输入表不被修改。
//
// 四个逻辑字段全部缺失时只返回代码、名称两列（二者也缺失则原样返回副本）；
// 部分缺失时对应条件视为满足。结果按近半年涨停次数降序、连板数降序、总市值升序稳定排序，
// 列名统一为 code/name/price/market_cap(hundred-million)/consecutive_days/half_year_count。
func FilterStocks(ctx context.Context, t *model.Table) *model.Table {
	if t.Empty() {
		if t == nil {
			return model.NewTable()
		}
		return t
	}
	data := t.Clone()
	cols := ResolveColumns(data)

	missing := cols.Missing()
	if len(missing) == int(fieldCount) {
		trace.Log(ctx, "filter: 数据列缺失，无法按策略过滤，缺失列：%s", joinFields(missing))
		if cols.Code != "" && cols.Name != "" {
			return data.Select(cols.Code, cols.Name)
		}
		return data
	}
	if len(missing) > 0 {
		trace.Log(ctx, "filter: 数据列缺失，对应条件视为满足，缺失列：%s", joinFields(missing))
	}

	stocks := buildStocks(ctx, data, cols)
	strategy := FirstBoardStrategy(cols)
	selected := make([]*model.LimitUpStock, 0, len(stocks))
	for i := range stocks {
		if strategy(&stocks[i]) {
			selected = append(selected, &stocks[i])
		}
	}
	sortStocks(selected, cols)
	trace.Log(ctx, "filter: 涨停 %d 只 -> 入选 %d 只", len(stocks), len(selected))
	return project(selected, cols)
}

// buildStocks 逐行转为 LimitUpStock：数值列转换失败记为缺失，涨停统计列按“总/半年”解析，
// 市值按整列最大值判断单位。
func buildStocks(ctx context.Context, t *model.Table, cols Columns) []model.LimitUpStock {
	stocks := make([]model.LimitUpStock, t.Len())
	caps := make([]model.Num, t.Len())
	for i := range stocks {
		s := &stocks[i]
		if cols.Code != "" {
			s.Code = cast.ToString(t.Value(i, cols.Code))
		}
		if cols.Name != "" {
			s.Name = cast.ToString(t.Value(i, cols.Name))
		}
		if cols.Has(FieldPrice) {
			s.Price = ToNum(t.Value(i, cols.Column(FieldPrice)))
		}
		if cols.Has(FieldMarketCap) {
			caps[i] = ToNum(t.Value(i, cols.Column(FieldMarketCap)))
		}
		if cols.Has(FieldConsecutiveDays) {
			s.ConsecutiveDays = ToNum(t.Value(i, cols.Column(FieldConsecutiveDays)))
		}
		if cols.CompositeCount() {
			s.HalfYearCount = model.NumOf(float64(ParseHalfYearCount(t.Value(i, cols.Column(FieldHalfYearCount)))))
		} else if cols.Has(FieldHalfYearCount) {
			s.HalfYearCount = ToNum(t.Value(i, cols.Column(FieldHalfYearCount)))
		}
	}
	if cols.Has(FieldMarketCap) {
		normalized, rescaled := NormalizeMarketCap(caps)
		if rescaled {
			trace.Log(ctx, "filter: %s 列单位为元，已换算为亿元", cols.Column(FieldMarketCap))
		}
		for i := range stocks {
			stocks[i].MarketCap = normalized[i]
		}
	}
	return stocks
}

// sortStocks 稳定排序：半年涨停次数降序、连板数降序、总市值升序，只用已解析的列；缺失值排最后。
func sortStocks(stocks []*model.LimitUpStock, cols Columns) {
	type key struct {
		field Field
		get   func(*model.LimitUpStock) model.Num
		desc  bool
	}
	all := []key{
		{FieldHalfYearCount, func(s *model.LimitUpStock) model.Num { return s.HalfYearCount }, true},
		{FieldConsecutiveDays, func(s *model.LimitUpStock) model.Num { return s.ConsecutiveDays }, true},
		{FieldMarketCap, func(s *model.LimitUpStock) model.Num { return s.MarketCap }, false},
	}
	keys := all[:0]
	for _, k := range all {
		if cols.Has(k.field) {
			keys = append(keys, k)
		}
	}
	sort.SliceStable(stocks, func(i, j int) bool {
		for _, k := range keys {
			a, b := k.get(stocks[i]), k.get(stocks[j])
			if c := compareNum(a, b, k.desc); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// compareNum 返回 -1 表示 a 排在 b 前；缺失值无论升降序都排在最后。
func compareNum(a, b model.Num, desc bool) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return 1
	case !b.Valid:
		return -1
	case a.Value == b.Value:
		return 0
	case (a.Value < b.Value) != desc:
		return -1
	default:
		return 1
	}
}

// project 只保留代码、名称及已解析的字段列，并统一列名。
func project(stocks []*model.LimitUpStock, cols Columns) *model.Table {
	var names []string
	if cols.Code != "" {
		names = append(names, LabelCode)
	}
	if cols.Name != "" {
		names = append(names, LabelName)
	}
	for f := Field(0); f < fieldCount; f++ {
		if cols.Has(f) {
			names = append(names, f.Label())
		}
	}
	out := model.NewTable(names...)
	for _, s := range stocks {
		row := make([]any, 0, len(names))
		if cols.Code != "" {
			row = append(row, s.Code)
		}
		if cols.Name != "" {
			row = append(row, s.Name)
		}
		if cols.Has(FieldPrice) {
			row = append(row, s.Price.Value)
		}
		if cols.Has(FieldMarketCap) {
			row = append(row, s.MarketCap.Value)
		}
		if cols.Has(FieldConsecutiveDays) {
			row = append(row, countCell(s.ConsecutiveDays))
		}
		if cols.Has(FieldHalfYearCount) {
			row = append(row, countCell(s.HalfYearCount))
		}
		_ = out.Append(row...)
	}
	return out
}

// countCell 整数值输出为 int64，其余保持 float64
func countCell(n model.Num) any {
	if n.Value == math.Trunc(n.Value) && math.Abs(n.Value) < math.MaxInt32 {
		return int64(n.Value)
	}
	return n.Value
}

func joinFields(fs []Field) string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
