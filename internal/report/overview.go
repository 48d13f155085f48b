// Package report 输出涨停池与筛选结果：控制台对齐打印、Excel 导出。
package report

import (
	"ztFilter/internal/filter"
	"ztFilter/internal/model"
)

// Overview 当日全部涨停股的展示视图：代码、名称及识别到的价格、市值、连板数、涨停统计列。
// 市值为元时换算为亿元并改名为 market_cap(hundred-million)。代码或名称列缺失时返回 false。
func Overview(t *model.Table) (*model.Table, bool) {
	cols := filter.ResolveColumns(t)
	if cols.Code == "" || cols.Name == "" {
		return nil, false
	}
	names := []string{cols.Code, cols.Name}
	for _, f := range filter.Fields() {
		if cols.Has(f) {
			names = append(names, cols.Column(f))
		}
	}
	view := t.Select(names...)
	if !cols.Has(filter.FieldMarketCap) {
		return view, true
	}

	capCol := cols.Column(filter.FieldMarketCap)
	raw := view.Column(capCol)
	caps := make([]model.Num, len(raw))
	for i, v := range raw {
		caps[i] = filter.ToNum(v)
	}
	normalized, rescaled := filter.NormalizeMarketCap(caps)
	if !rescaled {
		return view, true
	}
	values := make([]any, len(normalized))
	for i, n := range normalized {
		if n.Valid {
			values[i] = n.Value
		}
	}
	if err := view.AddColumn(capCol, values); err != nil {
		return view, true
	}
	return view.Rename(map[string]string{capCol: filter.LabelMarketCap}), true
}
