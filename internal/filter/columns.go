package filter

import "ztFilter/internal/model"

// Field 参与过滤的逻辑字段
type Field int

const (
	FieldPrice Field = iota
	FieldMarketCap
	FieldConsecutiveDays
	FieldHalfYearCount
	fieldCount
)

// 输出列名
const (
	LabelCode            = "code"
	LabelName            = "name"
	LabelPrice           = "price"
	LabelMarketCap       = "market_cap(hundred-million)"
	LabelConsecutiveDays = "consecutive_days"
	LabelHalfYearCount   = "half_year_count"
)

// compositeCountColumn 该列格式为“总次数/半年次数”，需单独解析
const compositeCountColumn = "涨停统计"

var (
	codeCandidates = []string{"代码", LabelCode}
	nameCandidates = []string{"名称", LabelName}

	// 各版本数据源的候选列名，按优先级排列；输出列名放在最后，便于对结果再次过滤
	fieldCandidates = [fieldCount][]string{
		FieldPrice:           {"最新价", "现价", "收盘价", LabelPrice},
		FieldMarketCap:       {"总市值", "总市值(亿)", "总市值-亿", LabelMarketCap},
		FieldConsecutiveDays: {"连续涨停天数", "连板数", "连板次数", LabelConsecutiveDays},
		FieldHalfYearCount:   {compositeCountColumn, "半年涨停次数", "近半年涨停次数", LabelHalfYearCount},
	}

	fieldLabels = [fieldCount]string{
		FieldPrice:           LabelPrice,
		FieldMarketCap:       LabelMarketCap,
		FieldConsecutiveDays: LabelConsecutiveDays,
		FieldHalfYearCount:   LabelHalfYearCount,
	}

	fieldNames = [fieldCount]string{
		FieldPrice:           "最新价",
		FieldMarketCap:       "总市值",
		FieldConsecutiveDays: "连续涨停天数",
		FieldHalfYearCount:   "涨停统计(近半年涨停次数)",
	}
)

// Fields 全部逻辑字段，按输出顺序。
func Fields() []Field {
	return []Field{FieldPrice, FieldMarketCap, FieldConsecutiveDays, FieldHalfYearCount}
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// Label 输出列名
func (f Field) Label() string {
	if f < 0 || f >= fieldCount {
		return ""
	}
	return fieldLabels[f]
}

// Columns 一次解析得到的实际列名，空串表示该字段缺失。
type Columns struct {
	Code   string
	Name   string
	fields [fieldCount]string
}

// ResolveColumns 按候选顺序为每个逻辑字段找到表中实际存在的列。
func ResolveColumns(t *model.Table) Columns {
	var c Columns
	c.Code = firstPresent(t, codeCandidates)
	c.Name = firstPresent(t, nameCandidates)
	for f := Field(0); f < fieldCount; f++ {
		c.fields[f] = firstPresent(t, fieldCandidates[f])
	}
	return c
}

func firstPresent(t *model.Table, candidates []string) string {
	for _, name := range candidates {
		if t.HasColumn(name) {
			return name
		}
	}
	return ""
}

func (c Columns) Column(f Field) string {
	if f < 0 || f >= fieldCount {
		return ""
	}
	return c.fields[f]
}

func (c Columns) Has(f Field) bool {
	return c.Column(f) != ""
}

// Missing 未能解析的逻辑字段，按字段顺序。
func (c Columns) Missing() []Field {
	var out []Field
	for f := Field(0); f < fieldCount; f++ {
		if !c.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// CompositeCount 半年涨停次数是否取自“总次数/半年次数”列。
func (c Columns) CompositeCount() bool {
	return c.fields[FieldHalfYearCount] == compositeCountColumn
}
