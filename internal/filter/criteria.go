// Package filter 定义涨停股选股条件（Criterion）与组合方式（And），FilterStocks 为首板策略入口：
// 列名兼容、市值单位归一、五条件过滤、投影重命名与排序。
package filter

import "ztFilter/internal/model"

// 首板策略阈值
const (
	priceMax           = 30  // 最新价 < 30 元
	marketCapMaxYi     = 200 // 总市值 < 200 亿
	halfYearCountMin   = 3   // 近半年涨停次数 >= 3
	consecutiveDaysMax = 4   // 剔除 4 连板及以上
	firstBoardDays     = 1   // 仅首板
)

// Criterion 单条条件：入参为单只涨停股，返回是否通过。缺失值一律不通过。
type Criterion func(*model.LimitUpStock) bool

// And 依次求值，遇到不通过立即返回；nil 条件视为恒真（对应列缺失）。
func And(cs ...Criterion) Criterion {
	return func(s *model.LimitUpStock) bool {
		if s == nil {
			return false
		}
		for _, c := range cs {
			if c == nil {
				continue
			}
			if !c(s) {
				return false
			}
		}
		return true
	}
}

func PriceBelow(max float64) Criterion {
	return func(s *model.LimitUpStock) bool { return s.Price.Valid && s.Price.Value < max }
}

func MarketCapBelow(maxYi float64) Criterion {
	return func(s *model.LimitUpStock) bool { return s.MarketCap.Valid && s.MarketCap.Value < maxYi }
}

func HalfYearCountAtLeast(min float64) Criterion {
	return func(s *model.LimitUpStock) bool { return s.HalfYearCount.Valid && s.HalfYearCount.Value >= min }
}

func ConsecutiveDaysBelow(max float64) Criterion {
	return func(s *model.LimitUpStock) bool {
		return s.ConsecutiveDays.Valid && s.ConsecutiveDays.Value < max
	}
}

func FirstBoard(s *model.LimitUpStock) bool {
	return s.ConsecutiveDays.Valid && s.ConsecutiveDays.Value == firstBoardDays
}

// FirstBoardStrategy 首板策略：价格<30、市值<200亿、半年涨停>=3、连板<4、仅首板。
// 列缺失的条件为 nil，由 And 跳过。连板<4 被“仅首板”覆盖，两者都保留。
func FirstBoardStrategy(cols Columns) Criterion {
	var price, mktCap, count, lt4, first Criterion
	if cols.Has(FieldPrice) {
		price = PriceBelow(priceMax)
	}
	if cols.Has(FieldMarketCap) {
		mktCap = MarketCapBelow(marketCapMaxYi)
	}
	if cols.Has(FieldHalfYearCount) {
		count = HalfYearCountAtLeast(halfYearCountMin)
	}
	if cols.Has(FieldConsecutiveDays) {
		lt4 = ConsecutiveDaysBelow(consecutiveDaysMax)
		first = FirstBoard
	}
	return And(price, mktCap, count, lt4, first)
}
