// Package model 定义涨停池二维表、单只涨停股等数据结构。
package model

// Num 可缺失的数值：Valid 为 false 表示空值或无法解析。
type Num struct {
	Value float64
	Valid bool
}

func NumOf(v float64) Num {
	return Num{Value: v, Valid: true}
}

// LimitUpStock 涨停池单行：代码、名称、现价、总市值(亿元)、连板数、近半年涨停次数。
type LimitUpStock struct {
	Code            string
	Name            string
	Price           Num
	MarketCap       Num
	ConsecutiveDays Num
	HalfYearCount   Num
}
