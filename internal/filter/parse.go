package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"ztFilter/internal/model"
)

// 市值单位判断：列最大值超过该阈值视为“元”，需除以 1e8 换算为“亿元”
const (
	marketCapYuanThreshold = 1000
	yuanPerYi              = 1e8
)

// ToNum 单元格转数值，空值、非数字、NaN 一律记为缺失，不报错。
func ToNum(v any) model.Num {
	switch x := v.(type) {
	case nil:
		return model.Num{}
	case model.Num:
		return x
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			return model.Num{}
		}
		v = x
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) {
		return model.Num{}
	}
	return model.NumOf(f)
}

// ParseHalfYearCount 解析“总次数/半年次数”，取后半部分；纯数字按数值取整；
// 空值、超出整数范围或任何解析失败返回 0。
func ParseHalfYearCount(v any) int {
	if v == nil {
		return 0
	}
	if s, ok := v.(string); ok && strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) >= 2 {
			n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return 0
			}
			return n
		}
	}
	n := ToNum(v)
	// 超出 int 范围（含 ±Inf）的转换结果不确定，按解析失败处理
	if !n.Valid || math.Abs(n.Value) >= math.MaxInt64 {
		return 0
	}
	return int(n.Value)
}

// NormalizeMarketCap 若最大值 > 1000 认为单位是元，整列除以 1e8 换算为亿元。
// 返回新切片及是否做了换算。
func NormalizeMarketCap(caps []model.Num) ([]model.Num, bool) {
	out := make([]model.Num, len(caps))
	copy(out, caps)
	peak, found := math.Inf(-1), false
	for _, c := range out {
		if c.Valid && c.Value > peak {
			peak, found = c.Value, true
		}
	}
	if !found || peak <= marketCapYuanThreshold {
		return out, false
	}
	for i := range out {
		if out[i].Valid {
			out[i].Value /= yuanPerYi
		}
	}
	return out, true
}
