// Package fetcher 拉取指定交易日的涨停股池，失败时记录日志并返回空表，不向上抛错。
package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ztFilter/internal/model"
	"ztFilter/internal/trace"
)

// DateLayout 交易日格式 YYYYMMDD
const DateLayout = "20060102"

// Source 涨停股池数据源，api.Client 实现该接口。
type Source interface {
	GetLimitUpPool(ctx context.Context, date string) (*model.Table, error)
}

func Today() string {
	return time.Now().Format(DateLayout)
}

// NormalizeDate 校验用户输入的日期，空输入取 now 当天。
func NormalizeDate(input string, now time.Time) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return now.Format(DateLayout), nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("日期 %q 格式应为 YYYYMMDD", s)
	}
	return d.Format(DateLayout), nil
}

// GetLimitUpStocks 获取 date（空则为今天）的涨停股池。任何错误都降级为空表，
// 调用方无法区分“无数据”与“拉取失败”。
func GetLimitUpStocks(ctx context.Context, src Source, date string) *model.Table {
	if date == "" {
		date = Today()
	}
	if src == nil {
		trace.Log(ctx, "fetcher: 获取 %s 涨停池数据失败: 未配置数据源", date)
		return model.NewTable()
	}
	t, err := src.GetLimitUpPool(ctx, date)
	if err != nil {
		trace.Log(ctx, "fetcher: 获取 %s 涨停池数据失败: %v", date, err)
		return model.NewTable()
	}
	if t == nil {
		return model.NewTable()
	}
	return t
}
