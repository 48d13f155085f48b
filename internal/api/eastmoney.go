// Package api 封装东方财富涨停股池接口，含请求节流、有限次重试与 trace 日志。
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"ztFilter/internal/model"
	"ztFilter/internal/trace"
)

// 东方财富涨停股池接口
const (
	EastMoneyBaseURL = "https://push2ex.eastmoney.com"
	ztPoolPath       = "/getTopicZTPool"
	ztPoolUT         = "7eea3edcaed734bea9cbfc24409ed989"
	ztPoolDPT        = "wz.ztzt"
	ztPoolPageSize   = 10000
	ztPoolSort       = "fbt:asc"
)

// 接口 p 字段为“价格×1000”
const priceDivisor = 1000

// 请求超时与重试
const (
	defaultHTTPTimeout = 10 * time.Second
	defaultMaxAttempts = 1
	retryDelay         = 500 * time.Millisecond
	retryDelay429      = 5 * time.Second
	httpStatusTooMany  = 429
)

const maxRespLogLen = 1200

// 请求头（模拟浏览器）
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	referer        = "https://quote.eastmoney.com/ztb/"
	acceptLanguage = "zh-CN,zh;q=0.9,en;q=0.8"
)

// 涨停股池列名，与常用数据接口库 stock_zt_pool_em 的输出保持一致
const (
	ColSeq          = "序号"
	ColCode         = "代码"
	ColName         = "名称"
	ColChangePct    = "涨跌幅"
	ColPrice        = "最新价"
	ColAmount       = "成交额"
	ColFloatCap     = "流通市值"
	ColMarketCap    = "总市值"
	ColTurnover     = "换手率"
	ColSealFund     = "封板资金"
	ColFirstSeal    = "首次封板时间"
	ColLastSeal     = "最后封板时间"
	ColBreakCount   = "炸板次数"
	ColLimitUpStats = "涨停统计"
	ColConsecutive  = "连板数"
	ColIndustry     = "所属行业"
)

var ztPoolColumns = []string{
	ColSeq, ColCode, ColName, ColChangePct, ColPrice, ColAmount, ColFloatCap, ColMarketCap,
	ColTurnover, ColSealFund, ColFirstSeal, ColLastSeal, ColBreakCount, ColLimitUpStats,
	ColConsecutive, ColIndustry,
}

type Options struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	// RequestGap 两次请求最小间隔，0 表示不节流
	RequestGap time.Duration
}

type Client struct {
	HTTPClient  *http.Client
	BaseURL     string
	MaxAttempts int
	limiter     *rate.Limiter
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = EastMoneyBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultHTTPTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	limit := rate.Inf
	if opts.RequestGap > 0 {
		limit = rate.Every(opts.RequestGap)
	}
	return &Client{
		HTTPClient:  &http.Client{Timeout: opts.Timeout},
		BaseURL:     strings.TrimRight(opts.BaseURL, "/"),
		MaxAttempts: opts.MaxAttempts,
		limiter:     rate.NewLimiter(limit, 1),
	}
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("api client is nil")
	}
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	var lastErr error
	var lastStatus int
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := retryDelay
			if lastStatus == httpStatusTooMany {
				backoff = retryDelay429
				trace.Log(ctx, "api: 429 限流，等待 %s 后重试", backoff)
			} else {
				trace.Log(ctx, "api: retry %d/%d %s", attempt, attempts-1, rawURL)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		body, status, err := c.do(ctx, client, rawURL)
		lastStatus = status
		if err != nil {
			lastErr = err
			continue
		}
		return body, nil
	}
	trace.Log(ctx, "api: request fail url=%s err=%v", rawURL, lastErr)
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, client *http.Client, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", acceptLanguage)
	trace.Log(ctx, "api: req GET %s", rawURL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	trace.Log(ctx, "api: resp status=%d len=%d body=%s", resp.StatusCode, len(body), truncateForLog(body))
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("http %d", resp.StatusCode)
	}
	return body, resp.StatusCode, nil
}

func truncateForLog(b []byte) string {
	s := string(b)
	if len(b) > maxRespLogLen {
		s = s[:maxRespLogLen] + "..."
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r", " "), "\n", " ")
}

func (c *Client) ztPoolURL(date string) string {
	q := url.Values{}
	q.Set("ut", ztPoolUT)
	q.Set("dpt", ztPoolDPT)
	q.Set("Pageindex", "0")
	q.Set("pagesize", fmt.Sprint(ztPoolPageSize))
	q.Set("sort", ztPoolSort)
	q.Set("date", date)
	q.Set("_", fmt.Sprint(time.Now().UnixMilli()))
	return c.BaseURL + ztPoolPath + "?" + q.Encode()
}

// GetLimitUpPool 拉取指定交易日（YYYYMMDD）的涨停股池。休市日接口返回 data=null，此时返回空表。
func (c *Client) GetLimitUpPool(ctx context.Context, date string) (*model.Table, error) {
	if date == "" {
		return nil, fmt.Errorf("api: empty date")
	}
	body, err := c.get(ctx, c.ztPoolURL(date))
	if err != nil {
		return nil, err
	}
	t, err := parseZTPoolGJSON(body)
	if err != nil {
		return nil, err
	}
	trace.Log(ctx, "api: GetLimitUpPool date=%s len=%d", date, t.Len())
	return t, nil
}

// parseZTPoolGJSON 解析 data.pool：c 代码 n 名称 p 最新价×1000 zdp 涨跌幅 amount 成交额 ltsz 流通市值
// tshare 总市值 hs 换手率 fund 封板资金 fbt/lbt 首次/最后封板时间 zbc 炸板次数 zttj 涨停统计 lbc 连板数 hybk 行业
func parseZTPoolGJSON(body []byte) (*model.Table, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("api: invalid json: %s", truncateForLog(body))
	}
	t := model.NewTable(ztPoolColumns...)
	pool := gjson.GetBytes(body, "data.pool")
	if !pool.Exists() || !pool.IsArray() {
		return t, nil
	}
	for _, v := range pool.Array() {
		code := strings.TrimSpace(v.Get("c").String())
		if code == "" {
			continue
		}
		price := numOrNil(v.Get("p"))
		if p, ok := price.(float64); ok {
			price = p / priceDivisor
		}
		if err := t.Append(
			int64(t.Len()+1),
			code,
			strings.TrimSpace(v.Get("n").String()),
			numOrNil(v.Get("zdp")),
			price,
			numOrNil(v.Get("amount")),
			numOrNil(v.Get("ltsz")),
			numOrNil(v.Get("tshare")),
			numOrNil(v.Get("hs")),
			numOrNil(v.Get("fund")),
			sealTime(v.Get("fbt")),
			sealTime(v.Get("lbt")),
			intOrNil(v.Get("zbc")),
			limitUpStats(v.Get("zttj")),
			intOrNil(v.Get("lbc")),
			strings.TrimSpace(v.Get("hybk").String()),
		); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func numOrNil(r gjson.Result) any {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return r.Float()
}

func intOrNil(r gjson.Result) any {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return r.Int()
}

// sealTime 封板时间 92500 -> "092500"
func sealTime(r gjson.Result) any {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return fmt.Sprintf("%06d", r.Int())
}

// limitUpStats 涨停统计 {"days":d,"ct":n} -> "d/n"
func limitUpStats(r gjson.Result) any {
	if !r.Exists() || !r.IsObject() {
		return nil
	}
	return fmt.Sprintf("%d/%d", r.Get("days").Int(), r.Get("ct").Int())
}
