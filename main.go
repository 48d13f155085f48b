// Package main 是涨停首板选股程序的入口：拉取指定交易日的涨停股池、打印全部涨停股、
// 按首板策略筛选并打印结果，可选导出 Excel 与邮件推送。
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"ztFilter/internal/api"
	"ztFilter/internal/config"
	"ztFilter/internal/fetcher"
	"ztFilter/internal/filter"
	"ztFilter/internal/mail"
	"ztFilter/internal/model"
	"ztFilter/internal/report"
	"ztFilter/internal/trace"
)

const (
	bannerWidth = 70
	title       = "当日涨停选股策略（30元以下 & 200亿以下 & 半年涨停≥3 & 剔除4连板及以上）"
	// 列名无法识别时最多打印的行数
	fallbackRows = 50
)

// Excel 工作表名
const (
	sheetPool     = "涨停池"
	sheetSelected = "选股结果"
)

var criteriaLines = []string{
	"最新价 < 30 元",
	"总市值 < 200 亿元",
	"近半年涨停次数 >= 3",
	"剔除连续涨停 4 天及以上的股票",
	"仅首板（连板数 = 1）",
}

type options struct {
	date       string
	xlsxPath   string
	configPath string
}

// app 单次运行所需的依赖，便于在测试中替换数据源与输入输出。
type app struct {
	cfg *config.Config
	src fetcher.Source
	in  io.Reader
	out io.Writer
	now func() time.Time
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	var opts options
	flag.StringVar(&opts.date, "date", "", "交易日 YYYYMMDD，指定后不再交互输入")
	flag.StringVar(&opts.xlsxPath, "xlsx", "", "导出 Excel 文件路径（涨停池与选股结果各一个工作表）")
	flag.StringVar(&opts.configPath, "config", "", "配置文件路径，默认取 CONFIG_PATH 或 config.yaml")
	flag.Parse()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.Default()
	}

	ctx := trace.WithTraceID(context.Background(), trace.NewTraceID())

	a := &app{
		cfg: cfg,
		src: api.NewClient(apiOptions(cfg)),
		in:  os.Stdin,
		out: os.Stdout,
		now: time.Now,
	}
	a.run(ctx, opts)
}

func apiOptions(cfg *config.Config) api.Options {
	return api.Options{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		MaxAttempts: cfg.API.MaxAttempts,
		RequestGap:  cfg.API.Gap(),
	}
}

// run 完整流程，任何失败都只打印或记录日志，最终正常返回。
// 超时从日期确定之后开始计算，等待输入的时间不计入。
func (a *app) run(ctx context.Context, opts options) {
	trace.Log(ctx, "main: start")
	a.banner()

	date := a.resolveDate(opts.date)
	ctx, cancel := context.WithTimeout(ctx, a.cfg.API.RunTimeout)
	defer cancel()

	fmt.Fprintf(a.out, "\n正在获取 %s 的涨停板股票池数据...\n", date)
	pool := fetcher.GetLimitUpStocks(ctx, a.src, date)
	if pool.Empty() {
		fmt.Fprintln(a.out, "未获取到涨停数据，可能是休市日或网络问题。")
		trace.Log(ctx, "main: end, 无涨停数据")
		return
	}

	a.section(fmt.Sprintf("📊 当日全部涨停股票（共 %d 只）", pool.Len()))
	overview := a.printOverview(pool)

	a.section("🔍 按策略条件筛选后的股票")
	fmt.Fprintln(a.out, "筛选条件：")
	for _, l := range criteriaLines {
		fmt.Fprintf(a.out, "  ✅ %s\n", l)
	}
	fmt.Fprintf(a.out, "%s\n\n", rule())

	result := filter.FilterStocks(ctx, pool)
	if result.Empty() {
		fmt.Fprintln(a.out, "暂无符合条件的股票。")
	} else {
		fmt.Fprintf(a.out, "符合条件的股票数量：%d 只\n\n", result.Len())
		a.print(result)
	}

	a.export(ctx, opts.xlsxPath, overview, result)
	mail.MustSendReport(ctx, buildMailConfig(&a.cfg.SMTP), date, result)
	trace.Log(ctx, "main: end, 涨停 %d 只, 入选 %d 只", pool.Len(), result.Len())
}

func rule() string {
	return strings.Repeat("=", bannerWidth)
}

func (a *app) banner() {
	fmt.Fprintln(a.out, rule())
	fmt.Fprintln(a.out, title)
	fmt.Fprintln(a.out, rule())
}

func (a *app) section(heading string) {
	fmt.Fprintf(a.out, "\n%s\n%s\n%s\n", rule(), heading, rule())
}

// resolveDate 优先使用 -date，否则交互读取一行；输入非法时回退到默认日期。
func (a *app) resolveDate(flagDate string) string {
	today := a.now().Format(fetcher.DateLayout)
	input := flagDate
	if input == "" {
		fmt.Fprintf(a.out, "\n默认分析日期：%s\n", today)
		fmt.Fprint(a.out, "如需指定日期，请输入 YYYYMMDD（直接回车使用默认日期）：")
		if a.in != nil {
			line, _ := bufio.NewReader(a.in).ReadString('\n')
			input = line
		}
	}
	date, err := fetcher.NormalizeDate(input, a.now())
	if err != nil {
		fmt.Fprintf(a.out, "\n%v，使用默认日期 %s\n", err, today)
		return today
	}
	return date
}

// printOverview 打印全部涨停股，返回用于导出的视图。
func (a *app) printOverview(pool *model.Table) *model.Table {
	if view, ok := report.Overview(pool); ok {
		a.print(view)
		return view
	}
	fmt.Fprintf(a.out, "可用列名：%s\n", strings.Join(pool.Columns, ", "))
	a.print(report.Head(pool, fallbackRows))
	if pool.Len() > fallbackRows {
		fmt.Fprintf(a.out, "\n... 还有 %d 只股票未显示\n", pool.Len()-fallbackRows)
	}
	return pool
}

func (a *app) print(t *model.Table) {
	if err := report.Fprint(a.out, t); err != nil {
		log.Printf("print table: %v", err)
	}
}

// export 写 Excel，路径取 -xlsx，其次配置文件 output.xlsx_path，都为空则跳过。
func (a *app) export(ctx context.Context, path string, overview, result *model.Table) {
	if path == "" {
		path = a.cfg.Output.XLSXPath
	}
	if path == "" {
		return
	}
	err := report.WriteXLSX(path,
		report.Sheet{Name: sheetPool, Table: overview},
		report.Sheet{Name: sheetSelected, Table: result},
	)
	if err != nil {
		trace.Log(ctx, "main: 导出 Excel 失败 err=%v", err)
		return
	}
	fmt.Fprintf(a.out, "\n已导出到 %s\n", path)
}

func buildMailConfig(smtpCfg *config.SMTP) *mail.SMTPConfig {
	if smtpCfg == nil {
		smtpCfg = &config.SMTP{}
	}
	return &mail.SMTPConfig{
		Server:   smtpCfg.Server,
		Port:     smtpCfg.Port,
		User:     smtpCfg.User,
		Password: smtpCfg.Password,
		From:     smtpCfg.From,
		To:       smtpCfg.Recipients(),
	}
}
