// Package mail 按 SMTP 配置把选股结果表以 HTML 邮件发出。
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"ztFilter/internal/model"
	"ztFilter/internal/report"
	"ztFilter/internal/trace"
)

const (
	smtpTimeout     = 15 * time.Second
	defaultSMTPPort = 587
)

type SMTPConfig struct {
	Server   string
	Port     int
	User     string
	Password string
	From     string
	// To 收件人列表，已去空格、去空项
	To       []string
}

func (s *SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Server) != "" &&
		strings.TrimSpace(s.From) != "" &&
		len(s.To) > 0
}

// SendReport 发送某交易日的选股结果表，未配置 SMTP 或结果为空时不发送。
func SendReport(ctx context.Context, cfg *SMTPConfig, date string, result *model.Table) error {
	if cfg == nil || !cfg.Enabled() {
		return nil
	}
	if result.Empty() {
		return nil
	}
	trace.Log(ctx, "mail: SendReport to=%s date=%s count=%d", strings.Join(cfg.To, ","), date, result.Len())
	body := buildHTMLTable(date, result)
	subject := fmt.Sprintf("%s 涨停首板选股结果", date)
	err := send(cfg, subject, body, cfg.To)
	if err != nil {
		trace.Log(ctx, "mail: send err=%v", err)
		return err
	}
	trace.Log(ctx, "mail: sent ok")
	return nil
}

func buildHTMLTable(date string, t *model.Table) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8"><title>选股结果</title></head><body>`)
	b.WriteString(fmt.Sprintf(`<h2>%s 涨停首板选股结果（共 %d 只）</h2>`, escapeHTML(date), t.Len()))
	b.WriteString(`<p>最新价&lt;30元·总市值&lt;200亿·近半年涨停≥3次·剔除4连板及以上·仅首板；按半年涨停次数、连板数降序，市值升序。</p>`)
	b.WriteString(`<table border="1" cellspacing="0" cellpadding="8" style="border-collapse: collapse; font-size: 14px;">`)
	b.WriteString(`<thead><tr style="background: #eee;">`)
	for _, c := range t.Columns {
		b.WriteString("<th>" + escapeHTML(c) + "</th>")
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, v := range row {
			b.WriteString("<td>" + escapeHTML(report.FormatCell(v)) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}

func send(cfg *SMTPConfig, subject, htmlBody string, to []string) error {
	port := cfg.Port
	if port == 0 {
		port = defaultSMTPPort
	}
	addr := net.JoinHostPort(cfg.Server, strconv.Itoa(port))

	var conn net.Conn
	var err error
	if port == 465 {
		conn, err = tls.DialWithDialer(&net.Dialer{Timeout: smtpTimeout}, "tcp", addr, &tls.Config{ServerName: cfg.Server})
	} else {
		conn, err = net.DialTimeout("tcp", addr, smtpTimeout)
	}
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, cfg.Server)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: cfg.Server}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if cfg.Password != "" {
		auth := smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Server)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(cfg.From); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	for _, t := range to {
		if t == "" {
			continue
		}
		if err := client.Rcpt(t); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", t, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		cfg.From, strings.Join(to, ","), subject)
	if _, err := w.Write([]byte(headers + htmlBody)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return client.Quit()
}

// MustSendReport 同 SendReport，失败只记日志。
func MustSendReport(ctx context.Context, cfg *SMTPConfig, date string, result *model.Table) {
	if result.Empty() {
		trace.Log(ctx, "mail: 无选中股票，按设计不发邮件（正常）")
		return
	}
	if cfg == nil || !cfg.Enabled() {
		trace.Log(ctx, "mail: 未配置 SMTP，跳过")
		return
	}
	if err := SendReport(ctx, cfg, date, result); err != nil {
		trace.Log(ctx, "mail: 发送失败 err=%v", err)
		return
	}
	trace.Log(ctx, "mail: 已发送 to=%s count=%d", strings.Join(cfg.To, ","), result.Len())
}
