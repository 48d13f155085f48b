package mail

import (
	"context"
	"io"
	"net"
	"net/textproto"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ztFilter/internal/model"
)

func resultTable(t *testing.T) *model.Table {
	t.Helper()
	tb := model.NewTable("code", "name", "price", "market_cap(hundred-million)")
	require.NoError(t, tb.Append("002123", "梦网<科技>", 8.386, 67.0))
	require.NoError(t, tb.Append("000001", "A&B", nil, 150.0))
	return tb
}

func TestBuildHTMLTable(t *testing.T) {
	html := buildHTMLTable("20240105", resultTable(t))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	var headers []string
	doc.Find("thead th").Each(func(_ int, s *goquery.Selection) {
		headers = append(headers, s.Text())
	})
	assert.Equal(t, []string{"code", "name", "price", "market_cap(hundred-million)"}, headers)
	assert.Contains(t, doc.Find("h2").Text(), "20240105")
	assert.Contains(t, doc.Find("h2").Text(), "共 2 只")

	rows := doc.Find("tbody tr")
	require.Equal(t, 2, rows.Length())
	first := rows.First().Find("td")
	assert.Equal(t, "梦网<科技>", first.Eq(1).Text())
	assert.Equal(t, "8.39", first.Eq(2).Text())
	assert.Equal(t, "-", rows.Eq(1).Find("td").Eq(2).Text())
	assert.Equal(t, "A&B", rows.Eq(1).Find("td").Eq(1).Text())
	assert.NotContains(t, html, "梦网<科技>")
}

func TestSendReport_SkipsWhenDisabledOrEmpty(t *testing.T) {
	ctx := context.Background()
	// 端口 1 无人监听，真的拨号会报错
	cfg := &SMTPConfig{Server: "127.0.0.1", Port: 1, From: "a@example.com", To: []string{"b@example.com"}}

	assert.NoError(t, SendReport(ctx, nil, "20240105", resultTable(t)))
	assert.NoError(t, SendReport(ctx, &SMTPConfig{Server: "127.0.0.1"}, "20240105", resultTable(t)))
	assert.NoError(t, SendReport(ctx, cfg, "20240105", model.NewTable("code")))
	assert.NoError(t, SendReport(ctx, cfg, "20240105", nil))
	assert.Error(t, SendReport(ctx, cfg, "20240105", resultTable(t)))
}

func TestEnabled(t *testing.T) {
	assert.False(t, (&SMTPConfig{}).Enabled())
	assert.False(t, (&SMTPConfig{Server: "smtp.qq.com", From: "a@qq.com"}).Enabled())
	assert.False(t, (&SMTPConfig{Server: "smtp.qq.com", From: "a@qq.com", To: []string{}}).Enabled())
	assert.True(t, (&SMTPConfig{Server: "smtp.qq.com", From: "a@qq.com", To: []string{"b@qq.com"}}).Enabled())
}

// fakeSMTP 最简 SMTP 服务端：不支持 STARTTLS 与 AUTH，记录收件人与正文。
type fakeSMTP struct {
	ln    net.Listener
	rcpts []string
	data  string
	done  chan struct{}
}

func startFakeSMTP(t *testing.T) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeSMTP{ln: ln, done: make(chan struct{})}
	t.Cleanup(func() { _ = ln.Close() })
	go s.serve()
	return s
}

func (s *fakeSMTP) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTP) serve() {
	defer close(s.done)
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	tp := textproto.NewConn(conn)
	reply := func(line string) { _ = tp.PrintfLine("%s", line) }

	reply("220 localhost ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			reply("250 localhost")
		case strings.HasPrefix(cmd, "MAIL FROM"):
			reply("250 OK")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			s.rcpts = append(s.rcpts, strings.Trim(line[len("RCPT TO:"):], "<> "))
			reply("250 OK")
		case cmd == "DATA":
			reply("354 go ahead")
			b, _ := io.ReadAll(tp.DotReader())
			s.data = string(b)
			reply("250 OK")
		case cmd == "QUIT":
			reply("221 bye")
			return
		default:
			reply("502 not implemented")
		}
	}
}

func TestSendReport_DeliversHTML(t *testing.T) {
	srv := startFakeSMTP(t)
	cfg := &SMTPConfig{
		Server: "127.0.0.1",
		Port:   srv.port(),
		From:   "bot@example.com",
		To:     []string{"a@example.com", "b@example.com"},
	}

	require.NoError(t, SendReport(context.Background(), cfg, "20240105", resultTable(t)))
	<-srv.done

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, srv.rcpts)
	assert.Contains(t, srv.data, "Subject: 20240105 涨停首板选股结果")
	assert.Contains(t, srv.data, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, srv.data, "<td>002123</td>")
	assert.Contains(t, srv.data, "From: bot@example.com")
}
