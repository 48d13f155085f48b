// Package trace 在 context 中传递 trace ID，Log 时每行带 TRACE=id 便于排查。
package trace

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type ctxKey int

const traceIDKey ctxKey = 0

// trace ID 取 UUID 去掉连字符后的前 8 位
const traceIDLen = 8

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return ""
}

func NewTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return "0"
	}
	return strings.ReplaceAll(id.String(), "-", "")[:traceIDLen]
}

var logMu sync.Mutex

// Log 打日志，每行开头固定为 TRACE=id，便于一眼看到 trace 并 grep
func Log(ctx context.Context, format string, args ...interface{}) {
	id := TraceID(ctx)
	if id == "" {
		id = "-"
	}
	logMu.Lock()
	msg := fmt.Sprintf(format, args...)
	_ = log.Output(2, fmt.Sprintf("TRACE=%s | %s", id, msg))
	logMu.Unlock()
}
