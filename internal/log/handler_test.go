package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	applog "github.com/ErlanBelekov/shiptrack/internal/log"
	"github.com/ErlanBelekov/shiptrack/internal/reqctx"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return rec
}

func TestContextHandler_AddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(&buf, "production", slog.LevelInfo)

	ctx := reqctx.WithRequestID(context.Background(), "req-1")
	ctx = reqctx.WithUserID(ctx, "user-1")
	logger.With("component", "test").InfoContext(ctx, "hello")

	rec := decode(t, &buf)
	if rec["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", rec["request_id"])
	}
	if rec["user_id"] != "user-1" {
		t.Errorf("user_id = %v, want user-1", rec["user_id"])
	}
	if rec["component"] != "test" {
		t.Errorf("component = %v, want test", rec["component"])
	}
}

func TestContextHandler_OmitsMissingValues(t *testing.T) {
	var buf bytes.Buffer
	applog.New(&buf, "production", slog.LevelInfo).InfoContext(context.Background(), "hello")

	rec := decode(t, &buf)
	if _, ok := rec["request_id"]; ok {
		t.Error("request_id should be absent")
	}
	if _, ok := rec["user_id"]; ok {
		t.Error("user_id should be absent")
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	applog.New(&buf, "production", slog.LevelWarn).Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info line written at warn level: %q", buf.String())
	}
}
