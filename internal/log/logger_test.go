package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONFormatIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentDashboard, Output: &buf})

	logger.Info("snapshot built", FieldCategories, 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry[FieldComponent] != ComponentDashboard {
		t.Errorf("component = %v, want %q", entry[FieldComponent], ComponentDashboard)
	}
	if entry["msg"] != "snapshot built" {
		t.Errorf("msg = %v", entry["msg"])
	}
}

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Errorf("fallback component = %q, want unknown", got.Component())
	}

	logger := Discard().WithComponent(ComponentHTTP)
	ctx := NewContext(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("FromContext did not return the stored logger")
	}
}

func TestMiddleware_StoresLogger(t *testing.T) {
	logger := Discard()
	var got *Logger
	h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got != logger {
		t.Error("middleware did not attach logger to context")
	}
}

func TestLogFetch_FailureAtWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Output: &buf})
	sl := NewStructuredLogger(logger)

	sl.LogFetch(context.Background(), "/progress", 500, 12*time.Millisecond, "status", errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"level=WARN", "endpoint=/progress", "status_code=500", "error_kind=status", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestLogFields_ToSliceSorted(t *testing.T) {
	s := NewFields().WithOperation(OpFetch).WithComponent(ComponentAPI).ToSlice()
	if len(s) != 4 || s[0] != FieldComponent || s[2] != FieldOperation {
		t.Errorf("ToSlice() = %v, want sorted keys", s)
	}
}
