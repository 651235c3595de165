package logger

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"ERR", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"something", zerolog.InfoLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Fatalf("parseLevel(%q)=%v, want %v", c.in, got, c.want)
		}
	}
}

func TestGetenv(t *testing.T) {
	t.Setenv("X", "val")
	if v := getenv("X", "def"); v != "val" {
		t.Fatalf("getenv returned %q, want 'val'", v)
	}
	if v := getenv("Y", "def"); v != "def" {
		t.Fatalf("getenv returned %q, want 'def'", v)
	}
}

func TestInitAndL(t *testing.T) {
	_ = os.Unsetenv("LOG_LEVEL")
	_ = os.Unsetenv("LOG_PRETTY")
	Init()
	if L().GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level, got %v", L().GetLevel())
	}

	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	Init()
	if L().GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", L().GetLevel())
	}
}

func resetLogger(t *testing.T) {
	t.Helper()
	old := base.Load()
	base.Store(nil)
	lazyInit = sync.Once{}
	t.Cleanup(func() { base.Store(old) })
}

func TestLoggerAccessor_LazyInit(t *testing.T) {
	resetLogger(t)
	if L() == nil || base.Load() == nil {
		t.Fatalf("L() did not initialize the logger")
	}
}

func TestLoggerAccessor_ConcurrentFirstUse(t *testing.T) {
	resetLogger(t)

	const n = 16
	got := make([]*zerolog.Logger, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = L()
		}(i)
	}
	wg.Wait()

	for i, l := range got {
		if l == nil || l != got[0] {
			t.Fatalf("caller %d got a different logger", i)
		}
	}
}

func TestCtx(t *testing.T) {
	if Ctx(context.Background()) != L() {
		t.Fatalf("bare context should fall back to the global logger")
	}

	var buf bytes.Buffer
	L()
	old := base.Load()
	l := zerolog.New(&buf)
	base.Store(&l)
	t.Cleanup(func() { base.Store(old) })

	ctx := WithRequestID(context.Background(), "rid-1")
	Ctx(ctx).Info().Msg("hello")
	if !strings.Contains(buf.String(), `"request_id":"rid-1"`) {
		t.Fatalf("request id missing from %s", buf.String())
	}
}
