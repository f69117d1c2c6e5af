package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLogHandler(t *testing.T) {
	recordTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		level slog.Level
		msg   string
		attrs []slog.Attr
		want  string
	}{
		{
			name:  "plain message",
			level: slog.LevelInfo,
			msg:   "session restored",
			want:  "2024-01-15T10:30:00Z\tINFO\top-1\tsession restored\n",
		},
		{
			name:  "message with attrs",
			level: slog.LevelDebug,
			msg:   "posts fetched",
			attrs: []slog.Attr{slog.Int("count", 3)},
			want:  "2024-01-15T10:30:00Z\tDEBUG\top-1\tposts fetched\tcount=3\n",
		},
		{
			name:  "error level",
			level: slog.LevelError,
			msg:   "request failed",
			attrs: []slog.Attr{slog.String("error", "connection refused")},
			want:  "2024-01-15T10:30:00Z\tERROR\top-1\trequest failed\terror=connection refused\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &logHandler{w: &buf, opID: "op-1"}

			r := slog.NewRecord(recordTime, tt.level, tt.msg, 0)
			r.AddAttrs(tt.attrs...)
			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := &logHandler{w: &buf, opID: "op-1"}
	h := base.WithAttrs([]slog.Attr{slog.String("user", "alice")})

	r := slog.NewRecord(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), slog.LevelInfo, "login", 0)
	r.AddAttrs(slog.Int("attempt", 1))
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "\tuser=alice\t") {
		t.Errorf("output missing pre-set attr: %q", got)
	}
	if !strings.HasSuffix(got, "\tattempt=1\n") {
		t.Errorf("output missing record attr: %q", got)
	}

	// The base handler must be unaffected.
	buf.Reset()
	if err := base.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0)); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "user=alice") {
		t.Error("WithAttrs mutated the base handler")
	}
}
