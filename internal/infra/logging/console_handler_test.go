package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	context_ "github.com/mkrupp/imgix-helper/internal/infra/context"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
)

func TestConsoleHandler_LoggerLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		logger string
		level  slog.Level
		want   bool
	}{
		{"global level admits info", "repo.option", slog.LevelInfo, true},
		{"global level drops debug", "repo.option", slog.LevelDebug, false},
		{"subtree lowers level", "svc.variantsvc.deriver", slog.LevelDebug, true},
		{"subtree raises level", "svc.mediasvc.http_transport", slog.LevelInfo, false},
		{"subtree raised level admits warn", "svc.mediasvc", slog.LevelWarn, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			//nolint:exhaustruct
			handler := &logging.ConsoleHandler{
				Output: &buf,
				Level:  slog.LevelInfo,
				LoggerLevels: map[string]slog.Level{
					"svc.variantsvc": slog.LevelDebug,
					"svc.mediasvc":   slog.LevelWarn,
				},
			}

			slog.New(handler).With(logging.LoggerKey, tt.logger).Log(context.Background(), tt.level, "hello")

			if got := strings.Contains(buf.String(), "hello"); got != tt.want {
				t.Errorf("record written = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestConsoleHandler_Groups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	//nolint:exhaustruct
	handler := &logging.ConsoleHandler{Output: &buf, Level: slog.LevelDebug}

	slog.New(handler).Info("stored", logging.Group("attachment", "id", 7))

	if !strings.Contains(buf.String(), "attachment.id=") {
		t.Errorf("output = %q, want grouped attribute", buf.String())
	}
}

func TestTracingHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(logging.NewTracingHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := context_.WithTraceID(context.Background(), "trace-1")
	ctx = context_.WithAttachmentID(ctx, "42")

	logger.InfoContext(ctx, "hello")

	var record struct {
		Trace      struct{ ID string } `json:"trace"`
		Attachment struct{ ID string } `json:"attachment"`
	}

	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("failed to decode record %q: %v", buf.String(), err)
	}

	if record.Trace.ID != "trace-1" || record.Attachment.ID != "42" {
		t.Errorf("record = %+v, want trace-1 and 42", record)
	}
}

func TestGetLogger_Discard(t *testing.T) {
	t.Parallel()

	log := logging.GetLogger("test")
	if log.Enabled(context.Background(), slog.LevelError) {
		t.Error("unconfigured logger is enabled")
	}
}
