package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"easel/internal/logging"
	"easel/internal/services"
)

func TestConsoleHandlerRendersComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf})
	logger = logging.NewComponentLogger(logger, "chain")

	logger.Info("step completed", logging.Int("step", 3), logging.String("output", "a b.png"))

	line := buf.String()
	if !strings.Contains(line, " INFO chain: step completed") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "step=3") {
		t.Fatalf("missing step attr: %q", line)
	}
	if !strings.Contains(line, `output="a b.png"`) {
		t.Fatalf("expected quoted value with spaces: %q", line)
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: "warn", Format: "console", Output: &buf})
	logger.Info("hidden")
	logger.Warn("visible")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info leaked through warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("warn missing: %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: "info", Format: "json", Output: &buf})
	logger.Info("submitted", logging.String("prompt_id", "abc"))
	line := buf.String()
	if !strings.Contains(line, `"msg":"submitted"`) {
		t.Fatalf("unexpected json line: %q", line)
	}
	if !strings.Contains(line, `"prompt_id":"abc"`) {
		t.Fatalf("missing attr: %q", line)
	}
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	base := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf})

	ctx := services.WithAsset(context.Background(), "flux_korea_people_bride")
	ctx = services.WithStep(ctx, 2)
	ctx = services.WithRequestID(ctx, "req-1")

	logging.WithContext(ctx, base).Info("polling")

	line := buf.String()
	for _, fragment := range []string{"asset=flux_korea_people_bride", "step=2", "correlation_id=req-1"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
}
