package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-specdoc/internal/logging"
	"github.com/goliatone/go-specdoc/internal/logging/console"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, 7, 9, 11, 42, 8, 301254000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("specdoc.documents")
	logger = logger.(interfaces.FieldsLogger).WithFields(map[string]any{"module": "specdoc.documents"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"correlation_id": "req-1234",
	})
	logger = logger.WithContext(ctx)

	documentID := uuid.MustParse("6f0d1f0a-5d68-4ec5-9d2b-8f6d9e2f4a1c")
	logger.Info("document.parsed",
		"document_id", documentID,
		"modified_at", time.Date(2025, 7, 9, 12, 0, 0, 0, time.UTC),
	)

	got := strings.TrimSpace(buf.String())
	want := "2025-07-09T11:42:08.301254Z INFO document.parsed correlation_id=req-1234 document_id=6f0d1f0a-5d68-4ec5-9d2b-8f6d9e2f4a1c logger=specdoc.documents modified_at=2025-07-09T12:00:00Z module=specdoc.documents"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: time.Now,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("specdoc.test")
	logger.Debug("ignored.debug", "path", "vigilant.md")
	logger.Info("included.info", "path", "vigilant.md")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
	if strings.Contains(lines[0], "ignored.debug") {
		t.Fatalf("unexpected debug log present: %s", lines[0])
	}
}
