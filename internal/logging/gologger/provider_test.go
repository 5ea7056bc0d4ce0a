package gologger

import (
	"context"
	"slices"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

func TestNewProviderCreatesLogger(t *testing.T) {
	p, err := NewProvider(Config{
		Level:  "debug",
		Format: "console",
	})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("specdoc.test")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}

	child := logger.(interfaces.FieldsLogger).WithFields(map[string]any{"module": "specdoc.test"})
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	// Ensure chained operations do not panic.
	child.Debug("adapter.initialised")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	rec := &recordingLogger{}
	adapted := wrap(rec)

	adapted.Trace("reader.trace", "key", "value")
	adapted.Debug("reader.debug")
	adapted.Info("reader.info")
	adapted.Warn("reader.warn")
	adapted.Error("reader.error")
	adapted.Fatal("reader.fatal")

	want := []string{
		"trace reader.trace",
		"debug reader.debug",
		"info reader.info",
		"warn reader.warn",
		"error reader.error",
		"fatal reader.fatal",
	}
	if !slices.Equal(rec.entries, want) {
		t.Fatalf("expected entries %v, got %v", want, rec.entries)
	}
}

func TestAdapterClonesFieldsBeforeDelegating(t *testing.T) {
	rec := &recordingLogger{}
	adapted := wrap(rec)

	fields := map[string]any{"entity": "document"}
	if child := adapted.(interfaces.FieldsLogger).WithFields(fields); child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	fields["entity"] = "page"
	if len(rec.fields) != 1 {
		t.Fatalf("expected fields to be recorded once, got %d", len(rec.fields))
	}
	if rec.fields[0]["entity"] != "document" {
		t.Fatalf("expected fields to be cloned, got %v", rec.fields[0]["entity"])
	}
}

func TestAdapterPropagatesContext(t *testing.T) {
	rec := &recordingLogger{}
	adapted := wrap(rec)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)

	if len(rec.contexts) != 1 || rec.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", rec.contexts)
	}
}

type recordingLogger struct {
	entries  []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*recordingLogger)(nil)
var _ glog.FieldsLogger = (*recordingLogger)(nil)

func (r *recordingLogger) record(level, msg string) {
	r.entries = append(r.entries, level+" "+msg)
}

func (r *recordingLogger) Trace(msg string, _ ...any) { r.record("trace", msg) }
func (r *recordingLogger) Debug(msg string, _ ...any) { r.record("debug", msg) }
func (r *recordingLogger) Info(msg string, _ ...any)  { r.record("info", msg) }
func (r *recordingLogger) Warn(msg string, _ ...any)  { r.record("warn", msg) }
func (r *recordingLogger) Error(msg string, _ ...any) { r.record("error", msg) }
func (r *recordingLogger) Fatal(msg string, _ ...any) { r.record("fatal", msg) }

func (r *recordingLogger) WithContext(ctx context.Context) glog.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

func (r *recordingLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}
