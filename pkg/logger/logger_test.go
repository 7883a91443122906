package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithLeadID(ctx, "lead-9")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"request_id\"")) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"lead_id\":\"lead-9\"")) {
		t.Fatalf("expected lead_id field; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("expected stack trace on error; entry=%s", buf.String())
	}
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf, WarnStack: true})
	log.Warn(context.Background(), "warny")
	if !bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("expected stack when warn stack enabled")
	}
}

func TestWithSellerIDSkipsEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf})
	ctx := log.WithSellerID(context.Background(), "")
	log.Info(ctx, "hello")
	if bytes.Contains(buf.Bytes(), []byte("seller_id")) {
		t.Fatalf("empty seller id should not be logged; entry=%s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fallback to info, got %v", lvl)
	}
	if lvl := ParseLevel(" DEBUG "); lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", lvl)
	}
}

func TestLoggerCarriesInstance(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "api", Instance: "web.1", Output: buf, Format: "json"})
	log.Info(log.WithOperation(context.Background(), "apply_all"), "hello")
	if !bytes.Contains(buf.Bytes(), []byte(`"instance":"web.1"`)) || !bytes.Contains(buf.Bytes(), []byte(`"operation":"apply_all"`)) {
		t.Fatalf("expected instance and operation fields; entry=%s", buf.String())
	}
}

type upstreamErr struct{}

func (upstreamErr) Error() string           { return "bad gateway" }
func (upstreamErr) UpstreamStatus() int     { return 502 }
func (upstreamErr) UpstreamService() string { return "pricing-api" }

func TestLoggerErrorTagsTypedCode(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf, Format: "json"})
	log.Error(context.Background(), "pricing failed", pkgerrors.Wrap(pkgerrors.CodeDependency, upstreamErr{}, "decide"))
	for _, want := range []string{`"error_code":"DEPENDENCY_ERROR"`, `"upstream":"pricing-api"`, `"upstream_status":502`} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Fatalf("expected %s; entry=%s", want, buf.String())
		}
	}
}
