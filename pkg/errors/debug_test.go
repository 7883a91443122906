package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

type fakeUpstreamErr struct{}

func (fakeUpstreamErr) Error() string           { return "upstream said no" }
func (fakeUpstreamErr) UpstreamStatus() int     { return 502 }
func (fakeUpstreamErr) UpstreamService() string { return "pricing" }

func TestDumpCapturesUpstreamStatus(t *testing.T) {
	err := Wrap(CodeDependency, fakeUpstreamErr{}, "decide price")
	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", d.Code)
	}
	if d.Upstream != "pricing" || d.UpstreamStatus != 502 {
		t.Fatalf("unexpected upstream %q/%d", d.Upstream, d.UpstreamStatus)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected chain of 2, got %v", d.Chain)
	}
	fields := d.Fields()
	if fields["upstream_status"] != 502 {
		t.Fatalf("expected upstream_status field, got %v", fields)
	}
	if _, ok := fields["pg_code"]; ok {
		t.Fatalf("pg fields should be omitted when empty")
	}
}

func TestDumpCapturesPgError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "promotions_pkey", TableName: "promotions"}
	d := Dump(fmt.Errorf("insert: %w", pgErr))
	if d.PGCode != "23505" || d.PGTable != "promotions" {
		t.Fatalf("unexpected pg dump %+v", d)
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || d.Chain != nil {
		t.Fatalf("expected empty dump, got %+v", d)
	}
}
