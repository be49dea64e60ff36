package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatusWithoutChecks(t *testing.T) {
	report := NewService().Status(context.Background())
	if !report.OK || report.Checks != nil {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestStatusReportsFailingCheck(t *testing.T) {
	svc := NewService()
	svc.Register("db", func(context.Context) error { return nil })
	svc.Register("redis", func(context.Context) error { return errors.New("connection refused") })
	svc.Register("ignored", nil)

	report := svc.Status(context.Background())
	if report.OK {
		t.Fatalf("expected unhealthy report")
	}
	if report.Checks["db"] != "ok" || report.Checks["redis"] != "connection refused" {
		t.Fatalf("unexpected checks %+v", report.Checks)
	}
	if _, ok := report.Checks["ignored"]; ok {
		t.Fatalf("nil check should not be registered")
	}
}
