package bootstrap

import (
	"context"
	"testing"
)

// testContext returns a context canceled when the test finishes
// (stand-in for testing.T.Context, added in Go 1.24).
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
