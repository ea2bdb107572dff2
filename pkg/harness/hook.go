package harness

import (
	"context"
	"testing"
)

// BeforeEach is the test-lifecycle extension point: call it at the top of
// each integration test method. It provisions the outbox connector and
// blocks until it is running, failing the test fatally on any error.
func (h *Harness) BeforeEach(t testing.TB) {
	t.Helper()
	if err := h.RegisterAndWaitUntilRunning(context.Background()); err != nil {
		t.Fatalf("outbox connector provisioning failed: %v", err)
	}
}

// BeforeEachWithCleanup is BeforeEach plus automatic connector teardown when
// the test finishes, so consecutive tests never collide on the connector
// name.
func (h *Harness) BeforeEachWithCleanup(t testing.TB) {
	t.Helper()
	h.BeforeEach(t)
	t.Cleanup(func() {
		if err := h.Cleanup(context.Background()); err != nil {
			t.Logf("outbox connector cleanup failed: %v", err)
		}
	})
}
