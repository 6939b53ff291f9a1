package memory

import "testing"

func TestAttemptRegistryLifecycle(t *testing.T) {
	registry := NewAttemptRegistry()

	registry.Register("a1", nil)
	if _, ok := registry.Get("a1"); !ok {
		t.Fatalf("expected attempt present")
	}
	if registry.Active() != 1 {
		t.Fatalf("expected 1 active attempt, got %d", registry.Active())
	}

	registry.Remove("a1")
	if _, ok := registry.Get("a1"); ok {
		t.Fatalf("expected attempt removed")
	}
	if registry.Active() != 0 {
		t.Fatalf("expected 0 active attempts, got %d", registry.Active())
	}
}
