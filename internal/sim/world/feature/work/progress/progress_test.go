package progress

import "testing"

func TestTimedProgress(t *testing.T) {
	if got := TimedProgress(2, 5); got != 0.4 {
		t.Fatalf("expected 0.4, got %v", got)
	}
	if got := TimedProgress(10, 5); got != 1 {
		t.Fatalf("expected clamped 1, got %v", got)
	}
	if got := TimedProgress(1, 0); got != 0 {
		t.Fatalf("expected 0 for invalid total, got %v", got)
	}
	if got := TimedProgress(-1, 5); got != 0 {
		t.Fatalf("expected clamped 0, got %v", got)
	}
}
