package backoff

import "testing"

func TestEventuallyCompletes(t *testing.T) {
	b := New()
	if b.IsCompleted() {
		t.Fatal("fresh Backoff reports completed")
	}
	for i := 0; i < 1000 && !b.IsCompleted(); i++ {
		b.Spin()
	}
	if !b.IsCompleted() {
		t.Fatal("Backoff never completed after many spins")
	}
}

func TestResetRestarts(t *testing.T) {
	b := New()
	for !b.IsCompleted() {
		b.Spin()
	}
	b.Reset()
	if b.IsCompleted() {
		t.Fatal("Reset did not clear completed state")
	}
}
