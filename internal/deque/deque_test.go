package deque

import (
	"sync"
	"testing"

	"github.com/across-travel/lelet/internal/steal"
)

func TestPushPopFIFO(t *testing.T) {
	w := NewWorker[int]()
	for i := 0; i < 10; i++ {
		w.Push(i)
	}
	for i := 0; i < 10; i++ {
		got, ok := w.Pop()
		if !ok {
			t.Fatalf("Pop() returned empty at i=%d", i)
		}
		if got != i {
			t.Fatalf("Pop() = %d, want %d (worker must be FIFO)", got, i)
		}
	}
	if _, ok := w.Pop(); ok {
		t.Fatal("Pop() on empty worker returned a value")
	}
}

func TestPushGrows(t *testing.T) {
	w := NewWorker[int]()
	const n = 1000
	for i := 0; i < n; i++ {
		w.Push(i)
	}
	if got := w.Len(); got != n {
		t.Fatalf("Len() = %d, want %d", got, n)
	}
	for i := 0; i < n; i++ {
		got, ok := w.Pop()
		if !ok || got != i {
			t.Fatalf("Pop() = (%d, %v), want (%d, true)", got, ok, i)
		}
	}
}

func TestStealBatchAndPopMovesRoughlyHalf(t *testing.T) {
	w := NewWorker[int]()
	for i := 0; i < 10; i++ {
		w.Push(i)
	}
	dest := NewWorker[int]()
	s := w.Stealer()

	r := s.StealBatchAndPop(dest)
	if r.Code != steal.Success {
		t.Fatalf("expected Success, got code=%v", r.Code)
	}
	if r.Item != 0 {
		t.Fatalf("stolen item = %d, want 0 (oldest)", r.Item)
	}
	if got := dest.Len(); got == 0 {
		t.Fatal("StealBatchAndPop left nothing in dest")
	}
	if got := w.Len() + dest.Len(); got != 9 {
		t.Fatalf("total remaining = %d, want 9 (10 - 1 returned directly)", got)
	}
}

func TestStealOnEmptyIsEmpty(t *testing.T) {
	w := NewWorker[int]()
	dest := NewWorker[int]()
	r := w.Stealer().StealBatchAndPop(dest)
	if r.Code != steal.Empty {
		t.Fatalf("expected Empty on empty source, got code=%v", r.Code)
	}
}

func TestConcurrentOwnerAndThieves(t *testing.T) {
	w := NewWorker[int]()
	const n = 5000
	for i := 0; i < n; i++ {
		w.Push(i)
	}

	var mu sync.Mutex
	seen := make(map[int]int)
	record := func(v int) {
		mu.Lock()
		seen[v]++
		mu.Unlock()
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dest := NewWorker[int]()
			stealer := w.Stealer()
			for {
				r := stealer.StealBatchAndPop(dest)
				switch r.Code {
				case steal.Empty:
					// drain whatever we moved into dest, then stop.
					for {
						v, ok := dest.Pop()
						if !ok {
							return
						}
						record(v)
					}
				case steal.Success:
					record(r.Item)
				case steal.Retry:
					continue
				}
				for {
					v, ok := dest.Pop()
					if !ok {
						break
					}
					record(v)
				}
			}
		}()
	}

	for {
		v, ok := w.Pop()
		if !ok {
			break
		}
		record(v)
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("observed %d distinct tasks, want %d", len(seen), n)
	}
	for v, count := range seen {
		if count != 1 {
			t.Fatalf("task %d observed %d times, want exactly once", v, count)
		}
	}
}
