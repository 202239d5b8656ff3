package injector

import (
	"testing"

	"github.com/across-travel/lelet/internal/deque"
	"github.com/across-travel/lelet/internal/steal"
)

func TestPushStealBatchAndPopFIFO(t *testing.T) {
	q := New[int]()
	for i := 0; i < 10; i++ {
		q.Push(i)
	}
	if got := q.Len(); got != 10 {
		t.Fatalf("Len() = %d, want 10", got)
	}

	dest := deque.NewWorker[int]()
	r := q.StealBatchAndPop(dest)
	if r.Code != steal.Success {
		t.Fatalf("expected Success, got %v", r.Code)
	}
	if r.Item != 0 {
		t.Fatalf("first stolen item = %d, want 0 (FIFO order)", r.Item)
	}
	if q.Len()+dest.Len() != 9 {
		t.Fatalf("remaining total = %d, want 9", q.Len()+dest.Len())
	}

	// Remaining items, wherever they ended up, must still be in FIFO order.
	var got []int
	for {
		v, ok := dest.Pop()
		if !ok {
			break
		}
		got = append(got, v)
	}
	for {
		r := q.StealBatchAndPop(dest)
		if r.Code != steal.Success {
			break
		}
		got = append(got, r.Item)
		for {
			v, ok := dest.Pop()
			if !ok {
				break
			}
			got = append(got, v)
		}
	}
	for i, v := range got {
		if v != i+1 {
			t.Fatalf("got[%d] = %d, want %d", i, v, i+1)
		}
	}
}

func TestStealOnEmptyIsEmpty(t *testing.T) {
	q := New[int]()
	dest := deque.NewWorker[int]()
	if r := q.StealBatchAndPop(dest); r.Code != steal.Empty {
		t.Fatalf("expected Empty, got %v", r.Code)
	}
}
