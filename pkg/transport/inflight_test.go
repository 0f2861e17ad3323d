package transport

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestInFlightRegistryCancel(t *testing.T) {
	r := NewInFlightRegistry()

	canceled := false
	r.Register("cmpl_a", func() { canceled = true })

	if !r.Cancel("cmpl_a") {
		t.Error("Cancel should report a registered id")
	}
	if !canceled {
		t.Error("cancel func not called")
	}
	if r.Cancel("cmpl_a") {
		t.Error("second Cancel should report false")
	}
	if r.Cancel("cmpl_unknown") {
		t.Error("Cancel of unknown id should report false")
	}
}

func TestInFlightRegistryRemove(t *testing.T) {
	r := NewInFlightRegistry()

	canceled := false
	r.Register("cmpl_a", func() { canceled = true })
	r.Remove("cmpl_a")

	if r.Cancel("cmpl_a") {
		t.Error("Cancel after Remove should report false")
	}
	if canceled {
		t.Error("Remove must not cancel")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestInFlightRegistryCancelAll(t *testing.T) {
	r := NewInFlightRegistry()

	var count atomic.Int32
	for i := range 5 {
		r.Register(fmt.Sprintf("cmpl_%d", i), func() { count.Add(1) })
	}

	if n := r.CancelAll(); n != 5 {
		t.Errorf("CancelAll = %d, want 5", n)
	}
	if count.Load() != 5 {
		t.Errorf("cancel funcs called %d times, want 5", count.Load())
	}
	if r.Len() != 0 {
		t.Errorf("Len after CancelAll = %d", r.Len())
	}
}

func TestInFlightRegistryConcurrent(t *testing.T) {
	r := NewInFlightRegistry()

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("cmpl_%d", i)
			r.Register(id, func() {})
			if i%2 == 0 {
				r.Cancel(id)
			} else {
				r.Remove(id)
			}
		}()
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}
