package malloc

import "fmt"
import "testing"
import "unsafe"
import "math/rand"

var _ = fmt.Sprintf("dummy")

func TestNewpoolflist(t *testing.T) {
	size, n := int64(96), int64(512)
	pool := newpoolflist(size, n)
	if pool.capacity != size*n {
		t.Errorf("expected %v, got %v", size*n, pool.capacity)
	} else if pool.size != size {
		t.Errorf("expected %v, got %v", size, pool.size)
	}
}

func TestFlistAllocFree(t *testing.T) {
	size, n := int64(96), int64(56)
	pool := newpoolflist(size, n)
	if x := pool.checkallocated(); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}

	ptrs := make([]unsafe.Pointer, 0, n)
	for i := int64(0); i < n; i++ {
		ptr, ok := pool.Allocchunk()
		if !ok {
			t.Fatalf("unable to allocate block %v", i)
		}
		if y := (i + 1) * size; pool.Allocated() != y {
			t.Errorf("expected %v, got %v", y, pool.Allocated())
		}
		ptrs = append(ptrs, ptr)
	}
	if _, ok := pool.Allocchunk(); ok {
		t.Errorf("expected pool exhaustion")
	}

	rand.Shuffle(len(ptrs), func(i, j int) {
		ptrs[i], ptrs[j] = ptrs[j], ptrs[i]
	})
	for _, ptr := range ptrs {
		pool.Free(ptr)
	}
	if pool.Allocated() != 0 {
		t.Errorf("expected 0 after freeing everything, got %v", pool.Allocated())
	}
}

func BenchmarkFlistAllocFree(b *testing.B) {
	size, n := int64(96), int64(1024)
	pool := newpoolflist(size, n)
	for i := 0; i < b.N; i++ {
		ptr, ok := pool.Allocchunk()
		if !ok {
			pool = newpoolflist(size, n)
			continue
		}
		pool.Free(ptr)
	}
}
