package malloc

import "fmt"
import "testing"
import "unsafe"

var _ = fmt.Sprintf("dummy")

func TestNewpoolfbit(t *testing.T) {
	size, n := int64(96), int64(512)
	mpool := newpoolfbit(size, n).(*poolfbit)
	if mpool.capacity != size*n {
		t.Errorf("expected %v, got %v", size*n, mpool.capacity)
	} else if x := mpool.fbits.freeblocks(); x != n {
		t.Errorf("expected %v, got %v", n, x)
	} else if mpool.size != size {
		t.Errorf("expected %v, got %v", size, mpool.size)
	}
}

func TestFbitAllocFree(t *testing.T) {
	size, n := int64(96), int64(64)
	pool := newpoolfbit(size, n).(*poolfbit)

	ptrs := make([]unsafe.Pointer, 0, n)
	for i := int64(0); i < n; i++ {
		ptr, ok := pool.Allocchunk()
		if !ok {
			t.Fatalf("unable to allocate block %v", i)
		}
		ptrs = append(ptrs, ptr)
	}
	if _, ok := pool.Allocchunk(); ok {
		t.Errorf("expected pool exhaustion")
	}
	for _, ptr := range ptrs {
		pool.Free(ptr)
	}
	if pool.Allocated() != 0 {
		t.Errorf("expected 0 after freeing everything, got %v", pool.Allocated())
	}
}

func BenchmarkFbitAllocFree(b *testing.B) {
	size, n := int64(96), int64(1024)
	pool := newpoolfbit(size, n).(*poolfbit)
	for i := 0; i < b.N; i++ {
		ptr, ok := pool.Allocchunk()
		if !ok {
			pool = newpoolfbit(size, n).(*poolfbit)
			continue
		}
		pool.Free(ptr)
	}
}
