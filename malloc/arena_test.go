package malloc

import "fmt"
import "testing"
import "unsafe"

var _ = fmt.Sprintf("dummy")

func TestNewArena(t *testing.T) {
	config := Defaultsettings(32, 1024)
	arena := NewArena(config)
	if len(arena.blocksizes) == 0 {
		t.Errorf("expected at least one block-size bucket")
	}
	if len(arena.mpools) != len(arena.blocksizes) {
		t.Errorf("expected %v pool buckets, got %v", len(arena.blocksizes), len(arena.mpools))
	}
	arena.Release()
}

func TestArenaAllocFree(t *testing.T) {
	config := Defaultsettings(32, 1024)
	config["capacity"] = int64(10 * 1024 * 1024)
	arena := NewArena(config)
	defer arena.Release()

	ptrs := make([]unsafe.Pointer, 0, 128)
	owners := make([]Mpooler, 0, 128)
	for i := 0; i < 128; i++ {
		ptr, owner := arena.Alloc(96)
		if ptr == nil {
			t.Fatalf("unexpected allocation failure at %v", i)
		}
		ptrs = append(ptrs, ptr)
		owners = append(owners, owner.(Mpooler))
	}
	if x := arena.Allocated(); x == 0 {
		t.Errorf("expected non-zero allocated bytes")
	}
	for i, ptr := range ptrs {
		owners[i].Free(ptr)
	}
	if x := arena.Allocated(); x != 0 {
		t.Errorf("expected 0 allocated bytes after freeing, got %v", x)
	}
}

func TestArenaAllocExceedsMaxblock(t *testing.T) {
	config := Defaultsettings(32, 1024)
	arena := NewArena(config)
	defer arena.Release()

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic allocating beyond maxblock")
		}
	}()
	arena.Alloc(2048)
}

func TestArenaFreeRejected(t *testing.T) {
	config := Defaultsettings(32, 1024)
	arena := NewArena(config)
	defer arena.Release()

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic, arena.Free must be rejected")
		}
	}()
	arena.Free(nil)
}

func TestArenaFbitAllocator(t *testing.T) {
	config := Defaultsettings(32, 1024)
	config["allocator"] = "fbit"
	arena := NewArena(config)
	defer arena.Release()

	ptr, owner := arena.Alloc(64)
	if ptr == nil {
		t.Fatalf("unexpected allocation failure")
	}
	owner.Free(ptr)
}

func BenchmarkArenaAlloc(b *testing.B) {
	config := Defaultsettings(32, 1024)
	config["capacity"] = int64(1024 * 1024 * 1024)
	arena := NewArena(config)
	defer arena.Release()

	for i := 0; i < b.N; i++ {
		ptr, owner := arena.Alloc(96)
		owner.Free(ptr)
	}
}
