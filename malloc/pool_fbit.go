// Functions and methods are not thread safe.

package malloc

import "fmt"
import "unsafe"

// poolfbit manages a memory block sliced up into equal sized chunks,
// tracking occupancy with a hierarchical bitmap instead of a free-list.
type poolfbit struct {
	// 64-bit aligned stats
	mallocated int64

	capacity int64          // memory managed by this pool
	size     int64          // fixed size blocks in this pool
	mem      []byte         // backing store, keeps base alive for the GC
	base     unsafe.Pointer // pool's base pointer
	fbits    *freebits
}

func fbitfactory() func(size, numblocks int64) Mpooler {
	return newpoolfbit
}

// size of each chunk in the block and no. of chunks in the block.
func newpoolfbit(size, n int64) Mpooler {
	capacity := size * n
	mem := make([]byte, capacity)
	pool := &poolfbit{
		capacity: capacity,
		size:     size,
		mem:      mem,
		base:     unsafe.Pointer(&mem[0]),
		fbits:    newfreebits(cacheline, n),
	}
	return pool
}

// Chunksize implement Mpooler{} interface.
func (pool *poolfbit) Chunksize() int64 {
	return pool.size
}

// Less implement Mpooler{} interface.
func (pool *poolfbit) Less(other interface{}) bool {
	oth := other.(*poolfbit)
	return uintptr(pool.base) < uintptr(oth.base)
}

// Allocchunk implement Mpooler{} interface.
func (pool *poolfbit) Allocchunk() (unsafe.Pointer, bool) {
	if pool.base == nil {
		panic(fmt.Errorf("pool already released"))
	} else if pool.mallocated == pool.capacity {
		return nil, false
	}
	nthblock, _ := pool.fbits.alloc()
	if nthblock < 0 {
		return nil, false
	}
	ptr := uintptr(pool.base) + uintptr(nthblock*pool.size)
	initblock(ptr, pool.size)
	pool.mallocated += pool.size
	mask := uintptr(Alignment - 1)
	if (ptr & mask) != 0 {
		fmsg := "allocated pointer is not %v byte aligned"
		panic(fmt.Errorf(fmsg, Alignment))
	}
	return unsafe.Pointer(ptr), true
}

// Free implement Mpooler{} interface.
func (pool *poolfbit) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		panic("poolfbit.free(): nil pointer")
	}
	diffptr := uint64(uintptr(ptr) - uintptr(pool.base))
	if (diffptr % uint64(pool.size)) != 0 {
		panic("poolfbit.free(): unaligned pointer")
	}
	pool.fbits.free(int64(diffptr / uint64(pool.size)))
	pool.mallocated -= pool.size
}

// Memory implement Mpooler{} interface.
func (pool *poolfbit) Memory() (overhead, useful int64) {
	self := int64(unsafe.Sizeof(*pool))
	slicesz := pool.fbits.sizeof()
	return self + slicesz, pool.capacity
}

// Allocated implement Mpooler{} interface.
func (pool *poolfbit) Allocated() int64 {
	return pool.mallocated
}

// Available implement Mpooler{} interface.
func (pool *poolfbit) Available() int64 {
	return pool.capacity - pool.mallocated
}

// Chunksizes implement Mpooler{} interface.
func (pool *poolfbit) Chunksizes() []int64 {
	return []int64{pool.size}
}

// Utilization implement Mpooler{} interface.
func (pool *poolfbit) Utilization() ([]int, []float64) {
	if pool.capacity == 0 {
		return nil, nil
	}
	pct := (float64(pool.mallocated) / float64(pool.capacity)) * 100
	return []int{int(pool.size)}, []float64{pct}
}

// Release implement Mpooler{} interface.
func (pool *poolfbit) Release() {
	pool.mem, pool.base = nil, nil
	pool.fbits = nil
	pool.capacity = 0
	pool.mallocated = 0
}

//---- local functions

// can be costly operation.
func (pool *poolfbit) checkallocated() int64 {
	return pool.capacity - (pool.fbits.freeblocks() * pool.size)
}
