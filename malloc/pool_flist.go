// Functions and methods are not thread safe.

package malloc

import "fmt"
import "unsafe"

// poolflist manages a memory block sliced up into equal sized chunks,
// tracking free chunks with a plain free-list of block indices.
type poolflist struct {
	// 64-bit aligned stats
	mallocated int64

	capacity int64          // memory managed by this pool
	size     int64          // fixed size blocks in this pool
	mem      []byte         // backing store, keeps base alive for the GC
	base     unsafe.Pointer // pool's base pointer
	freelist []uint16
	freeoff  int
}

// size of each chunk in the block and no. of chunks in the block.
func newpoolflist(size, n int64) *poolflist {
	capacity := size * n
	mem := make([]byte, capacity)
	pool := &poolflist{
		capacity: capacity,
		size:     size,
		mem:      mem,
		base:     unsafe.Pointer(&mem[0]),
		freelist: make([]uint16, n),
		freeoff:  int(n - 1),
	}
	for i := 0; i < int(n); i++ {
		pool.freelist[i] = uint16(i)
	}
	return pool
}

// flistfactory builds pools for the free-list allocator strategy. Each
// call to the returned poolmaker creates an independent poolflist; the
// arena owns the bookkeeping of which pools are live for a block-size.
func flistfactory() func(size, numblocks int64) Mpooler {
	return func(size, numblocks int64) Mpooler {
		return newpoolflist(size, numblocks)
	}
}

// Chunksize implement Mpooler{} interface.
func (pool *poolflist) Chunksize() int64 {
	return pool.size
}

// Less implement Mpooler{} interface.
func (pool *poolflist) Less(other interface{}) bool {
	oth := other.(*poolflist)
	return uintptr(pool.base) < uintptr(oth.base)
}

// Allocchunk implement Mpooler{} interface.
func (pool *poolflist) Allocchunk() (unsafe.Pointer, bool) {
	if pool.mallocated == pool.capacity {
		return nil, false
	}
	nthblock := int64(pool.freelist[pool.freeoff])
	pool.freelist = pool.freelist[:pool.freeoff]
	pool.freeoff--
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
func (pool *poolflist) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		panic("poolflist.free(): nil pointer")
	}
	diffptr := uint64(uintptr(ptr) - uintptr(pool.base))
	if (diffptr % uint64(pool.size)) != 0 {
		fmsg := "poolflist.free(): unaligned pointer: %x,%v"
		panic(fmt.Errorf(fmsg, diffptr, pool.size))
	}
	nthblock := uint16(diffptr / uint64(pool.size))
	pool.freelist = append(pool.freelist, nthblock)
	pool.freeoff++
	pool.mallocated -= pool.size
}

// Memory implement Mpooler{} interface.
func (pool *poolflist) Memory() (overhead, useful int64) {
	self := int64(unsafe.Sizeof(*pool))
	slicesz := int64(cap(pool.freelist)) * 2
	return self + slicesz, pool.capacity
}

// Allocated implement Mpooler{} interface.
func (pool *poolflist) Allocated() int64 {
	return pool.mallocated
}

// Available implement Mpooler{} interface.
func (pool *poolflist) Available() int64 {
	return pool.capacity - pool.mallocated
}

// Chunksizes implement Mpooler{} interface.
func (pool *poolflist) Chunksizes() []int64 {
	return []int64{pool.size}
}

// Utilization implement Mpooler{} interface.
func (pool *poolflist) Utilization() ([]int, []float64) {
	if pool.capacity == 0 {
		return nil, nil
	}
	pct := (float64(pool.mallocated) / float64(pool.capacity)) * 100
	return []int{int(pool.size)}, []float64{pct}
}

// Release implement Mpooler{} interface.
func (pool *poolflist) Release() {
	pool.mem, pool.base = nil, nil
	pool.freelist, pool.freeoff = nil, -1
	pool.capacity = 0
	pool.mallocated = 0
}

//---- local functions

func (pool *poolflist) checkallocated() int64 {
	return pool.capacity - int64(len(pool.freelist))*pool.size
}
