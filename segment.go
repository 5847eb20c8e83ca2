package stm

import "unsafe"

import "github.com/bnclabs/gostm/api"
import "github.com/bnclabs/gostm/lib"
import "github.com/bnclabs/gostm/malloc"

// segment is a contiguous run of words reserved from the arena at
// once, either the region's initial segment or a tm_alloc result.
// The two data copies of every word in the segment are laid out
// side-by-side across the whole segment: the first half of buf holds
// copy 0 of every word, the second half holds copy 1. This mirrors
// a single calloc(nwords*2, align)-style reservation rather than
// per-word interleaved pairs.
type segment struct {
	addr0  api.Address
	align  int64
	nwords int64
	buf    unsafe.Pointer
	owner  api.Releaser
	words  []word
}

// newsegment reserves nwords*2*align bytes from arena, zero-fills
// them, and builds the per-word control records. Panics with
// malloc.ErrorOutofMemory if the arena refuses the request; callers
// that need a NOMEM status rather than a panic should recover.
func newsegment(arena *malloc.Arena, addr0 api.Address, nwords, align int64) *segment {
	size := nwords * 2 * align
	ptr, owner := arena.Alloc(size)
	zerofill(ptr, size)

	seg := &segment{
		addr0:  addr0,
		align:  align,
		nwords: nwords,
		buf:    ptr,
		owner:  owner,
		words:  make([]word, nwords),
	}
	for i := range seg.words {
		seg.words[i] = word{seg: seg, offset: int64(i)}
	}
	return seg
}

// wordptr returns a pointer to copy `cp` (0 or 1) of the word at
// `offset` within this segment.
func (seg *segment) wordptr(offset int64, cp int32) unsafe.Pointer {
	half := uintptr(seg.nwords * seg.align)
	base := uintptr(seg.buf) + uintptr(cp)*half + uintptr(offset*seg.align)
	return unsafe.Pointer(base)
}

// release frees the segment's arena bytes back to its owning pool.
func (seg *segment) release() {
	seg.owner.Free(seg.buf)
}

var zerobuf = make([]byte, 4096)

// zerofill writes n zero bytes starting at ptr, reusing a static
// zero buffer in chunks rather than allocating a fresh one per call.
func zerofill(ptr unsafe.Pointer, n int64) {
	for n > 0 {
		chunk := int64(len(zerobuf))
		if chunk > n {
			chunk = n
		}
		lib.Memcpy(ptr, unsafe.Pointer(&zerobuf[0]), int(chunk))
		ptr = unsafe.Pointer(uintptr(ptr) + uintptr(chunk))
		n -= chunk
	}
}
