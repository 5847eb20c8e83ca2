package stm

import "fmt"
import "sync"
import "sync/atomic"

import s "github.com/prataprc/gosettings"

import "github.com/bnclabs/gostm/api"
import "github.com/bnclabs/gostm/lib"
import "github.com/bnclabs/gostm/malloc"

// Region is the top-level container for a shared transactional
// memory space: the arena it carves segments from, the address map
// from user-visible addresses to per-word control records, the
// batcher coordinating epochs, and the per-epoch written/free lists.
type Region struct {
	align int64
	size0 int64
	start api.Address

	arena *malloc.Arena

	mu       sync.RWMutex
	words    map[api.Address]*word
	segments map[api.Address]*segment

	// arenamu serializes every call into the arena: malloc.Arena and
	// its pools are explicitly not safe for concurrent use, so both
	// Alloc (tryalloc, below) and Free (removesegmentlocked's
	// seg.release) must run one at a time even though r.mu alone
	// would let concurrent read-write transactions race on them.
	arenamu sync.Mutex

	nextoffset int64 // atomic, word-granularity address minter
	nexttxid   uint64

	batcher *batcher
	written *appendlist[api.Address]
	tofree  *appendlist[api.Address]

	setts     s.Settings
	logprefix string

	stats regionStats

	statsmu    sync.Mutex
	allocSizes *lib.HistogramInt64
	epochWords *lib.AverageInt64
}

type regionStats struct {
	nBegins        int64
	nCommits       int64
	nAborts        int64
	nAllocs        int64
	nNomem         int64
	nFrees         int64
	nEpochs        int64
	nWordsWritten  int64
	nSegmentsFreed int64
}

// NewRegion constructs a region with the given settings (see
// Defaultsettings) and reserves its initial, non-freeable segment.
func NewRegion(setts s.Settings) *Region {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	validatesettings(setts)

	align, size0 := setts.Int64("align"), setts.Int64("size0")

	r := &Region{
		align:     align,
		size0:     size0,
		words:     make(map[api.Address]*word),
		segments:  make(map[api.Address]*segment),
		setts:     setts,
		logprefix: "STM",
	}
	r.batcher = newbatcher(r)
	r.written = newappendlist[api.Address]()
	r.tofree = newappendlist[api.Address]()
	r.allocSizes = lib.NewhistorgramInt64(0, 64*align, align)
	r.epochWords = &lib.AverageInt64{}

	// every segment reserves two copies of its words, so the arena's
	// maxblock must accommodate double the caller-facing maxblock. The
	// smallest segment (one word, two copies) is 2*align bytes, rounded
	// up to a multiple of malloc.Sizeinterval since Blocksizes requires it.
	minblock := roundup(2*align, malloc.Sizeinterval)
	arenasetts := malloc.Defaultsettings(minblock, 2*setts.Int64("arena.maxblock"))
	arenasetts["capacity"] = setts.Int64("arena.capacity")
	arenasetts["allocator"] = setts.String("arena.allocator")
	r.arena = malloc.NewArena(arenasetts)

	nwords := size0 / align
	seg := newsegment(r.arena, 0, nwords, align)
	r.nextoffset = nwords
	r.start = seg.addr0
	r.installsegment(seg)

	log.Infof("%v started region align:%v size0:%v\n", r.logprefix, align, size0)
	return r
}

// Start returns the stable base address of the region's initial
// segment.
func (r *Region) Start() api.Address {
	return r.start
}

// Size returns the size, in bytes, of the region's initial segment.
func (r *Region) Size() int64 {
	return r.size0
}

// Align returns the region's word size in bytes.
func (r *Region) Align() int64 {
	return r.align
}

// Close releases the region and every segment it holds. Calling
// Close while a transaction is live panics; the caller must ensure
// no transaction is in flight.
func (r *Region) Close() {
	if n := r.batcher.inflight(); n != 0 {
		panic(fmt.Errorf("%v: %v transactions still live", ErrorRegionBusy, n))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for addr := range r.segments {
		r.segments[addr].release()
	}
	r.words, r.segments = nil, nil
	r.arena.Release()
}

// mintaddress reserves nwords worth of fresh address space and
// returns the address of the first word.
func (r *Region) mintaddress(nwords int64) api.Address {
	off := atomic.AddInt64(&r.nextoffset, nwords) - nwords
	return api.Address(off * r.align)
}

func (r *Region) installsegment(seg *segment) {
	r.mu.Lock()
	r.segments[seg.addr0] = seg
	for i := range seg.words {
		addr := seg.addr0 + api.Address(int64(i)*r.align)
		r.words[addr] = &seg.words[i]
	}
	r.mu.Unlock()
}

// removesegmentlocked deletes a segment's per-word records from the
// address map and releases its arena bytes. The caller must hold
// r.mu for writing.
func (r *Region) removesegmentlocked(addr0 api.Address) {
	seg, ok := r.segments[addr0]
	if !ok {
		return
	}
	for i := range seg.words {
		addr := seg.addr0 + api.Address(int64(i)*r.align)
		delete(r.words, addr)
	}
	delete(r.segments, addr0)
	r.arenamu.Lock()
	seg.release()
	r.arenamu.Unlock()
}

// roundup rounds n up to the next multiple of m.
func roundup(n, m int64) int64 {
	if rem := n % m; rem != 0 {
		return n + (m - rem)
	}
	return n
}

func (r *Region) lookupword(addr api.Address) *word {
	r.mu.RLock()
	w := r.words[addr]
	r.mu.RUnlock()
	return w
}

// endEpoch is invoked by the batcher's last leaver for the current
// epoch, while no transaction is admitted. It frees queued segments
// and flips read_version bits for every word written this epoch.
func (r *Region) endEpoch() {
	freed := r.tofree.drain()
	if len(freed) > 0 {
		r.mu.Lock()
		for _, addr := range freed {
			r.removesegmentlocked(addr)
		}
		r.mu.Unlock()
		atomic.AddInt64(&r.stats.nSegmentsFreed, int64(len(freed)))
	}

	written := r.written.drain()
	for _, addr := range written {
		if w := r.lookupword(addr); w != nil {
			w.release()
		}
	}
	atomic.AddInt64(&r.stats.nWordsWritten, int64(len(written)))
	atomic.AddInt64(&r.stats.nEpochs, 1)

	r.statsmu.Lock()
	r.epochWords.Add(int64(len(written)))
	r.statsmu.Unlock()
}
