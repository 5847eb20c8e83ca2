package stm

import "fmt"
import "sync/atomic"
import "unsafe"

import "github.com/bnclabs/gostm/api"
import "github.com/bnclabs/gostm/lib"

// Begin admits a new transaction into the current epoch. Read-only
// admissions never block; read-write admissions block while the
// batcher's `wait` flag is set.
func (r *Region) Begin(isRO bool) *Txn {
	txn := &Txn{
		id:       api.TxID(atomic.AddUint64(&r.nexttxid, 1)),
		region:   r,
		readonly: isRO,
		writes:   make(map[api.Address]struct{}),
	}
	r.batcher.enter(isRO)
	atomic.AddInt64(&r.stats.nBegins, 1)
	return txn
}

// Read copies len(dst) bytes starting at src into dst, applying the
// per-word access protocol one word at a time. Returns false if the
// transaction aborted; the transaction must not be used afterward.
// Panics if called again after the transaction has already ended.
func (txn *Txn) Read(src api.Address, dst []byte) bool {
	if txn.failed || txn.done {
		panic(ErrorTxnDone)
	}
	align := txn.region.align
	if int64(src)%align != 0 {
		panic(fmt.Errorf("%v: address %v not aligned to %v", ErrorBadAddress, src, align))
	}
	n := int64(len(dst))
	if n <= 0 || n%align != 0 {
		panic(fmt.Errorf("%v: read size %v not a multiple of align %v", ErrorBadSize, n, align))
	}

	nwords := n / align
	for i := int64(0); i < nwords; i++ {
		addr := src + api.Address(i*align)
		w := txn.region.lookupword(addr)
		if w == nil {
			txn.abort()
			return false
		}
		buf := dst[i*align : (i+1)*align]

		if txn.readonly {
			lib.Memcpy(slicebase(buf), w.committed(), int(align))
			continue
		}

		switch access := atomic.LoadInt64(&w.access); {
		case access == int64(txn.id):
			lib.Memcpy(slicebase(buf), w.speculative(), int(align))
		case access == 0:
			lib.Memcpy(slicebase(buf), w.committed(), int(align))
		default:
			txn.abort()
			return false
		}
	}
	return true
}

// Write copies src into the region starting at dst, applying the
// per-word access protocol one word at a time. Returns false if the
// transaction aborted; the transaction must not be used afterward.
// A read-only transaction calling Write is a programmer error. Panics
// if called again after the transaction has already ended.
func (txn *Txn) Write(src []byte, dst api.Address) bool {
	if txn.failed || txn.done {
		panic(ErrorTxnDone)
	}
	if txn.readonly {
		panic("gostm: write on a read-only transaction")
	}
	align := txn.region.align
	if int64(dst)%align != 0 {
		panic(fmt.Errorf("%v: address %v not aligned to %v", ErrorBadAddress, dst, align))
	}
	n := int64(len(src))
	if n <= 0 || n%align != 0 {
		panic(fmt.Errorf("%v: write size %v not a multiple of align %v", ErrorBadSize, n, align))
	}

	nwords := n / align
	for i := int64(0); i < nwords; i++ {
		addr := dst + api.Address(i*align)
		w := txn.region.lookupword(addr)
		if w == nil {
			txn.abort()
			return false
		}
		buf := src[i*align : (i+1)*align]

		if observed, ok := w.claim(txn.id); ok {
			lib.Memcpy(w.speculative(), slicebase(buf), int(align))
			// Recorded in txn.writes only; it is promoted to the
			// region's written-list at commit, not here, so an
			// aborted transaction never publishes a stale claim.
			txn.writes[addr] = struct{}{}
		} else if observed == int64(txn.id) {
			lib.Memcpy(w.speculative(), slicebase(buf), int(align))
		} else {
			txn.abort()
			return false
		}
	}
	return true
}

// Alloc reserves n bytes (n/Align consecutive fresh words) from the
// region's arena and makes them visible in the address map. On
// AllocNomem the transaction remains live. On AllocAbort it does
// not: the conflict already triggered a rollback and batcher.leave.
func (txn *Txn) Alloc(n int64) (api.Address, api.AllocStatus) {
	if txn.failed || txn.done {
		return api.InvalidAddress, api.AllocAbort
	}
	align := txn.region.align
	if n <= 0 || n%align != 0 {
		panic(fmt.Errorf("%v: alloc size %v not a multiple of align %v", ErrorBadSize, n, align))
	}

	nwords := n / align
	addr0, status := txn.tryalloc(nwords, align)
	if status == api.AllocSuccess {
		txn.allocated = append(txn.allocated, addr0)
		atomic.AddInt64(&txn.region.stats.nAllocs, 1)
		txn.region.statsmu.Lock()
		txn.region.allocSizes.Add(n)
		txn.region.statsmu.Unlock()
	} else if status == api.AllocNomem {
		atomic.AddInt64(&txn.region.stats.nNomem, 1)
	}
	return addr0, status
}

func (txn *Txn) tryalloc(nwords, align int64) (addr api.Address, status api.AllocStatus) {
	defer func() {
		if r := recover(); r != nil {
			addr, status = api.InvalidAddress, api.AllocNomem
		}
	}()
	addr0 := txn.region.mintaddress(nwords)

	seg := func() *segment {
		txn.region.arenamu.Lock()
		defer txn.region.arenamu.Unlock()
		return newsegment(txn.region.arena, addr0, nwords, align)
	}()

	txn.region.installsegment(seg)
	return addr0, api.AllocSuccess
}

// Free records p for release at the next epoch commit, if this
// transaction goes on to commit. p may have been allocated by any
// committed transaction, not necessarily this one. Panics if p is
// the invalid address or unaligned, or if the transaction has
// already ended.
func (txn *Txn) Free(p api.Address) bool {
	if txn.failed || txn.done {
		panic(ErrorTxnDone)
	}
	align := txn.region.align
	if p == api.InvalidAddress || int64(p)%align != 0 {
		panic(fmt.Errorf("%v: address %v", ErrorBadAddress, p))
	}
	txn.freed = append(txn.freed, p)
	atomic.AddInt64(&txn.region.stats.nFrees, 1)
	return true
}

// End commits the transaction if it has not already aborted and
// leaves its epoch. Returns true if the transaction committed.
func (txn *Txn) End() bool {
	if txn.done {
		return false
	}
	txn.done = true
	committed := !txn.failed
	if committed {
		for addr := range txn.writes {
			txn.region.written.add(addr)
		}
		for _, addr := range txn.freed {
			txn.region.tofree.add(addr)
		}
	}
	txn.region.batcher.leave(txn.failed)
	if committed {
		atomic.AddInt64(&txn.region.stats.nCommits, 1)
	}
	return committed
}

// abort rolls back any segments this transaction introduced, frees
// the words it had claimed without promoting them, and leaves the
// epoch as a failure. An aborted transaction's claims never reach the
// region's written-list (only End promotes them, on commit), so its
// speculative bytes are never published and epoch commit never visits
// these words; access is therefore reset here instead.
func (txn *Txn) abort() {
	if txn.failed {
		return
	}
	txn.failed = true

	for addr := range txn.writes {
		if w := txn.region.lookupword(addr); w != nil {
			w.abandon()
		}
	}

	if len(txn.allocated) > 0 {
		txn.region.mu.Lock()
		for _, addr := range txn.allocated {
			txn.region.removesegmentlocked(addr)
		}
		txn.region.mu.Unlock()
	}

	txn.done = true
	txn.region.batcher.leave(true)
	atomic.AddInt64(&txn.region.stats.nAborts, 1)
}

func slicebase(b []byte) unsafe.Pointer {
	return unsafe.Pointer(&b[0])
}
