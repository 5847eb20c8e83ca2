package stm

import "sync/atomic"
import "unsafe"

import "github.com/bnclabs/gostm/api"

// word is the per-word control record: two data copies, a bit
// selecting which is committed, and an owning transaction id. Every
// field is manipulated with atomics; there is no per-word mutex.
type word struct {
	seg         *segment
	offset      int64 // word index within seg, 0..seg.nwords-1
	readVersion int32 // atomic: 0 or 1, selects the committed copy
	access      int64 // atomic: 0 (no owner) or api.TxID of the owner
}

// committed returns a pointer to the currently committed copy.
func (w *word) committed() unsafe.Pointer {
	cp := atomic.LoadInt32(&w.readVersion)
	return w.seg.wordptr(w.offset, cp)
}

// speculative returns a pointer to the copy a read-write owner writes
// into; it is the copy not currently selected by readVersion.
func (w *word) speculative() unsafe.Pointer {
	cp := atomic.LoadInt32(&w.readVersion)
	return w.seg.wordptr(w.offset, 1-cp)
}

// claim attempts to take ownership of the word for txn. Returns the
// observed access value and whether the CAS succeeded.
func (w *word) claim(txn api.TxID) (observed int64, ok bool) {
	ok = atomic.CompareAndSwapInt64(&w.access, 0, int64(txn))
	if ok {
		return 0, true
	}
	return atomic.LoadInt64(&w.access), false
}

// release resets access to 0 and flips readVersion, publishing the
// speculative copy as committed. Called only from epoch commit, for
// words whose owner committed.
func (w *word) release() {
	cp := atomic.LoadInt32(&w.readVersion)
	atomic.StoreInt32(&w.readVersion, 1-cp)
	atomic.StoreInt64(&w.access, 0)
}

// abandon resets access to 0 without touching readVersion, leaving
// the speculative copy as garbage for the next owner to overwrite.
// Called by an aborting transaction for every word it had claimed,
// so ownership is freed immediately rather than at epoch commit.
func (w *word) abandon() {
	atomic.StoreInt64(&w.access, 0)
}
