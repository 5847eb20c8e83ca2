package stm

import "github.com/bnclabs/gostm/api"

// Txn is a per-goroutine scratch object: an in-flight transaction
// against a Region. A Txn must not be shared across goroutines and
// must not be used after Read, Write or Alloc reports failure, or
// after End returns.
type Txn struct {
	id       api.TxID
	region   *Region
	readonly bool
	failed   bool
	done     bool

	// writes is the set of word addresses this transaction has
	// dirtied this epoch.
	writes map[api.Address]struct{}

	// allocated holds the base address of every segment this
	// transaction introduced via Alloc, for rollback on abort.
	allocated []api.Address

	// freed holds the base address of every segment this transaction
	// queued for release via Free.
	freed []api.Address
}

// ID returns the transaction's identifier, unique for the lifetime
// of the region that created it.
func (txn *Txn) ID() api.TxID {
	return txn.id
}

// ReadOnly reports whether this transaction was begun read-only.
func (txn *Txn) ReadOnly() bool {
	return txn.readonly
}

// Failed reports whether this transaction has already aborted.
func (txn *Txn) Failed() bool {
	return txn.failed
}
