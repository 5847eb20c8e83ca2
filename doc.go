// Package stm implements a software transactional memory engine: a
// shared, word-addressable memory region plus transactions that read,
// write, allocate and free words against it, committing atomically or
// aborting with no visible effect.
//
// A Region is created with a word size (Align) and the size of its
// initial segment. Workers call Region.Begin to obtain a Txn, issue
// Read/Write/Alloc/Free against it, and call Txn.End to commit. The
// region batches concurrently live transactions into epochs; the last
// transaction to leave an epoch triggers the commit that publishes
// writes and releases freed segments.
//
// Applications decide how to schedule workers and how to retry
// transactions that abort; the region only guarantees that a
// transaction's effects are either fully visible after a successful
// End, or entirely absent.
package stm
