package stm

import "errors"

// ErrorBadAlign is raised when align is not a power of two.
var ErrorBadAlign = errors.New("gostm.badalign")

// ErrorBadSize is raised when a size argument is not a positive
// multiple of the region's align.
var ErrorBadSize = errors.New("gostm.badsize")

// ErrorBadAddress is raised when an address passed to Read, Write or
// Free is not aligned to the region's word size, and by Free when the
// address is the invalid address sentinel.
var ErrorBadAddress = errors.New("gostm.badaddress")

// ErrorTxnDone is raised when an operation is attempted against a
// transaction that has already aborted or ended.
var ErrorTxnDone = errors.New("gostm.txndone")

// ErrorRegionBusy is raised by Close when transactions are still
// live in the region.
var ErrorRegionBusy = errors.New("gostm.regionbusy")
