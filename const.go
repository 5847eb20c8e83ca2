package stm

// DefaultAlign is the word size used when Defaultsettings() is not
// overridden by the caller. Must be a power of two.
const DefaultAlign = int64(8)

// DefaultSize0 is the size, in bytes, of a region's initial segment
// when Defaultsettings() is not overridden. Must be a positive
// multiple of the align size.
const DefaultSize0 = int64(4096)

// DefaultMaxblock bounds the largest single segment an arena will
// hand out, in bytes of one copy (the arena itself doubles this for
// the two-copy layout).
const DefaultMaxblock = int64(1024 * 1024)
