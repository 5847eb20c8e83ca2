package malloc

import "fmt"

import s "github.com/prataprc/gosettings"

// Alignment minblock and maxblocks should be multiples of Alignment.
const Alignment = int64(8)

// Defaultsettings for a word arena.
//
// "minblock" (int64)
//		Minimum size of a chunk, typically the region's word size.
//
// "maxblock" (int64)
//		Maximum size of a chunk, typically the region's largest segment.
//
// "allocator" (string, default: "flist")
//		Allocator algorithm, can be "flist" or "fbit".
func Defaultsettings(minblock, maxblock int64) s.Settings {
	if minblock > maxblock {
		panic(fmt.Errorf("minblock(%v) > maxblock(%v)", minblock, maxblock))
	}
	return s.Settings{
		"minblock":     minblock,
		"maxblock":     maxblock,
		"allocator":    "flist",
		"capacity":     Maxarenasize,
		"pool.capacity": Maxarenasize,
		"maxpools":     Maxpools,
		"maxchunks":    Maxchunks,
	}
}
