package stm

import "fmt"

import s "github.com/prataprc/gosettings"
import "github.com/cloudfoundry/gosigar"

// Defaultsettings for a Region.
//
// "align" (int64, default: DefaultAlign)
//		Word size in bytes, must be a power of two. Every read, write
//		and alloc size must be a positive multiple of this.
//
// "size0" (int64, default: DefaultSize0)
//		Size, in bytes, of the region's initial, non-freeable segment.
//
// "arena.maxblock" (int64, default: DefaultMaxblock)
//		Largest single segment (one copy) the region's arena will
//		hand out to a tm_alloc.
//
// "arena.capacity" (int64, default: free system memory / 4)
//		Total bytes the region's arena may reserve, counting both
//		copies of every word. Left at its default, gosigar reports
//		free system memory and the region claims a quarter of it.
//
// "arena.allocator" (string, default: "flist")
//		Allocator algorithm backing the arena, "flist" or "fbit".
func Defaultsettings() s.Settings {
	return s.Settings{
		"align":           DefaultAlign,
		"size0":           DefaultSize0,
		"arena.maxblock":  DefaultMaxblock,
		"arena.capacity":  defaultCapacity(),
		"arena.allocator": "flist",
	}
}

func defaultCapacity() int64 {
	mem := sigar.Mem{}
	if err := mem.Get(); err != nil {
		return DefaultMaxblock * 256
	}
	return int64(mem.Free / 4)
}

func validatesettings(setts s.Settings) {
	align, size0 := setts.Int64("align"), setts.Int64("size0")
	if align <= 0 || (align&(align-1)) != 0 {
		panic(fmt.Errorf("%v: align %v must be a power of two", ErrorBadAlign, align))
	}
	if size0 <= 0 || size0%align != 0 {
		panic(fmt.Errorf("%v: size0 %v must be a positive multiple of align %v", ErrorBadSize, size0, align))
	}
}
