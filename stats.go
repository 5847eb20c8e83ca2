package stm

import "sync/atomic"

import humanize "github.com/dustin/go-humanize"

// Stats returns a snapshot of the region's lifetime counters.
func (r *Region) Stats() map[string]interface{} {
	m := map[string]interface{}{
		"n_begins":         atomic.LoadInt64(&r.stats.nBegins),
		"n_commits":        atomic.LoadInt64(&r.stats.nCommits),
		"n_aborts":         atomic.LoadInt64(&r.stats.nAborts),
		"n_allocs":         atomic.LoadInt64(&r.stats.nAllocs),
		"n_nomem":          atomic.LoadInt64(&r.stats.nNomem),
		"n_frees":          atomic.LoadInt64(&r.stats.nFrees),
		"n_epochs":         atomic.LoadInt64(&r.stats.nEpochs),
		"n_words_written":  atomic.LoadInt64(&r.stats.nWordsWritten),
		"n_segments_freed": atomic.LoadInt64(&r.stats.nSegmentsFreed),
	}
	overhead, useful := r.arena.Memory()
	m["arena_overhead"] = overhead
	m["arena_useful"] = useful
	m["arena_allocated"] = r.arena.Allocated()
	m["arena_available"] = r.arena.Available()

	r.statsmu.Lock()
	m["alloc_size_histogram"] = r.allocSizes.Fullstats()
	m["epoch_words_written"] = map[string]interface{}{
		"samples":     r.epochWords.Samples(),
		"min":         r.epochWords.Min(),
		"max":         r.epochWords.Max(),
		"mean":        r.epochWords.Mean(),
		"variance":    r.epochWords.Variance(),
		"stddeviance": r.epochWords.SD(),
	}
	r.statsmu.Unlock()
	return m
}

// Log prints a human-readable summary of the region's stats using
// go-humanize for byte counts.
func (r *Region) Log() {
	stats := r.Stats()
	fmsg := "%v begins:%v commits:%v aborts:%v epochs:%v words_written:%v\n"
	log.Infof(
		fmsg, r.logprefix, stats["n_begins"], stats["n_commits"],
		stats["n_aborts"], stats["n_epochs"], stats["n_words_written"],
	)
	overhead := humanize.Bytes(uint64(stats["arena_overhead"].(int64)))
	useful := humanize.Bytes(uint64(stats["arena_useful"].(int64)))
	allocated := humanize.Bytes(uint64(stats["arena_allocated"].(int64)))
	available := humanize.Bytes(uint64(stats["arena_available"].(int64)))
	fmsg = "%v arena overhead:%v useful:%v allocated:%v available:%v\n"
	log.Infof(fmsg, r.logprefix, overhead, useful, allocated, available)

	r.statsmu.Lock()
	allocHist := r.allocSizes.Logstring()
	r.statsmu.Unlock()
	epochWords := stats["epoch_words_written"].(map[string]interface{})
	log.Infof("%v alloc sizes %v\n", r.logprefix, allocHist)
	log.Infof(
		"%v words_written per epoch mean:%v max:%v\n",
		r.logprefix, epochWords["mean"], epochWords["max"],
	)
}
