package util

import (
	"fmt"
	"runtime"
)

const mb = 1024 * 1024

// MemoryUsage is a snapshot of the runtime figures reported by /health.
type MemoryUsage struct {
	HeapAllocMB uint64
	HeapSysMB   uint64
	NumGC       uint32
	Goroutines  int
}

// ReadMemoryUsage samples the runtime. It briefly stops the world, so
// callers should not use it on a per-file path.
func ReadMemoryUsage() MemoryUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryUsage{
		HeapAllocMB: m.HeapAlloc / mb,
		HeapSysMB:   m.HeapSys / mb,
		NumGC:       m.NumGC,
		Goroutines:  runtime.NumGoroutine(),
	}
}

func (u MemoryUsage) String() string {
	return fmt.Sprintf("%d/%d MB heap, %d gc, %d goroutines", u.HeapAllocMB, u.HeapSysMB, u.NumGC, u.Goroutines)
}
