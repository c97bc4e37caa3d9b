package clubsite

import "runtime"

const (
	// MinWorkers ensures at least one page is processed at a time.
	MinWorkers = 1

	// MaxWorkers caps concurrent page assemblies.
	MaxWorkers = 8

	// cpuDivisor leaves headroom for the fragment goroutines each page
	// starts.
	cpuDivisor = 2
)

// ResolveWorkers determines how many pages to assemble at once.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs ran.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
