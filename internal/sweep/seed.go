// internal/sweep/seed.go
package sweep

// DeriveSeed deterministically expands a run-level base seed into a
// per-simulation seed for the given (n, k) at the given noise-level index.
// Every simulation in a grid gets its own stream, so workers never contend
// on shared random state, and re-running with the same base seed reproduces
// every confusion matrix bit for bit regardless of scheduling.
func DeriveSeed(base uint64, key Key, noiseIdx int) uint64 {
	s := mix(base)
	s = mix(s ^ uint64(key.N))
	s = mix(s ^ uint64(key.K)<<16)
	s = mix(s ^ uint64(noiseIdx)<<32)
	return s
}

// mix is the SplitMix64 finalizer.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
