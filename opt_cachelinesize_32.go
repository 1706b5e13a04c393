//go:build hashmap_opt_cachelinesize_32

package hashmap

// CacheLineSize overrides the detected cache line size.
const CacheLineSize = 32
