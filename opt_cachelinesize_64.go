//go:build hashmap_opt_cachelinesize_64

package hashmap

// CacheLineSize overrides the detected cache line size.
const CacheLineSize = 64
