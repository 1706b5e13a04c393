//go:build hashmap_opt_cachelinesize_128

package hashmap

// CacheLineSize overrides the detected cache line size.
const CacheLineSize = 128
