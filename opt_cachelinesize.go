//go:build !hashmap_opt_cachelinesize_32 && !hashmap_opt_cachelinesize_64 && !hashmap_opt_cachelinesize_128

package hashmap

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is used to size the first backing array of a chain.
// It's automatically calculated using the `golang.org/x/sys` package.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})
