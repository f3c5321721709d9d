// Package cache provides a tag-granularity model of a shared set-associative
// cache, together with the replacement policies and competition statistics
// that it drives.
package cache

// A Block is the information associated with one cache line slot. Blocks are
// created invalid at build time and are only ever overwritten, never
// destroyed.
type Block struct {
	Tag       uint64
	CPU       int
	SetID     int
	WayID     int
	Valid     bool
	FillCycle uint64
}

// A Set is a fixed group of ways sharing the same index.
type Set struct {
	Blocks []Block
}
