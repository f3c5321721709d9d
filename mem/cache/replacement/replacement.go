// Package replacement provides the victim-selection policies of the cache
// model. A policy decides which way to overwrite on a fill and maintains its
// own bookkeeping from fill and access notifications.
package replacement

// AccessType distinguishes the kinds of accesses the cache can receive.
type AccessType int

// The closed set of access types.
const (
	Load AccessType = iota
	RFO
	Prefetch
	Write
	Translation
)

func (t AccessType) String() string {
	switch t {
	case Load:
		return "load"
	case RFO:
		return "rfo"
	case Prefetch:
		return "prefetch"
	case Write:
		return "write"
	case Translation:
		return "translation"
	default:
		return "unknown"
	}
}

// A BlockView is the read-only view of one way that the cache hands to a
// policy during victim selection. Policies never mutate the real set/way
// array through it.
type BlockView struct {
	Valid bool
	CPU   int
	Tag   uint64
}

// A Policy decides which way should be evicted on a fill.
//
// FindVictim must return a way index in [0, numWays) and may read nothing
// but the given snapshot and the policy's own bookkeeping. UpdateOnFill and
// UpdateOnAccess are notifications issued by the cache after a fill or a
// completed access; their side effects are limited to policy bookkeeping.
type Policy interface {
	// Initialize performs one-time setup such as computing partition
	// margins. It is idempotent.
	Initialize()

	FindVictim(cpu, setID int, set []BlockView, t AccessType) int
	UpdateOnFill(cpu, setID, wayID int, t AccessType)
	UpdateOnAccess(cpu, setID, wayID int, t AccessType, hit bool)
}
