package records

// Which path served a read. Upstream wins when reachable; the snapshot
// cache or the local checkout store back it up; "none" is the terminal
// degraded state with an empty collection.
const (
	SourceUpstream = "upstream"
	SourceCache    = "cache"
	SourceLocal    = "local"
	SourceNone     = "none"
)
