package depgraph

import "fmt"

// UpstreamMemory caches direct upstream sets across one logical
// batch of transitive queries, so that computing the closure for
// many jobs in a loop reuses work instead of re-deriving shared
// ancestors. It is purely an optimization: results with and
// without a memory are identical.
//
// A memory is request-scoped and not synchronized. Do not share it
// across concurrent batches.
type UpstreamMemory struct {
	known map[string]map[string]int
}

func NewUpstreamMemory() *UpstreamMemory {
	return &UpstreamMemory{known: make(map[string]map[string]int)}
}

func key(jobFullName string, buildNumber int) string {
	return fmt.Sprintf("%s#%d", jobFullName, buildNumber)
}

func (m *UpstreamMemory) get(jobFullName string, buildNumber int) (map[string]int, bool) {
	upstreams, ok := m.known[key(jobFullName, buildNumber)]
	return upstreams, ok
}

func (m *UpstreamMemory) put(jobFullName string, buildNumber int, upstreams map[string]int) {
	m.known[key(jobFullName, buildNumber)] = upstreams
}
