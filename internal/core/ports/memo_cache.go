package ports

// MemoCache is the abstraction for a keyed, bypassable memoization layer
// deduplicating expensive remote calls within a datasource session.
//
// The contract is single-flight: concurrent calls for the same unseen key
// must coalesce into one produce invocation, with all callers sharing its
// outcome. Only successful resolutions are stored, a resolved error must
// leave the key unseen so that callers can retry. An empty key disables
// memoization and always invokes produce fresh.
type MemoCache[V any] interface {
	GetOrCompute(key string, produce func() (V, error)) (V, error)
}
