package vgrid

// group is a grouped-object pool: any number of stores, each an append-only
// list of items, share one bounded recycle cache. Clearing a store spills
// its items into the cache so a later allocation can reuse them instead of
// hitting the heap. The grid keeps one group for blocks and one for
// descriptors. Not safe for concurrent use; each grid owns its groups.
type group[T any] struct {
	stores   [][]*T
	freeIDs  []int
	cache    []*T
	cacheCap int
}

// newGroup returns a group whose recycle cache holds at most cacheCap items.
func newGroup[T any](cacheCap int) *group[T] {
	return &group[T]{cacheCap: cacheCap}
}

// NewStore returns the id of a fresh (or previously removed) store.
func (g *group[T]) NewStore() int {
	if n := len(g.freeIDs); n > 0 {
		id := g.freeIDs[n-1]
		g.freeIDs = g.freeIDs[:n-1]
		return id
	}
	g.stores = append(g.stores, nil)
	return len(g.stores) - 1
}

// Add appends item to store id and returns its position within the store.
func (g *group[T]) Add(id int, item *T) int {
	g.stores[id] = append(g.stores[id], item)
	return len(g.stores[id]) - 1
}

// At returns the item at position idx of store id.
func (g *group[T]) At(id, idx int) *T {
	return g.stores[id][idx]
}

// Len returns the number of items held by store id.
func (g *group[T]) Len(id int) int {
	return len(g.stores[id])
}

// Clear empties store id, moving as many of its items as fit into the
// recycle cache. Items that do not fit are dropped for the GC to take.
func (g *group[T]) Clear(id int) {
	items := g.stores[id]
	for _, it := range items {
		if len(g.cache) >= g.cacheCap {
			break
		}
		g.cache = append(g.cache, it)
	}
	g.stores[id] = items[:0]
}

// Pop returns a recycled item, or nil if the cache is empty. The item
// retains whatever state it had when its store was cleared; callers
// reinitialize it.
func (g *group[T]) Pop() *T {
	n := len(g.cache)
	if n == 0 {
		return nil
	}
	it := g.cache[n-1]
	g.cache[n-1] = nil
	g.cache = g.cache[:n-1]
	return it
}

// Remove clears store id and returns the id for reuse by NewStore.
func (g *group[T]) Remove(id int) {
	g.Clear(id)
	g.freeIDs = append(g.freeIDs, id)
}
