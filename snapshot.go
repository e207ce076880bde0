package main

import "sort"

// position is a snapshot entry: the last x/y confirmed saved for a node.
type position struct {
	X float64
	Y float64
}

// PositionTracker is the single source of truth for "is anything unsaved".
// It records the last persisted position per node and derives dirtiness by
// value comparison against the live node positions; it never owns the nodes
// themselves. All methods run on the event loop, so there is no locking.
type PositionTracker struct {
	persisted map[string]position
	dirty     map[string]bool
}

func newPositionTracker() *PositionTracker {
	return &PositionTracker{
		persisted: make(map[string]position),
		dirty:     make(map[string]bool),
	}
}

// LoadSnapshot records every node's current position as persisted and clears
// all dirtiness. Called after the authoritative list is (re)loaded.
func (t *PositionTracker) LoadSnapshot(nodes []Node) {
	t.persisted = make(map[string]position, len(nodes))
	t.dirty = make(map[string]bool)
	for _, n := range nodes {
		t.persisted[n.ID] = position{X: n.X, Y: n.Y}
	}
}

// MarkTouched recomputes one node's dirtiness after a local position
// mutation. A node with no snapshot entry (added since the last load or
// save) is always dirty.
func (t *PositionTracker) MarkTouched(n Node) {
	p, ok := t.persisted[n.ID]
	if !ok || p.X != n.X || p.Y != n.Y {
		t.dirty[n.ID] = true
		return
	}
	delete(t.dirty, n.ID)
}

func (t *PositionTracker) DirtyCount() int {
	return len(t.dirty)
}

// DirtyIDs returns the ids with unsaved position changes, sorted for stable
// display.
func (t *PositionTracker) DirtyIDs() []string {
	ids := make([]string, 0, len(t.dirty))
	for id := range t.dirty {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (t *PositionTracker) HasChanges() bool {
	return len(t.dirty) > 0
}

// PendingUpdates builds the minimal save batch: every node whose live
// position differs from its snapshot, plus every node absent from the
// snapshot. An empty result means save has nothing to do.
func (t *PositionTracker) PendingUpdates(nodes []Node) []PositionUpdate {
	var updates []PositionUpdate
	for _, n := range nodes {
		p, ok := t.persisted[n.ID]
		if ok && p.X == n.X && p.Y == n.Y {
			continue
		}
		updates = append(updates, PositionUpdate{ID: n.ID, X: n.X, Y: n.Y})
	}
	return updates
}

// CommitSaved marks a successfully saved batch as persisted, then
// re-evaluates dirtiness against the live nodes. A node dragged while the
// save was in flight stays dirty and lands in the next batch.
func (t *PositionTracker) CommitSaved(updates []PositionUpdate, nodes []Node) {
	for _, u := range updates {
		t.persisted[u.ID] = position{X: u.X, Y: u.Y}
	}
	for _, n := range nodes {
		t.MarkTouched(n)
	}
}

// CommitOne records a single immediately-persisted position (drop
// placement), so a later batched save carries no duplicate for it.
func (t *PositionTracker) CommitOne(id string, x, y float64) {
	t.persisted[id] = position{X: x, Y: y}
	delete(t.dirty, id)
}

// PersistedPosition returns the last confirmed-saved position for an id, if
// any. Callers that need to undo a Forget use it to retain the entry first.
func (t *PositionTracker) PersistedPosition(id string) (float64, float64, bool) {
	p, ok := t.persisted[id]
	return p.X, p.Y, ok
}

// Forget drops all bookkeeping for a node removed from the canvas.
func (t *PositionTracker) Forget(id string) {
	delete(t.persisted, id)
	delete(t.dirty, id)
}

// Revert restores every dirty node to its snapshot position and removes
// nodes that have no snapshot entry at all (added since the last load or
// save). No network call. Returns the surviving node slice; dirtiness is
// cleared.
func (t *PositionTracker) Revert(nodes []Node) []Node {
	kept := nodes[:0]
	for _, n := range nodes {
		p, ok := t.persisted[n.ID]
		if !ok {
			continue
		}
		n.X = p.X
		n.Y = p.Y
		kept = append(kept, n)
	}
	t.dirty = make(map[string]bool)
	return kept
}
