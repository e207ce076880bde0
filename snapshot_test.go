package main

import "testing"

func threeNodes() []Node {
	return []Node{
		{ID: "a", X: 100, Y: 200},
		{ID: "b", X: 400, Y: 200},
		{ID: "c", X: 700, Y: 200},
	}
}

func TestLoadSnapshotClearsDirtiness(t *testing.T) {
	tr := newPositionTracker()
	nodes := threeNodes()
	tr.LoadSnapshot(nodes)

	if tr.HasChanges() {
		t.Error("freshly loaded snapshot must be clean")
	}
	if tr.DirtyCount() != 0 {
		t.Errorf("DirtyCount = %d, want 0", tr.DirtyCount())
	}
	if updates := tr.PendingUpdates(nodes); len(updates) != 0 {
		t.Errorf("PendingUpdates on clean state = %v, want none", updates)
	}
}

func TestMarkTouchedDetectsChange(t *testing.T) {
	tr := newPositionTracker()
	nodes := threeNodes()
	tr.LoadSnapshot(nodes)

	nodes[0].X = 150
	tr.MarkTouched(nodes[0])

	if !tr.HasChanges() {
		t.Error("moved node must make the tracker dirty")
	}
	if tr.DirtyCount() != 1 {
		t.Errorf("DirtyCount = %d, want 1", tr.DirtyCount())
	}
	if ids := tr.DirtyIDs(); len(ids) != 1 || ids[0] != "a" {
		t.Errorf("DirtyIDs = %v, want [a]", ids)
	}
}

func TestMarkTouchedClearsWhenMovedBack(t *testing.T) {
	tr := newPositionTracker()
	nodes := threeNodes()
	tr.LoadSnapshot(nodes)

	nodes[0].X = 150
	tr.MarkTouched(nodes[0])
	nodes[0].X = 100
	tr.MarkTouched(nodes[0])

	if tr.HasChanges() {
		t.Error("node dragged back to its persisted position must not stay dirty")
	}
}

func TestMarkTouchedUnsnapshottedNodeAlwaysDirty(t *testing.T) {
	tr := newPositionTracker()
	tr.LoadSnapshot(threeNodes())

	added := Node{ID: "new", X: 900, Y: 300}
	tr.MarkTouched(added)

	if tr.DirtyCount() != 1 {
		t.Errorf("DirtyCount = %d, want 1 for node absent from snapshot", tr.DirtyCount())
	}
}

func TestPendingUpdatesMinimalBatch(t *testing.T) {
	tr := newPositionTracker()
	nodes := threeNodes()
	tr.LoadSnapshot(nodes)

	nodes[1].Y = 550
	tr.MarkTouched(nodes[1])

	updates := tr.PendingUpdates(nodes)
	if len(updates) != 1 {
		t.Fatalf("PendingUpdates = %v, want exactly one entry", updates)
	}
	if updates[0].ID != "b" || updates[0].X != 400 || updates[0].Y != 550 {
		t.Errorf("update = %+v, want {b 400 550}", updates[0])
	}
}

func TestCommitSavedClearsAndIsIdempotent(t *testing.T) {
	tr := newPositionTracker()
	nodes := threeNodes()
	tr.LoadSnapshot(nodes)

	nodes[0].X = 160
	tr.MarkTouched(nodes[0])
	updates := tr.PendingUpdates(nodes)
	tr.CommitSaved(updates, nodes)

	if tr.HasChanges() {
		t.Error("committed save must leave the tracker clean")
	}
	if again := tr.PendingUpdates(nodes); len(again) != 0 {
		t.Errorf("save with no intervening mutation must have an empty diff, got %v", again)
	}
}

func TestCommitSavedKeepsConcurrentDragDirty(t *testing.T) {
	tr := newPositionTracker()
	nodes := threeNodes()
	tr.LoadSnapshot(nodes)

	nodes[0].X = 160
	tr.MarkTouched(nodes[0])
	updates := tr.PendingUpdates(nodes)

	// The node moves again while the save is in flight. The commit records
	// only what was sent; the newer position stays pending.
	nodes[0].X = 220
	tr.MarkTouched(nodes[0])
	tr.CommitSaved(updates, nodes)

	if !tr.HasChanges() {
		t.Fatal("drag during in-flight save must stay dirty")
	}
	next := tr.PendingUpdates(nodes)
	if len(next) != 1 || next[0].X != 220 {
		t.Errorf("next batch = %v, want the newer position 220", next)
	}
}

func TestRevertRestoresSnapshotPositions(t *testing.T) {
	tr := newPositionTracker()
	nodes := threeNodes()
	tr.LoadSnapshot(nodes)

	nodes[0].X = 999
	nodes[2].Y = 888
	tr.MarkTouched(nodes[0])
	tr.MarkTouched(nodes[2])

	reverted := tr.Revert(nodes)
	if len(reverted) != 3 {
		t.Fatalf("revert dropped nodes: got %d, want 3", len(reverted))
	}
	if reverted[0].X != 100 || reverted[2].Y != 200 {
		t.Errorf("revert did not restore exact positions: %+v", reverted)
	}
	if tr.HasChanges() {
		t.Error("revert must clear dirtiness")
	}
}

func TestRevertRemovesNodesAddedSinceSnapshot(t *testing.T) {
	tr := newPositionTracker()
	nodes := threeNodes()
	tr.LoadSnapshot(nodes)

	nodes = append(nodes, Node{ID: "added", X: 50, Y: 60})
	tr.MarkTouched(nodes[3])

	reverted := tr.Revert(nodes)
	if len(reverted) != 3 {
		t.Fatalf("got %d nodes after revert, want 3", len(reverted))
	}
	for _, n := range reverted {
		if n.ID == "added" {
			t.Error("node added since snapshot must be removed by revert")
		}
	}
}

func TestCommitOnePreventsDuplicateSave(t *testing.T) {
	tr := newPositionTracker()
	nodes := threeNodes()
	tr.LoadSnapshot(nodes)

	placed := Node{ID: "e", X: 200, Y: 300}
	nodes = append(nodes, placed)
	tr.MarkTouched(placed)
	tr.CommitOne("e", 200, 300)

	if updates := tr.PendingUpdates(nodes); len(updates) != 0 {
		t.Errorf("immediately persisted placement must not reappear in the batch: %v", updates)
	}
}

func TestForgetDropsBookkeeping(t *testing.T) {
	tr := newPositionTracker()
	nodes := threeNodes()
	tr.LoadSnapshot(nodes)

	nodes[0].X = 1
	tr.MarkTouched(nodes[0])
	tr.Forget("a")

	if tr.HasChanges() {
		t.Error("forgotten node must not count as dirty")
	}
	if updates := tr.PendingUpdates(nodes[1:]); len(updates) != 0 {
		t.Errorf("unexpected updates after forget: %v", updates)
	}
}
