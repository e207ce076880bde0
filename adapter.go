package main

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var errSelfLoop = errors.New("cannot connect equipment to itself")

// DiagramState owns the in-memory node and edge lists and is their sole
// mutator. It translates wire records into diagram primitives and keeps the
// optimistic-create bookkeeping for edges. It never talks to the backend;
// that is the controller's job.
type DiagramState struct {
	nodes []Node
	edges []Edge
}

func newDiagramState() *DiagramState {
	return &DiagramState{}
}

// SetEquipment rebuilds the node list from an authoritative equipment list.
// Only placed records become nodes. Selection survives the rebuild for nodes
// that still exist.
func (d *DiagramState) SetEquipment(list []Equipment) {
	selected := make(map[string]bool, len(d.nodes))
	for _, n := range d.nodes {
		if n.Selected {
			selected[n.ID] = true
		}
	}
	d.nodes = d.nodes[:0]
	for _, eq := range list {
		eq = eq.normalize()
		if !eq.Placed() {
			continue
		}
		d.nodes = append(d.nodes, Node{
			ID:        eq.ID,
			X:         eq.X,
			Y:         eq.Y,
			Equipment: eq,
			Selected:  selected[eq.ID],
		})
	}
}

// SetConnections rebuilds the edge list from an authoritative connection
// list, applying default handles and the type color lookup.
func (d *DiagramState) SetConnections(list []Connection) {
	d.edges = d.edges[:0]
	for _, c := range list {
		d.edges = append(d.edges, edgeFromConnection(c))
	}
}

func edgeFromConnection(c Connection) Edge {
	sh := c.SourceHandle
	if sh == "" {
		sh = HandleRight
	}
	th := c.TargetHandle
	if th == "" {
		th = HandleLeft
	}
	return Edge{
		ID:           c.ID,
		SourceID:     c.FromID,
		TargetID:     c.ToID,
		SourceHandle: sh,
		TargetHandle: th,
		Color:        colorForConnection(c.Type),
		Animated:     c.Type == ConnData,
	}
}

func (d *DiagramState) Nodes() []Node {
	return d.nodes
}

func (d *DiagramState) Edges() []Edge {
	return d.edges
}

func (d *DiagramState) NodeByID(id string) (Node, bool) {
	for _, n := range d.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// SetNodePosition moves a node's live position. Dirty tracking is the
// caller's responsibility.
func (d *DiagramState) SetNodePosition(id string, x, y float64) bool {
	for i := range d.nodes {
		if d.nodes[i].ID == id {
			d.nodes[i].X = x
			d.nodes[i].Y = y
			return true
		}
	}
	return false
}

// AddNode places an equipment record on the canvas at the given position.
func (d *DiagramState) AddNode(eq Equipment, x, y float64) Node {
	eq = eq.normalize()
	eq.X = x
	eq.Y = y
	n := Node{ID: eq.ID, X: x, Y: y, Equipment: eq}
	d.nodes = append(d.nodes, n)
	return n
}

// RemoveNode takes a node out of the visible set and returns the removed
// value so a failed backend call can put it back.
func (d *DiagramState) RemoveNode(id string) (Node, bool) {
	for i, n := range d.nodes {
		if n.ID == id {
			d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
			return n, true
		}
	}
	return Node{}, false
}

// InsertNode restores a previously removed node.
func (d *DiagramState) InsertNode(n Node) {
	d.nodes = append(d.nodes, n)
}

func (d *DiagramState) ToggleSelect(id string) {
	for i := range d.nodes {
		if d.nodes[i].ID == id {
			d.nodes[i].Selected = !d.nodes[i].Selected
			return
		}
	}
}

func (d *DiagramState) ClearSelection() {
	for i := range d.nodes {
		d.nodes[i].Selected = false
	}
}

func (d *DiagramState) SelectedNodes() []Node {
	var out []Node
	for _, n := range d.nodes {
		if n.Selected {
			out = append(out, n)
		}
	}
	return out
}

// AddOptimisticEdge appends an edge with a temporary id so the connection
// shows up before the backend round trip resolves. Self-loops are rejected
// here, before any network call.
func (d *DiagramState) AddOptimisticEdge(sourceID, targetID, sourceHandle, targetHandle string, t ConnectionType) (Edge, error) {
	if sourceID == targetID {
		return Edge{}, errSelfLoop
	}
	e := edgeFromConnection(Connection{
		ID:           fmt.Sprintf("temp-%d", time.Now().UnixNano()),
		FromID:       sourceID,
		ToID:         targetID,
		Type:         t,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
	})
	d.edges = append(d.edges, e)
	return e, nil
}

// ResolveOptimisticEdge swaps the temporary id for the server-confirmed one.
// Only the id changes; the edge keeps its place in the list.
func (d *DiagramState) ResolveOptimisticEdge(tempID, realID string) {
	for i := range d.edges {
		if d.edges[i].ID == tempID {
			d.edges[i].ID = realID
			return
		}
	}
}

// DiscardOptimisticEdge removes an edge whose creation failed.
func (d *DiagramState) DiscardOptimisticEdge(tempID string) {
	d.RemoveEdge(tempID)
}

// RemoveEdge takes an edge out of the list and returns the removed value.
func (d *DiagramState) RemoveEdge(id string) (Edge, bool) {
	for i, e := range d.edges {
		if e.ID == id {
			d.edges = append(d.edges[:i], d.edges[i+1:]...)
			return e, true
		}
	}
	return Edge{}, false
}

// InsertEdge restores a previously removed edge.
func (d *DiagramState) InsertEdge(e Edge) {
	d.edges = append(d.edges, e)
}

// EdgeBetween finds the first edge connecting two nodes in either direction.
func (d *DiagramState) EdgeBetween(a, b string) (Edge, bool) {
	for _, e := range d.edges {
		if (e.SourceID == a && e.TargetID == b) || (e.SourceID == b && e.TargetID == a) {
			return e, true
		}
	}
	return Edge{}, false
}

func isTempEdgeID(id string) bool {
	return strings.HasPrefix(id, "temp-")
}
