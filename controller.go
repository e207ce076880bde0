package main

import (
	"context"
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"
)

// Async results from backend calls. Commands only do network I/O; every
// state mutation happens back on the event loop when these arrive, so the
// diagram and tracker are never touched from two goroutines.

type loadDoneMsg struct {
	equipment   []Equipment
	connections []Connection
	err         error
}

type saveDoneMsg struct {
	updates []PositionUpdate
	err     error
}

type placeDoneMsg struct {
	id  string
	x   float64
	y   float64
	err error
}

type connectDoneMsg struct {
	tempID string
	conn   Connection
	err    error
}

type nodeDeleteDoneMsg struct {
	node Node
	// Snapshot entry at delete time, retained for rollback.
	persistedX  float64
	persistedY  float64
	hadSnapshot bool
	err         error
}

type edgeDeleteDoneMsg struct {
	edge Edge
	err  error
}

// reload fetches the authoritative equipment and connection lists.
func (m *model) reload() tea.Cmd {
	client, area := m.client, m.config.Area
	return func() tea.Msg {
		ctx := context.Background()
		equipment, err := client.ListEquipment(ctx, area)
		if err != nil {
			return loadDoneMsg{err: err}
		}
		connections, err := client.ListConnections(ctx)
		if err != nil {
			return loadDoneMsg{err: err}
		}
		return loadDoneMsg{equipment: equipment, connections: connections}
	}
}

func (m *model) handleLoadDone(msg loadDoneMsg) {
	if msg.err != nil {
		m.errorMessage = fmt.Sprintf("load failed: %v", msg.err)
		return
	}
	m.diagram.SetEquipment(msg.equipment)
	m.diagram.SetConnections(msg.connections)
	m.tracker.LoadSnapshot(m.diagram.Nodes())
	m.unplaced = m.unplaced[:0]
	for _, eq := range msg.equipment {
		if !eq.Placed() {
			m.unplaced = append(m.unplaced, eq)
		}
	}
	if m.placeIndex >= len(m.unplaced) {
		m.placeIndex = 0
	}
	m.successMessage = fmt.Sprintf("loaded %d placed, %d unplaced, %d connections",
		len(m.diagram.Nodes()), len(m.unplaced), len(m.diagram.Edges()))
}

// finishNodeDrag commits a move gesture locally: update the live position
// and recompute dirtiness. No network call; the change waits for save.
func (m *model) finishNodeDrag(id string, x, y float64) {
	if !m.diagram.SetNodePosition(id, x, y) {
		return
	}
	if n, ok := m.diagram.NodeByID(id); ok {
		m.tracker.MarkTouched(n)
	}
}

// applyLayout writes a layout result back to the live nodes and flags each
// one dirty. Batched like a drag; nothing is persisted here.
func (m *model) applyLayout(positions []NodePosition) {
	if len(positions) == 0 {
		m.errorMessage = "select at least two nodes first"
		return
	}
	for _, p := range positions {
		m.finishNodeDrag(p.ID, p.X, p.Y)
	}
	m.successMessage = fmt.Sprintf("%d pending", m.tracker.DirtyCount())
}

// startSave kicks off the batched save. The save key is ignored while a
// save is in flight; that is a UI guard, not a lock.
func (m *model) startSave() tea.Cmd {
	if m.saving {
		return nil
	}
	updates := m.tracker.PendingUpdates(m.diagram.Nodes())
	if len(updates) == 0 {
		m.successMessage = "nothing to save"
		return nil
	}
	m.saving = true
	client := m.client
	return func() tea.Msg {
		err := client.BulkUpdatePositions(context.Background(), updates)
		return saveDoneMsg{updates: updates, err: err}
	}
}

func (m *model) handleSaveDone(msg saveDoneMsg) {
	m.saving = false
	if msg.err != nil {
		// Dirty state is untouched: the user can retry or revert.
		m.errorMessage = fmt.Sprintf("save failed: %v", msg.err)
		return
	}
	m.tracker.CommitSaved(msg.updates, m.diagram.Nodes())
	m.successMessage = fmt.Sprintf("saved %d positions", len(msg.updates))
}

// revertChanges restores every dirty node from its snapshot and drops nodes
// placed since the last load or save. Purely local.
func (m *model) revertChanges() {
	if !m.tracker.HasChanges() {
		m.successMessage = "nothing to revert"
		return
	}
	m.diagram.nodes = m.tracker.Revert(m.diagram.Nodes())
	m.successMessage = "reverted"
}

// placeEquipment drops an unplaced record onto the canvas. The node appears
// immediately and the position goes to the backend right away; placement
// changes which views the item appears in, so it is not part of the batched
// save. First placement lets the backend invalidate its list revision.
func (m *model) placeEquipment(eq Equipment, x, y float64) tea.Cmd {
	n := m.diagram.AddNode(eq, x, y)
	m.tracker.MarkTouched(n)
	for i, u := range m.unplaced {
		if u.ID == eq.ID {
			m.unplaced = append(m.unplaced[:i], m.unplaced[i+1:]...)
			break
		}
	}
	if m.placeIndex >= len(m.unplaced) {
		m.placeIndex = 0
	}
	client := m.client
	return func() tea.Msg {
		_, err := client.UpdatePosition(context.Background(), eq.ID, x, y, false)
		return placeDoneMsg{id: eq.ID, x: x, y: y, err: err}
	}
}

func (m *model) handlePlaceDone(msg placeDoneMsg) {
	if msg.err != nil {
		// Creation is easy to undo locally: remove what we added.
		if n, ok := m.diagram.RemoveNode(msg.id); ok {
			m.tracker.Forget(n.ID)
			eq := n.Equipment
			eq.X, eq.Y = 0, 0
			m.unplaced = append(m.unplaced, eq)
		}
		m.errorMessage = fmt.Sprintf("placement failed: %v", msg.err)
		return
	}
	// Commit the coordinates that actually went over the wire; a drag that
	// happened while the call was in flight stays pending.
	m.tracker.CommitOne(msg.id, msg.x, msg.y)
	if n, ok := m.diagram.NodeByID(msg.id); ok {
		m.tracker.MarkTouched(n)
	}
	m.successMessage = "placed"
}

// connectNodes handles the connect gesture between two nodes. The edge
// shows up immediately under a temporary id and is reconciled or discarded
// when the create call resolves.
func (m *model) connectNodes(sourceID, targetID string) tea.Cmd {
	source, ok := m.diagram.NodeByID(sourceID)
	if !ok {
		return nil
	}
	target, ok := m.diagram.NodeByID(targetID)
	if !ok {
		return nil
	}
	sh, th := inferHandles(source, target)
	edge, err := m.diagram.AddOptimisticEdge(sourceID, targetID, sh, th, m.connectType)
	if err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	conn := Connection{
		FromID:       sourceID,
		ToID:         targetID,
		Type:         m.connectType,
		SourceHandle: sh,
		TargetHandle: th,
	}
	client := m.client
	return func() tea.Msg {
		created, err := client.CreateConnection(context.Background(), conn)
		return connectDoneMsg{tempID: edge.ID, conn: created, err: err}
	}
}

func (m *model) handleConnectDone(msg connectDoneMsg) {
	if msg.err != nil {
		m.diagram.DiscardOptimisticEdge(msg.tempID)
		m.errorMessage = fmt.Sprintf("connect failed: %v", msg.err)
		return
	}
	m.diagram.ResolveOptimisticEdge(msg.tempID, msg.conn.ID)
	m.successMessage = "connected"
}

// inferHandles picks anchor sides from the relative positions of the two
// cards: mostly-horizontal pairs connect right-to-left, mostly-vertical
// pairs bottom-to-top.
func inferHandles(source, target Node) (string, string) {
	dx := target.X - source.X
	dy := target.Y - source.Y
	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return HandleRight, HandleLeft
		}
		return HandleLeft, HandleRight
	}
	if dy >= 0 {
		return HandleBottom, HandleTop
	}
	return HandleTop, HandleBottom
}

// deleteNode removes a node from the canvas. The equipment record survives;
// only its position is reset to unplaced. The backend call skips list
// invalidation since the record still exists, just off the canvas.
func (m *model) deleteNode(id string) tea.Cmd {
	n, ok := m.diagram.RemoveNode(id)
	if !ok {
		return nil
	}
	px, py, hadSnapshot := m.tracker.PersistedPosition(id)
	m.tracker.Forget(id)
	client := m.client
	return func() tea.Msg {
		_, err := client.UpdatePosition(context.Background(), id, 0, 0, true)
		return nodeDeleteDoneMsg{node: n, persistedX: px, persistedY: py, hadSnapshot: hadSnapshot, err: err}
	}
}

func (m *model) handleNodeDeleteDone(msg nodeDeleteDoneMsg) {
	if msg.err != nil {
		// Resurrect from the retained copy. The snapshot entry goes back to
		// what it was before the delete, so a drag that was pending then is
		// pending again now.
		m.diagram.InsertNode(msg.node)
		if msg.hadSnapshot {
			m.tracker.CommitOne(msg.node.ID, msg.persistedX, msg.persistedY)
		}
		m.tracker.MarkTouched(msg.node)
		m.errorMessage = fmt.Sprintf("remove failed: %v", msg.err)
		return
	}
	m.unplaced = append(m.unplaced, Equipment{
		ID: msg.node.Equipment.ID, Code: msg.node.Equipment.Code,
		Name: msg.node.Equipment.Name, Type: msg.node.Equipment.Type,
		Status: msg.node.Equipment.Status, IP: msg.node.Equipment.IP,
		Area: msg.node.Equipment.Area,
	})
	m.successMessage = "removed from canvas"
}

// deleteEdge removes an edge and issues the backend delete immediately.
// Edges are never part of the batched save workflow.
func (m *model) deleteEdge(id string) tea.Cmd {
	e, ok := m.diagram.RemoveEdge(id)
	if !ok {
		return nil
	}
	if isTempEdgeID(id) {
		// Unconfirmed edge: nothing exists on the backend to delete.
		return nil
	}
	client := m.client
	return func() tea.Msg {
		err := client.DeleteConnection(context.Background(), id)
		return edgeDeleteDoneMsg{edge: e, err: err}
	}
}

func (m *model) handleEdgeDeleteDone(msg edgeDeleteDoneMsg) {
	if msg.err != nil {
		m.diagram.InsertEdge(msg.edge)
		m.errorMessage = fmt.Sprintf("disconnect failed: %v", msg.err)
		return
	}
	m.successMessage = "disconnected"
}
