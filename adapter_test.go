package main

import (
	"strings"
	"testing"
)

func TestSetEquipmentFiltersUnplaced(t *testing.T) {
	d := newDiagramState()
	d.SetEquipment([]Equipment{
		{ID: "a", Code: "CNC-01", Type: TypeMachine, Status: StatusRunning, X: 100, Y: 200},
		{ID: "b", Code: "CNV-01", Type: TypeConveyor, Status: StatusIdle, X: 0, Y: 0},
		{ID: "c", Code: "ROB-01", Type: TypeRobot, Status: StatusDown, X: 0, Y: 50},
	})

	nodes := d.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2 (origin position means unplaced)", len(nodes))
	}
	for _, n := range nodes {
		if n.ID == "b" {
			t.Error("equipment at (0,0) must not appear on the canvas")
		}
	}
}

func TestSetEquipmentNormalizesEnums(t *testing.T) {
	d := newDiagramState()
	d.SetEquipment([]Equipment{
		{ID: "a", Type: "flux-capacitor", Status: "exploded", X: 10, Y: 10},
	})
	n := d.Nodes()[0]
	if n.Equipment.Type != TypeUnknown {
		t.Errorf("type = %q, want coerced to unknown", n.Equipment.Type)
	}
	if n.Equipment.Status != StatusUnknown {
		t.Errorf("status = %q, want coerced to unknown", n.Equipment.Status)
	}
}

func TestSetEquipmentKeepsSelection(t *testing.T) {
	d := newDiagramState()
	list := []Equipment{
		{ID: "a", X: 10, Y: 10, Type: TypeMachine, Status: StatusRunning},
		{ID: "b", X: 20, Y: 20, Type: TypeMachine, Status: StatusRunning},
	}
	d.SetEquipment(list)
	d.ToggleSelect("a")
	d.SetEquipment(list)

	selected := d.SelectedNodes()
	if len(selected) != 1 || selected[0].ID != "a" {
		t.Errorf("selection must survive a reload, got %v", selected)
	}
}

func TestEdgeDefaultsAndColors(t *testing.T) {
	d := newDiagramState()
	d.SetConnections([]Connection{
		{ID: "c1", FromID: "a", ToID: "b", Type: ConnPower},
		{ID: "c2", FromID: "b", ToID: "c", Type: "telepathy", SourceHandle: HandleBottom, TargetHandle: HandleTop},
	})

	edges := d.Edges()
	if edges[0].SourceHandle != HandleRight || edges[0].TargetHandle != HandleLeft {
		t.Errorf("missing handles must default to right/left, got %s/%s",
			edges[0].SourceHandle, edges[0].TargetHandle)
	}
	if edges[0].Color != connectionColors[ConnPower] {
		t.Errorf("power edge color = %q, want %q", edges[0].Color, connectionColors[ConnPower])
	}
	if edges[1].SourceHandle != HandleBottom || edges[1].TargetHandle != HandleTop {
		t.Error("explicit handles must be preserved")
	}
	if edges[1].Color != fallbackEdgeColor {
		t.Errorf("unknown connection type color = %q, want gray fallback %q", edges[1].Color, fallbackEdgeColor)
	}
}

func TestDataEdgesAnimated(t *testing.T) {
	d := newDiagramState()
	d.SetConnections([]Connection{
		{ID: "c1", FromID: "a", ToID: "b", Type: ConnData},
		{ID: "c2", FromID: "a", ToID: "c", Type: ConnMaterial},
	})
	if !d.Edges()[0].Animated {
		t.Error("data connections render animated")
	}
	if d.Edges()[1].Animated {
		t.Error("material connections do not render animated")
	}
}

func TestAddOptimisticEdgeRejectsSelfLoop(t *testing.T) {
	d := newDiagramState()
	_, err := d.AddOptimisticEdge("a", "a", "", "", ConnMaterial)
	if err == nil {
		t.Fatal("self-loop must be rejected")
	}
	if len(d.Edges()) != 0 {
		t.Error("rejected self-loop must not leave an edge behind")
	}
}

func TestOptimisticEdgeLifecycle(t *testing.T) {
	d := newDiagramState()
	edge, err := d.AddOptimisticEdge("a", "b", "", "", ConnData)
	if err != nil {
		t.Fatalf("AddOptimisticEdge: %v", err)
	}
	if !strings.HasPrefix(edge.ID, "temp-") {
		t.Errorf("optimistic edge id = %q, want temp- prefix", edge.ID)
	}
	if len(d.Edges()) != 1 {
		t.Fatal("optimistic edge must appear immediately")
	}

	d.ResolveOptimisticEdge(edge.ID, "conn-42")
	if d.Edges()[0].ID != "conn-42" {
		t.Errorf("resolved id = %q, want conn-42", d.Edges()[0].ID)
	}
	if isTempEdgeID(d.Edges()[0].ID) {
		t.Error("no temporary id may survive resolution")
	}
}

func TestDiscardOptimisticEdge(t *testing.T) {
	d := newDiagramState()
	edge, _ := d.AddOptimisticEdge("a", "b", "", "", ConnData)
	d.DiscardOptimisticEdge(edge.ID)
	if len(d.Edges()) != 0 {
		t.Error("discarded edge must be removed entirely")
	}
}

func TestRemoveAndInsertNode(t *testing.T) {
	d := newDiagramState()
	d.SetEquipment([]Equipment{
		{ID: "a", X: 10, Y: 10, Type: TypeMachine, Status: StatusRunning},
	})

	n, ok := d.RemoveNode("a")
	if !ok || len(d.Nodes()) != 0 {
		t.Fatal("RemoveNode must take the node out of the visible set")
	}
	d.InsertNode(n)
	if len(d.Nodes()) != 1 || d.Nodes()[0].ID != "a" {
		t.Error("InsertNode must restore the removed node")
	}
}

func TestEdgeBetweenEitherDirection(t *testing.T) {
	d := newDiagramState()
	d.SetConnections([]Connection{
		{ID: "c1", FromID: "a", ToID: "b", Type: ConnMaterial},
	})
	if _, ok := d.EdgeBetween("b", "a"); !ok {
		t.Error("EdgeBetween must match regardless of direction")
	}
	if _, ok := d.EdgeBetween("a", "z"); ok {
		t.Error("EdgeBetween must not invent connections")
	}
}
