package main

import (
	"math"
	"testing"
)

func positionsByID(positions []NodePosition) map[string]NodePosition {
	out := make(map[string]NodePosition, len(positions))
	for _, p := range positions {
		out[p.ID] = p
	}
	return out
}

func TestAlignOperationsNeedTwoNodes(t *testing.T) {
	single := []NodePosition{{ID: "a", X: 10, Y: 20}}
	ops := map[string]func([]NodePosition) []NodePosition{
		"alignLeft":   alignLeft,
		"alignRight":  alignRight,
		"alignTop":    alignTop,
		"alignBottom": alignBottom,
	}
	for name, op := range ops {
		if got := op(single); got != nil {
			t.Errorf("%s with one node: expected nil, got %v", name, got)
		}
		if got := op(nil); got != nil {
			t.Errorf("%s with no nodes: expected nil, got %v", name, got)
		}
	}
	if got := distributeHorizontal(single, minGapHorizontal); got != nil {
		t.Errorf("distributeHorizontal with one node: expected nil, got %v", got)
	}
	if got := distributeVertical(single, minGapVertical); got != nil {
		t.Errorf("distributeVertical with one node: expected nil, got %v", got)
	}
}

func TestAlignLeft(t *testing.T) {
	nodes := []NodePosition{
		{ID: "a", X: 100, Y: 10},
		{ID: "b", X: 50, Y: 20},
		{ID: "c", X: 200, Y: 30},
	}
	result := positionsByID(alignLeft(nodes))
	for id, p := range result {
		if p.X != 50 {
			t.Errorf("node %s: x = %v, want 50", id, p.X)
		}
	}
	if result["a"].Y != 10 || result["b"].Y != 20 || result["c"].Y != 30 {
		t.Error("alignLeft must not change y positions")
	}
}

func TestAlignRight(t *testing.T) {
	nodes := []NodePosition{
		{ID: "a", X: 100, Y: 10},
		{ID: "b", X: 50, Y: 20},
	}
	result := positionsByID(alignRight(nodes))
	for id, p := range result {
		if p.X != 100 {
			t.Errorf("node %s: x = %v, want 100", id, p.X)
		}
	}
}

func TestAlignTopBottom(t *testing.T) {
	nodes := []NodePosition{
		{ID: "a", X: 10, Y: 300},
		{ID: "b", X: 20, Y: 100},
		{ID: "c", X: 30, Y: 200},
	}
	top := positionsByID(alignTop(nodes))
	for id, p := range top {
		if p.Y != 100 {
			t.Errorf("alignTop node %s: y = %v, want 100", id, p.Y)
		}
	}
	bottom := positionsByID(alignBottom(nodes))
	for id, p := range bottom {
		if p.Y != 300 {
			t.Errorf("alignBottom node %s: y = %v, want 300", id, p.Y)
		}
	}
	if top["a"].X != 10 || bottom["c"].X != 30 {
		t.Error("vertical alignment must not change x positions")
	}
}

func TestDistributeHorizontalTwoNodes(t *testing.T) {
	// Two nodes get exactly the minimum gap no matter how far apart they were.
	nodes := []NodePosition{
		{ID: "a", X: 100, Y: 50},
		{ID: "b", X: 150, Y: 60},
	}
	result := positionsByID(distributeHorizontal(nodes, minGapHorizontal))
	if result["a"].X != 100 {
		t.Errorf("leftmost node moved: x = %v, want 100", result["a"].X)
	}
	if result["b"].X != 460 {
		t.Errorf("second node: x = %v, want 460", result["b"].X)
	}
	if result["a"].Y != 50 || result["b"].Y != 60 {
		t.Error("distributeHorizontal must not change y positions")
	}
}

func TestDistributeHorizontalTightCluster(t *testing.T) {
	// Span 90 over 3 gaps is far below the minimum, so minimum-gap spacing
	// from the leftmost node wins.
	nodes := []NodePosition{
		{ID: "a", X: 10, Y: 0},
		{ID: "b", X: 40, Y: 0},
		{ID: "c", X: 70, Y: 0},
		{ID: "d", X: 100, Y: 0},
	}
	result := distributeHorizontal(nodes, minGapHorizontal)
	for i := 1; i < len(result); i++ {
		gap := result[i].X - result[i-1].X
		if gap != minGapHorizontal {
			t.Errorf("gap %d-%d = %v, want %v", i-1, i, gap, minGapHorizontal)
		}
	}
	if result[0].X != 10 {
		t.Errorf("leftmost anchor moved: x = %v, want 10", result[0].X)
	}
}

func TestDistributeHorizontalWideSpan(t *testing.T) {
	// Existing span 1500 over 3 gaps gives 500, above the minimum, so even
	// spacing across the span is kept.
	nodes := []NodePosition{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 100, Y: 0},
		{ID: "c", X: 1200, Y: 0},
		{ID: "d", X: 1500, Y: 0},
	}
	result := distributeHorizontal(nodes, minGapHorizontal)
	want := []float64{0, 500, 1000, 1500}
	for i, p := range result {
		if math.Abs(p.X-want[i]) > 1e-9 {
			t.Errorf("node %d: x = %v, want %v", i, p.X, want[i])
		}
	}
}

func TestDistributeHorizontalSortsByX(t *testing.T) {
	nodes := []NodePosition{
		{ID: "right", X: 900, Y: 1},
		{ID: "left", X: 100, Y: 2},
		{ID: "mid", X: 500, Y: 3},
	}
	result := distributeHorizontal(nodes, minGapHorizontal)
	if result[0].ID != "left" || result[1].ID != "mid" || result[2].ID != "right" {
		t.Errorf("result not ordered left to right: %v", result)
	}
}

func TestDistributeVertical(t *testing.T) {
	nodes := []NodePosition{
		{ID: "a", X: 5, Y: 100},
		{ID: "b", X: 6, Y: 120},
	}
	result := positionsByID(distributeVertical(nodes, minGapVertical))
	if result["a"].Y != 100 {
		t.Errorf("topmost node moved: y = %v, want 100", result["a"].Y)
	}
	if result["b"].Y != 300 {
		t.Errorf("second node: y = %v, want 300", result["b"].Y)
	}
	if result["a"].X != 5 || result["b"].X != 6 {
		t.Error("distributeVertical must not change x positions")
	}
}

func TestDistributeVerticalTightCluster(t *testing.T) {
	nodes := []NodePosition{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 0, Y: 50},
		{ID: "c", X: 0, Y: 100},
	}
	result := distributeVertical(nodes, minGapVertical)
	for i := 1; i < len(result); i++ {
		gap := result[i].Y - result[i-1].Y
		if gap != minGapVertical {
			t.Errorf("gap %d-%d = %v, want %v", i-1, i, gap, minGapVertical)
		}
	}
}

func TestLayoutOperationsArePure(t *testing.T) {
	nodes := []NodePosition{
		{ID: "a", X: 100, Y: 10},
		{ID: "b", X: 50, Y: 20},
	}
	alignLeft(nodes)
	distributeHorizontal(nodes, minGapHorizontal)
	if nodes[0].X != 100 || nodes[1].X != 50 {
		t.Error("layout operations must not mutate their input")
	}
}
