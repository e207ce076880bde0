package main

import "sort"

// NodePosition is the id plus world position slice the layout operations
// work on. All operations are pure: they return new positions and never
// touch the diagram.
type NodePosition struct {
	ID string
	X  float64
	Y  float64
}

// nodePositions extracts the layout view of a node slice.
func nodePositions(nodes []Node) []NodePosition {
	out := make([]NodePosition, len(nodes))
	for i, n := range nodes {
		out[i] = NodePosition{ID: n.ID, X: n.X, Y: n.Y}
	}
	return out
}

// Alignment and distribution of fewer than two nodes is meaningless, so
// every operation returns nil below that. Callers treat nil as a no-op.

func alignLeft(nodes []NodePosition) []NodePosition {
	if len(nodes) < 2 {
		return nil
	}
	minX := nodes[0].X
	for _, n := range nodes[1:] {
		if n.X < minX {
			minX = n.X
		}
	}
	out := make([]NodePosition, len(nodes))
	for i, n := range nodes {
		out[i] = NodePosition{ID: n.ID, X: minX, Y: n.Y}
	}
	return out
}

func alignRight(nodes []NodePosition) []NodePosition {
	if len(nodes) < 2 {
		return nil
	}
	maxX := nodes[0].X
	for _, n := range nodes[1:] {
		if n.X > maxX {
			maxX = n.X
		}
	}
	out := make([]NodePosition, len(nodes))
	for i, n := range nodes {
		out[i] = NodePosition{ID: n.ID, X: maxX, Y: n.Y}
	}
	return out
}

func alignTop(nodes []NodePosition) []NodePosition {
	if len(nodes) < 2 {
		return nil
	}
	minY := nodes[0].Y
	for _, n := range nodes[1:] {
		if n.Y < minY {
			minY = n.Y
		}
	}
	out := make([]NodePosition, len(nodes))
	for i, n := range nodes {
		out[i] = NodePosition{ID: n.ID, X: n.X, Y: minY}
	}
	return out
}

func alignBottom(nodes []NodePosition) []NodePosition {
	if len(nodes) < 2 {
		return nil
	}
	maxY := nodes[0].Y
	for _, n := range nodes[1:] {
		if n.Y > maxY {
			maxY = n.Y
		}
	}
	out := make([]NodePosition, len(nodes))
	for i, n := range nodes {
		out[i] = NodePosition{ID: n.ID, X: n.X, Y: maxY}
	}
	return out
}

// distributeHorizontal spaces the selection evenly along x, left to right.
// Two nodes get exactly minGap between them regardless of where they were.
// Three or more keep their existing span unless that span would force
// adjacent nodes closer than minGap, in which case minGap spacing from the
// leftmost node wins. Y is never touched.
func distributeHorizontal(nodes []NodePosition, minGap float64) []NodePosition {
	if len(nodes) < 2 {
		return nil
	}
	sorted := make([]NodePosition, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	gap := minGap
	if len(sorted) > 2 {
		span := sorted[len(sorted)-1].X - sorted[0].X
		if even := span / float64(len(sorted)-1); even > minGap {
			gap = even
		}
	}

	out := make([]NodePosition, len(sorted))
	for i, n := range sorted {
		out[i] = NodePosition{ID: n.ID, X: sorted[0].X + float64(i)*gap, Y: n.Y}
	}
	return out
}

// distributeVertical is distributeHorizontal on y.
func distributeVertical(nodes []NodePosition, minGap float64) []NodePosition {
	if len(nodes) < 2 {
		return nil
	}
	sorted := make([]NodePosition, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Y < sorted[j].Y })

	gap := minGap
	if len(sorted) > 2 {
		span := sorted[len(sorted)-1].Y - sorted[0].Y
		if even := span / float64(len(sorted)-1); even > minGap {
			gap = even
		}
	}

	out := make([]NodePosition, len(sorted))
	for i, n := range sorted {
		out[i] = NodePosition{ID: n.ID, X: n.X, Y: sorted[0].Y + float64(i)*gap}
	}
	return out
}
