package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeMove
	ModeConnect
	ModePlace
	ModeConfirm
)

type ConfirmAction int

const (
	ConfirmDeleteNode ConfirmAction = iota
	ConfirmDeleteEdge
	ConfirmQuit
)

// Minimum gaps used by the distribution operations, in world coordinates.
// Calibrated to the fixed footprint of a node card, not measured from it.
const (
	minGapHorizontal = 360.0
	minGapVertical   = 200.0
)

// Node card footprint in terminal cells.
const (
	cardWidth  = 22
	cardHeight = 4
)

// World-to-cell scale. 360 world units of horizontal gap come out at 24
// columns, one card width plus margin; 200 vertical units at 5 rows.
const (
	worldScaleX = 15.0
	worldScaleY = 40.0
)
