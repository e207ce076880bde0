package main

import "fmt"

// Equipment is the wire record for one piece of equipment as the backend
// returns it. Position (0,0) means the record has never been placed on the
// canvas; Placed is the only code that should know that.
type Equipment struct {
	ID     string          `json:"id"`
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Type   EquipmentType   `json:"type"`
	Status EquipmentStatus `json:"status"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	IP     string          `json:"ip,omitempty"`
	Area   string          `json:"area,omitempty"`
}

func (e Equipment) Placed() bool {
	return e.X != 0 || e.Y != 0
}

type EquipmentType string

const (
	TypeMachine    EquipmentType = "machine"
	TypeConveyor   EquipmentType = "conveyor"
	TypeRobot      EquipmentType = "robot"
	TypeInspection EquipmentType = "inspection"
	TypeStorage    EquipmentType = "storage"
	TypeUnknown    EquipmentType = "unknown"
)

func (t EquipmentType) Valid() bool {
	switch t {
	case TypeMachine, TypeConveyor, TypeRobot, TypeInspection, TypeStorage:
		return true
	}
	return false
}

type EquipmentStatus string

const (
	StatusRunning     EquipmentStatus = "running"
	StatusIdle        EquipmentStatus = "idle"
	StatusMaintenance EquipmentStatus = "maintenance"
	StatusDown        EquipmentStatus = "down"
	StatusUnknown     EquipmentStatus = "unknown"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case StatusRunning, StatusIdle, StatusMaintenance, StatusDown:
		return true
	}
	return false
}

// normalize coerces enum fields the backend (or a hand-edited database) may
// have filled with arbitrary strings into the closed sets above.
func (e Equipment) normalize() Equipment {
	if !e.Type.Valid() {
		e.Type = TypeUnknown
	}
	if !e.Status.Valid() {
		e.Status = StatusUnknown
	}
	return e
}

// Connection is the wire record for a directed link between two equipment
// records. Handle fields may be empty; defaults are applied when mapping to
// an Edge.
type Connection struct {
	ID           string         `json:"id"`
	FromID       string         `json:"fromId"`
	ToID         string         `json:"toId"`
	Type         ConnectionType `json:"type"`
	SourceHandle string         `json:"sourceHandle,omitempty"`
	TargetHandle string         `json:"targetHandle,omitempty"`
}

type ConnectionType string

const (
	ConnMaterial  ConnectionType = "material"
	ConnData      ConnectionType = "data"
	ConnPower     ConnectionType = "power"
	ConnPneumatic ConnectionType = "pneumatic"
)

// Handle anchor names, matching what the backend stores.
const (
	HandleTop    = "top"
	HandleRight  = "right"
	HandleBottom = "bottom"
	HandleLeft   = "left"
)

// Node is one placed equipment record on the canvas. Its ID is the equipment
// ID; there is no separate node identity.
type Node struct {
	ID        string
	X         float64
	Y         float64
	Equipment Equipment
	Selected  bool
}

// Edge is a rendered directed connection. An ID of the form "temp-<nanos>"
// marks an edge created locally and not yet confirmed by the backend.
type Edge struct {
	ID           string
	SourceID     string
	TargetID     string
	SourceHandle string
	TargetHandle string
	Color        string
	Animated     bool
}

// connectionColors maps connection types to terminal color codes used by the
// renderer and the PNG exporter. Unrecognized types fall back to gray.
var connectionColors = map[ConnectionType]string{
	ConnMaterial:  "114",
	ConnData:      "39",
	ConnPower:     "220",
	ConnPneumatic: "51",
}

const fallbackEdgeColor = "245"

func colorForConnection(t ConnectionType) string {
	if c, ok := connectionColors[t]; ok {
		return c
	}
	return fallbackEdgeColor
}

// PositionUpdate is one entry of the batched position save.
type PositionUpdate struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type EdgeRenderMode int

const (
	EdgeStraight EdgeRenderMode = iota
	EdgeOrthogonal
	EdgeRounded
)

func (m EdgeRenderMode) String() string {
	switch m {
	case EdgeStraight:
		return "straight"
	case EdgeOrthogonal:
		return "orthogonal"
	case EdgeRounded:
		return "rounded"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}
