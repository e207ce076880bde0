package main

import (
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	config := loadConfig()
	p := tea.NewProgram(
		initialModel(config),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

type model struct {
	width   int
	height  int
	cursorX int
	cursorY int
	panX    int
	panY    int
	zPan    bool

	mode    Mode
	diagram *DiagramState
	tracker *PositionTracker
	client  *ServiceClient
	config  *Config

	unplaced   []Equipment
	placeIndex int

	renderMode  EdgeRenderMode
	connectType ConnectionType
	connectFrom string

	moveNodeID string
	moveOrigX  float64
	moveOrigY  float64

	confirmAction ConfirmAction
	confirmID     string

	saving  bool
	loading bool
	help    bool

	errorMessage   string
	successMessage string
}

func initialModel(config *Config) model {
	return model{
		mode:        ModeNormal,
		diagram:     newDiagramState(),
		tracker:     newPositionTracker(),
		client:      newServiceClient(config.ServerURL),
		config:      config,
		connectType: ConnMaterial,
		loading:     true,
		cursorX:     2,
		cursorY:     2,
	}
}

func (m model) Init() tea.Cmd {
	return m.reload()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case loadDoneMsg:
		m.loading = false
		m.handleLoadDone(msg)
		return m, nil

	case saveDoneMsg:
		m.handleSaveDone(msg)
		return m, nil

	case placeDoneMsg:
		m.handlePlaceDone(msg)
		return m, nil

	case connectDoneMsg:
		m.handleConnectDone(msg)
		return m, nil

	case nodeDeleteDoneMsg:
		m.handleNodeDeleteDone(msg)
		return m, nil

	case edgeDeleteDoneMsg:
		m.handleEdgeDeleteDone(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	m.errorMessage = ""
	m.successMessage = ""

	if m.help {
		switch key {
		case "escape", "q", "?":
			m.help = false
		}
		return m, nil
	}

	switch m.mode {
	case ModeConfirm:
		return m.handleConfirmKey(key)
	case ModeMove:
		return m.handleMoveKey(key)
	case ModeConnect:
		return m.handleConnectKey(key)
	case ModePlace:
		return m.handlePlaceKey(key)
	}
	return m.handleNormalKey(key)
}

func (m model) handleNormalKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "h", "left", "l", "right", "k", "up", "j", "down",
		"H", "shift+left", "L", "shift+right", "K", "shift+up", "J", "shift+down":
		m.handleNavigation(key, m.getMoveSpeed(key))

	case "z":
		m.zPan = !m.zPan

	case " ", "enter":
		if n, ok := m.nodeUnderCursor(); ok {
			m.diagram.ToggleSelect(n.ID)
		}

	case "x":
		m.diagram.ClearSelection()

	case "1":
		m.applyLayout(alignLeft(nodePositions(m.diagram.SelectedNodes())))
	case "2":
		m.applyLayout(alignRight(nodePositions(m.diagram.SelectedNodes())))
	case "3":
		m.applyLayout(alignTop(nodePositions(m.diagram.SelectedNodes())))
	case "4":
		m.applyLayout(alignBottom(nodePositions(m.diagram.SelectedNodes())))
	case "5":
		m.applyLayout(distributeHorizontal(nodePositions(m.diagram.SelectedNodes()), minGapHorizontal))
	case "6":
		m.applyLayout(distributeVertical(nodePositions(m.diagram.SelectedNodes()), minGapVertical))

	case "s":
		return m, m.startSave()

	case "u":
		m.revertChanges()

	case "r":
		m.loading = true
		return m, m.reload()

	case "e":
		m.renderMode = (m.renderMode + 1) % 3
		m.successMessage = "edges: " + m.renderMode.String()

	case "m":
		if n, ok := m.nodeUnderCursor(); ok {
			m.mode = ModeMove
			m.moveNodeID = n.ID
			m.moveOrigX = n.X
			m.moveOrigY = n.Y
		}

	case "c":
		if n, ok := m.nodeUnderCursor(); ok {
			m.mode = ModeConnect
			m.connectFrom = n.ID
		}

	case "p":
		if len(m.unplaced) == 0 {
			m.errorMessage = "no unplaced equipment"
		} else {
			m.mode = ModePlace
		}

	case "d":
		if n, ok := m.nodeUnderCursor(); ok {
			if m.config.Confirmations {
				m.mode = ModeConfirm
				m.confirmAction = ConfirmDeleteNode
				m.confirmID = n.ID
			} else {
				return m, m.deleteNode(n.ID)
			}
		}

	case "D":
		selected := m.diagram.SelectedNodes()
		if len(selected) != 2 {
			m.errorMessage = "select exactly two nodes to disconnect"
			break
		}
		edge, ok := m.diagram.EdgeBetween(selected[0].ID, selected[1].ID)
		if !ok {
			m.errorMessage = "no connection between selection"
			break
		}
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteEdge
			m.confirmID = edge.ID
		} else {
			return m, m.deleteEdge(edge.ID)
		}

	case "y":
		m.copyEquipmentCode()

	case "P":
		if err := m.exportPNG("topology.png"); err != nil {
			m.errorMessage = fmt.Sprintf("export failed: %v", err)
		} else {
			m.successMessage = "exported topology.png"
		}

	case "T":
		if err := m.exportText("topology.txt"); err != nil {
			m.errorMessage = fmt.Sprintf("export failed: %v", err)
		} else {
			m.successMessage = "exported topology.txt"
		}

	case "?":
		m.help = true

	case "q", "ctrl+c":
		if m.tracker.HasChanges() {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			break
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "enter":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmDeleteNode:
			return m, m.deleteNode(m.confirmID)
		case ConfirmDeleteEdge:
			return m, m.deleteEdge(m.confirmID)
		case ConfirmQuit:
			return m, tea.Quit
		}
	case "n", "escape", "q":
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) handleMoveKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter", " ":
		// Drag end: one dirty-flag update for the whole gesture.
		if n, ok := m.diagram.NodeByID(m.moveNodeID); ok {
			m.finishNodeDrag(n.ID, n.X, n.Y)
			m.successMessage = fmt.Sprintf("%d pending", m.tracker.DirtyCount())
		}
		m.mode = ModeNormal
		m.moveNodeID = ""
	case "escape":
		m.diagram.SetNodePosition(m.moveNodeID, m.moveOrigX, m.moveOrigY)
		m.mode = ModeNormal
		m.moveNodeID = ""
	default:
		dx, dy := moveDelta(key, m.getMoveSpeed(key))
		if dx != 0 || dy != 0 {
			if n, ok := m.diagram.NodeByID(m.moveNodeID); ok {
				m.diagram.SetNodePosition(n.ID, n.X+dx*worldScaleX, n.Y+dy*worldScaleY)
				m.cursorX += int(dx)
				m.cursorY += int(dy)
				m.ensureCursorInBounds()
			}
		}
	}
	return m, nil
}

func (m model) handleConnectKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter", " ":
		target, ok := m.nodeUnderCursor()
		if !ok {
			m.errorMessage = "move the cursor onto the target node"
			return m, nil
		}
		cmd := m.connectNodes(m.connectFrom, target.ID)
		if cmd != nil {
			m.mode = ModeNormal
			m.connectFrom = ""
		}
		return m, cmd
	case "t":
		m.connectType = nextConnectionType(m.connectType)
		m.successMessage = "type: " + string(m.connectType)
	case "escape":
		m.mode = ModeNormal
		m.connectFrom = ""
	default:
		m.handleNavigation(key, m.getMoveSpeed(key))
	}
	return m, nil
}

func (m model) handlePlaceKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter", " ":
		if len(m.unplaced) == 0 {
			m.mode = ModeNormal
			return m, nil
		}
		eq := m.unplaced[m.placeIndex]
		x, y := cellToWorld(m.cursorX, m.cursorY, m.panX, m.panY)
		m.mode = ModeNormal
		return m, m.placeEquipment(eq, x, y)
	case "tab", "n":
		if len(m.unplaced) > 0 {
			m.placeIndex = (m.placeIndex + 1) % len(m.unplaced)
		}
	case "escape":
		m.mode = ModeNormal
	default:
		m.handleNavigation(key, m.getMoveSpeed(key))
	}
	return m, nil
}

func nextConnectionType(t ConnectionType) ConnectionType {
	order := []ConnectionType{ConnMaterial, ConnData, ConnPower, ConnPneumatic}
	for i, c := range order {
		if c == t {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

func (m *model) nodeUnderCursor() (Node, bool) {
	return nodeAtCell(m.diagram.Nodes(), m.cursorX, m.cursorY, m.panX, m.panY)
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.width > 0 && m.cursorX >= m.width {
		m.cursorX = m.width - 1
	}
	maxY := m.height - 2
	if maxY < 0 {
		maxY = 0
	}
	if m.cursorY > maxY {
		m.cursorY = maxY
	}
}

var (
	statusBarStyle = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	renderWidth := m.width
	if renderWidth < 1 {
		renderWidth = 80
	}
	renderHeight := m.height - 1
	if renderHeight < 1 {
		renderHeight = 24
	}

	lines := renderCanvas(
		m.diagram.Nodes(), m.diagram.Edges(), m.renderMode,
		renderWidth, renderHeight, m.panX, m.panY,
		m.cursorX, m.cursorY, true,
	)
	return strings.Join(lines, "\n") + "\n" + m.statusLine(renderWidth)
}

func (m model) statusLine(width int) string {
	left := m.modeLabel()
	if n := len(m.diagram.SelectedNodes()); n > 0 {
		left += fmt.Sprintf("  %d selected", n)
	}

	var middle string
	switch {
	case m.errorMessage != "":
		middle = errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		middle = successStyle.Render(m.successMessage)
	}

	right := m.saveLabel()
	gap := width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	line := " " + left + "  " + middle + strings.Repeat(" ", gap) + right + " "
	return statusBarStyle.Render(line)
}

func (m model) modeLabel() string {
	switch m.mode {
	case ModeMove:
		return "MOVE"
	case ModeConnect:
		return "CONNECT [" + string(m.connectType) + "]"
	case ModePlace:
		if len(m.unplaced) > 0 {
			eq := m.unplaced[m.placeIndex]
			return fmt.Sprintf("PLACE %s %s (%d/%d)", eq.Code, eq.Name, m.placeIndex+1, len(m.unplaced))
		}
		return "PLACE"
	case ModeConfirm:
		switch m.confirmAction {
		case ConfirmDeleteNode:
			return "remove from canvas? y/n"
		case ConfirmDeleteEdge:
			return "disconnect? y/n"
		default:
			return "quit with unsaved changes? y/n"
		}
	default:
		if m.zPan {
			return "PAN"
		}
		return "NORMAL"
	}
}

func (m model) saveLabel() string {
	switch {
	case m.loading:
		return "loading…"
	case m.saving:
		return pendingStyle.Render("saving…")
	case m.tracker.HasChanges():
		return pendingStyle.Render(fmt.Sprintf("%d pending", m.tracker.DirtyCount()))
	default:
		return "clean"
	}
}

func (m model) helpView() string {
	lines := []string{
		"topoview",
		"========",
		"",
		"Navigation:",
		"  h/j/k/l, arrows  Move cursor (Shift doubles speed)",
		"  z                Toggle pan mode",
		"",
		"Canvas:",
		"  space/enter      Select/deselect node under cursor",
		"  x                Clear selection",
		"  m                Move node under cursor (enter drops, esc cancels)",
		"  c                Connect node under cursor to another (t cycles type)",
		"  p                Place unplaced equipment at cursor (tab cycles)",
		"  d                Remove node from canvas (record survives)",
		"  D                Delete connection between two selected nodes",
		"",
		"Layout (two or more selected):",
		"  1/2/3/4          Align left/right/top/bottom",
		"  5/6              Distribute horizontally/vertically",
		"",
		"Sync:",
		"  s                Save pending position changes",
		"  u                Revert pending position changes",
		"  r                Reload from server",
		"",
		"Misc:",
		"  e                Cycle edge render mode",
		"  y                Copy equipment code to clipboard",
		"  P / T            Export PNG / text",
		"  ?                Toggle this help",
		"  q                Quit",
	}
	return strings.Join(lines, "\n")
}
