package main

func (m *model) handleNavigation(key string, speed int) {
	if m.zPan {
		m.handlePan(key, speed)
		return
	}
	m.handleCursorMove(key, speed)
}

func (m *model) handlePan(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.panX += speed
	case "l", "right", "L", "shift+right":
		m.panX -= speed
	case "k", "up", "K", "shift+up":
		m.panY += speed
	case "j", "down", "J", "shift+down":
		m.panY -= speed
	}
}

func (m *model) handleCursorMove(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// moveDelta maps a navigation key to a cell delta for the move gesture.
func moveDelta(key string, speed int) (float64, float64) {
	s := float64(speed)
	switch key {
	case "h", "left", "H", "shift+left":
		return -s, 0
	case "l", "right", "L", "shift+right":
		return s, 0
	case "k", "up", "K", "shift+up":
		return 0, -s
	case "j", "down", "J", "shift+down":
		return 0, s
	}
	return 0, 0
}
