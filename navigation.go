package main

func (m *model) handleNavigation(key string, speed int) {
	if m.zPanMode {
		m.handlePan(key, speed)
	} else {
		m.handleCursorMove(key, speed)
	}
	// A node held with space follows the cursor.
	if m.pointerHeld {
		m.editor.PointerMove(m.cursorPoint())
	}
}

func (m *model) handlePan(key string, speed int) {
	switch key {
	case "left", "shift+left":
		m.panX -= speed
	case "right", "shift+right":
		m.panX += speed
	case "up", "shift+up":
		m.panY -= speed
	case "down", "shift+down":
		m.panY += speed
	}
}

func (m *model) handleCursorMove(key string, speed int) {
	switch key {
	case "left", "shift+left":
		m.cursorX -= speed
	case "right", "shift+right":
		m.cursorX += speed
	case "up", "shift+up":
		m.cursorY -= speed
	case "down", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
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
	if maxY := m.canvasHeight() - 1; m.cursorY > maxY {
		m.cursorY = maxY
	}
}
