package main

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if m.help {
			m.handleHelpKey(msg.String())
			return m, nil
		}
		switch m.mode {
		case ModeNormal:
			cmd := m.handleNormalKey(msg)
			return m, cmd
		case ModeEditNode, ModeEditLabel:
			m.handleEditKey(msg)
		case ModeFileInput:
			m.handleFileInputKey(msg)
		case ModeConfirm:
			cmd := m.handleConfirmKey(msg.String())
			return m, cmd
		}
	}
	return m, nil
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.mode != ModeNormal {
		return
	}
	m.cursorX, m.cursorY = msg.X, msg.Y
	m.ensureCursorInBounds()
	p := m.worldPoint(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pointerPress(p)
		}
	case tea.MouseActionMotion:
		m.editor.PointerMove(p)
	case tea.MouseActionRelease:
		m.editor.PointerUp()
		m.pointerHeld = false
	}
}

// pointerPress is a left click at p: on a node it grabs the node (and
// completes a pending connection), on empty canvas it clears the selection.
func (m *model) pointerPress(p Point) {
	node, ok := m.canvas.Frame().NodeAt(p)
	if !ok {
		m.editor.Deselect()
		return
	}
	if onCloseButton(node, p) {
		m.requestDeleteNode(node.ID)
		return
	}
	if err := m.editor.PointerDownOnNode(node.ID, p); err != nil {
		m.showError(err)
	}
}

func onCloseButton(node PlacedNode, p Point) bool {
	x, y := toCell(p)
	r := toCellRect(node.Rect)
	return r.h >= 3 && x == r.x+r.w-2 && y == r.y+1
}

func (m *model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	m.errorMessage = ""
	m.successMessage = ""

	switch key {
	case "ctrl+c":
		return tea.Quit
	case "q":
		if m.config.Confirmations && m.editor.Graph().NodeCount() > 0 {
			m.confirmAction = ConfirmQuit
			m.mode = ModeConfirm
			return nil
		}
		return tea.Quit
	case "?":
		m.help = true
		m.helpScroll = 0
	case "z":
		m.zPanMode = !m.zPanMode
	case "left", "right", "up", "down", "shift+left", "shift+right", "shift+up", "shift+down":
		m.handleNavigation(key, m.getMoveSpeed(key))

	case "u":
		m.addNode(KindRegular)
	case "j":
		m.addNode(KindCondition)
	case "i":
		if err := m.editor.BeginConnection(); err != nil {
			m.showError(err)
		}
	case "esc":
		if _, ok := m.editor.ConnectingFrom(); ok {
			m.editor.CancelConnection()
		} else {
			m.editor.Deselect()
		}

	case " ":
		if m.pointerHeld {
			m.editor.PointerUp()
			m.pointerHeld = false
			return nil
		}
		m.pointerPress(m.cursorPoint())
		_, m.pointerHeld = m.editor.Dragging()
	case "enter":
		m.pointerPress(m.cursorPoint())
		m.editor.PointerUp()
		m.pointerHeld = false

	case "d", "delete":
		if id, ok := m.editor.Selected(); ok {
			m.requestDeleteNode(id)
		}
	case "x":
		if conn, ok := m.connectionUnderCursor(); ok {
			m.requestDeleteConnection(conn.ID)
		}
	case "e":
		m.startNodeEdit()
	case "l":
		m.startLabelEdit()

	case "c":
		m.copySelectedText()
	case "p":
		m.pasteIntoSelected()

	case "S":
		m.startFileInput(FileOpSavePNG)
	case "T":
		m.startFileInput(FileOpSaveVisualTXT)
	}
	return nil
}

func (m *model) addNode(kind NodeKind) {
	size := m.config.Layout().NodeRect(Node{Kind: kind})
	pos := randomPosition(m.rng, m.visibleWorld(), size.Width, size.Height, placementMargin)
	// snap to the cell grid so the node is drawn where it is hit-tested
	pos.X = math.Floor(pos.X/cellWidth) * cellWidth
	pos.Y = math.Floor(pos.Y/cellHeight) * cellHeight
	m.editor.AddNode(kind, pos)
}

func (m *model) connectionUnderCursor() (RoutedConnection, bool) {
	return m.canvas.Frame().ConnectionAt(m.cursorPoint(), connectionHitDistance)
}

func (m *model) requestDeleteNode(id NodeID) {
	if !m.config.Confirmations {
		m.deleteNode(id)
		return
	}
	m.confirmNodeID = id
	m.confirmAction = ConfirmDeleteNode
	m.mode = ModeConfirm
}

// deleteNode also releases the keyboard pointer when it held the deleted node.
func (m *model) deleteNode(id NodeID) {
	m.editor.DeleteNode(id)
	_, m.pointerHeld = m.editor.Dragging()
}

func (m *model) requestDeleteConnection(id ConnectionID) {
	if !m.config.Confirmations {
		m.editor.DeleteConnection(id)
		return
	}
	m.confirmConnID = id
	m.confirmAction = ConfirmDeleteConnection
	m.mode = ModeConfirm
}

func (m *model) handleConfirmKey(key string) tea.Cmd {
	m.mode = ModeNormal
	if key != "y" && key != "Y" && key != "enter" {
		return nil
	}
	switch m.confirmAction {
	case ConfirmDeleteNode:
		m.deleteNode(m.confirmNodeID)
	case ConfirmDeleteConnection:
		m.editor.DeleteConnection(m.confirmConnID)
	case ConfirmQuit:
		return tea.Quit
	}
	return nil
}

func (m *model) startNodeEdit() {
	id, ok := m.editor.Selected()
	if !ok {
		m.showError(errors.New("select a node to edit"))
		return
	}
	node, _ := m.editor.Graph().Node(id)
	m.editNodeID = id
	m.beginEdit(ModeEditNode, node.Text)
}

func (m *model) startLabelEdit() {
	conn, ok := m.connectionUnderCursor()
	if !ok {
		m.showError(fmt.Errorf("%w under the cursor", ErrConnectionNotFound))
		return
	}
	if !conn.Path.HasLabel() {
		m.showError(errors.New("this connection has no label"))
		return
	}
	m.editConnID = conn.ID
	m.beginEdit(ModeEditLabel, conn.Label)
}

func (m *model) beginEdit(mode Mode, text string) {
	m.mode = mode
	m.editText = text
	m.originalEditText = text
	m.editCursorPos = len([]rune(text))
}

// handleEditKey edits text in place; every keystroke is applied immediately.
func (m *model) handleEditKey(msg tea.KeyMsg) {
	runes := []rune(m.editText)
	switch msg.Type {
	case tea.KeyEsc:
		m.applyEdit(m.originalEditText)
		m.mode = ModeNormal
		return
	case tea.KeyEnter:
		m.mode = ModeNormal
		return
	case tea.KeyCtrlN:
		if m.mode == ModeEditNode {
			runes = insertRunes(runes, m.editCursorPos, []rune{'\n'})
			m.editCursorPos++
		}
	case tea.KeyBackspace:
		if m.editCursorPos > 0 {
			runes = append(runes[:m.editCursorPos-1], runes[m.editCursorPos:]...)
			m.editCursorPos--
		}
	case tea.KeyLeft:
		if m.editCursorPos > 0 {
			m.editCursorPos--
		}
		return
	case tea.KeyRight:
		if m.editCursorPos < len(runes) {
			m.editCursorPos++
		}
		return
	case tea.KeySpace:
		runes = insertRunes(runes, m.editCursorPos, []rune{' '})
		m.editCursorPos++
	case tea.KeyRunes:
		runes = insertRunes(runes, m.editCursorPos, msg.Runes)
		m.editCursorPos += len(msg.Runes)
	default:
		return
	}
	m.applyEdit(string(runes))
}

func (m *model) applyEdit(text string) {
	m.editText = text
	switch m.mode {
	case ModeEditNode:
		m.editor.SetNodeText(m.editNodeID, text)
	case ModeEditLabel:
		m.editor.SetConnectionLabel(m.editConnID, text)
	}
}

func insertRunes(runes []rune, at int, insert []rune) []rune {
	out := make([]rune, 0, len(runes)+len(insert))
	out = append(out, runes[:at]...)
	out = append(out, insert...)
	return append(out, runes[at:]...)
}

func (m *model) copySelectedText() {
	id, ok := m.editor.Selected()
	if !ok {
		return
	}
	node, _ := m.editor.Graph().Node(id)
	if err := writeClipboardText(node.Text); err != nil {
		m.showError(err)
		return
	}
	m.successMessage = "Copied node text"
}

func (m *model) pasteIntoSelected() {
	id, ok := m.editor.Selected()
	if !ok {
		return
	}
	text, err := readClipboardText()
	if err != nil {
		m.showError(err)
		return
	}
	m.editor.SetNodeText(id, text)
}

func (m *model) startFileInput(op FileOperation) {
	m.fileOp = op
	m.mode = ModeFileInput
}

func (m *model) handleFileInputKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
	case tea.KeyEnter:
		m.mode = ModeNormal
		m.export()
	case tea.KeyBackspace:
		if runes := []rune(m.filename); len(runes) > 0 {
			m.filename = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
	}
}

func (m *model) export() {
	name := strings.TrimSpace(m.filename)
	if name == "" {
		m.showError(errors.New("filename is empty"))
		return
	}

	frame := m.canvas.Frame()
	var path string
	var err error
	switch m.fileOp {
	case FileOpSavePNG:
		path = m.config.GetSavePath(withExt(name, ".png"))
		err = ExportPNG(frame, path)
	case FileOpSaveVisualTXT:
		path = m.config.GetSavePath(withExt(name, ".txt"))
		err = ExportVisualTXT(frame, path)
	}
	if err != nil {
		m.logger.Error("export failed", "path", path, "err", err)
		m.showError(err)
		return
	}
	m.logger.Info("exported", "path", path)
	m.successMessage = "Saved " + path
}

func withExt(name, ext string) string {
	if strings.EqualFold(filepath.Ext(name), ext) {
		return name
	}
	return name + ext
}

func (m *model) showError(err error) {
	m.successMessage = ""
	m.errorMessage = err.Error()
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.help {
		return m.helpView()
	}

	g := m.canvas.Draw(m.width, m.canvasHeight(), m.panX, m.panY)
	if m.mode == ModeNormal {
		g.setStyle(m.cursorX+m.panX, m.cursorY+m.panY, styleCursor)
	}

	var result strings.Builder
	for _, line := range g.styledLines() {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) statusLine() string {
	mode := statusModeStyle.Render("[" + m.modeString() + "]")

	switch m.mode {
	case ModeEditNode:
		return mode + " " + m.editPrompt("Text") + statusStyle.Render("  enter: done  ctrl+n: newline  esc: cancel")
	case ModeEditLabel:
		return mode + " " + m.editPrompt("Label") + statusStyle.Render("  enter: done  esc: cancel")
	case ModeFileInput:
		kind := "PNG"
		if m.fileOp == FileOpSaveVisualTXT {
			kind = "text"
		}
		return mode + " Export " + kind + " as: " + m.filename + "█"
	case ModeConfirm:
		return mode + " " + m.confirmPrompt() + " (y/n)"
	}

	var parts []string
	parts = append(parts, mode)
	if m.zPanMode {
		parts = append(parts, statusStyle.Render("PAN"))
	}
	if source, ok := m.editor.ConnectingFrom(); ok {
		parts = append(parts, connectingStyle.Render("Connecting from "+m.nodeName(source)+": press a target node, esc to cancel"))
	}
	switch {
	case m.errorMessage != "":
		parts = append(parts, statusErrorStyle.Render(m.errorMessage))
	case m.successMessage != "":
		parts = append(parts, statusOKStyle.Render(m.successMessage))
	default:
		graph := m.editor.Graph()
		parts = append(parts, statusStyle.Render(
			pluralize(graph.NodeCount(), "node")+", "+pluralize(graph.ConnectionCount(), "connection")+"  ? for help"))
	}
	return strings.Join(parts, " ")
}

func (m model) editPrompt(what string) string {
	runes := []rune(strings.ReplaceAll(m.editText, "\n", "⏎"))
	pos := m.editCursorPos
	if pos > len(runes) {
		pos = len(runes)
	}
	return what + ": " + string(runes[:pos]) + "█" + string(runes[pos:])
}

func (m model) confirmPrompt() string {
	switch m.confirmAction {
	case ConfirmDeleteNode:
		name := m.nodeName(m.confirmNodeID)
		if n := len(m.editor.Graph().ConnectionsOf(m.confirmNodeID)); n > 0 {
			return "Delete " + name + " and its " + pluralize(n, "connection") + "?"
		}
		return "Delete " + name + "?"
	case ConfirmDeleteConnection:
		return "Delete connection?"
	case ConfirmQuit:
		return "Quit? The diagram is not saved."
	}
	return ""
}

func (m model) nodeName(id NodeID) string {
	node, ok := m.editor.Graph().Node(id)
	if !ok {
		return string(id)
	}
	if first, _, _ := strings.Cut(node.Text, "\n"); first != "" {
		return `"` + truncate(first, 20) + `"`
	}
	return string(id)
}

func pluralize(n int, noun string) string {
	s := noun
	if n != 1 {
		s += "s"
	}
	return strconv.Itoa(n) + " " + s
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeEditNode:
		return "EDIT"
	case ModeEditLabel:
		return "LABEL"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

var helpLines = []string{
	"flowedit help",
	"=============",
	"",
	"Nodes:",
	"------",
	"  u                Add a node at a random spot",
	"  j                Add a condition node at a random spot",
	"  e                Edit text of the selected node",
	"  d/Delete         Delete the selected node and its connections",
	"  c                Copy text of the selected node",
	"  p                Paste clipboard into the selected node",
	"",
	"Pointer:",
	"--------",
	"  mouse            Click a node to select it, drag to move it",
	"  ←/↓/↑/→          Move cursor (Shift moves faster)",
	"  Space            Grab/drop the node under the cursor",
	"  Enter            Click at the cursor",
	"  z                Toggle pan mode for the arrow keys",
	"",
	"Connections:",
	"------------",
	"  i                Start a connection from the selected node,",
	"                   then click the target node",
	"  Esc              Cancel the connection, or clear the selection",
	"  l                Edit label of the connection under the cursor",
	"                   (only bent connections have labels)",
	"  x                Delete the connection under the cursor",
	"",
	"Export:",
	"-------",
	"  S                Export as PNG",
	"  T                Export as text",
	"",
	"General:",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m *model) handleHelpKey(key string) {
	switch key {
	case "down":
		if maxScroll := len(helpLines) - m.canvasHeight(); m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
}

func (m model) helpView() string {
	end := m.helpScroll + m.canvasHeight()
	if end > len(helpLines) {
		end = len(helpLines)
	}
	start := m.helpScroll
	if start > end {
		start = end
	}
	lines := append([]string(nil), helpLines[start:end]...)
	if start == 0 && len(lines) > 0 {
		lines[0] = helpTitleStyle.Render(lines[0])
	}
	return strings.Join(lines, "\n") + "\n" + statusStyle.Render("↑/↓ scroll, any other key closes")
}
