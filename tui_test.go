package main

import (
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, confirmations bool) model {
	t.Helper()
	config := defaultConfig()
	config.Confirmations = confirmations
	return newTestModelWith(t, config)
}

func newTestModelWith(t *testing.T, config *Config) model {
	t.Helper()
	config.SaveDirectory = t.TempDir()
	m := initialModel(config, log.New(io.Discard), rand.New(rand.NewPCG(1, 2)))
	return update(t, m, tea.WindowSizeMsg{Width: 80, Height: 25})
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	updated, ok := next.(model)
	require.True(t, ok)
	return updated
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, key := range keys {
		m = update(t, m, keyMsg(key))
	}
	return m
}

// twoNodes places a regular node at cells (0,0) and another at (40,8).
func twoNodes(m model) (NodeID, NodeID) {
	a := m.editor.AddNode(KindRegular, Point{0, 0})
	b := m.editor.AddNode(KindRegular, Point{320, 128})
	return a, b
}

func TestModel_AddNodes(t *testing.T) {
	m := newTestModel(t, false)

	m = press(t, m, "u", "j")

	nodes := m.editor.Graph().Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, KindRegular, nodes[0].Kind)
	assert.Equal(t, KindCondition, nodes[1].Kind)
	selected, _ := m.editor.Selected()
	assert.Equal(t, nodes[1].ID, selected)

	visible := m.visibleWorld()
	for _, node := range nodes {
		rect := m.config.Layout().NodeRect(node)
		assert.GreaterOrEqual(t, rect.X, visible.X)
		assert.GreaterOrEqual(t, rect.Y, visible.Y)
		assert.LessOrEqual(t, rect.X+rect.Width, visible.X+visible.Width)
		assert.LessOrEqual(t, rect.Y+rect.Height, visible.Y+visible.Height)
		assert.Zero(t, math.Mod(rect.X, cellWidth))
		assert.Zero(t, math.Mod(rect.Y, cellHeight))
	}
}

func TestModel_ConnectWithKeyboard(t *testing.T) {
	m := newTestModel(t, false)
	a, b := twoNodes(m)
	m.editor.Select(a)

	m = press(t, m, "i")
	assert.Contains(t, m.statusLine(), "Connecting from node-1")

	m.cursorX, m.cursorY = 45, 9
	m = press(t, m, "enter")

	conns := m.editor.Graph().Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, a, conns[0].SourceID)
	assert.Equal(t, b, conns[0].TargetID)
	_, dragging := m.editor.Dragging()
	assert.False(t, dragging, "enter is a full click")

	// The label sits on the vertical run at cell (30,6).
	m.cursorX, m.cursorY = 30, 6
	m = press(t, m, "l", "yes")
	assert.Equal(t, ModeEditLabel, m.mode)
	m = press(t, m, "enter")

	conn, _ := m.editor.Graph().Connection(conns[0].ID)
	assert.Equal(t, "yes", conn.Label)
	assert.Equal(t, ModeNormal, m.mode)
	m.cursorX, m.cursorY = 0, 20
	assert.Contains(t, m.View(), "[yes]")
}

func TestModel_ConnectErrors(t *testing.T) {
	m := newTestModel(t, false)
	a, _ := twoNodes(m)
	m.editor.Deselect()

	m = press(t, m, "i")
	assert.Equal(t, ErrNoSelection.Error(), m.errorMessage)

	m.editor.Select(a)
	m = press(t, m, "i")
	m.cursorX, m.cursorY = 5, 2
	m = press(t, m, "enter")
	assert.Equal(t, ErrSelfLoop.Error(), m.errorMessage)
	assert.Zero(t, m.editor.Graph().ConnectionCount())
}

func TestModel_EscCancelsThenDeselects(t *testing.T) {
	m := newTestModel(t, false)
	a, _ := twoNodes(m)
	m.editor.Select(a)

	m = press(t, m, "i", "esc")
	_, connecting := m.editor.ConnectingFrom()
	assert.False(t, connecting)
	_, selected := m.editor.Selected()
	assert.True(t, selected)

	m = press(t, m, "esc")
	_, selected = m.editor.Selected()
	assert.False(t, selected)
}

func TestModel_GrabAndMoveWithKeyboard(t *testing.T) {
	m := newTestModel(t, false)
	a, _ := twoNodes(m)

	m.cursorX, m.cursorY = 2, 1
	m = press(t, m, " ")
	assert.True(t, m.pointerHeld)

	m = press(t, m, "right", "right")
	node, _ := m.editor.Graph().Node(a)
	assert.Equal(t, Point{16, 0}, node.Position)

	m = press(t, m, " ")
	assert.False(t, m.pointerHeld)
	m = press(t, m, "right")
	node, _ = m.editor.Graph().Node(a)
	assert.Equal(t, Point{16, 0}, node.Position)
}

func TestModel_Mouse(t *testing.T) {
	m := newTestModel(t, false)
	a, b := twoNodes(m)

	m = update(t, m, tea.MouseMsg{X: 45, Y: 9, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	selected, _ := m.editor.Selected()
	assert.Equal(t, b, selected)

	m = update(t, m, tea.MouseMsg{X: 50, Y: 9, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 50, Y: 9, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	node, _ := m.editor.Graph().Node(b)
	assert.Equal(t, Point{360, 128}, node.Position)
	_, dragging := m.editor.Dragging()
	assert.False(t, dragging)

	m = update(t, m, tea.MouseMsg{X: 70, Y: 20, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	_, ok := m.editor.Selected()
	assert.False(t, ok, "clicking empty canvas deselects")

	// × in the header of a
	m = update(t, m, tea.MouseMsg{X: 18, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	_, ok = m.editor.Graph().Node(a)
	assert.False(t, ok)
}

func TestModel_DeleteWithConfirmation(t *testing.T) {
	m := newTestModel(t, true)
	a, b := twoNodes(m)
	connect(t, m.editor, a, b)
	m.editor.Select(a)

	m = press(t, m, "d")
	assert.Equal(t, ModeConfirm, m.mode)
	assert.Contains(t, m.statusLine(), "Delete node-1 and its 1 connection?")

	m = press(t, m, "n")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 2, m.editor.Graph().NodeCount())

	m = press(t, m, "d", "y")
	assert.Equal(t, 1, m.editor.Graph().NodeCount())
	assert.Zero(t, m.editor.Graph().ConnectionCount())
}

func TestModel_DeleteConnectionUnderCursor(t *testing.T) {
	m := newTestModel(t, false)
	a, b := twoNodes(m)
	connect(t, m.editor, a, b)

	m.cursorX, m.cursorY = 30, 4
	m = press(t, m, "x")
	assert.Zero(t, m.editor.Graph().ConnectionCount())
	assert.Equal(t, 2, m.editor.Graph().NodeCount())
}

func TestModel_DeleteHeldNodeReleasesPointer(t *testing.T) {
	m := newTestModel(t, false)
	_, b := twoNodes(m)

	m.cursorX, m.cursorY = 2, 1
	m = press(t, m, " ")
	require.True(t, m.pointerHeld)

	m = press(t, m, "d")
	assert.False(t, m.pointerHeld)
	assert.Equal(t, 1, m.editor.Graph().NodeCount())

	// the next space grabs again instead of releasing nothing
	m.cursorX, m.cursorY = 45, 9
	m = press(t, m, " ")
	held, ok := m.editor.Dragging()
	assert.True(t, ok)
	assert.Equal(t, b, held)
	assert.True(t, m.pointerHeld)
}

func TestModel_PasteCleansClipboard(t *testing.T) {
	saved := readRawClipboard
	t.Cleanup(func() { readRawClipboard = saved })
	readRawClipboard = func() (string, error) { return "a\r\nb\x07", nil }

	m := newTestModel(t, false)
	a, _ := twoNodes(m)
	m.editor.Select(a)

	m = press(t, m, "p")
	node, _ := m.editor.Graph().Node(a)
	assert.Equal(t, "a\nb", node.Text)
}

func TestModel_EditNodeText(t *testing.T) {
	m := newTestModel(t, false)
	a, _ := twoNodes(m)
	m.editor.Select(a)

	m = press(t, m, "e", "Hi", "ctrl+n", "x")
	node, _ := m.editor.Graph().Node(a)
	assert.Equal(t, "Hi\nx", node.Text, "edits apply as they are typed")
	assert.Contains(t, m.statusLine(), "Hi⏎x█")

	m = press(t, m, "esc")
	node, _ = m.editor.Graph().Node(a)
	assert.Empty(t, node.Text, "esc restores the original text")

	m = press(t, m, "e", "Go", "backspace", "o!", "enter")
	node, _ = m.editor.Graph().Node(a)
	assert.Equal(t, "Go!", node.Text)
	assert.Equal(t, ModeNormal, m.mode)
}

func TestModel_EditWithoutTarget(t *testing.T) {
	m := newTestModel(t, false)

	m = press(t, m, "e")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "select a node to edit", m.errorMessage)

	m = press(t, m, "l")
	assert.Equal(t, "connection not found under the cursor", m.errorMessage)
}

func TestModel_ExportText(t *testing.T) {
	m := newTestModel(t, false)
	twoNodes(m)

	m = press(t, m, "T")
	assert.Equal(t, ModeFileInput, m.mode)
	m = press(t, m, "enter")

	path := filepath.Join(m.config.SaveDirectory, "flowchart.txt")
	assert.Equal(t, "Saved "+path, m.successMessage)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestModel_ExportEmpty(t *testing.T) {
	m := newTestModel(t, false)

	m = press(t, m, "S", "enter")
	assert.Equal(t, errNothingToExport.Error(), m.errorMessage)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, true)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	twoNodes(m)
	next, cmd := m.Update(keyMsg("q"))
	assert.Nil(t, cmd)
	assert.Equal(t, ModeConfirm, next.(model).mode)
}

func TestModel_ViewAndHelp(t *testing.T) {
	m := newTestModel(t, false)
	twoNodes(m)

	view := m.View()
	assert.Contains(t, view, "2 nodes, 0 connections")
	assert.Contains(t, view, "[NORMAL]")

	m = press(t, m, "?")
	assert.Contains(t, m.View(), "flowedit help")
	m = press(t, m, "x")
	assert.False(t, m.help)
	assert.Equal(t, 2, m.editor.Graph().NodeCount())
}

func TestModel_Pan(t *testing.T) {
	m := newTestModel(t, false)

	m = press(t, m, "z", "right")
	assert.Equal(t, 1, m.panX)
	assert.Equal(t, 0, m.cursorX)
	assert.Equal(t, Point{8, 0}, m.cursorPoint())

	m = press(t, m, "z", "right")
	assert.Equal(t, 1, m.cursorX)
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "1 node", pluralize(1, "node"))
	assert.Equal(t, "0 connections", pluralize(0, "connection"))
}

func TestWithExt(t *testing.T) {
	assert.Equal(t, "chart.png", withExt("chart", ".png"))
	assert.Equal(t, "chart.PNG", withExt("chart.PNG", ".png"))
	assert.Equal(t, "chart.txt.png", withExt("chart.txt", ".png"))
}
