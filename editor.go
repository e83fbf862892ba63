package main

import (
	"errors"
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// Renderer receives a complete frame after every intent that changed the diagram.
type Renderer interface {
	Render(frame Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

func (f RendererFunc) Render(frame Frame) { f(frame) }

type PlacedNode struct {
	Node
	Rect Rect
}

type RoutedConnection struct {
	Connection
	Path RoutedPath
}

// Frame is a self-contained snapshot of the diagram with every connection
// routed against the current node rectangles.
type Frame struct {
	Nodes          []PlacedNode
	Connections    []RoutedConnection
	Selected       NodeID
	Dragging       NodeID
	ConnectingFrom NodeID
}

type dragState struct {
	nodeID     NodeID
	grabOffset Point
}

type connectionMode struct {
	sourceID NodeID
}

// Editor turns user intents into graph mutations. It holds node ids only and
// re-resolves them against the graph on every intent. Not safe for concurrent
// use: intents must arrive one at a time.
type Editor struct {
	graph    *Graph
	layout   Layout
	renderer Renderer
	logger   *log.Logger

	selected   NodeID
	drag       *dragState
	connecting *connectionMode
}

type EditorOption func(*Editor)

func WithLogger(logger *log.Logger) EditorOption {
	return func(e *Editor) { e.logger = logger }
}

func WithRenderer(r Renderer) EditorOption {
	return func(e *Editor) { e.renderer = r }
}

func NewEditor(graph *Graph, layout Layout, opts ...EditorOption) *Editor {
	e := &Editor{
		graph:  graph,
		layout: layout,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GraphView is a read-only window on the editor's graph. Every change goes
// through an Editor intent so the renderer sees it.
type GraphView struct {
	g *Graph
}

func (v GraphView) Node(id NodeID) (Node, bool)                   { return v.g.Node(id) }
func (v GraphView) Connection(id ConnectionID) (Connection, bool) { return v.g.Connection(id) }
func (v GraphView) Nodes() []Node                                 { return v.g.Nodes() }
func (v GraphView) Connections() []Connection                     { return v.g.Connections() }
func (v GraphView) ConnectionsOf(id NodeID) []Connection          { return v.g.ConnectionsOf(id) }
func (v GraphView) NodeCount() int                                { return v.g.NodeCount() }
func (v GraphView) ConnectionCount() int                          { return v.g.ConnectionCount() }

func (e *Editor) Graph() GraphView { return GraphView{g: e.graph} }

func (e *Editor) Selected() (NodeID, bool) {
	return e.selected, e.selected != ""
}

func (e *Editor) ConnectingFrom() (NodeID, bool) {
	if e.connecting == nil {
		return "", false
	}
	return e.connecting.sourceID, true
}

func (e *Editor) Dragging() (NodeID, bool) {
	if e.drag == nil {
		return "", false
	}
	return e.drag.nodeID, true
}

// AddNode places a new node and selects it.
func (e *Editor) AddNode(kind NodeKind, position Point) NodeID {
	id := e.graph.AddNode(kind, position)
	e.selected = id
	e.logger.Debug("node added", "id", id, "kind", kind)
	e.emit()
	return id
}

// Select highlights id. An id that is no longer in the graph clears the selection.
func (e *Editor) Select(id NodeID) {
	if _, ok := e.graph.Node(id); !ok {
		id = ""
	}
	e.selected = id
	e.emit()
}

// Deselect handles a click on empty canvas.
func (e *Editor) Deselect() {
	e.selected = ""
	e.emit()
}

// BeginConnection arms connection mode from the selected node.
func (e *Editor) BeginConnection() error {
	if e.selected == "" {
		return ErrNoSelection
	}
	return e.BeginConnectionFrom(e.selected)
}

// BeginConnectionFrom arms connection mode; sourceID must be the selected node.
func (e *Editor) BeginConnectionFrom(sourceID NodeID) error {
	if e.selected == "" || e.selected != sourceID {
		return ErrNoSelection
	}
	e.connecting = &connectionMode{sourceID: sourceID}
	e.logger.Debug("connection mode", "source", sourceID)
	e.emit()
	return nil
}

// PointerDownOnNode selects the node and starts dragging it. In connection
// mode it then tries to connect the armed source to this node and leaves
// connection mode whatever the outcome. Self-loop and duplicate rejections are
// returned; a vanished endpoint is not.
func (e *Editor) PointerDownOnNode(targetID NodeID, press Point) error {
	if node, ok := e.graph.Node(targetID); ok {
		e.selected = targetID
		e.drag = &dragState{nodeID: targetID, grabOffset: press.Sub(node.Position)}
	}

	var err error
	if e.connecting != nil {
		sourceID := e.connecting.sourceID
		e.connecting = nil

		var id ConnectionID
		id, err = e.graph.AddConnection(sourceID, targetID)
		switch {
		case err == nil:
			conn, _ := e.graph.Connection(id)
			e.logger.Debug("connection added", "id", id, "source", sourceID, "target", targetID,
				"route", e.route(conn).Style)
		case errors.Is(err, ErrNodeNotFound):
			err = nil
		default:
			e.logger.Warn("connection rejected", "source", sourceID, "target", targetID, "err", err)
		}
	}

	e.emit()
	return err
}

// PointerMove drags the active node. The emitted frame re-routes every
// connection from the current rectangles.
func (e *Editor) PointerMove(position Point) {
	if e.drag == nil {
		return
	}
	if _, ok := e.graph.Node(e.drag.nodeID); !ok {
		e.drag = nil
		return
	}
	e.graph.MoveNode(e.drag.nodeID, position.Sub(e.drag.grabOffset))
	e.emit()
}

// PointerUp ends a drag. Selection and connection mode are left alone.
func (e *Editor) PointerUp() {
	if e.drag == nil {
		return
	}
	e.drag = nil
	e.emit()
}

func (e *Editor) CancelConnection() {
	if e.connecting == nil {
		return
	}
	e.connecting = nil
	e.emit()
}

// DeleteNode removes the node and its connections and drops any state that
// still pointed at it.
func (e *Editor) DeleteNode(id NodeID) {
	if _, ok := e.graph.Node(id); !ok {
		return
	}
	removed := len(e.graph.ConnectionsOf(id))
	e.graph.DeleteNode(id)
	if e.selected == id {
		e.selected = ""
	}
	if e.connecting != nil && e.connecting.sourceID == id {
		e.connecting = nil
	}
	if e.drag != nil && e.drag.nodeID == id {
		e.drag = nil
	}
	e.logger.Debug("node deleted", "id", id, "connections", removed)
	e.emit()
}

func (e *Editor) DeleteConnection(id ConnectionID) {
	e.graph.DeleteConnection(id)
	e.emit()
}

func (e *Editor) SetNodeText(id NodeID, text string) {
	e.graph.UpdateNodeText(id, text)
	e.emit()
}

func (e *Editor) SetConnectionLabel(id ConnectionID, label string) {
	e.graph.UpdateConnectionLabel(id, label)
	e.emit()
}

// Frame builds a snapshot of the current state.
func (e *Editor) Frame() Frame {
	nodes := e.graph.Nodes()
	rects := make(map[NodeID]Rect, len(nodes))
	frame := Frame{
		Nodes:       make([]PlacedNode, 0, len(nodes)),
		Connections: make([]RoutedConnection, 0, e.graph.ConnectionCount()),
		Selected:    e.selected,
	}
	for _, node := range nodes {
		rect := e.layout.NodeRect(node)
		rects[node.ID] = rect
		frame.Nodes = append(frame.Nodes, PlacedNode{Node: node, Rect: rect})
	}
	for _, conn := range e.graph.Connections() {
		frame.Connections = append(frame.Connections, RoutedConnection{
			Connection: conn,
			Path:       Route(rects[conn.SourceID], rects[conn.TargetID], conn.ConditionLink),
		})
	}
	if e.drag != nil {
		frame.Dragging = e.drag.nodeID
	}
	if e.connecting != nil {
		frame.ConnectingFrom = e.connecting.sourceID
	}
	return frame
}

func (e *Editor) route(conn Connection) RoutedPath {
	source, _ := e.graph.Node(conn.SourceID)
	target, _ := e.graph.Node(conn.TargetID)
	return Route(e.layout.NodeRect(source), e.layout.NodeRect(target), conn.ConditionLink)
}

func (e *Editor) emit() {
	if e.renderer == nil {
		return
	}
	e.renderer.Render(e.Frame())
}

// NodeAt returns the topmost node under p.
func (f Frame) NodeAt(p Point) (PlacedNode, bool) {
	for i := len(f.Nodes) - 1; i >= 0; i-- {
		if f.Nodes[i].Rect.Contains(p) {
			return f.Nodes[i], true
		}
	}
	return PlacedNode{}, false
}

func (f Frame) Node(id NodeID) (PlacedNode, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PlacedNode{}, false
}

// ConnectionAt finds the connection whose path passes within maxDist of p,
// measured as Manhattan distance to the closest point on any segment.
func (f Frame) ConnectionAt(p Point, maxDist float64) (RoutedConnection, bool) {
	best := -1
	bestDist := maxDist
	for i, conn := range f.Connections {
		for _, seg := range conn.Path.Segments() {
			closest := closestPointOnSegment(seg[0], seg[1], p)
			dist := math.Abs(closest.X-p.X) + math.Abs(closest.Y-p.Y)
			if dist <= bestDist {
				best, bestDist = i, dist
			}
		}
	}
	if best < 0 {
		return RoutedConnection{}, false
	}
	return f.Connections[best], true
}

func closestPointOnSegment(a, b, p Point) Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return a
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))
	return Point{a.X + t*dx, a.Y + t*dy}
}
