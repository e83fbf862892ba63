package main

type NodeKind int

const (
	KindRegular NodeKind = iota
	KindCondition
)

func (k NodeKind) String() string {
	if k == KindCondition {
		return "Condition"
	}
	return "Node"
}

type Node struct {
	ID       NodeID
	Kind     NodeKind
	Text     string
	Position Point
}

type Connection struct {
	ID            ConnectionID
	SourceID      NodeID
	TargetID      NodeID
	ConditionLink bool
	Label         string
}

// Graph owns every node and connection of one diagram. Records are stored by
// value and only ever handed out as copies, so callers hold ids, never handles.
type Graph struct {
	ids IDGenerator

	nodes     map[NodeID]Node
	nodeOrder []NodeID

	connections map[ConnectionID]Connection
	connOrder   []ConnectionID
}

// NewGraph creates an empty graph. A nil generator falls back to counter ids.
func NewGraph(ids IDGenerator) *Graph {
	if ids == nil {
		ids = NewCounterIDs()
	}
	return &Graph{
		ids:         ids,
		nodes:       make(map[NodeID]Node),
		connections: make(map[ConnectionID]Connection),
	}
}

func (g *Graph) AddNode(kind NodeKind, position Point) NodeID {
	id := g.ids.NextNodeID()
	for g.hasNode(id) {
		id = g.ids.NextNodeID()
	}
	g.nodes[id] = Node{ID: id, Kind: kind, Position: position}
	g.nodeOrder = append(g.nodeOrder, id)
	return id
}

func (g *Graph) UpdateNodeText(id NodeID, text string) {
	node, ok := g.nodes[id]
	if !ok {
		return
	}
	node.Text = text
	g.nodes[id] = node
}

// MoveNode does not clamp: dragging past the canvas edge is allowed.
func (g *Graph) MoveNode(id NodeID, position Point) {
	node, ok := g.nodes[id]
	if !ok {
		return
	}
	node.Position = position
	g.nodes[id] = node
}

// DeleteNode removes the node together with every connection touching it.
func (g *Graph) DeleteNode(id NodeID) {
	if !g.hasNode(id) {
		return
	}
	delete(g.nodes, id)
	g.nodeOrder = removeID(g.nodeOrder, id)

	kept := g.connOrder[:0]
	for _, cid := range g.connOrder {
		conn := g.connections[cid]
		if conn.SourceID == id || conn.TargetID == id {
			delete(g.connections, cid)
			continue
		}
		kept = append(kept, cid)
	}
	g.connOrder = kept
}

// AddConnection links source to target. ConditionLink is decided here, from
// the kinds the endpoints have now, and never recomputed.
func (g *Graph) AddConnection(sourceID, targetID NodeID) (ConnectionID, error) {
	if sourceID == targetID {
		return "", ErrSelfLoop
	}
	source, ok := g.nodes[sourceID]
	if !ok {
		return "", ErrNodeNotFound
	}
	target, ok := g.nodes[targetID]
	if !ok {
		return "", ErrNodeNotFound
	}
	for _, cid := range g.connOrder {
		conn := g.connections[cid]
		if conn.SourceID == sourceID && conn.TargetID == targetID {
			return "", ErrDuplicateConnection
		}
	}

	id := g.ids.NextConnectionID()
	for g.hasConnection(id) {
		id = g.ids.NextConnectionID()
	}
	g.connections[id] = Connection{
		ID:            id,
		SourceID:      sourceID,
		TargetID:      targetID,
		ConditionLink: source.Kind == KindCondition || target.Kind == KindCondition,
	}
	g.connOrder = append(g.connOrder, id)
	return id, nil
}

// UpdateConnectionLabel ignores condition links; they never carry a label.
func (g *Graph) UpdateConnectionLabel(id ConnectionID, label string) {
	conn, ok := g.connections[id]
	if !ok || conn.ConditionLink {
		return
	}
	conn.Label = label
	g.connections[id] = conn
}

func (g *Graph) DeleteConnection(id ConnectionID) {
	if !g.hasConnection(id) {
		return
	}
	delete(g.connections, id)
	g.connOrder = removeID(g.connOrder, id)
}

func (g *Graph) Node(id NodeID) (Node, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

func (g *Graph) Connection(id ConnectionID) (Connection, bool) {
	conn, ok := g.connections[id]
	return conn, ok
}

// Nodes returns a copy of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Connections returns a copy of all connections in insertion order.
func (g *Graph) Connections() []Connection {
	conns := make([]Connection, 0, len(g.connOrder))
	for _, id := range g.connOrder {
		conns = append(conns, g.connections[id])
	}
	return conns
}

// ConnectionsOf lists the connections that start or end at id.
func (g *Graph) ConnectionsOf(id NodeID) []Connection {
	var conns []Connection
	for _, cid := range g.connOrder {
		conn := g.connections[cid]
		if conn.SourceID == id || conn.TargetID == id {
			conns = append(conns, conn)
		}
	}
	return conns
}

func (g *Graph) NodeCount() int       { return len(g.nodeOrder) }
func (g *Graph) ConnectionCount() int { return len(g.connOrder) }

func (g *Graph) hasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) hasConnection(id ConnectionID) bool {
	_, ok := g.connections[id]
	return ok
}

func removeID[T comparable](ids []T, id T) []T {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
