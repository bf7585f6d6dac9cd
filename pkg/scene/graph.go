// pkg/scene/graph.go
package scene

import "sync"

// NodeID identifies a node in the live graph. Zero is never assigned.
type NodeID uint64

// NodeKind classifies graph nodes for drawers
type NodeKind int

const (
	KindMesh NodeKind = iota
	KindLine
	KindPoints
	KindLight
)

func (k NodeKind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindLine:
		return "line"
	case KindPoints:
		return "points"
	case KindLight:
		return "light"
	default:
		return "unknown"
	}
}

// Node is anything that can be attached to the graph
type Node interface {
	Kind() NodeKind
}

// Graph is the live set of drawable nodes, kept in insertion order.
type Graph struct {
	mu     sync.RWMutex
	nodes  map[NodeID]Node
	order  []NodeID
	nextID NodeID
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		nodes:  make(map[NodeID]Node),
		nextID: 1,
	}
}

// Add attaches n and returns its ID
func (g *Graph) Add(n Node) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextID
	g.nextID++
	g.nodes[id] = n
	g.order = append(g.order, id)
	return id
}

// Remove detaches the node with id. Returns false if it was not attached.
func (g *Graph) Remove(id NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; !ok {
		return false
	}
	delete(g.nodes, id)
	for i, oid := range g.order {
		if oid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether id is attached
func (g *Graph) Contains(id NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of attached nodes
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Each calls fn for every attached node in insertion order.
// fn must not modify the graph.
func (g *Graph) Each(fn func(NodeID, Node)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, id := range g.order {
		fn(id, g.nodes[id])
	}
}
