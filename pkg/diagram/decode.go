package diagram

import (
	"errors"
	"fmt"

	"github.com/inkforge/vellum/pkg/document"
)

// ErrMalformedDocument is wrapped when a document does not meet the
// current schema's structural expectations: a required field is missing
// or mistyped, or an edge references a node index that does not exist.
var ErrMalformedDocument = errors.New("malformed document")

// Decode builds the typed diagram model from a document tree that
// conforms to the current schema. It validates field presence, field
// types, and edge endpoint ranges; it does not validate diagram
// semantics beyond that.
func Decode(doc *document.Object) (*Diagram, error) {
	d := &Diagram{}

	if doc.Has("diagram") {
		diagramType, err := doc.String("diagram")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		d.Type = diagramType
	}

	nodes, err := doc.Array("nodes")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	d.Nodes = make([]Node, 0, nodes.Len())
	for i := 0; i < nodes.Len(); i++ {
		node, err := decodeNode(nodes, i)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		d.Nodes = append(d.Nodes, node)
	}

	edges, err := doc.Array("edges")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	d.Edges = make([]Edge, 0, edges.Len())
	for i := 0; i < edges.Len(); i++ {
		edge, err := decodeEdge(edges, i, len(d.Nodes))
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		d.Edges = append(d.Edges, edge)
	}

	return d, nil
}

func decodeNode(nodes *document.Array, i int) (Node, error) {
	obj, err := nodes.ObjectAt(i)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	nodeType, err := obj.String("type")
	if err != nil {
		return Node{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	node := Node{Type: nodeType, Properties: make(map[string]any)}
	for _, key := range obj.Keys() {
		value, _ := obj.Get(key)
		switch key {
		case "type":
		case "x":
			x, ok := value.(int)
			if !ok {
				return Node{}, fmt.Errorf("%w: %q is %T, expected int", ErrMalformedDocument, key, value)
			}
			node.X = x
		case "y":
			y, ok := value.(int)
			if !ok {
				return Node{}, fmt.Errorf("%w: %q is %T, expected int", ErrMalformedDocument, key, value)
			}
			node.Y = y
		default:
			node.Properties[key] = value
		}
	}
	return node, nil
}

func decodeEdge(edges *document.Array, i, nodeCount int) (Edge, error) {
	obj, err := edges.ObjectAt(i)
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	edgeType, err := obj.String("type")
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	start, err := obj.Int("start")
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	end, err := obj.Int("end")
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if start < 0 || start >= nodeCount {
		return Edge{}, fmt.Errorf("%w: start index %d out of range [0,%d)", ErrMalformedDocument, start, nodeCount)
	}
	if end < 0 || end >= nodeCount {
		return Edge{}, fmt.Errorf("%w: end index %d out of range [0,%d)", ErrMalformedDocument, end, nodeCount)
	}

	edge := Edge{Type: edgeType, Start: start, End: end, Properties: make(map[string]any)}
	for _, key := range obj.Keys() {
		if key == "type" || key == "start" || key == "end" {
			continue
		}
		value, _ := obj.Get(key)
		edge.Properties[key] = value
	}
	return edge, nil
}
