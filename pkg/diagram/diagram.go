// Package diagram defines the typed in-memory diagram model and the
// decoder that builds it from a schema-conformant document tree.
package diagram

// Node kind discriminators of the current schema.
const (
	ClassNode              = "ClassNode"
	InterfaceNode          = "InterfaceNode"
	PackageNode            = "PackageNode"
	PackageDescriptionNode = "PackageDescriptionNode"
	NoteNode               = "NoteNode"
	PointNode              = "PointNode"
)

// Edge kind discriminators of the current schema.
const (
	DependencyEdge     = "DependencyEdge"
	AssociationEdge    = "AssociationEdge"
	GeneralizationEdge = "GeneralizationEdge"
	AggregationEdge    = "AggregationEdge"
	NoteEdge           = "NoteEdge"
)

// Directionality values of the current schema.
const (
	DirectionalityUnspecified    = "Unspecified"
	DirectionalityUnidirectional = "Unidirectional"
	DirectionalityBidirectional  = "Bidirectional"
)

// Diagram is the decoded domain model of one saved diagram.
type Diagram struct {
	Type  string // e.g. "ClassDiagram"; empty in very old files
	Nodes []Node
	Edges []Edge
}

// Node is one diagram element. Its index in Diagram.Nodes is its identity;
// edges reference nodes by that index.
type Node struct {
	Type string
	X    int
	Y    int

	// Properties holds the kind-specific fields (name, contents,
	// children, ...) keyed by their document field name.
	Properties map[string]any
}

// Edge connects two nodes by index.
type Edge struct {
	Type  string
	Start int
	End   int

	// Properties holds the kind-specific fields (directionality,
	// middleLabel, ...) keyed by their document field name.
	Properties map[string]any
}
