package migration

import (
	"strings"

	"github.com/inkforge/vellum/pkg/document"
)

// RuleFunc rewrites one historical schema deviation in place. It reports
// whether it changed anything. An error means the document violated a
// precondition the rule relies on (a field access failed); rules do not
// otherwise re-validate their input.
type RuleFunc func(doc *document.Object) (bool, error)

// Rule is one named, ordered rewrite step of the pipeline.
type Rule struct {
	Name  string
	Apply RuleFunc
}

// Rules returns the fixed, ordered rewrite sequence that upgrades a
// pre-3.0 document to the current schema. Rules may retag nodes or
// remove and merge edges, but never reorder or remove nodes: a node's
// position in the nodes array is its identity and edges reference it
// by index.
func Rules() []Rule {
	return []Rule{
		{Name: "package-description-retag", Apply: retagPackageDescriptionNodes},
		{Name: "self-dependency-removal", Apply: removeSelfDependencies},
		{Name: "dependency-directionality", Apply: addDependencyDirectionality},
		{Name: "dual-dependency-merge", Apply: mergeDualDependencies},
		{Name: "interface-stereotype-strip", Apply: stripInterfaceStereotype},
		{Name: "inverted-association-flip", Apply: flipInvertedAssociations},
		{Name: "association-directionality-rename", Apply: renameAssociationDirectionality},
	}
}

// retagPackageDescriptionNodes turns a PackageNode that carries free-text
// contents and no children into a PackageDescriptionNode; the old schema
// allowed one node kind to do both. A PackageNode with both contents and
// children keeps its type and loses the contents at decode time, matching
// the historical upgrade behavior.
func retagPackageDescriptionNodes(doc *document.Object) (bool, error) {
	nodes, err := doc.Array("nodes")
	if err != nil {
		return false, err
	}
	changed := false
	for i := 0; i < nodes.Len(); i++ {
		node, err := nodes.ObjectAt(i)
		if err != nil {
			return changed, err
		}
		nodeType, err := node.String("type")
		if err != nil {
			return changed, err
		}
		if nodeType == "PackageNode" && node.Has("contents") && !node.Has("children") {
			node.Put("type", "PackageDescriptionNode")
			changed = true
		}
	}
	return changed, nil
}

// removeSelfDependencies drops every DependencyEdge whose start and end
// reference the same node. Surviving edges keep their relative order.
func removeSelfDependencies(doc *document.Object) (bool, error) {
	edges, err := doc.Array("edges")
	if err != nil {
		return false, err
	}
	kept := document.NewArray()
	changed := false
	for i := 0; i < edges.Len(); i++ {
		edge, err := edges.ObjectAt(i)
		if err != nil {
			return changed, err
		}
		edgeType, err := edge.String("type")
		if err != nil {
			return changed, err
		}
		if edgeType == "DependencyEdge" {
			start, err := edge.Int("start")
			if err != nil {
				return changed, err
			}
			end, err := edge.Int("end")
			if err != nil {
				return changed, err
			}
			if start == end {
				changed = true // not kept, which removes it
				continue
			}
		}
		kept.Append(edge)
	}
	doc.Put("edges", kept)
	return changed, nil
}

// addDependencyDirectionality stamps directionality=Unidirectional on
// every DependencyEdge; the old schema had no such field.
func addDependencyDirectionality(doc *document.Object) (bool, error) {
	edges, err := doc.Array("edges")
	if err != nil {
		return false, err
	}
	changed := false
	for i := 0; i < edges.Len(); i++ {
		edge, err := edges.ObjectAt(i)
		if err != nil {
			return changed, err
		}
		edgeType, err := edge.String("type")
		if err != nil {
			return changed, err
		}
		if edgeType == "DependencyEdge" {
			edge.Put("directionality", "Unidirectional")
			changed = true
		}
	}
	return changed, nil
}

// endpointPair keys a dependency by its unordered endpoint indices, so
// an edge a->b and its reverse b->a collide.
type endpointPair struct {
	lo, hi int
}

func pairOf(a, b int) endpointPair {
	if a > b {
		a, b = b, a
	}
	return endpointPair{lo: a, hi: b}
}

// mergeDualDependencies collapses two DependencyEdges running in opposite
// directions between the same two nodes into the first-seen edge, made
// bidirectional, with the middle labels joined by " + " in scan order.
// Other edges pass through and keep their relative order.
func mergeDualDependencies(doc *document.Object) (bool, error) {
	edges, err := doc.Array("edges")
	if err != nil {
		return false, err
	}
	seen := make(map[endpointPair]*document.Object)
	kept := document.NewArray()
	changed := false
	for i := 0; i < edges.Len(); i++ {
		edge, err := edges.ObjectAt(i)
		if err != nil {
			return changed, err
		}
		edgeType, err := edge.String("type")
		if err != nil {
			return changed, err
		}
		if edgeType != "DependencyEdge" {
			kept.Append(edge)
			continue
		}
		start, err := edge.Int("start")
		if err != nil {
			return changed, err
		}
		end, err := edge.Int("end")
		if err != nil {
			return changed, err
		}
		keeper, ok := seen[pairOf(start, end)]
		if !ok {
			seen[pairOf(start, end)] = edge
			kept.Append(edge)
			continue
		}
		keeperLabel, err := keeper.String("middleLabel")
		if err != nil {
			return changed, err
		}
		label, err := edge.String("middleLabel")
		if err != nil {
			return changed, err
		}
		keeper.Put("directionality", "Bidirectional")
		keeper.Put("middleLabel", keeperLabel+" + "+label)
		changed = true
	}
	doc.Put("edges", kept)
	return changed, nil
}

// interfaceStereotype is the guillemet-wrapped marker old releases wrote
// into interface node names.
const interfaceStereotype = "«interface»"

// stripInterfaceStereotype removes the literal «interface» marker from
// InterfaceNode names and trims the surrounding whitespace.
func stripInterfaceStereotype(doc *document.Object) (bool, error) {
	nodes, err := doc.Array("nodes")
	if err != nil {
		return false, err
	}
	changed := false
	for i := 0; i < nodes.Len(); i++ {
		node, err := nodes.ObjectAt(i)
		if err != nil {
			return changed, err
		}
		nodeType, err := node.String("type")
		if err != nil {
			return changed, err
		}
		if nodeType != "InterfaceNode" {
			continue
		}
		name, err := node.String("name")
		if err != nil {
			return changed, err
		}
		if strings.Contains(name, interfaceStereotype) {
			node.Put("name", strings.TrimSpace(strings.ReplaceAll(name, interfaceStereotype, "")))
			changed = true
		}
	}
	return changed, nil
}

// flipInvertedAssociations rewrites an AssociationEdge whose arrow points
// at its start node into the equivalent end-pointing edge on swapped
// endpoints; the current schema has no "Start" directionality.
func flipInvertedAssociations(doc *document.Object) (bool, error) {
	edges, err := doc.Array("edges")
	if err != nil {
		return false, err
	}
	changed := false
	for i := 0; i < edges.Len(); i++ {
		edge, err := edges.ObjectAt(i)
		if err != nil {
			return changed, err
		}
		edgeType, err := edge.String("type")
		if err != nil {
			return changed, err
		}
		if edgeType != "AssociationEdge" {
			continue
		}
		directionality, err := edge.String("directionality")
		if err != nil {
			return changed, err
		}
		if directionality != "Start" {
			continue
		}
		start, err := edge.Int("start")
		if err != nil {
			return changed, err
		}
		end, err := edge.Int("end")
		if err != nil {
			return changed, err
		}
		edge.Put("directionality", "End")
		edge.Put("start", end)
		edge.Put("end", start)
		changed = true
	}
	return changed, nil
}

// renameAssociationDirectionality maps the old association directionality
// spellings onto the current ones: None becomes Unspecified, End becomes
// Unidirectional, Both becomes Bidirectional. Any other value is left
// alone. It reports a change for every AssociationEdge it visits, matching
// the historical migrator, so a document containing association edges is
// always reported as migrated even when no value actually changed.
func renameAssociationDirectionality(doc *document.Object) (bool, error) {
	edges, err := doc.Array("edges")
	if err != nil {
		return false, err
	}
	changed := false
	for i := 0; i < edges.Len(); i++ {
		edge, err := edges.ObjectAt(i)
		if err != nil {
			return changed, err
		}
		edgeType, err := edge.String("type")
		if err != nil {
			return changed, err
		}
		if edgeType != "AssociationEdge" {
			continue
		}
		directionality, err := edge.String("directionality")
		if err != nil {
			return changed, err
		}
		switch directionality {
		case "None":
			edge.Put("directionality", "Unspecified")
		case "End":
			edge.Put("directionality", "Unidirectional")
		case "Both":
			edge.Put("directionality", "Bidirectional")
		}
		changed = true
	}
	return changed, nil
}
