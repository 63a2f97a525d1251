package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkforge/vellum/pkg/document"
)

func mustParse(t *testing.T, raw string) *document.Object {
	t.Helper()
	doc, err := document.Parse([]byte(raw))
	require.NoError(t, err)
	return doc
}

func edgeAt(t *testing.T, doc *document.Object, i int) *document.Object {
	t.Helper()
	edges, err := doc.Array("edges")
	require.NoError(t, err)
	edge, err := edges.ObjectAt(i)
	require.NoError(t, err)
	return edge
}

func nodeAt(t *testing.T, doc *document.Object, i int) *document.Object {
	t.Helper()
	nodes, err := doc.Array("nodes")
	require.NoError(t, err)
	node, err := nodes.ObjectAt(i)
	require.NoError(t, err)
	return node
}

func edgeCount(t *testing.T, doc *document.Object) int {
	t.Helper()
	edges, err := doc.Array("edges")
	require.NoError(t, err)
	return edges.Len()
}

func fieldString(t *testing.T, obj *document.Object, key string) string {
	t.Helper()
	s, err := obj.String(key)
	require.NoError(t, err)
	return s
}

func fieldInt(t *testing.T, obj *document.Object, key string) int {
	t.Helper()
	n, err := obj.Int(key)
	require.NoError(t, err)
	return n
}

func TestRetagPackageDescriptionNodes(t *testing.T) {
	tests := []struct {
		name        string
		node        string
		wantType    string
		wantChanged bool
	}{
		{
			name:        "contents and no children is retagged",
			node:        `{"type":"PackageNode","name":"p","contents":"x"}`,
			wantType:    "PackageDescriptionNode",
			wantChanged: true,
		},
		{
			name:        "contents and children keeps type",
			node:        `{"type":"PackageNode","name":"p","contents":"x","children":[]}`,
			wantType:    "PackageNode",
			wantChanged: false,
		},
		{
			name:        "children only keeps type",
			node:        `{"type":"PackageNode","name":"p","children":[]}`,
			wantType:    "PackageNode",
			wantChanged: false,
		},
		{
			name:        "other node kinds untouched",
			node:        `{"type":"ClassNode","name":"p","contents":"x"}`,
			wantType:    "ClassNode",
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, `{"nodes":[`+tt.node+`],"edges":[]}`)

			changed, err := retagPackageDescriptionNodes(doc)
			require.NoError(t, err)

			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantType, fieldString(t, nodeAt(t, doc, 0), "type"))
		})
	}
}

func TestRemoveSelfDependencies(t *testing.T) {
	doc := mustParse(t, `{"nodes":[{"type":"ClassNode"},{"type":"ClassNode"}],"edges":[`+
		`{"type":"DependencyEdge","start":0,"end":0,"middleLabel":"self"},`+
		`{"type":"DependencyEdge","start":0,"end":1,"middleLabel":"keep"},`+
		`{"type":"NoteEdge","start":1,"end":1}]}`)

	changed, err := removeSelfDependencies(doc)
	require.NoError(t, err)

	assert.True(t, changed)
	require.Equal(t, 2, edgeCount(t, doc))
	// Survivors keep their relative order; the self-referencing NoteEdge
	// is not a DependencyEdge and stays.
	assert.Equal(t, "keep", fieldString(t, edgeAt(t, doc, 0), "middleLabel"))
	assert.Equal(t, "NoteEdge", fieldString(t, edgeAt(t, doc, 1), "type"))
}

func TestRemoveSelfDependenciesNoop(t *testing.T) {
	doc := mustParse(t, `{"nodes":[{"type":"ClassNode"},{"type":"ClassNode"}],"edges":[`+
		`{"type":"DependencyEdge","start":0,"end":1,"middleLabel":""}]}`)

	changed, err := removeSelfDependencies(doc)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, edgeCount(t, doc))
}

func TestAddDependencyDirectionality(t *testing.T) {
	doc := mustParse(t, `{"nodes":[{"type":"ClassNode"},{"type":"ClassNode"}],"edges":[`+
		`{"type":"DependencyEdge","start":0,"end":1,"middleLabel":""},`+
		`{"type":"NoteEdge","start":0,"end":1}]}`)

	changed, err := addDependencyDirectionality(doc)
	require.NoError(t, err)

	// The flag is set whenever at least one DependencyEdge exists, even
	// if a previous pass already stamped the field.
	assert.True(t, changed)
	assert.Equal(t, "Unidirectional", fieldString(t, edgeAt(t, doc, 0), "directionality"))
	assert.False(t, edgeAt(t, doc, 1).Has("directionality"))
}

func TestAddDependencyDirectionalityNoDependencies(t *testing.T) {
	doc := mustParse(t, `{"nodes":[{"type":"ClassNode"}],"edges":[{"type":"NoteEdge","start":0,"end":0}]}`)

	changed, err := addDependencyDirectionality(doc)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestMergeDualDependencies(t *testing.T) {
	doc := mustParse(t, `{"nodes":[{"type":"ClassNode"},{"type":"ClassNode"},{"type":"ClassNode"},{"type":"ClassNode"},{"type":"ClassNode"},{"type":"ClassNode"}],"edges":[`+
		`{"type":"DependencyEdge","start":2,"end":5,"directionality":"Unidirectional","middleLabel":"A"},`+
		`{"type":"NoteEdge","start":0,"end":1},`+
		`{"type":"DependencyEdge","start":5,"end":2,"directionality":"Unidirectional","middleLabel":"B"}]}`)

	changed, err := mergeDualDependencies(doc)
	require.NoError(t, err)

	assert.True(t, changed)
	require.Equal(t, 2, edgeCount(t, doc))

	keeper := edgeAt(t, doc, 0)
	assert.Equal(t, 2, fieldInt(t, keeper, "start"))
	assert.Equal(t, 5, fieldInt(t, keeper, "end"))
	assert.Equal(t, "Bidirectional", fieldString(t, keeper, "directionality"))
	assert.Equal(t, "A + B", fieldString(t, keeper, "middleLabel"))

	// Non-dependency edges pass through in position.
	assert.Equal(t, "NoteEdge", fieldString(t, edgeAt(t, doc, 1), "type"))
}

func TestMergeDualDependenciesDistinctPairsKept(t *testing.T) {
	doc := mustParse(t, `{"nodes":[{"type":"ClassNode"},{"type":"ClassNode"},{"type":"ClassNode"}],"edges":[`+
		`{"type":"DependencyEdge","start":0,"end":1,"directionality":"Unidirectional","middleLabel":"a"},`+
		`{"type":"DependencyEdge","start":1,"end":2,"directionality":"Unidirectional","middleLabel":"b"}]}`)

	changed, err := mergeDualDependencies(doc)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 2, edgeCount(t, doc))
}

func TestStripInterfaceStereotype(t *testing.T) {
	tests := []struct {
		name        string
		node        string
		wantName    string
		wantChanged bool
	}{
		{
			name:        "leading stereotype stripped and trimmed",
			node:        `{"type":"InterfaceNode","name":"«interface» Shape"}`,
			wantName:    "Shape",
			wantChanged: true,
		},
		{
			name:        "stereotype only becomes empty",
			node:        `{"type":"InterfaceNode","name":"«interface»"}`,
			wantName:    "",
			wantChanged: true,
		},
		{
			name:        "plain name untouched",
			node:        `{"type":"InterfaceNode","name":"Shape"}`,
			wantName:    "Shape",
			wantChanged: false,
		},
		{
			name:        "non-interface node untouched",
			node:        `{"type":"ClassNode","name":"«interface» Shape"}`,
			wantName:    "«interface» Shape",
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, `{"nodes":[`+tt.node+`],"edges":[]}`)

			changed, err := stripInterfaceStereotype(doc)
			require.NoError(t, err)

			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantName, fieldString(t, nodeAt(t, doc, 0), "name"))
		})
	}
}

func TestFlipInvertedAssociations(t *testing.T) {
	doc := mustParse(t, `{"nodes":[{"type":"ClassNode"},{"type":"ClassNode"},{"type":"ClassNode"}],"edges":[`+
		`{"type":"AssociationEdge","start":1,"end":2,"directionality":"Start"},`+
		`{"type":"AssociationEdge","start":0,"end":1,"directionality":"End"}]}`)

	changed, err := flipInvertedAssociations(doc)
	require.NoError(t, err)
	assert.True(t, changed)

	flipped := edgeAt(t, doc, 0)
	assert.Equal(t, 2, fieldInt(t, flipped, "start"))
	assert.Equal(t, 1, fieldInt(t, flipped, "end"))
	assert.Equal(t, "End", fieldString(t, flipped, "directionality"))

	untouched := edgeAt(t, doc, 1)
	assert.Equal(t, 0, fieldInt(t, untouched, "start"))
	assert.Equal(t, "End", fieldString(t, untouched, "directionality"))
}

func TestRenameAssociationDirectionality(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "none", in: "None", want: "Unspecified"},
		{name: "end", in: "End", want: "Unidirectional"},
		{name: "both", in: "Both", want: "Bidirectional"},
		{name: "unmatched value left as-is", in: "Unspecified", want: "Unspecified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, `{"nodes":[{"type":"ClassNode"},{"type":"ClassNode"}],"edges":[`+
				`{"type":"AssociationEdge","start":0,"end":1,"directionality":"`+tt.in+`"}]}`)

			changed, err := renameAssociationDirectionality(doc)
			require.NoError(t, err)

			// The historical migrator reports a change for every
			// association edge it visits, matched or not.
			assert.True(t, changed)
			assert.Equal(t, tt.want, fieldString(t, edgeAt(t, doc, 0), "directionality"))
		})
	}
}

func TestRenameAssociationDirectionalityNoAssociations(t *testing.T) {
	doc := mustParse(t, `{"nodes":[{"type":"ClassNode"}],"edges":[{"type":"NoteEdge","start":0,"end":0}]}`)

	changed, err := renameAssociationDirectionality(doc)
	require.NoError(t, err)
	assert.False(t, changed)
}
