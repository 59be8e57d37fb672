package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepair_EmptyFlowGetsBothEndpoints(t *testing.T) {
	f := Feature{Name: "Checkout", Flow: UserFlow{}}
	f.Repair()

	require.Len(t, f.Flow.Nodes, 2)
	assert.Equal(t, NodeNeed, f.Flow.Nodes[0].Type)
	assert.Equal(t, "Checkout", f.Flow.Nodes[0].Label)
	assert.Equal(t, NodeValidatedNeed, f.Flow.Nodes[1].Type)
	assert.Equal(t, "Validated Need", f.Flow.Nodes[1].Label)
	require.NoError(t, f.Validate())
}

func TestRepair_UnnamedFeatureUsesDefaultNeedLabel(t *testing.T) {
	f := Feature{Flow: UserFlow{}}
	f.Repair()

	require.Len(t, f.Flow.Nodes, 2)
	assert.Equal(t, "Initial Need", f.Flow.Nodes[0].Label)
}

func TestRepair_PrependsAndAppendsAroundExistingNodes(t *testing.T) {
	f := Feature{
		Name: "Login",
		Flow: UserFlow{Nodes: []FlowNode{
			{ID: "a", Type: NodeAction, Label: "Enter email"},
			{ID: "b", Type: NodeAction, Label: "Enter password"},
		}},
	}
	f.Repair()

	require.Len(t, f.Flow.Nodes, 4)
	assert.Equal(t, NodeNeed, f.Flow.Nodes[0].Type)
	assert.Equal(t, "Enter email", f.Flow.Nodes[1].Label)
	assert.Equal(t, "Enter password", f.Flow.Nodes[2].Label)
	assert.Equal(t, NodeValidatedNeed, f.Flow.Nodes[3].Type)
	require.NoError(t, f.Validate())
}

func TestRepair_IdempotentOnValidFlow(t *testing.T) {
	f := Feature{
		Name: "Search",
		Flow: UserFlow{Nodes: []FlowNode{
			{ID: "1", Type: NodeNeed, Label: "Find a product"},
			{ID: "2", Type: NodeAction, Label: "Type query"},
			{ID: "3", Type: NodeValidatedNeed, Label: "Product found"},
		}},
	}
	f.Repair()
	require.Len(t, f.Flow.Nodes, 3, "repair must not duplicate endpoints")

	// Run it again: still a no-op.
	before := make([]FlowNode, len(f.Flow.Nodes))
	copy(before, f.Flow.Nodes)
	f.Repair()
	assert.Equal(t, before, f.Flow.Nodes)
}

func TestRepair_FillsBlankNodeIDs(t *testing.T) {
	f := Feature{
		Name: "X",
		Flow: UserFlow{Nodes: []FlowNode{
			{Type: NodeNeed, Label: "n"},
			{Type: NodeValidatedNeed, Label: "v"},
		}},
	}
	f.Repair()

	for _, n := range f.Flow.Nodes {
		assert.NotEmpty(t, n.ID)
	}
}

func TestNormalize_AssignsFreshFeatureIDs(t *testing.T) {
	features := []Feature{
		{ID: "model-said-1", Name: "A"},
		{ID: "model-said-1", Name: "B"},
	}
	out := Normalize(features)

	require.Len(t, out, 2)
	assert.NotEqual(t, "model-said-1", out[0].ID)
	assert.NotEqual(t, out[0].ID, out[1].ID)
	for _, f := range out {
		require.NoError(t, f.Validate())
	}
}

func TestApplyNodeUpdate(t *testing.T) {
	f := Feature{
		Flow: UserFlow{Nodes: []FlowNode{
			{ID: "n1", Type: NodeNeed, Label: "old"},
			{ID: "n2", Type: NodeDescription, Label: "desc", Details: []string{"a"}},
		}},
	}

	label := "new"
	assert.True(t, f.ApplyNodeUpdate("n1", NodeUpdate{Label: &label}))
	assert.Equal(t, "new", f.Flow.Nodes[0].Label)

	assert.True(t, f.ApplyNodeUpdate("n2", NodeUpdate{Details: []string{"a", "b"}}))
	assert.Equal(t, []string{"a", "b"}, f.Flow.Nodes[1].Details)
	assert.Equal(t, "desc", f.Flow.Nodes[1].Label, "label untouched when nil")

	assert.False(t, f.ApplyNodeUpdate("missing", NodeUpdate{Label: &label}))
}

func TestConfigFor_CoversAllTypesAndFallsBack(t *testing.T) {
	types := []NodeType{
		NodeNeed, NodeValidatedNeed, NodeAction, NodeInformation,
		NodeDescription, NodePainPoint, NodeQuestion,
	}
	for _, typ := range types {
		cfg := ConfigFor(typ)
		assert.NotEmpty(t, cfg.Label, "type %s", typ)
		assert.NotEmpty(t, cfg.Shape, "type %s", typ)
	}

	assert.Equal(t, ShapeCylinder, ConfigFor(NodeNeed).Shape)
	assert.Equal(t, ShapeCylinder, ConfigFor(NodeValidatedNeed).Shape)
	assert.Equal(t, ShapeIcon, ConfigFor(NodeQuestion).Shape)
	assert.Equal(t, ConfigFor(NodeInformation), ConfigFor(NodeType("bogus")))
}
