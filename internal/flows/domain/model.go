package domain

import (
	"fmt"
	"time"
)

// NodeType is the closed set of semantic roles a flow step can have.
// The generation prompt and the renderer both depend on this exact vocabulary.
type NodeType string

const (
	NodeNeed          NodeType = "need"
	NodeValidatedNeed NodeType = "validated-need"
	NodeAction        NodeType = "action"
	NodeInformation   NodeType = "information"
	NodeDescription   NodeType = "description"
	NodePainPoint     NodeType = "pain-point"
	NodeQuestion      NodeType = "question"
)

func (t NodeType) Valid() bool {
	switch t {
	case NodeNeed, NodeValidatedNeed, NodeAction, NodeInformation,
		NodeDescription, NodePainPoint, NodeQuestion:
		return true
	}
	return false
}

type NodeShape string

const (
	ShapeRoundedRect   NodeShape = "rounded-rect"
	ShapeRect          NodeShape = "rect"
	ShapeParallelogram NodeShape = "parallelogram"
	ShapeCylinder      NodeShape = "cylinder"
	ShapeDiamond       NodeShape = "diamond"
	ShapeIcon          NodeShape = "icon"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Branch string

const (
	BranchYes Branch = "Yes"
	BranchNo  Branch = "No"
)

// FlowNode is a single step in a user journey.
type FlowNode struct {
	ID              string   `json:"id"`
	Type            NodeType `json:"type"`
	Label           string   `json:"label"`
	ConnectionLabel string   `json:"connectionLabel,omitempty"`
	Branch          Branch   `json:"branch,omitempty"`
	Details         []string `json:"details,omitempty"`
}

// UserFlow is an ordered node sequence. There is no edge list: node i
// connects to node i+1.
type UserFlow struct {
	Nodes []FlowNode `json:"nodes"`
}

// Feature is one distinct user journey extracted from the input.
type Feature struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Flow        UserFlow `json:"flow"`
}

// SavedFlow is a named, timestamped bundle of features from one generation
// session. It is the unit of history and persistence.
type SavedFlow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Features  []Feature `json:"features"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NodeUpdate carries an in-place edit of a node's editable fields.
// Nil means "leave unchanged".
type NodeUpdate struct {
	Label   *string  `json:"label,omitempty"`
	Details []string `json:"details,omitempty"`
}

// Validate reports the first flow invariant violation, if any.
// Repaired flows always pass.
func (f *Feature) Validate() error {
	nodes := f.Flow.Nodes
	if len(nodes) == 0 {
		return fmt.Errorf("feature %q: flow has no nodes", f.Name)
	}
	if nodes[0].Type != NodeNeed {
		return fmt.Errorf("feature %q: first node is %q, want %q", f.Name, nodes[0].Type, NodeNeed)
	}
	if last := nodes[len(nodes)-1]; last.Type != NodeValidatedNeed {
		return fmt.Errorf("feature %q: last node is %q, want %q", f.Name, last.Type, NodeValidatedNeed)
	}
	for i, n := range nodes {
		if !n.Type.Valid() {
			return fmt.Errorf("feature %q: node %d has unknown type %q", f.Name, i, n.Type)
		}
	}
	return nil
}

// ApplyNodeUpdate edits a node in place by id. Returns false when the node
// does not exist in this feature.
func (f *Feature) ApplyNodeUpdate(nodeID string, upd NodeUpdate) bool {
	for i := range f.Flow.Nodes {
		if f.Flow.Nodes[i].ID != nodeID {
			continue
		}
		if upd.Label != nil {
			f.Flow.Nodes[i].Label = *upd.Label
		}
		if upd.Details != nil {
			f.Flow.Nodes[i].Details = upd.Details
		}
		return true
	}
	return false
}
