package whiteboard

import (
	"strings"

	"github.com/flowforge-labs/flowforge-backend/internal/flows/domain"
)

type EditorState int

const (
	Viewing EditorState = iota
	Editing
)

// CommitFunc pushes a committed edit to the host, keyed by (featureID, nodeID).
type CommitFunc func(featureID, nodeID string, upd domain.NodeUpdate)

// NodeEditor is the inline edit state machine for a single node:
// Viewing -> (double-click | edit affordance) -> Editing
// Editing -> (Enter | Save) -> Viewing, committing the draft
// Editing -> (Escape | Cancel) -> Viewing, discarding the draft only.
type NodeEditor struct {
	featureID string
	node      domain.FlowNode
	commit    CommitFunc

	state        EditorState
	draftLabel   string
	draftDetails string
}

func NewNodeEditor(featureID string, node domain.FlowNode, commit CommitFunc) *NodeEditor {
	return &NodeEditor{featureID: featureID, node: node, commit: commit}
}

func (e *NodeEditor) State() EditorState { return e.state }

// Begin enters edit mode, seeding the drafts from the committed node.
// Details are editable as newline-delimited text, only for description nodes.
func (e *NodeEditor) Begin() {
	if e.state == Editing {
		return
	}
	e.state = Editing
	e.draftLabel = e.node.Label
	if e.node.Type == domain.NodeDescription {
		e.draftDetails = strings.Join(e.node.Details, "\n")
	}
}

func (e *NodeEditor) SetLabel(label string)  { e.draftLabel = label }
func (e *NodeEditor) SetDetails(text string) { e.draftDetails = text }
func (e *NodeEditor) DraftLabel() string     { return e.draftLabel }
func (e *NodeEditor) DraftDetails() string   { return e.draftDetails }
func (e *NodeEditor) EditsDetails() bool     { return e.node.Type == domain.NodeDescription }

// Commit applies the draft to the committed node and notifies the host.
func (e *NodeEditor) Commit() {
	if e.state != Editing {
		return
	}

	upd := domain.NodeUpdate{}
	label := strings.TrimSpace(e.draftLabel)
	if label != "" && label != e.node.Label {
		upd.Label = &label
		e.node.Label = label
	}

	if e.EditsDetails() {
		details := splitDetails(e.draftDetails)
		upd.Details = details
		e.node.Details = details
	}

	if e.commit != nil && (upd.Label != nil || upd.Details != nil) {
		e.commit(e.featureID, e.node.ID, upd)
	}
	e.state = Viewing
}

// Cancel discards the draft; the committed node is untouched.
func (e *NodeEditor) Cancel() {
	e.state = Viewing
	e.draftLabel = ""
	e.draftDetails = ""
}

// Node returns the committed node as the editor last saw it.
func (e *NodeEditor) Node() domain.FlowNode { return e.node }

func splitDetails(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
