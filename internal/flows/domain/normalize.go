package domain

import (
	"strings"

	"github.com/google/uuid"
)

const (
	defaultNeedLabel          = "Initial Need"
	defaultValidatedNeedLabel = "Validated Need"
)

// Repair enforces the flow invariants on a single feature, in place.
// Model output is always assumed potentially non-compliant, so this runs
// unconditionally after every generation:
//   - a nil node list becomes an empty one (a degenerate flow is allowed);
//   - a missing leading "need" node is synthesized and prepended;
//   - a missing trailing "validated-need" node is synthesized and appended;
//   - blank node ids are filled in.
//
// Repairing an already-valid flow is a no-op apart from id backfill.
func (f *Feature) Repair() {
	if f.Flow.Nodes == nil {
		f.Flow.Nodes = []FlowNode{}
	}

	nodes := f.Flow.Nodes

	if len(nodes) == 0 || nodes[0].Type != NodeNeed {
		label := strings.TrimSpace(f.Name)
		if label == "" {
			label = defaultNeedLabel
		}
		nodes = append([]FlowNode{{
			ID:    uuid.NewString(),
			Type:  NodeNeed,
			Label: label,
		}}, nodes...)
	}

	if nodes[len(nodes)-1].Type != NodeValidatedNeed {
		nodes = append(nodes, FlowNode{
			ID:    uuid.NewString(),
			Type:  NodeValidatedNeed,
			Label: defaultValidatedNeedLabel,
		})
	}

	for i := range nodes {
		if strings.TrimSpace(nodes[i].ID) == "" {
			nodes[i].ID = uuid.NewString()
		}
	}

	f.Flow.Nodes = nodes
}

// Normalize repairs every feature and assigns a fresh collision-resistant id.
// Model-supplied feature ids are never trusted: uniqueness across repeated
// generations cannot be assumed.
func Normalize(features []Feature) []Feature {
	for i := range features {
		features[i].ID = "feature-" + uuid.NewString()
		features[i].Repair()
	}
	return features
}
