package domain

// NodeConfig binds a node type to its fixed visual rendering.
type NodeConfig struct {
	Label     string    `json:"label"`
	Color     string    `json:"color"`
	BgColor   string    `json:"bgColor"`
	TextColor string    `json:"textColor"`
	Shape     NodeShape `json:"shape"`
}

// nodeConfigs is the static shape/color table. Rendering is a pure lookup,
// never per-type branching in the renderer itself.
var nodeConfigs = map[NodeType]NodeConfig{
	NodeNeed: {
		Label:     "Need",
		Color:     "#8B5CF6",
		BgColor:   "#8B5CF6",
		TextColor: "#FFFFFF",
		Shape:     ShapeCylinder,
	},
	NodeValidatedNeed: {
		Label:     "Validated Need",
		Color:     "#3B82F6",
		BgColor:   "#3B82F6",
		TextColor: "#FFFFFF",
		Shape:     ShapeCylinder,
	},
	NodeAction: {
		Label:     "Action",
		Color:     "#22C55E",
		BgColor:   "#22C55E",
		TextColor: "#FFFFFF",
		Shape:     ShapeRoundedRect,
	},
	NodeInformation: {
		Label:     "Information",
		Color:     "#EAB308",
		BgColor:   "#EAB308",
		TextColor: "#000000",
		Shape:     ShapeRoundedRect,
	},
	NodeDescription: {
		Label:     "Description",
		Color:     "#FDE047",
		BgColor:   "#FDE047",
		TextColor: "#000000",
		Shape:     ShapeRoundedRect,
	},
	NodePainPoint: {
		Label:     "Pain Point",
		Color:     "#F472B6",
		BgColor:   "#F472B6",
		TextColor: "#000000",
		Shape:     ShapeRoundedRect,
	},
	NodeQuestion: {
		Label:     "Question",
		Color:     "#8B5CF6",
		BgColor:   "#1E1E24",
		TextColor: "#8B5CF6",
		Shape:     ShapeIcon,
	},
}

// ConfigFor returns the visual configuration for a node type. Unknown types
// fall back to the information style so a renderer never draws nothing.
func ConfigFor(t NodeType) NodeConfig {
	if cfg, ok := nodeConfigs[t]; ok {
		return cfg
	}
	return nodeConfigs[NodeInformation]
}
