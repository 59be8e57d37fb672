// Package export renders a user flow as a standalone SVG document for the
// export affordance on paid plans.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/flowforge-labs/flowforge-backend/internal/flows/domain"
)

const (
	nodeWidth    = 180.0
	nodeHeight   = 80.0
	nodeGap      = 70.0
	marginX      = 40.0
	marginY      = 60.0
	detailLine   = 16.0
	labelFont    = "13"
	detailFont   = "11"
	branchOffset = 18.0
	background   = "#0A0A0F"
)

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// SVG renders the node sequence as a horizontal flow with connection arrows.
// Shapes and colors come from the static node configuration table.
func SVG(flow domain.UserFlow) []byte {
	var buf bytes.Buffer

	width := marginX*2 + float64(len(flow.Nodes))*nodeWidth + float64(max(len(flow.Nodes)-1, 0))*nodeGap
	height := marginY*2 + nodeHeight + extraDetailHeight(flow)

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `<rect width="%.0f" height="%.0f" fill="%s"/>`+"\n", width, height, background)

	for i, node := range flow.Nodes {
		x := marginX + float64(i)*(nodeWidth+nodeGap)
		y := marginY

		if i < len(flow.Nodes)-1 {
			drawArrow(&buf, x+nodeWidth, y+nodeHeight/2, x+nodeWidth+nodeGap, node.ConnectionLabel)
		}
		drawNode(&buf, node, x, y)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func drawNode(buf *bytes.Buffer, node domain.FlowNode, x, y float64) {
	cfg := domain.ConfigFor(node.Type)
	cx := x + nodeWidth/2

	switch cfg.Shape {
	case domain.ShapeCylinder:
		drawCylinder(buf, x, y, cfg)
	case domain.ShapeDiamond:
		fmt.Fprintf(buf, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" stroke="%s"/>`+"\n",
			cx, y, x+nodeWidth, y+nodeHeight/2, cx, y+nodeHeight, x, y+nodeHeight/2, cfg.BgColor, cfg.Color)
	case domain.ShapeParallelogram:
		skew := 18.0
		fmt.Fprintf(buf, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" stroke="%s"/>`+"\n",
			x+skew, y, x+nodeWidth, y, x+nodeWidth-skew, y+nodeHeight, x, y+nodeHeight, cfg.BgColor, cfg.Color)
	case domain.ShapeIcon:
		fmt.Fprintf(buf, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s"/>`+"\n",
			cx, y+nodeHeight/2, nodeHeight/2, cfg.BgColor, cfg.Color)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="24" fill="%s">?</text>`+"\n",
			cx, y+nodeHeight/2+8, cfg.TextColor)
	case domain.ShapeRect:
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s"/>`+"\n",
			x, y, nodeWidth, nodeHeight, cfg.BgColor, cfg.Color)
	default: // rounded-rect
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="12" fill="%s" stroke="%s"/>`+"\n",
			x, y, nodeWidth, nodeHeight, cfg.BgColor, cfg.Color)
	}

	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="%s" fill="%s">%s</text>`+"\n",
		cx, y+nodeHeight/2+4, labelFont, cfg.TextColor, textEscaper.Replace(node.Label))

	if node.Branch != "" {
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="%s" fill="#94A3B8">%s</text>`+"\n",
			cx, y-branchOffset, detailFont, textEscaper.Replace(string(node.Branch)))
	}

	// Description bullets render under the shape.
	if node.Type == domain.NodeDescription {
		for j, detail := range node.Details {
			fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="%s" fill="#CBD5E1">- %s</text>`+"\n",
				cx, y+nodeHeight+detailLine*float64(j+1)+8, detailFont, textEscaper.Replace(detail))
		}
	}
}

func drawCylinder(buf *bytes.Buffer, x, y float64, cfg domain.NodeConfig) {
	ry := 12.0
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		x, y+ry, nodeWidth, nodeHeight-2*ry, cfg.BgColor)
	fmt.Fprintf(buf, `<ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" stroke="%s"/>`+"\n",
		x+nodeWidth/2, y+ry, nodeWidth/2, ry, cfg.BgColor, cfg.Color)
	fmt.Fprintf(buf, `<ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" stroke="%s"/>`+"\n",
		x+nodeWidth/2, y+nodeHeight-ry, nodeWidth/2, ry, cfg.BgColor, cfg.Color)
}

func drawArrow(buf *bytes.Buffer, x1, y, x2 float64, label string) {
	fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#475569" stroke-width="2"/>`+"\n",
		x1, y, x2, y)
	fmt.Fprintf(buf, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="#475569"/>`+"\n",
		x2, y, x2-8, y-5, x2-8, y+5)
	if label != "" {
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="%s" fill="#94A3B8">%s</text>`+"\n",
			(x1+x2)/2, y-8, detailFont, textEscaper.Replace(label))
	}
}

func extraDetailHeight(flow domain.UserFlow) float64 {
	maxDetails := 0
	for _, node := range flow.Nodes {
		if node.Type == domain.NodeDescription && len(node.Details) > maxDetails {
			maxDetails = len(node.Details)
		}
	}
	return float64(maxDetails)*detailLine + 16
}
