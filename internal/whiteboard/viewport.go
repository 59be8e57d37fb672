// Package whiteboard is the viewport engine behind the flow canvas: a 2D
// affine transform driven by pointer and wheel input. The host applies the
// resulting transform to the node layer as a whole; per-node pixel positions
// are never recomputed here.
package whiteboard

import "fmt"

const (
	MinScale = 0.1
	MaxScale = 3.0

	// DefaultZoomFactor converts wheel delta into scale change.
	DefaultZoomFactor = 0.001
)

type Point struct {
	X float64
	Y float64
}

// Target classifies what a pointer press landed on. Only presses on empty
// canvas background may start a pan drag.
type Target int

const (
	TargetCanvas Target = iota
	TargetNode
	TargetConnector
)

// Viewport holds the canvas transform state.
type Viewport struct {
	Scale    float64
	Position Point

	ZoomFactor float64

	dragging    bool
	lastPointer Point
	overCanvas  bool
}

func NewViewport() *Viewport {
	return &Viewport{Scale: 1, ZoomFactor: DefaultZoomFactor}
}

// Reset restores the identity transform. Used on double-click and whenever
// the content changes (feature switch, resize): a stale transform may make
// no sense for the new content.
func (v *Viewport) Reset() {
	v.Scale = 1
	v.Position = Point{}
	v.dragging = false
}

// Wheel handles a wheel/trackpad event. With the zoom modifier held it zooms
// toward the pointer; otherwise it pans by the negated scroll delta.
func (v *Viewport) Wheel(deltaX, deltaY float64, pointer Point, zoomModifier bool) {
	if zoomModifier {
		v.zoomAt(pointer, clampScale(v.Scale+deltaY*-v.zoomFactor()))
		return
	}
	v.Position.X -= deltaX
	v.Position.Y -= deltaY
}

// ZoomTo sets an absolute scale while keeping the given pointer position
// visually fixed.
func (v *Viewport) ZoomTo(scale float64, pointer Point) {
	v.zoomAt(pointer, clampScale(scale))
}

// zoomAt adjusts the translation so the world point under the pointer stays
// put: pos' = p - (p - pos) * (s1/s0).
func (v *Viewport) zoomAt(pointer Point, newScale float64) {
	if v.Scale == 0 {
		v.Scale = 1
	}
	ratio := newScale / v.Scale
	v.Position.X = pointer.X - (pointer.X-v.Position.X)*ratio
	v.Position.Y = pointer.Y - (pointer.Y-v.Position.Y)*ratio
	v.Scale = newScale
}

// PointerDown starts a pan drag when the press hits empty background with
// the primary button.
func (v *Viewport) PointerDown(pointer Point, target Target, primaryButton bool) {
	if !primaryButton || target != TargetCanvas {
		return
	}
	v.dragging = true
	v.lastPointer = pointer
}

// PointerMove pans by the movement delta while dragging.
func (v *Viewport) PointerMove(pointer Point) {
	if !v.dragging {
		return
	}
	v.Position.X += pointer.X - v.lastPointer.X
	v.Position.Y += pointer.Y - v.lastPointer.Y
	v.lastPointer = pointer
}

func (v *Viewport) PointerUp() {
	v.dragging = false
}

func (v *Viewport) Dragging() bool { return v.dragging }

// DoubleClick resets the transform.
func (v *Viewport) DoubleClick() {
	v.Reset()
}

// PointerEnter / PointerLeave track hover for the navigation guard owner.
func (v *Viewport) PointerEnter() { v.overCanvas = true }

func (v *Viewport) PointerLeave() {
	v.overCanvas = false
	v.dragging = false
}

func (v *Viewport) OverCanvas() bool { return v.overCanvas }

// Apply maps a world coordinate to screen space under the current transform
// (translate then scale, origin at 0,0).
func (v *Viewport) Apply(world Point) Point {
	return Point{
		X: v.Position.X + world.X*v.Scale,
		Y: v.Position.Y + world.Y*v.Scale,
	}
}

// Unapply maps a screen coordinate back to world space.
func (v *Viewport) Unapply(screen Point) Point {
	return Point{
		X: (screen.X - v.Position.X) / v.Scale,
		Y: (screen.Y - v.Position.Y) / v.Scale,
	}
}

// Transform renders the CSS transform string the host applies to the node
// layer in one shot.
func (v *Viewport) Transform() string {
	return fmt.Sprintf("translate(%gpx, %gpx) scale(%g)", v.Position.X, v.Position.Y, v.Scale)
}

func (v *Viewport) zoomFactor() float64 {
	if v.ZoomFactor == 0 {
		return DefaultZoomFactor
	}
	return v.ZoomFactor
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
