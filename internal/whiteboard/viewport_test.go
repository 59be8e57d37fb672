package whiteboard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

func TestZoomToPointer_PointerStaysFixed(t *testing.T) {
	cases := []struct {
		name    string
		scale   float64
		pos     Point
		pointer Point
		target  float64
	}{
		{"zoom in at origin", 1, Point{}, Point{}, 2},
		{"zoom in off-center", 1, Point{X: 40, Y: -20}, Point{X: 300, Y: 180}, 1.5},
		{"zoom out", 2.5, Point{X: -120, Y: 75}, Point{X: 512, Y: 384}, 0.8},
		{"tiny step", 1.01, Point{X: 3, Y: 9}, Point{X: 100, Y: 100}, 1.02},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewViewport()
			v.Scale = tc.scale
			v.Position = tc.pos

			// The world point currently under the pointer.
			world := v.Unapply(tc.pointer)

			v.ZoomTo(tc.target, tc.pointer)

			after := v.Apply(world)
			assert.InDelta(t, tc.pointer.X, after.X, epsilon)
			assert.InDelta(t, tc.pointer.Y, after.Y, epsilon)
		})
	}
}

func TestWheelZoom_ScaleClamped(t *testing.T) {
	v := NewViewport()

	// Huge zoom-out delta: clamps at the floor.
	v.Wheel(0, 1e7, Point{X: 100, Y: 100}, true)
	assert.InDelta(t, MinScale, v.Scale, epsilon)

	// Huge zoom-in delta: clamps at the ceiling.
	v.Wheel(0, -1e7, Point{X: 100, Y: 100}, true)
	assert.InDelta(t, MaxScale, v.Scale, epsilon)
}

func TestWheelZoom_UsesNegatedDeltaTimesFactor(t *testing.T) {
	v := NewViewport()
	v.Wheel(0, -100, Point{}, true)
	assert.InDelta(t, 1+100*DefaultZoomFactor, v.Scale, epsilon)
}

func TestWheelWithoutModifier_Pans(t *testing.T) {
	v := NewViewport()
	v.Wheel(30, -50, Point{X: 10, Y: 10}, false)

	assert.InDelta(t, -30, v.Position.X, epsilon)
	assert.InDelta(t, 50, v.Position.Y, epsilon)
	assert.InDelta(t, 1, v.Scale, epsilon, "plain scroll never zooms")
}

func TestDragPan(t *testing.T) {
	v := NewViewport()

	v.PointerDown(Point{X: 100, Y: 100}, TargetCanvas, true)
	require.True(t, v.Dragging())

	v.PointerMove(Point{X: 130, Y: 90})
	assert.InDelta(t, 30, v.Position.X, epsilon)
	assert.InDelta(t, -10, v.Position.Y, epsilon)

	v.PointerMove(Point{X: 130, Y: 100})
	assert.InDelta(t, 0, v.Position.Y, epsilon)

	v.PointerUp()
	assert.False(t, v.Dragging())

	// Moves after release do nothing.
	v.PointerMove(Point{X: 500, Y: 500})
	assert.InDelta(t, 30, v.Position.X, epsilon)
}

func TestDragSuppressedOnNodeAndConnector(t *testing.T) {
	v := NewViewport()

	v.PointerDown(Point{X: 10, Y: 10}, TargetNode, true)
	assert.False(t, v.Dragging())

	v.PointerDown(Point{X: 10, Y: 10}, TargetConnector, true)
	assert.False(t, v.Dragging())

	v.PointerDown(Point{X: 10, Y: 10}, TargetCanvas, false)
	assert.False(t, v.Dragging(), "non-primary button never drags")
}

func TestDoubleClickResets(t *testing.T) {
	v := NewViewport()
	v.ZoomTo(2.4, Point{X: 77, Y: 31})
	v.PointerDown(Point{}, TargetCanvas, true)
	v.PointerMove(Point{X: 15, Y: 15})

	v.DoubleClick()

	assert.Equal(t, 1.0, v.Scale)
	assert.Equal(t, Point{}, v.Position)
	assert.False(t, v.Dragging())
}

func TestPointerLeaveEndsDrag(t *testing.T) {
	v := NewViewport()
	v.PointerEnter()
	assert.True(t, v.OverCanvas())

	v.PointerDown(Point{}, TargetCanvas, true)
	v.PointerLeave()

	assert.False(t, v.OverCanvas())
	assert.False(t, v.Dragging())
}

func TestApplyUnapplyRoundTrip(t *testing.T) {
	v := NewViewport()
	v.Scale = 1.7
	v.Position = Point{X: -42, Y: 13}

	world := Point{X: 123.4, Y: -56.7}
	back := v.Unapply(v.Apply(world))

	assert.True(t, math.Abs(back.X-world.X) < epsilon)
	assert.True(t, math.Abs(back.Y-world.Y) < epsilon)
}

func TestTransformString(t *testing.T) {
	v := NewViewport()
	v.Scale = 1.5
	v.Position = Point{X: 10, Y: -20}
	assert.Equal(t, "translate(10px, -20px) scale(1.5)", v.Transform())
}
