package main

import (
	"math"
	"testing"
)

func TestFollowerTargetPositionCentersBox(t *testing.T) {
	f := newCameraFollower(baseGridCellSize)
	f.SetMapDimensions(200, 200)

	target := Rect{W: 14, H: 14}
	target.SetCenter(1000, 800)
	x, y := f.TargetPosition(target, 1280, 720)
	if x != 1000-640 || y != 800-360 {
		t.Fatalf("target position = (%v, %v), want (360, 440)", x, y)
	}
}

func TestFollowerClampBounds(t *testing.T) {
	f := newCameraFollower(baseGridCellSize)
	f.SetMapDimensions(100, 100) // 1600x1600 px

	cases := []struct {
		inX, inY   float64
		outX, outY float64
	}{
		{-50, -50, 0, 0},
		{5000, 5000, 1600 - 1280, 1600 - 720},
		{100, 100, 100, 100},
	}
	for _, c := range cases {
		x, y := f.Clamp(c.inX, c.inY, 1280, 720)
		if x != c.outX || y != c.outY {
			t.Fatalf("Clamp(%v, %v) = (%v, %v), want (%v, %v)", c.inX, c.inY, x, y, c.outX, c.outY)
		}
	}
}

func TestFollowerClampSmallMapPinsOrigin(t *testing.T) {
	f := newCameraFollower(baseGridCellSize)
	f.SetMapDimensions(10, 10) // 160x160 px, smaller than any screen

	x, y := f.Clamp(100, 100, 1280, 720)
	if x != 0 || y != 0 {
		t.Fatalf("small map clamp = (%v, %v), want (0, 0)", x, y)
	}
}

func TestFollowerSnapEqualsFullSmoothingFollow(t *testing.T) {
	f := newCameraFollower(baseGridCellSize)
	f.SetMapDimensions(200, 200)

	target := Rect{W: 14, H: 14}
	target.SetCenter(900, 700)

	sx, sy := f.Snap(target, 1280, 720)
	fx, fy := f.Follow(123, 456, target, 1280, 720)
	if sx != fx || sy != fy {
		t.Fatalf("snap (%v, %v) != follow at smoothing 1.0 (%v, %v)", sx, sy, fx, fy)
	}
}

func TestFollowerSmoothingInterpolates(t *testing.T) {
	f := newCameraFollower(baseGridCellSize)
	f.SetMapDimensions(200, 200)
	f.SetSmoothing(0.5)

	target := Rect{W: 14, H: 14}
	target.SetCenter(1000, 800)
	// Clamped target is (360, 440); halfway from (0, 0) is (180, 220).
	x, y := f.Follow(0, 0, target, 1280, 720)
	if x != 180 || y != 220 {
		t.Fatalf("half-smoothed follow = (%v, %v), want (180, 220)", x, y)
	}
}

func TestFollowerOutputAlwaysInBounds(t *testing.T) {
	f := newCameraFollower(baseGridCellSize)
	f.SetMapDimensions(120, 90) // 1920x1440 px
	f.SetSmoothing(0.3)

	maxX, maxY := 1920.0-1280, 1440.0-720
	target := Rect{W: 14, H: 14}
	curX, curY := 0.0, 0.0
	for i := 0; i < 50; i++ {
		target.SetCenter(float64(i*97%2100), float64(i*61%1600))
		curX, curY = f.Follow(curX, curY, target, 1280, 720)
		if curX < 0 || curY < 0 || curX > maxX || curY > maxY {
			t.Fatalf("step %d left bounds: (%v, %v)", i, curX, curY)
		}
	}
}

func newTestCamera(mapW, mapH int) (*CameraController, *ZoomController) {
	z := newZoomController(1280, 720, baseGridCellSize)
	c := newCameraController(z, baseGridCellSize)
	rows := make([][]int, mapH)
	for y := range rows {
		rows[y] = make([]int, mapW)
	}
	c.SetMap(gridMap(mapW, mapH, rows), nil)
	return c, z
}

func TestControllerCenterOn(t *testing.T) {
	c, _ := newTestCamera(200, 200)

	box := Rect{W: 14, H: 14}
	box.SetCenter(1000, 800)
	c.CenterOn(box)
	x, y := c.Position()
	if x != 360 || y != 440 {
		t.Fatalf("position after CenterOn = (%v, %v), want (360, 440)", x, y)
	}
}

func TestControllerSetMapComputesCenterOffset(t *testing.T) {
	c, z := newTestCamera(40, 30)
	offX, offY := z.CenterOffset()
	if offX != 320 || offY != 120 {
		t.Fatalf("center offset = (%v, %v), want (320, 120)", offX, offY)
	}
	// A map larger than the screen has no centering offset.
	c, z = newTestCamera(200, 200)
	_ = c
	offX, offY = z.CenterOffset()
	if offX != 0 || offY != 0 {
		t.Fatalf("large-map offset = (%v, %v), want (0, 0)", offX, offY)
	}
}

func TestControllerZoomRecalculatesOffset(t *testing.T) {
	c, z := newTestCamera(40, 30)
	z.AddZoomListener(func(int, float64) { c.RecalcCenterOffset() })

	// At 2x the effective screen is 640x360; the 640px-wide map no longer
	// fits with room to spare, so the X offset collapses to zero.
	z.ZoomIn(nil)
	z.ZoomIn(nil)
	offX, offY := z.CenterOffset()
	if offX != 0 {
		t.Fatalf("offX at 2x = %v, want 0", offX)
	}
	if offY != 0 {
		t.Fatalf("offY at 2x = %v, want 0", offY)
	}
}

func TestControllerHandleResizeWithoutTargetShiftsByOffsetDelta(t *testing.T) {
	c, z := newTestCamera(40, 30)
	z.SetCameraPos(0, 0)

	oldOffX, oldOffY := z.CenterOffset()
	z.Resize(800, 600)
	c.HandleResize(oldOffX, oldOffY)

	// New offsets: floor((800-640)/2)=80, floor((600-480)/2)=60. The
	// free camera shifts opposite the delta and clamps to the map.
	offX, offY := z.CenterOffset()
	if offX != 80 || offY != 60 {
		t.Fatalf("offset after resize = (%v, %v), want (80, 60)", offX, offY)
	}
	x, y := c.Position()
	if x != 0 || y != 0 {
		t.Fatalf("free camera after resize = (%v, %v), want clamped (0, 0)", x, y)
	}
}

func TestControllerHandleResizeRecentersOnPlayer(t *testing.T) {
	c, z := newTestCamera(200, 200)
	p := newPlayer(baseGridCellSize)
	p.Box.SetCenter(1600, 1600)
	c.SetPlayer(p)

	z.Resize(800, 600)
	c.HandleResize(0, 0)
	x, y := c.Position()
	if x != 1600-400 || y != 1600-300 {
		t.Fatalf("camera after resize = (%v, %v), want (1200, 1300)", x, y)
	}
}

func TestControllerFollowSmoothingConverges(t *testing.T) {
	c, _ := newTestCamera(200, 200)
	c.SetSmoothing(0.5)

	box := Rect{W: 14, H: 14}
	box.SetCenter(1000, 800)
	for i := 0; i < 60; i++ {
		c.Follow(box)
	}
	x, y := c.Position()
	if math.Abs(x-360) > 0.01 || math.Abs(y-440) > 0.01 {
		t.Fatalf("camera did not converge: (%v, %v), want (360, 440)", x, y)
	}
}
