package main

import "math"

// CameraFollower computes camera positions that keep a target box
// centered, clamped to the map bounds.
type CameraFollower struct {
	baseCell   int
	mapW, mapH int
	smoothing  float64
}

func newCameraFollower(baseCell int) *CameraFollower {
	return &CameraFollower{baseCell: baseCell, smoothing: 1.0}
}

func (f *CameraFollower) SetMapDimensions(w, h int) { f.mapW, f.mapH = w, h }

// SetSmoothing sets the follow interpolation factor. 1.0 snaps instantly.
func (f *CameraFollower) SetSmoothing(s float64) {
	f.smoothing = clampf(s, 0, 1)
}

// TargetPosition is the camera position that puts the target's center at
// the center of the effective screen.
func (f *CameraFollower) TargetPosition(target Rect, effW, effH float64) (float64, float64) {
	return target.CenterX() - effW/2, target.CenterY() - effH/2
}

// Clamp keeps a camera position inside [0, mapSize-effectiveSize] on
// each axis; maps smaller than the screen clamp to zero.
func (f *CameraFollower) Clamp(x, y, effW, effH float64) (float64, float64) {
	maxX := math.Max(0, float64(f.mapW*f.baseCell)-effW)
	maxY := math.Max(0, float64(f.mapH*f.baseCell)-effH)
	return clampf(x, 0, maxX), clampf(y, 0, maxY)
}

// Follow interpolates from the current position toward the clamped
// target position. With smoothing 1.0 this is the same as Snap.
func (f *CameraFollower) Follow(curX, curY float64, target Rect, effW, effH float64) (float64, float64) {
	tx, ty := f.TargetPosition(target, effW, effH)
	tx, ty = f.Clamp(tx, ty, effW, effH)
	nx := tx*f.smoothing + curX*(1-f.smoothing)
	ny := ty*f.smoothing + curY*(1-f.smoothing)
	return f.Clamp(nx, ny, effW, effH)
}

// Snap centers the target immediately; used on map loads and teleports.
func (f *CameraFollower) Snap(target Rect, effW, effH float64) (float64, float64) {
	tx, ty := f.TargetPosition(target, effW, effH)
	return f.Clamp(tx, ty, effW, effH)
}

// CameraController composes the zoom controller, viewport calculator and
// camera follower into the single camera API the renderer and input
// layers consume. The zoom controller is the one holder of camera
// position and center offset; everything here reads and writes through
// it so there is no second copy to fall out of sync.
type CameraController struct {
	baseCell int

	zoom     *ZoomController
	viewport *ViewportCalculator
	follower *CameraFollower

	player     *Player
	mapW, mapH int
}

func newCameraController(zoom *ZoomController, baseCell int) *CameraController {
	return &CameraController{
		baseCell: baseCell,
		zoom:     zoom,
		viewport: newViewportCalculator(baseCell),
		follower: newCameraFollower(baseCell),
	}
}

// SetPlayer sets the follow target. A nil player leaves the camera
// free-standing; resizes then shift it by the center-offset delta.
func (c *CameraController) SetPlayer(p *Player) { c.player = p }

func (c *CameraController) SetSmoothing(s float64) { c.follower.SetSmoothing(s) }

func (c *CameraController) Position() (float64, float64) { return c.zoom.CameraPos() }

// SetMap installs new map geometry into every camera component and
// recomputes the small-map centering offset.
func (c *CameraController) SetMap(m *MapData, isDynamic func(tileID int) bool) {
	c.mapW, c.mapH = m.Width, m.Height
	c.viewport.SetMapData(m, isDynamic)
	c.follower.SetMapDimensions(m.Width, m.Height)
	c.zoom.SetMapDimensions(m.Width, m.Height)
	c.RecalcCenterOffset()
}

// RecalcCenterOffset recomputes the centering offset for the current
// effective screen size and pushes it to the zoom controller. Call it
// after zoom or screen-size changes.
func (c *CameraController) RecalcCenterOffset() (float64, float64) {
	effW, effH := c.zoom.EffectiveSize()
	offX, offY := c.viewport.CenterOffset(effW, effH)
	c.zoom.SetCenterOffset(offX, offY)
	return offX, offY
}

// CenterOn snaps the camera to the target box.
func (c *CameraController) CenterOn(target Rect) {
	effW, effH := c.zoom.EffectiveSize()
	x, y := c.follower.Snap(target, effW, effH)
	c.zoom.SetCameraPos(x, y)
}

// Follow moves the camera toward the target with the configured
// smoothing.
func (c *CameraController) Follow(target Rect) {
	effW, effH := c.zoom.EffectiveSize()
	curX, curY := c.zoom.CameraPos()
	x, y := c.follower.Follow(curX, curY, target, effW, effH)
	c.zoom.SetCameraPos(x, y)
}

// HandleResize reacts to a new screen size: the centering offset is
// recomputed, and either the camera re-snaps to its follow target or,
// with no target, shifts by the offset delta so the view does not jump.
func (c *CameraController) HandleResize(oldOffX, oldOffY float64) {
	newOffX, newOffY := c.RecalcCenterOffset()
	if c.player != nil {
		c.CenterOn(c.player.Box)
		return
	}
	effW, effH := c.zoom.EffectiveSize()
	curX, curY := c.zoom.CameraPos()
	x := curX - (newOffX - oldOffX)
	y := curY - (newOffY - oldOffY)
	x, y = c.follower.Clamp(x, y, effW, effH)
	c.zoom.SetCameraPos(x, y)
}
