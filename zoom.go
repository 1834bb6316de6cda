package main

import "math"

// defaultZoomLevels is the fixed ascending zoom ladder. Index 0 is 100%,
// which is also the floor: the view never zooms out past full size.
var defaultZoomLevels = []float64{1.0, 1.5, 2.0, 3.0, 4.0}

// ZoomController owns the discrete zoom level and everything derived
// from it: the zoomed grid cell size, the effective (logical) screen
// size, and the camera position, which it recenters around a focus
// point whenever the level changes.
type ZoomController struct {
	screenW, screenH int
	baseCell         int

	levels    []float64
	index     int
	factor    float64
	factorInv float64
	cellSize  int

	effW, effH float64
	camX, camY float64
	offX, offY float64
	mapW, mapH int

	listeners []func(cellSize int, factor float64)
}

func newZoomController(screenW, screenH, baseCell int) *ZoomController {
	z := &ZoomController{
		screenW:  screenW,
		screenH:  screenH,
		baseCell: baseCell,
		levels:   append([]float64(nil), defaultZoomLevels...),
	}
	z.applyLevel()
	return z
}

// AddZoomListener registers a callback invoked with the new cell size
// and factor after every successful zoom change.
func (z *ZoomController) AddZoomListener(fn func(cellSize int, factor float64)) {
	z.listeners = append(z.listeners, fn)
}

func (z *ZoomController) SetMapDimensions(w, h int) { z.mapW, z.mapH = w, h }

func (z *ZoomController) SetCenterOffset(x, y float64) { z.offX, z.offY = x, y }
func (z *ZoomController) CenterOffset() (float64, float64) {
	return z.offX, z.offY
}

func (z *ZoomController) SetCameraPos(x, y float64) { z.camX, z.camY = x, y }
func (z *ZoomController) CameraPos() (float64, float64) {
	return z.camX, z.camY
}

func (z *ZoomController) Index() int      { return z.index }
func (z *ZoomController) Factor() float64 { return z.factor }
func (z *ZoomController) CellSize() int   { return z.cellSize }
func (z *ZoomController) EffectiveSize() (float64, float64) {
	return z.effW, z.effH
}

// ZoomIn moves one level up the ladder. At the top it reports false and
// changes nothing.
func (z *ZoomController) ZoomIn(focus *Rect) bool {
	if z.index >= len(z.levels)-1 {
		return false
	}
	z.changeLevel(z.index+1, focus)
	return true
}

// ZoomOut moves one level down the ladder. At 100% it reports false and
// changes nothing.
func (z *ZoomController) ZoomOut(focus *Rect) bool {
	if z.index <= 0 {
		return false
	}
	z.changeLevel(z.index-1, focus)
	return true
}

// ResetZoom jumps back to 100%. Already there reports false.
func (z *ZoomController) ResetZoom(focus *Rect) bool {
	if z.index == 0 {
		return false
	}
	z.changeLevel(0, focus)
	return true
}

// Resize recomputes the derived sizes for new physical screen dimensions
// without touching the zoom index.
func (z *ZoomController) Resize(screenW, screenH int) {
	z.screenW, z.screenH = screenW, screenH
	z.applyLevel()
}

func (z *ZoomController) changeLevel(index int, focus *Rect) {
	fx, fy := z.focusPoint(focus)
	z.index = index
	z.applyLevel()
	z.recenter(fx, fy)
	z.notify()
}

// focusPoint picks the point that should stay centered across the zoom
// change: the focus box center when one is supplied, otherwise the
// current screen center.
func (z *ZoomController) focusPoint(focus *Rect) (float64, float64) {
	if focus != nil {
		return focus.CenterX(), focus.CenterY()
	}
	return z.camX + z.effW/2, z.camY + z.effH/2
}

func (z *ZoomController) applyLevel() {
	z.factor = z.levels[z.index]
	z.factorInv = 1 / z.factor
	z.cellSize = int(float64(z.baseCell) * z.factor)
	z.effW = float64(z.screenW) * z.factorInv
	z.effH = float64(z.screenH) * z.factorInv
}

// recenter positions the camera so the focus point sits at the screen
// center under the new effective size, clamped to the map bounds.
func (z *ZoomController) recenter(fx, fy float64) {
	maxX := math.Max(0, float64(z.mapW*z.baseCell)-z.effW)
	maxY := math.Max(0, float64(z.mapH*z.baseCell)-z.effH)
	z.camX = clampf(fx-z.effW/2, 0, maxX)
	z.camY = clampf(fy-z.effH/2, 0, maxY)
}

// notify runs the zoom-change listeners. A panicking listener is logged
// and does not take down the frame or block the remaining listeners.
func (z *ZoomController) notify() {
	for _, fn := range z.listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logError("zoom listener panic: %v", r)
				}
			}()
			fn(z.cellSize, z.factor)
		}()
	}
}
