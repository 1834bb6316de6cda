package main

import "math"

// ViewportCalculator computes the visible tile window for the renderer
// and the centering offset applied when a map's used area is smaller
// than the effective screen.
type ViewportCalculator struct {
	baseCell int

	grids      [][][]int
	mapW, mapH int
	isDynamic  func(tileID int) bool
}

func newViewportCalculator(baseCell int) *ViewportCalculator {
	return &ViewportCalculator{baseCell: baseCell}
}

// SetMapData installs the map geometry and the classifier that filters
// spawn-marker tiles out of used-area computation.
func (v *ViewportCalculator) SetMapData(m *MapData, isDynamic func(tileID int) bool) {
	v.grids = m.grids()
	v.mapW, v.mapH = m.Width, m.Height
	v.isDynamic = isDynamic
}

// VisibleTileRange converts the camera window into a tile index range,
// start inclusive and end exclusive. cellSize is the zoomed cell size;
// smaller cells get more padding so scaled tile edges are not visibly
// clipped. Only the lower bound is clamped to the map — the renderer
// skips out-of-range indices itself.
func (v *ViewportCalculator) VisibleTileRange(camX, camY, offX, offY, effW, effH float64, cellSize int) (startX, startY, endX, endY int) {
	pad := 3 - cellSize/16
	if pad < 1 {
		pad = 1
	}
	base := float64(v.baseCell)
	left := camX - offX
	top := camY - offY

	startX = int(math.Floor(left/base)) - pad
	startY = int(math.Floor(top/base)) - pad
	if startX < 0 {
		startX = 0
	}
	if startY < 0 {
		startY = 0
	}
	endX = int(math.Floor((left+effW)/base)) + pad + 1
	endY = int(math.Floor((top+effH)/base)) + pad + 1
	return startX, startY, endX, endY
}

// UsedAreaBounds returns the tight bounding box, in tile indices, of all
// non-empty tiles across every layer, excluding dynamic-entity spawn
// tiles. A map with no qualifying tiles falls back to its full extent.
func (v *ViewportCalculator) UsedAreaBounds() (minX, maxX, minY, maxY int) {
	minX, maxX = v.mapW, 0
	minY, maxY = v.mapH, 0
	found := false

	for _, grid := range v.grids {
		for y := range grid {
			for x, id := range grid[y] {
				if id == -1 {
					continue
				}
				if v.isDynamic != nil && v.isDynamic(id) {
					continue
				}
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
				found = true
			}
		}
	}
	if !found {
		return 0, v.mapW - 1, 0, v.mapH - 1
	}
	return minX, maxX, minY, maxY
}

// CenterOffset computes the additive offset that centers the used area
// on screen along any axis where it is smaller than the effective
// screen; the offset is zero along axes where the map fills the screen.
func (v *ViewportCalculator) CenterOffset(effW, effH float64) (float64, float64) {
	minX, maxX, minY, maxY := v.UsedAreaBounds()
	base := float64(v.baseCell)

	var usedW, usedH float64
	if maxX >= minX {
		usedW = float64(maxX-minX+1) * base
	}
	if maxY >= minY {
		usedH = float64(maxY-minY+1) * base
	}

	var offX, offY float64
	if usedW < effW {
		offX = math.Floor((effW-usedW)/2) - float64(minX)*base
	}
	if usedH < effH {
		offY = math.Floor((effH-usedH)/2) - float64(minY)*base
	}
	return offX, offY
}
