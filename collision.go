package main

import (
	"math"
	"sort"
)

// CollisionHandler tests boxes against solid tiles. It also provides the
// bounded nearest-free-position search used to recover a player left
// overlapping geometry after a teleport.
type CollisionHandler struct {
	baseCell int

	grids      [][][]int
	mapW, mapH int
	solid      func(tileID int) bool
}

func newCollisionHandler(baseCell int) *CollisionHandler {
	return &CollisionHandler{baseCell: baseCell}
}

func (c *CollisionHandler) SetMapData(m *MapData, solid func(tileID int) bool) {
	c.grids = m.grids()
	c.mapW, c.mapH = m.Width, m.Height
	c.solid = solid
}

// Overlaps reports whether box intersects any solid tile on any layer.
func (c *CollisionHandler) Overlaps(box Rect) bool {
	if c.solid == nil {
		return false
	}
	cell := float64(c.baseCell)
	startX := int(math.Floor(box.X / cell))
	startY := int(math.Floor(box.Y / cell))
	endX := int(math.Floor(box.Right() / cell))
	endY := int(math.Floor(box.Bottom() / cell))

	for ty := startY; ty <= endY; ty++ {
		for tx := startX; tx <= endX; tx++ {
			if tx < 0 || ty < 0 || tx >= c.mapW || ty >= c.mapH {
				continue
			}
			for _, grid := range c.grids {
				if ty >= len(grid) || tx >= len(grid[ty]) {
					continue
				}
				id := grid[ty][tx]
				if id == -1 || !c.solid(id) {
					continue
				}
				tile := Rect{X: float64(tx) * cell, Y: float64(ty) * cell, W: cell, H: cell}
				if box.Overlaps(tile) {
					return true
				}
			}
		}
	}
	return false
}

func (c *CollisionHandler) inBounds(box Rect) bool {
	return box.X >= 0 && box.Y >= 0 &&
		box.Right() <= float64(c.mapW*c.baseCell) &&
		box.Bottom() <= float64(c.mapH*c.baseCell)
}

// FindNearestFreePosition searches for the closest in-bounds position
// where box no longer overlaps a solid tile: first a straight walk along
// the least blocked cardinal direction, then an expanding circular
// sweep. The search is bounded by maxRadius pixels; exhausting it
// reports failure instead of looping.
func (c *CollisionHandler) FindNearestFreePosition(box Rect, maxRadius int) (Rect, bool) {
	if free, ok := c.directionalFree(box, maxRadius); ok {
		return free, true
	}

	cell := c.baseCell
	cx, cy := box.CenterX(), box.CenterY()
	for radius := cell; radius <= maxRadius; radius += cell / 2 {
		for angle := 0; angle < 360; angle += 15 {
			rad := float64(angle) * math.Pi / 180
			test := box
			test.SetCenter(cx+float64(radius)*math.Cos(rad), cy+float64(radius)*math.Sin(rad))
			if !c.inBounds(test) {
				continue
			}
			if !c.Overlaps(test) {
				return test, true
			}
		}
	}
	return Rect{}, false
}

// directionalFree gauges how blocked each cardinal direction is with a
// few probes, then walks the clearest directions outward until the box
// fits. This pushes a player straight out of a wall instead of diagonal
// to it, which looks far less jarring on arrival.
func (c *CollisionHandler) directionalFree(box Rect, maxRadius int) (Rect, bool) {
	type probe struct {
		dx, dy  float64
		density int
	}
	dirs := []probe{{0, -1, 0}, {0, 1, 0}, {-1, 0, 0}, {1, 0, 0}}

	cell := c.baseCell
	cx, cy := box.CenterX(), box.CenterY()
	gauge := maxRadius
	if gauge > 48 {
		gauge = 48
	}
	for i := range dirs {
		for dist := cell; dist < gauge; dist += cell / 2 {
			test := box
			test.SetCenter(cx+dirs[i].dx*float64(dist), cy+dirs[i].dy*float64(dist))
			if !c.inBounds(test) || c.Overlaps(test) {
				dirs[i].density++
			}
		}
	}
	sort.SliceStable(dirs, func(a, b int) bool { return dirs[a].density < dirs[b].density })

	for _, d := range dirs {
		for dist := cell; dist <= maxRadius; dist += cell / 2 {
			test := box
			test.SetCenter(cx+d.dx*float64(dist), cy+d.dy*float64(dist))
			if !c.inBounds(test) {
				break
			}
			if !c.Overlaps(test) {
				return test, true
			}
		}
	}
	return Rect{}, false
}
