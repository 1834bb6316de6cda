package main

import "math"

// Facing direction names match the sprite sheet naming conventions.
const (
	dirUp    = "up"
	dirDown  = "down"
	dirLeft  = "left"
	dirRight = "right"
)

// Player is the controlled entity: an axis-aligned box in logical pixel
// units plus movement state. The box is slightly smaller than a tile so
// single-tile doorways stay passable.
type Player struct {
	Box               Rect
	Direction         string
	Velocity          [2]float64
	KnockedBack       bool
	KnockbackVelocity [2]float64

	// Grid position derived from the box center, see Recompute.
	GridX, GridY int

	speed float64
}

func newPlayer(baseCell int) *Player {
	size := float64(baseCell) - 2
	return &Player{
		Box:       Rect{W: size, H: size},
		Direction: dirDown,
		speed:     1.5,
	}
}

// Recompute refreshes state derived from the box position. It must be
// called after any manual position write (teleports, unstuck moves, save
// restores) so the grid position stays consistent with the box.
func (p *Player) Recompute() {
	p.GridX = int(math.Floor(p.Box.CenterX() / baseGridCellSize))
	p.GridY = int(math.Floor(p.Box.CenterY() / baseGridCellSize))
}

// ResetMotion zeroes velocity and knockback state.
func (p *Player) ResetMotion() {
	p.Velocity = [2]float64{}
	p.KnockedBack = false
	p.KnockbackVelocity = [2]float64{}
}

// Update applies one tick of input movement with collision response:
// a blocked move reverts in full, and knockback halves on impact so the
// player cannot wedge into a wall.
func (p *Player) Update(dx, dy float64, collider *CollisionHandler) {
	switch {
	case dy < 0:
		p.Direction = dirUp
	case dy > 0:
		p.Direction = dirDown
	case dx < 0:
		p.Direction = dirLeft
	case dx > 0:
		p.Direction = dirRight
	}

	p.Velocity = [2]float64{dx * p.speed, dy * p.speed}
	moveX := p.Velocity[0]
	moveY := p.Velocity[1]
	if p.KnockedBack {
		moveX += p.KnockbackVelocity[0]
		moveY += p.KnockbackVelocity[1]
	}
	if moveX == 0 && moveY == 0 {
		return
	}

	old := p.Box
	p.Box.X += moveX
	p.Box.Y += moveY
	if collider != nil && collider.Overlaps(p.Box) {
		p.Box = old
		if p.KnockedBack {
			p.KnockbackVelocity[0] *= 0.5
			p.KnockbackVelocity[1] *= 0.5
		}
	}
	p.Recompute()
}
