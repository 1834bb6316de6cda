package main

import "testing"

func TestPlayerMovesAndTracksGrid(t *testing.T) {
	rows := emptyRows(10, 10)
	c := newTestCollider(rows)

	p := newPlayer(baseGridCellSize)
	p.Box.SetCenter(40, 40)
	p.Recompute()
	if p.GridX != 2 || p.GridY != 2 {
		t.Fatalf("start grid = (%d, %d), want (2, 2)", p.GridX, p.GridY)
	}

	for i := 0; i < 8; i++ {
		p.Update(1, 0, c)
	}
	if p.Direction != dirRight {
		t.Fatalf("direction = %q, want right", p.Direction)
	}
	if p.Box.CenterX() != 52 {
		t.Fatalf("center X = %v, want 52 after 8 steps of 1.5", p.Box.CenterX())
	}
	if p.GridX != 3 {
		t.Fatalf("grid X = %d, want 3", p.GridX)
	}
}

func TestPlayerBlockedMoveReverts(t *testing.T) {
	rows := emptyRows(10, 10)
	rows[2][3] = 1
	c := newTestCollider(rows)

	p := newPlayer(baseGridCellSize)
	p.Box.SetCenter(40, 40)
	p.Recompute()

	for i := 0; i < 20; i++ {
		p.Update(1, 0, c)
	}
	// The wall tile starts at x=48; a blocked step reverts in full.
	if p.Box.Right() > 48 {
		t.Fatalf("player pushed into the wall: right edge %v", p.Box.Right())
	}
	if p.GridX != 2 {
		t.Fatalf("grid X = %d, want 2", p.GridX)
	}
}

func TestPlayerDirectionPriority(t *testing.T) {
	p := newPlayer(baseGridCellSize)
	p.Update(1, -1, nil)
	if p.Direction != dirUp {
		t.Fatalf("diagonal up-right direction = %q, want up", p.Direction)
	}
	p.Update(-1, 0, nil)
	if p.Direction != dirLeft {
		t.Fatalf("direction = %q, want left", p.Direction)
	}
}

func TestPlayerKnockbackDecaysOnImpact(t *testing.T) {
	rows := emptyRows(10, 10)
	rows[2][3] = 1
	c := newTestCollider(rows)

	p := newPlayer(baseGridCellSize)
	p.Box.SetCenter(40, 40)
	p.KnockedBack = true
	p.KnockbackVelocity = [2]float64{8, 0}

	p.Update(0, 0, c)
	if p.KnockbackVelocity[0] != 4 {
		t.Fatalf("knockback after impact = %v, want halved to 4", p.KnockbackVelocity[0])
	}
}

func TestPlayerResetMotion(t *testing.T) {
	p := newPlayer(baseGridCellSize)
	p.Velocity = [2]float64{3, 3}
	p.KnockedBack = true
	p.KnockbackVelocity = [2]float64{5, 5}
	p.ResetMotion()
	if p.Velocity != [2]float64{} || p.KnockedBack || p.KnockbackVelocity != [2]float64{} {
		t.Fatalf("motion state survived reset: %+v", p)
	}
}
