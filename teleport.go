package main

// Teleport sequencing is a small linear state machine:
//
//	IDLE -> PENDING        portal trigger accepted, destination loading
//	PENDING -> REPOSITIONING  destination map loaded
//	REPOSITIONING -> IDLE  player and camera placed, descriptor discarded
//
// A failed map load drops straight back to IDLE with the player unmoved.
// Everything runs synchronously inside one simulation step, so the
// renderer never observes a half-applied switch.
type teleportState int

const (
	teleportIdle teleportState = iota
	teleportPending
	teleportRepositioning
)

// TeleportationManager sequences a portal hit into a map switch, player
// repositioning and camera recentring.
type TeleportationManager struct {
	baseCell int

	state   teleportState
	pending *Teleport

	player   *Player
	camera   *CameraController
	portals  *PortalRegistry
	collider *CollisionHandler
	tracker  *LocationTracker

	saveGame func()
	loadMap  func(mapID string) bool

	maxUnstuckRadius int
}

func newTeleportationManager(baseCell int, player *Player, camera *CameraController,
	portals *PortalRegistry, collider *CollisionHandler, tracker *LocationTracker,
	saveGame func(), loadMap func(mapID string) bool) *TeleportationManager {
	return &TeleportationManager{
		baseCell:         baseCell,
		player:           player,
		camera:           camera,
		portals:          portals,
		collider:         collider,
		tracker:          tracker,
		saveGame:         saveGame,
		loadMap:          loadMap,
		maxUnstuckRadius: 64,
	}
}

func (tm *TeleportationManager) State() teleportState { return tm.state }

// HandleTeleport runs one full teleport sequence for a resolved portal
// match. It returns true once the player stands in the destination map.
func (tm *TeleportationManager) HandleTeleport(rel *Teleport, currentMap string) bool {
	if rel == nil || tm.state != teleportIdle {
		return false
	}
	tm.state = teleportPending
	tm.pending = rel
	logDebug("teleport %s/%s -> %s/%s at %v",
		rel.FromMap, rel.FromEndpoint, rel.ToMap, rel.ToEndpoint, rel.ToCoord)

	if tm.tracker != nil {
		tm.tracker.SaveLocation(currentMap, tm.player.Box.X, tm.player.Box.Y, tm.player.Direction)
	}
	if tm.saveGame != nil {
		tm.saveGame()
	}
	// Destination-side endpoints must be known before the switch so the
	// anti-bounce marker can be armed against real data.
	tm.portals.LoadAll()

	if tm.loadMap == nil || !tm.loadMap(rel.ToMap) {
		logError("teleport aborted: loading map %q failed", rel.ToMap)
		tm.state = teleportIdle
		tm.pending = nil
		return false
	}

	tm.state = teleportRepositioning
	tm.reposition(rel)
	tm.state = teleportIdle
	tm.pending = nil
	return true
}

func (tm *TeleportationManager) reposition(rel *Teleport) {
	tm.portals.SetCurrentMap(rel.ToMap)
	tm.portals.ArmBounce(rel.ToEndpoint, rel.ToCoord, rel.GroupID)

	cell := float64(tm.baseCell)
	tm.player.Box.SetCenter(
		float64(rel.ToCoord[0])*cell+cell/2,
		float64(rel.ToCoord[1])*cell+cell/2,
	)
	tm.player.ResetMotion()
	tm.player.Recompute()

	tm.unstick()

	if tm.tracker != nil {
		tm.tracker.SaveLocation(rel.ToMap, tm.player.Box.X, tm.player.Box.Y, tm.player.Direction)
	}
	tm.camera.CenterOn(tm.player.Box)
}

// unstick nudges the player to the nearest free position when the
// destination point overlaps solid tiles. An exhausted search leaves the
// player where they are, overlapping but recoverable, rather than
// failing the teleport.
func (tm *TeleportationManager) unstick() {
	if tm.collider == nil || !tm.collider.Overlaps(tm.player.Box) {
		return
	}
	free, ok := tm.collider.FindNearestFreePosition(tm.player.Box, tm.maxUnstuckRadius)
	if !ok {
		logError("teleport: no free position within %dpx of (%.0f, %.0f)",
			tm.maxUnstuckRadius, tm.player.Box.X, tm.player.Box.Y)
		return
	}
	tm.player.Box = free
	tm.player.ResetMotion()
	tm.player.Recompute()
}
