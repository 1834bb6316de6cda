package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sqweek/dialog"
)

// Logical tile size; all world-space math uses this, zoom only scales
// the projection.
const baseGridCellSize = 16

const screenWidth, screenHeight = 1280, 720

var gameCtx context.Context

// Game wires the camera cluster, the portal registry and the
// teleportation manager into Ebiten's frame loop. All simulation state
// is mutated on the update thread only.
type Game struct {
	baseDir string

	resolver   *MapResolver
	portals    *PortalRegistry
	zoom       *ZoomController
	camera     *CameraController
	collider   *CollisionHandler
	teleporter *TeleportationManager
	tracker    *LocationTracker
	player     *Player

	tileCache *tileImageCache

	world      string
	currentMap string
	mapData    *MapData
	mapping    TileMapping

	sessionStart time.Time
	lastW, lastH int
}

func newGame(baseDir, world string, pickMaps bool) (*Game, error) {
	g := &Game{
		baseDir:      baseDir,
		sessionStart: time.Now(),
		lastW:        screenWidth,
		lastH:        screenHeight,
	}

	g.resolver = newMapResolver(baseDir)
	if fi, err := os.Stat(g.resolver.Root()); (err != nil || !fi.IsDir()) && pickMaps {
		dir, derr := dialog.Directory().Title("Locate the Maps folder").Browse()
		if derr == nil {
			g.resolver = newMapResolverAt(dir)
		} else if derr != dialog.ErrCancelled {
			logError("maps folder dialog: %v", derr)
		}
	}

	g.portals = newPortalRegistry(g.resolver, baseGridCellSize)
	g.zoom = newZoomController(screenWidth, screenHeight, baseGridCellSize)
	g.camera = newCameraController(g.zoom, baseGridCellSize)
	g.camera.SetSmoothing(gs.CameraSmoothing)
	g.collider = newCollisionHandler(baseGridCellSize)
	g.player = newPlayer(baseGridCellSize)
	g.camera.SetPlayer(g.player)
	g.tracker = newLocationTracker(baseDir, g.resolver)
	g.tileCache = newTileImageCache(baseDir)
	g.teleporter = newTeleportationManager(baseGridCellSize, g.player, g.camera,
		g.portals, g.collider, g.tracker, g.saveGameState, g.loadMap)

	// Zoom changes shift the small-map centering offset.
	g.zoom.AddZoomListener(func(cellSize int, factor float64) {
		g.camera.RecalcCenterOffset()
	})

	if err := g.enterWorld(world); err != nil {
		return nil, err
	}
	return g, nil
}

// enterWorld picks the starting world and map, restores the saved player
// location when one exists, and places the camera.
func (g *Game) enterWorld(world string) error {
	worlds := listWorlds(g.resolver.Root())
	if world == "" {
		world = gs.LastWorld
	}
	if world == "" && len(worlds) > 0 {
		world = worlds[0]
	}
	if world == "" {
		return fmt.Errorf("no worlds found under %s", g.resolver.Root())
	}
	g.world = world
	if gs.LastWorld != world {
		gs.LastWorld = world
		settingsDirty = true
	}

	startMap := world
	var saved *playerLocation
	if loc, ok := g.tracker.Location(world); ok && loc.MapName != "" {
		startMap = loc.MapName
		saved = &loc
	}
	if !g.loadMap(startMap) {
		// A stale save can point at a deleted related map; the world's
		// primary map is the recovery point.
		if startMap == world || !g.loadMap(world) {
			return fmt.Errorf("could not load world %q", world)
		}
		saved = nil
	}

	if saved != nil {
		g.player.Box.X, g.player.Box.Y = saved.X, saved.Y
		if saved.Direction != "" {
			g.player.Direction = saved.Direction
		}
	} else {
		minX, maxX, minY, maxY := g.camera.viewport.UsedAreaBounds()
		g.player.Box.SetCenter(
			float64(minX+maxX+1)/2*baseGridCellSize,
			float64(minY+maxY+1)/2*baseGridCellSize,
		)
	}
	g.player.Recompute()
	if g.collider.Overlaps(g.player.Box) {
		if free, ok := g.collider.FindNearestFreePosition(g.player.Box, 64); ok {
			g.player.Box = free
			g.player.Recompute()
		}
	}
	g.camera.CenterOn(g.player.Box)
	return nil
}

// loadMap resolves, parses and installs a map, rewiring every subsystem
// that depends on map geometry. On failure the previous map stays
// installed and false is returned.
func (g *Game) loadMap(mapID string) bool {
	m, err := g.resolver.Load(mapID)
	if err != nil {
		logError("load map %q: %v", mapID, err)
		return false
	}
	g.mapData = m
	g.mapping = m.TileMapping
	g.currentMap = mapID

	g.portals.Store(mapID, m.RelationPoints)
	g.portals.SetCurrentMap(mapID)
	g.camera.SetMap(m, g.mapping.IsDynamicEntityTile)
	g.collider.SetMapData(m, g.mapping.IsSolid)

	if gs.PrecacheTiles {
		go g.tileCache.precache(g.mapping)
	}
	updateDiscordStatus(g.world, mapID)
	return true
}

func (g *Game) saveGameState() {
	camX, camY := g.camera.Position()
	writeGameState(g.baseDir, gameState{
		SaveID:    g.tracker.SaveID(),
		Map:       g.currentMap,
		CameraX:   camX,
		CameraY:   camY,
		ZoomIndex: g.zoom.Index(),
		Played:    formatPlayed(g.sessionStart),
		SavedAt:   time.Now(),
	})
}

func (g *Game) Update() error {
	select {
	case <-gameCtx.Done():
		return errors.New("shutdown")
	default:
	}

	g.handleZoomKeys()

	dx, dy := readMoveInput()
	g.player.Update(dx, dy, g.collider)

	if rel := g.portals.CheckCollision(g.player.Box); rel != nil {
		g.teleporter.HandleTeleport(rel, g.currentMap)
	}
	g.camera.Follow(g.player.Box)

	if settingsDirty && time.Since(lastSettingsSave) >= 5*time.Second {
		saveSettings()
		settingsDirty = false
		lastSettingsSave = time.Now()
	}
	return nil
}

func (g *Game) handleZoomKeys() {
	focus := &g.player.Box
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.zoom.ZoomIn(focus)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.zoom.ZoomOut(focus)
	}
	if inpututil.IsKeyJustPressed(ebiten.Key0) || inpututil.IsKeyJustPressed(ebiten.KeyKP0) {
		g.zoom.ResetZoom(focus)
	}
}

func readMoveInput() (dx, dy float64) {
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		dx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		dx++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		dy--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		dy++
	}
	return dx, dy
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(hudBackground())
	if g.mapData == nil {
		return
	}

	camX, camY := g.camera.Position()
	offX, offY := g.zoom.CenterOffset()
	effW, effH := g.zoom.EffectiveSize()
	factor := g.zoom.Factor()
	cellPx := baseGridCellSize * factor

	startX, startY, endX, endY := g.camera.viewport.VisibleTileRange(
		camX, camY, offX, offY, effW, effH, g.zoom.CellSize())

	for _, grid := range g.visibleGrids() {
		for y := startY; y < endY && y < len(grid); y++ {
			row := grid[y]
			for x := startX; x < endX && x < len(row); x++ {
				id := row[x]
				if id == -1 || g.mapping.IsDynamicEntityTile(id) {
					continue
				}
				info, ok := g.mapping.info(id)
				var img *ebiten.Image
				if ok && info.Path != "" {
					img = g.tileCache.image(info.Path)
				} else {
					img = placeholderTile()
				}
				b := img.Bounds()
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Scale(cellPx/float64(b.Dx()), cellPx/float64(b.Dy()))
				op.GeoM.Translate(
					(float64(x)*baseGridCellSize-camX+offX)*factor,
					(float64(y)*baseGridCellSize-camY+offY)*factor,
				)
				screen.DrawImage(img, op)
			}
		}
	}

	if gs.ShowPortals {
		g.drawPortalMarkers(screen, camX-offX, camY-offY, factor)
	}

	px := (g.player.Box.X - camX + offX) * factor
	py := (g.player.Box.Y - camY + offY) * factor
	vector.DrawFilledRect(screen, float32(px), float32(py),
		float32(g.player.Box.W*factor), float32(g.player.Box.H*factor),
		playerColor(), false)

	drawHUD(screen, g)
}

// visibleGrids returns the tile grids to render, dropping layers the
// editor marked hidden. Legacy single-grid maps are always visible.
func (g *Game) visibleGrids() [][][]int {
	m := g.mapData
	if len(m.Layers) == 0 {
		return m.grids()
	}
	grids := make([][][]int, 0, len(m.Layers))
	for i := range m.Layers {
		if m.Layers[i].IsVisible() {
			grids = append(grids, m.Layers[i].Data)
		}
	}
	return grids
}

// drawPortalMarkers outlines the active map's relation points, red for
// endpoint A and blue for endpoint B. Debug aid only; portals are
// invisible in normal play.
func (g *Game) drawPortalMarkers(screen *ebiten.Image, camX, camY, factor float64) {
	pts := g.portals.points[g.currentMap]
	cell := float64(baseGridCellSize)
	for _, group := range sortedKeys(pts) {
		for tag, coord := range pts[group] {
			x := float32((float64(coord[0])*cell - camX) * factor)
			y := float32((float64(coord[1])*cell - camY) * factor)
			vector.StrokeRect(screen, x, y, float32(cell*factor), float32(cell*factor),
				2, endpointColor(tag), false)
		}
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.lastW || outsideHeight != g.lastH {
		g.lastW, g.lastH = outsideWidth, outsideHeight
		oldOffX, oldOffY := g.zoom.CenterOffset()
		g.zoom.Resize(outsideWidth, outsideHeight)
		g.camera.HandleResize(oldOffX, oldOffY)
	}
	return outsideWidth, outsideHeight
}

func runGame(ctx context.Context, g *Game) {
	gameCtx = ctx

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Tilevale")
	ebiten.SetWindowSize(screenWidth*gs.Scale, screenHeight*gs.Scale)
	ebiten.SetVsyncEnabled(gs.Vsync)
	if gs.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	if err := ebiten.RunGame(g); err != nil {
		log.Printf("ebiten: %v", err)
	}
	g.saveGameState()
	saveSettings()
}
