package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hako/durafmt"
)

type playerLocation struct {
	MapName   string  `json:"map_name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction string  `json:"direction"`
}

type locationFile struct {
	SaveID string                    `json:"save_id"`
	Worlds map[string]playerLocation `json:"worlds"`
}

// LocationTracker persists the player's last known position per world,
// keyed by the folder owning the map. Writes are fire-and-forget: any
// failure is logged and the game keeps running.
type LocationTracker struct {
	path     string
	resolver *MapResolver
	saveID   string
	worlds   map[string]playerLocation
}

func newLocationTracker(baseDir string, resolver *MapResolver) *LocationTracker {
	t := &LocationTracker{
		path:     filepath.Join(baseDir, "SaveData", "player_location.json"),
		resolver: resolver,
		saveID:   uuid.NewString(),
		worlds:   make(map[string]playerLocation),
	}
	t.load()
	return t
}

func (t *LocationTracker) load() {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return
	}
	var f locationFile
	if err := json.Unmarshal(data, &f); err != nil {
		logError("load player locations: %v", err)
		return
	}
	if f.SaveID != "" {
		t.saveID = f.SaveID
	}
	if f.Worlds != nil {
		t.worlds = f.Worlds
	}
}

// SaveLocation records the player's position for the world owning mapID
// and flushes the tracker file.
func (t *LocationTracker) SaveLocation(mapID string, x, y float64, direction string) {
	folder, err := t.resolver.FolderOf(mapID)
	if err != nil {
		folder = "main"
	}
	t.worlds[folder] = playerLocation{MapName: mapID, X: x, Y: y, Direction: direction}
	t.flush()
}

func (t *LocationTracker) Location(world string) (playerLocation, bool) {
	loc, ok := t.worlds[world]
	return loc, ok
}

func (t *LocationTracker) SaveID() string { return t.saveID }

func (t *LocationTracker) flush() {
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		logError("save player locations: %v", err)
		return
	}
	data, err := json.MarshalIndent(locationFile{SaveID: t.saveID, Worlds: t.worlds}, "", "  ")
	if err != nil {
		logError("save player locations: %v", err)
		return
	}
	if err := os.WriteFile(t.path, data, 0644); err != nil {
		logError("save player locations: %v", err)
	}
}

// gameState is the snapshot written by saveGameState before a teleport
// and on shutdown.
type gameState struct {
	SaveID    string    `json:"save_id"`
	Map       string    `json:"map"`
	CameraX   float64   `json:"camera_x"`
	CameraY   float64   `json:"camera_y"`
	ZoomIndex int       `json:"zoom_index"`
	Played    string    `json:"played"`
	SavedAt   time.Time `json:"saved_at"`
}

func writeGameState(baseDir string, st gameState) {
	dir := filepath.Join(baseDir, "SaveData")
	if err := os.MkdirAll(dir, 0755); err != nil {
		logError("save game state: %v", err)
		return
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logError("save game state: %v", err)
		return
	}
	if err := os.WriteFile(filepath.Join(dir, "game_state.json"), data, 0644); err != nil {
		logError("save game state: %v", err)
		return
	}
	logDebug("game state saved (session %s)", st.Played)
}

func formatPlayed(since time.Time) string {
	return durafmt.Parse(time.Since(since).Round(time.Second)).LimitFirstN(2).String()
}
