package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

const mapExt = ".json"

var errMapNotFound = errors.New("map not found")

// MapLayer is one tile grid of a map. A tile id of -1 means empty.
type MapLayer struct {
	Name    string  `json:"name"`
	Visible *bool   `json:"visible"`
	Data    [][]int `json:"data"`
}

// IsVisible treats a missing visible flag as true, matching how map files
// written by older editor versions omit it.
func (l MapLayer) IsVisible() bool {
	return l.Visible == nil || *l.Visible
}

// MapData is the persisted form of a single map. RelationPoints stays raw
// here; the portal registry validates it entry by entry so one malformed
// endpoint cannot fail the whole map load.
type MapData struct {
	Width          int             `json:"width"`
	Height         int             `json:"height"`
	Layers         []MapLayer      `json:"layers"`
	Legacy         [][]int         `json:"map_data"`
	TileMapping    TileMapping     `json:"tile_mapping"`
	RelationPoints json.RawMessage `json:"relation_points"`
}

// grids returns every tile grid in the map, wrapping the legacy
// single-layer format when no layered data is present.
func (m *MapData) grids() [][][]int {
	if len(m.Layers) > 0 {
		gs := make([][][]int, 0, len(m.Layers))
		for i := range m.Layers {
			gs = append(gs, m.Layers[i].Data)
		}
		return gs
	}
	if len(m.Legacy) > 0 {
		return [][][]int{m.Legacy}
	}
	return nil
}

// MapResolver locates map files in the two-level Maps directory layout:
// a primary map lives at Maps/<name>/<name>.json and related maps share
// the folder of some primary map. The root is discovered once, at
// construction.
type MapResolver struct {
	root string
}

func newMapResolver(baseDir string) *MapResolver {
	return &MapResolver{root: findMapsRoot(baseDir)}
}

func newMapResolverAt(root string) *MapResolver {
	return &MapResolver{root: root}
}

// findMapsRoot probes the working directory and up to two parents for a
// Maps folder, which covers running from the repo root, a build dir, or
// a nested tool dir.
func findMapsRoot(baseDir string) string {
	dirs := []string{
		baseDir,
		filepath.Dir(baseDir),
		filepath.Dir(filepath.Dir(baseDir)),
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, "Maps")
		if st, err := os.Stat(p); err == nil && st.IsDir() {
			return p
		}
	}
	return filepath.Join(baseDir, "Maps")
}

func (r *MapResolver) Root() string { return r.root }

// Resolve returns the file path for a map id, checking the map's own
// folder first and then every other folder under the maps root.
func (r *MapResolver) Resolve(mapID string) (string, error) {
	primary := filepath.Join(r.root, mapID, mapID+mapExt)
	if _, err := os.Stat(primary); err == nil {
		return primary, nil
	}
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return "", fmt.Errorf("maps root %s: %w", r.root, errMapNotFound)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p := filepath.Join(r.root, e.Name(), mapID+mapExt)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("map %q: %w", mapID, errMapNotFound)
}

// FolderOf reports which folder holds a map. Teleportation is only valid
// between maps sharing a folder, so the portal registry leans on this.
func (r *MapResolver) FolderOf(mapID string) (string, error) {
	path, err := r.Resolve(mapID)
	if err != nil {
		return "", err
	}
	return filepath.Base(filepath.Dir(path)), nil
}

func (r *MapResolver) Load(mapID string) (*MapData, error) {
	path, err := r.Resolve(mapID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %q: %w", mapID, err)
	}
	var m MapData
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse map %q: %w", mapID, err)
	}
	logDebug("loaded map %q (%s)", mapID, humanize.Bytes(uint64(len(data))))
	return &m, nil
}
