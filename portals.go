package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Relation point endpoint tags. A group id links endpoint A in one map to
// endpoint B in another map of the same folder.
const (
	endpointA = "A"
	endpointB = "B"
)

// Teleport describes a resolved portal transition. It is produced by
// PortalRegistry.CheckCollision, consumed once by the teleportation
// manager and then discarded.
type Teleport struct {
	FromMap      string
	FromEndpoint string
	ToMap        string
	ToEndpoint   string
	ToCoord      [2]int
	GroupID      string
}

// bounceMarker records the portal endpoint the player just arrived at.
// While the player keeps overlapping this exact endpoint, matching is
// suppressed so a completed teleport cannot immediately bounce back.
type bounceMarker struct {
	tag   string
	coord [2]int
	group string
}

// PortalRegistry owns the per-map relation point tables and resolves
// which destination a colliding player should teleport to.
type PortalRegistry struct {
	resolver *MapResolver
	cellSize int

	// map id -> group id -> endpoint tag -> grid coordinate
	points map[string]map[string]map[string][2]int

	currentMap string
	bounce     *bounceMarker
}

func newPortalRegistry(resolver *MapResolver, cellSize int) *PortalRegistry {
	return &PortalRegistry{
		resolver: resolver,
		cellSize: cellSize,
		points:   make(map[string]map[string]map[string][2]int),
	}
}

func (pr *PortalRegistry) SetCurrentMap(mapID string) { pr.currentMap = mapID }
func (pr *PortalRegistry) CurrentMap() string         { return pr.currentMap }

// ArmBounce marks the arrival endpoint of a completed teleport so the
// player must step off it before it can trigger again.
func (pr *PortalRegistry) ArmBounce(tag string, coord [2]int, group string) {
	pr.bounce = &bounceMarker{tag: tag, coord: coord, group: group}
}

// Load reads one map from disk and installs its relation points. A map
// that cannot be read or parsed gets an empty entry; the load itself
// never fails.
func (pr *PortalRegistry) Load(mapID string) {
	m, err := pr.resolver.Load(mapID)
	if err != nil {
		logDebug("relation points for %q: %v", mapID, err)
		pr.points[mapID] = map[string]map[string][2]int{}
		return
	}
	pr.Store(mapID, m.RelationPoints)
}

// Store validates already-parsed relation point data and installs it for
// mapID, replacing whatever was there.
func (pr *PortalRegistry) Store(mapID string, raw json.RawMessage) {
	pr.points[mapID] = validateRelationPoints(mapID, raw)
}

// LoadAll eagerly loads relation points for the primary map and every
// related map in every folder, so destination matching has complete
// information before a map switch.
func (pr *PortalRegistry) LoadAll() {
	root := pr.resolver.Root()
	entries, err := os.ReadDir(root)
	if err != nil {
		logDebug("load all relation points: %v", err)
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, e.Name()))
		if err != nil {
			logDebug("scan folder %q: %v", e.Name(), err)
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), mapExt) {
				continue
			}
			pr.Load(strings.TrimSuffix(f.Name(), mapExt))
		}
	}
}

// validateRelationPoints normalizes raw relation point JSON into the
// registry table. Each endpoint is validated on its own: a bad tag or a
// coordinate that is not a 2-element integer pair drops that endpoint
// with a warning and leaves its siblings intact.
func validateRelationPoints(mapID string, raw json.RawMessage) map[string]map[string][2]int {
	valid := make(map[string]map[string][2]int)
	if len(raw) == 0 {
		return valid
	}
	var groups map[string]json.RawMessage
	if err := json.Unmarshal(raw, &groups); err != nil {
		logWarnThrottled("map %q: relation_points is not an object: %v", mapID, err)
		return valid
	}
	for group, rawEndpoints := range groups {
		var endpoints map[string]json.RawMessage
		if err := json.Unmarshal(rawEndpoints, &endpoints); err != nil {
			logWarnThrottled("map %q portal %q: not an object: %v", mapID, group, err)
			continue
		}
		for tag, rawCoord := range endpoints {
			t := strings.ToUpper(tag)
			if t != endpointA && t != endpointB {
				logWarnThrottled("map %q portal %q: invalid endpoint tag %q", mapID, group, tag)
				continue
			}
			var coord []int
			if err := json.Unmarshal(rawCoord, &coord); err != nil || len(coord) != 2 {
				logWarnThrottled("map %q portal %q/%s: invalid coordinate", mapID, group, tag)
				continue
			}
			if valid[group] == nil {
				valid[group] = make(map[string][2]int, 2)
			}
			valid[group][t] = [2]int{coord[0], coord[1]}
		}
	}
	return valid
}

// CheckCollision scans the active map's portal endpoints for overlap with
// playerBox and resolves the matching destination. Matching order is
// deterministic: group ids sorted, then candidate maps lexicographically.
// Standing on the anti-bounce endpoint suppresses all matching until the
// player steps off it; once nothing overlaps, the marker clears.
func (pr *PortalRegistry) CheckCollision(playerBox Rect) *Teleport {
	if pr.currentMap == "" {
		return nil
	}
	current := pr.points[pr.currentMap]
	if len(current) == 0 {
		return nil
	}
	cell := float64(pr.cellSize)

	for _, group := range sortedKeys(current) {
		for _, tag := range []string{endpointA, endpointB} {
			coord, ok := current[group][tag]
			if !ok {
				continue
			}
			box := Rect{
				X: float64(coord[0]) * cell,
				Y: float64(coord[1]) * cell,
				W: cell,
				H: cell,
			}
			if !playerBox.Overlaps(box) {
				continue
			}
			if b := pr.bounce; b != nil && b.tag == tag && b.coord == coord && b.group == group {
				return nil
			}
			if t := pr.matchDestination(group, tag); t != nil {
				return t
			}
		}
	}
	pr.bounce = nil
	return nil
}

// matchDestination searches every other map for the opposite endpoint of
// a group. Candidates in a different folder are skipped, not errors.
func (pr *PortalRegistry) matchDestination(group, tag string) *Teleport {
	opposite := endpointB
	if tag == endpointB {
		opposite = endpointA
	}
	for _, mapID := range sortedKeys(pr.points) {
		if mapID == pr.currentMap {
			continue
		}
		dest, ok := pr.points[mapID][group]
		if !ok {
			continue
		}
		coord, ok := dest[opposite]
		if !ok {
			continue
		}
		if !pr.sameFolder(pr.currentMap, mapID) {
			logDebug("portal %q: %q and %q are in different folders, skipping", group, pr.currentMap, mapID)
			continue
		}
		return &Teleport{
			FromMap:      pr.currentMap,
			FromEndpoint: tag,
			ToMap:        mapID,
			ToEndpoint:   opposite,
			ToCoord:      coord,
			GroupID:      group,
		}
	}
	return nil
}

func (pr *PortalRegistry) sameFolder(a, b string) bool {
	fa, err := pr.resolver.FolderOf(a)
	if err != nil {
		return false
	}
	fb, err := pr.resolver.FolderOf(b)
	if err != nil {
		return false
	}
	return fa == fb
}
