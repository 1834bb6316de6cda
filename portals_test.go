package main

import (
	"encoding/json"
	"testing"
)

// portalMap builds a legacy map document with relation points attached.
func portalMap(w, h int, relations map[string]interface{}) map[string]interface{} {
	m := flatMap(w, h, 0)
	m["relation_points"] = relations
	return m
}

func newTestRegistry(t *testing.T, root string) *PortalRegistry {
	t.Helper()
	pr := newPortalRegistry(newMapResolverAt(root), baseGridCellSize)
	pr.LoadAll()
	return pr
}

func TestPortalMatchHouseToYard(t *testing.T) {
	root := t.TempDir()
	writeMapFile(t, root, "home", "house", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"A": []int{5, 5}},
	}))
	writeMapFile(t, root, "home", "yard", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"B": []int{2, 2}},
	}))

	pr := newTestRegistry(t, root)
	pr.SetCurrentMap("house")

	player := Rect{X: 80, Y: 80, W: 14, H: 14}
	rel := pr.CheckCollision(player)
	if rel == nil {
		t.Fatal("expected a portal match on tile (5,5)")
	}
	if rel.FromMap != "house" || rel.FromEndpoint != endpointA {
		t.Fatalf("source = %s/%s, want house/A", rel.FromMap, rel.FromEndpoint)
	}
	if rel.ToMap != "yard" || rel.ToEndpoint != endpointB {
		t.Fatalf("destination = %s/%s, want yard/B", rel.ToMap, rel.ToEndpoint)
	}
	if rel.ToCoord != [2]int{2, 2} {
		t.Fatalf("destination coord = %v, want [2 2]", rel.ToCoord)
	}
	if rel.GroupID != "door1" {
		t.Fatalf("group = %q, want door1", rel.GroupID)
	}
}

func TestPortalSymmetry(t *testing.T) {
	root := t.TempDir()
	writeMapFile(t, root, "home", "house", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"A": []int{5, 5}},
	}))
	writeMapFile(t, root, "home", "yard", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"B": []int{2, 2}},
	}))

	pr := newTestRegistry(t, root)
	pr.SetCurrentMap("yard")

	player := Rect{X: 33, Y: 33, W: 14, H: 14}
	rel := pr.CheckCollision(player)
	if rel == nil {
		t.Fatal("expected the reverse match from yard/B")
	}
	if rel.ToMap != "house" || rel.ToEndpoint != endpointA || rel.ToCoord != [2]int{5, 5} {
		t.Fatalf("reverse destination = %s/%s at %v, want house/A at [5 5]",
			rel.ToMap, rel.ToEndpoint, rel.ToCoord)
	}
}

func TestPortalNoMatchWithoutOverlap(t *testing.T) {
	root := t.TempDir()
	writeMapFile(t, root, "home", "house", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"A": []int{5, 5}},
	}))
	writeMapFile(t, root, "home", "yard", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"B": []int{2, 2}},
	}))

	pr := newTestRegistry(t, root)
	pr.SetCurrentMap("house")

	player := Rect{X: 10, Y: 10, W: 14, H: 14}
	if rel := pr.CheckCollision(player); rel != nil {
		t.Fatalf("unexpected match away from the portal: %+v", rel)
	}
}

func TestPortalCrossFolderRejected(t *testing.T) {
	root := t.TempDir()
	writeMapFile(t, root, "home", "house", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"A": []int{5, 5}},
	}))
	writeMapFile(t, root, "cave", "cave", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"B": []int{2, 2}},
	}))

	pr := newTestRegistry(t, root)
	pr.SetCurrentMap("house")

	player := Rect{X: 80, Y: 80, W: 14, H: 14}
	if rel := pr.CheckCollision(player); rel != nil {
		t.Fatalf("cross-folder candidate matched: %+v", rel)
	}
}

func TestPortalAntiBounceCycle(t *testing.T) {
	root := t.TempDir()
	writeMapFile(t, root, "home", "house", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"A": []int{5, 5}},
	}))
	writeMapFile(t, root, "home", "yard", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"B": []int{2, 2}},
	}))

	pr := newTestRegistry(t, root)
	pr.SetCurrentMap("yard")
	pr.ArmBounce(endpointB, [2]int{2, 2}, "door1")

	onPortal := Rect{X: 33, Y: 33, W: 14, H: 14}
	if rel := pr.CheckCollision(onPortal); rel != nil {
		t.Fatalf("armed bounce still matched: %+v", rel)
	}
	// Still armed while the player remains on the endpoint.
	if rel := pr.CheckCollision(onPortal); rel != nil {
		t.Fatalf("armed bounce matched on second check: %+v", rel)
	}

	// Stepping off clears the marker.
	off := Rect{X: 100, Y: 100, W: 14, H: 14}
	if rel := pr.CheckCollision(off); rel != nil {
		t.Fatalf("no-overlap check matched: %+v", rel)
	}

	// Returning to the same endpoint now triggers normally.
	rel := pr.CheckCollision(onPortal)
	if rel == nil {
		t.Fatal("portal did not re-arm after the player stepped off")
	}
	if rel.ToMap != "house" {
		t.Fatalf("re-armed destination = %q, want house", rel.ToMap)
	}
}

func TestValidateRelationPointsDropsBadEntries(t *testing.T) {
	raw := json.RawMessage(`{
		"door1": {"A": [5, 5], "C": [1, 1]},
		"door2": {"a": [3, 4], "B": [9]},
		"door3": {"A": ["x", "y"]},
		"door4": "not an object"
	}`)
	valid := validateRelationPoints("house", raw)

	if got := valid["door1"]; len(got) != 1 || got[endpointA] != [2]int{5, 5} {
		t.Fatalf("door1 = %v, want only A:[5 5]", got)
	}
	// Lowercase tags normalize to uppercase; the bad-arity B drops.
	if got := valid["door2"]; len(got) != 1 || got[endpointA] != [2]int{3, 4} {
		t.Fatalf("door2 = %v, want only A:[3 4]", got)
	}
	if _, ok := valid["door3"]; ok {
		t.Fatal("door3 with non-numeric coordinates survived validation")
	}
	if _, ok := valid["door4"]; ok {
		t.Fatal("door4 non-object group survived validation")
	}
}

func TestValidateRelationPointsNonObject(t *testing.T) {
	if got := validateRelationPoints("house", json.RawMessage(`[1, 2, 3]`)); len(got) != 0 {
		t.Fatalf("array relation_points produced entries: %v", got)
	}
	if got := validateRelationPoints("house", nil); len(got) != 0 {
		t.Fatalf("empty relation_points produced entries: %v", got)
	}
}

func TestPortalDeterministicCandidateOrder(t *testing.T) {
	root := t.TempDir()
	writeMapFile(t, root, "home", "house", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"A": []int{5, 5}},
	}))
	// Two candidates both carry door1/B; the lexicographically first map
	// id must win every time.
	writeMapFile(t, root, "home", "yardB", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"B": []int{2, 2}},
	}))
	writeMapFile(t, root, "home", "yardA", portalMap(10, 10, map[string]interface{}{
		"door1": map[string]interface{}{"B": []int{7, 7}},
	}))

	pr := newTestRegistry(t, root)
	pr.SetCurrentMap("house")

	player := Rect{X: 80, Y: 80, W: 14, H: 14}
	for i := 0; i < 10; i++ {
		rel := pr.CheckCollision(player)
		if rel == nil {
			t.Fatal("expected a match")
		}
		if rel.ToMap != "yardA" {
			t.Fatalf("iteration %d picked %q, want yardA", i, rel.ToMap)
		}
	}
}

func TestPortalLoadErrorYieldsEmptyEntry(t *testing.T) {
	root := t.TempDir()
	pr := newPortalRegistry(newMapResolverAt(root), baseGridCellSize)
	pr.Load("missing")
	pts, ok := pr.points["missing"]
	if !ok {
		t.Fatal("failed load left no entry")
	}
	if len(pts) != 0 {
		t.Fatalf("failed load produced points: %v", pts)
	}
}
