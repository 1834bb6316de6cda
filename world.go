package main

import "os"

// listWorlds returns the folder names under the maps root, in directory
// order (sorted by name). Each folder is a world whose primary map
// carries the folder's name.
func listWorlds(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		logError("list worlds: %v", err)
		return nil
	}
	var worlds []string
	for _, e := range entries {
		if e.IsDir() {
			worlds = append(worlds, e.Name())
		}
	}
	return worlds
}
