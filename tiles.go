package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/remeh/sizedwaitgroup"
)

// TileInfo describes one tile id from a map's tile_mapping section.
type TileInfo struct {
	Path  string `json:"path"`
	Solid bool   `json:"solid"`
}

// TileMapping maps tile ids (JSON object keys, so strings) to tile info.
type TileMapping map[string]TileInfo

func (m TileMapping) info(id int) (TileInfo, bool) {
	ti, ok := m[strconv.Itoa(id)]
	return ti, ok
}

func (m TileMapping) IsSolid(id int) bool {
	ti, ok := m.info(id)
	return ok && ti.Solid
}

// IsDynamicEntityTile reports whether a tile id is a player or enemy
// spawn marker rather than map geometry. These are keyed off the sprite
// path conventions the editor uses for spawn tiles.
func (m TileMapping) IsDynamicEntityTile(id int) bool {
	ti, ok := m.info(id)
	if !ok {
		return false
	}
	return strings.Contains(ti.Path, "Enemies_Sprites/") ||
		strings.Contains(ti.Path, "character/char_")
}

// tileImageCache holds decoded tile images keyed by sprite path. Misses
// decode on demand; a missing or broken file caches a magenta
// placeholder so the renderer never sees a nil image.
type tileImageCache struct {
	baseDir string

	mu    sync.Mutex
	imgs  map[string]*ebiten.Image
	bytes int64
}

func newTileImageCache(baseDir string) *tileImageCache {
	return &tileImageCache{
		baseDir: baseDir,
		imgs:    make(map[string]*ebiten.Image),
	}
}

func (c *tileImageCache) image(path string) *ebiten.Image {
	c.mu.Lock()
	if img, ok := c.imgs[path]; ok {
		c.mu.Unlock()
		return img
	}
	c.mu.Unlock()

	img, size := loadTileImage(filepath.Join(c.baseDir, filepath.FromSlash(path)))

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.imgs[path]; ok {
		return cached
	}
	c.imgs[path] = img
	c.bytes += size
	return img
}

func (c *tileImageCache) stats() (count int, size uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.imgs), uint64(c.bytes)
}

// precache decodes every tile image referenced by mapping ahead of the
// first frame. Bounded parallelism keeps startup IO from starving the
// render thread.
func (c *tileImageCache) precache(mapping TileMapping) {
	swg := sizedwaitgroup.New(4)
	seen := make(map[string]bool, len(mapping))
	for _, ti := range mapping {
		if ti.Path == "" || seen[ti.Path] {
			continue
		}
		seen[ti.Path] = true
		swg.Add()
		go func(p string) {
			defer swg.Done()
			c.image(p)
		}(ti.Path)
	}
	swg.Wait()
}

func loadTileImage(fsPath string) (*ebiten.Image, int64) {
	f, err := os.Open(fsPath)
	if err != nil {
		logWarnThrottled("tile image %s: %v", fsPath, err)
		return placeholderTile(), 16 * 16 * 4
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		logWarnThrottled("tile image %s: %v", fsPath, err)
		return placeholderTile(), 16 * 16 * 4
	}
	b := src.Bounds()
	return ebiten.NewImageFromImage(src), int64(b.Dx() * b.Dy() * 4)
}

var (
	placeholderOnce sync.Once
	placeholderImg  *ebiten.Image
)

func placeholderTile() *ebiten.Image {
	placeholderOnce.Do(func() {
		placeholderImg = ebiten.NewImage(baseGridCellSize, baseGridCellSize)
		placeholderImg.Fill(color.RGBA{R: 255, B: 255, A: 255})
	})
	return placeholderImg
}
