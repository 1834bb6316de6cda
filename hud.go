package main

import (
	"fmt"
	"image/color"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	dark "github.com/thiagokokada/dark-mode-go"
)

var hudDark = true

// initHUDPalette picks the letterbox/background shade from the OS theme.
// Probe failures keep the dark default.
func initHUDPalette() {
	isDark, err := dark.IsDarkMode()
	if err != nil {
		return
	}
	hudDark = isDark
}

func hudBackground() color.RGBA {
	if hudDark {
		return color.RGBA{R: 18, G: 18, B: 20, A: 255}
	}
	return color.RGBA{R: 198, G: 198, B: 203, A: 255}
}

func playerColor() color.RGBA {
	return color.RGBA{R: 66, G: 135, B: 245, A: 255}
}

func endpointColor(tag string) color.RGBA {
	if tag == endpointA {
		return color.RGBA{R: 220, G: 60, B: 60, A: 255}
	}
	return color.RGBA{R: 60, G: 120, B: 220, A: 255}
}

func drawHUD(screen *ebiten.Image, g *Game) {
	camX, camY := g.camera.Position()
	count, size := g.tileCache.stats()
	text := fmt.Sprintf("%s  zoom %.1fx  cam (%.0f, %.0f)  grid (%d, %d)\ntiles %d (%s)  session %s",
		g.currentMap, g.zoom.Factor(), camX, camY,
		g.player.GridX, g.player.GridY,
		count, humanize.Bytes(size),
		formatPlayed(g.sessionStart))
	ebitenutil.DebugPrintAt(screen, text, 4, 4)
}
