package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

//
// The drawing surface: a fixed-size grid of RGBA color values,
// written through a 16-entry palette.  Out-of-bounds writes clip
// silently - the one deliberate leniency, so programs may compute
// off-surface geometry freely.  The external renderer only ever
// sees snapshots
//

type surface struct {
	width  int
	height int
	video  []uint32
}

//
// Palette indices, Sweetie-16 layout
//

const (
	colorBlack = iota
	colorPurple
	colorRed
	colorOrange
	colorYellow
	colorLightGreen
	colorDarkGreen
	colorTeal
	colorDeepBlue
	colorDarkBlue
	colorLightBlue
	colorAqua
	colorWhite
	colorLightGray
	colorMediumGray
	colorDarkGray
)

var palette = [16]uint32{
	0x1a1c2cff, 0x5d275dff, 0xb13e53ff, 0xef7d57ff,
	0xffcd75ff, 0xa7f070ff, 0x38b764ff, 0x257179ff,
	0x29366fff, 0x3b5dc9ff, 0x41a6f6ff, 0x73eff7ff,
	0xf4f4f4ff, 0x94b0c2ff, 0x566c86ff, 0x333c57ff,
}

var colorNameMap = map[string]int{
	"orange": colorOrange, "org": colorOrange,
	"red":    colorRed,
	"yellow": colorYellow, "yel": colorYellow,
	"green": colorDarkGreen, "grn": colorDarkGreen,
	"blue": colorDarkBlue, "blu": colorDarkBlue,
	"light_blue":  colorLightBlue,
	"deep_blue":   colorDeepBlue,
	"light_green": colorLightGreen,
	"teal":        colorTeal,
	"aqua":        colorAqua,
	"dark_gray":   colorDarkGray,
	"medium_gray": colorMediumGray,
	"light_gray":  colorLightGray,
	"purple":      colorPurple, "pur": colorPurple,
	"black": colorBlack, "blk": colorBlack,
	"white": colorWhite, "wht": colorWhite,
}

func newSurface(width, height int) *surface {

	basicAssert(width > 0 && height > 0,
		"Bad surface geometry %dx%d", width, height)

	sf := &surface{width: width, height: height}
	sf.video = make([]uint32, width*height)

	sf.clear(colorBlack)

	return sf
}

func initDraw(width, height int) {

	g.surface = newSurface(width, height)
}

//
// Decode a color argument.  Accepted forms: a palette index, or one
// of the color names (long or short).  Anything else is a ColorError
//

func decodeColor(val any) int {

	switch val := val.(type) {
	default:
		runtimeError(ColorError, "Expected color name or index")

	case int64:
		runtimeCheck(val >= 0 && val < int64(len(palette)),
			ColorError, EBADCOLORINDEX, val)
		return int(val)

	case string:
		idx, ok := colorNameMap[val]
		runtimeCheck(ok, ColorError, EUNKNOWNCOLOR, val)
		return idx
	}

	panic("not reached")
}

func (sf *surface) clear(colorIdx int) {

	rgba := palette[colorIdx]

	for i := range sf.video {
		sf.video[i] = rgba
	}
}

//
// Write one pixel, clipping anything off-surface
//

func (sf *surface) pixel(x, y, colorIdx int) {

	if x < 0 || y < 0 || x >= sf.width || y >= sf.height {
		return
	}

	sf.video[x+y*sf.width] = palette[colorIdx]
}

func (sf *surface) pixelAt(x, y int) uint32 {

	basicAssert(x >= 0 && y >= 0 && x < sf.width && y < sf.height,
		"pixelAt out of range (%d,%d)", x, y)

	return sf.video[x+y*sf.width]
}

//
// Bresenham line.  The endpoints are put in a canonical order first
// so that both argument orders rasterize the identical pixel set
//

func (sf *surface) line(x1, y1, x2, y2, colorIdx int) {

	if x2 < x1 || (x2 == x1 && y2 < y1) {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}

	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	x, y := x1, y1

	for {
		sf.pixel(x, y, colorIdx)

		if x == x2 && y == y2 {
			return
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

//
// Polygon outline: edges v1-v2 ... v(n-1)-vn, plus the closing edge
// back to v1.  No interior fill
//

func (sf *surface) poly(points [][2]int, colorIdx int) {

	runtimeCheck(len(points) >= 2, EvalError,
		"Polygon needs at least 2 vertices, got %d", len(points))

	for i := range points {
		p1 := points[i]
		p2 := points[(i+1)%len(points)]

		sf.line(p1[0], p1[1], p2[0], p2[1], colorIdx)
	}
}

//
// A read-only copy of the surface for external renderers/encoders.
// Indexed [y][x]
//

func (sf *surface) snapshot() [][]uint32 {

	grid := make([][]uint32, sf.height)

	for y := 0; y < sf.height; y++ {
		grid[y] = make([]uint32, sf.width)
		copy(grid[y], sf.video[y*sf.width:(y+1)*sf.width])
	}

	return grid
}

//
// Encode the current surface as a PNG.  Strictly an external
// collaborator of the engine: it only reads the snapshot
//

func writeSurfacePNG(filename string) error {

	grid := g.surface.snapshot()

	img := image.NewRGBA(image.Rect(0, 0, g.surface.width,
		g.surface.height))

	for y, row := range grid {
		for x, rgba := range row {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rgba >> 24),
				G: uint8(rgba >> 16),
				B: uint8(rgba >> 8),
				A: uint8(rgba),
			})
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

func abs(n int) int {

	if n < 0 {
		return -n
	}

	return n
}
