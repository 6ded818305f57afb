package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func surfacesEqual(tb testing.TB, sf1, sf2 *surface) {

	tb.Helper()

	if sf1.width != sf2.width || sf1.height != sf2.height {
		tb.Fatalf("geometry mismatch: %dx%d vs %dx%d",
			sf1.width, sf1.height, sf2.width, sf2.height)
	}

	for i := range sf1.video {
		if sf1.video[i] != sf2.video[i] {
			tb.Errorf("pixel (%d,%d) differs", i%sf1.width, i/sf1.width)
			return
		}
	}
}

func TestDotStatement(t *testing.T) {

	runSource(t, `10 dot 3 4 "red"`)

	if got := g.surface.pixelAt(3, 4); got != palette[colorRed] {
		t.Errorf("pixel (3,4) is %08x, want red", got)
	}

	if got := g.surface.pixelAt(4, 3); got != palette[colorBlack] {
		t.Errorf("pixel (4,3) is %08x, want the background", got)
	}

	grid := g.surface.snapshot()

	if grid[4][3] != palette[colorRed] {
		t.Errorf("snapshot[4][3] is %08x, want red", grid[4][3])
	}
}

//
// Float coordinates round to the nearest pixel
//

func TestDotRounding(t *testing.T) {

	runSource(t, `10 dot 1.4 1.6 2`)

	if got := g.surface.pixelAt(1, 2); got != palette[2] {
		t.Errorf("pixel (1,2) is %08x, want palette 2", got)
	}
}

//
// Off-surface writes clip silently
//

func TestDotClipping(t *testing.T) {

	runSource(t, `
10 dot -1 5 2
20 dot 500 5 2
30 dot 5 -1 2
40 dot 5 400 2
`)

	blank := newSurface(surfaceWidth, surfaceHeight)

	surfacesEqual(t, g.surface, blank)
}

func TestColorForms(t *testing.T) {

	resetInterp(t)

	cases := []struct {
		val  any
		want int
	}{
		{int64(0), colorBlack},
		{int64(15), colorDarkGray},
		{"red", colorRed},
		{"org", colorOrange},
		{"orange", colorOrange},
		{"grn", colorDarkGreen},
		{"light_gray", colorLightGray},
		{"wht", colorWhite},
	}

	for _, c := range cases {
		if got := decodeColor(c.val); got != c.want {
			t.Errorf("decodeColor(%v): got %d, want %d", c.val, got, c.want)
		}
	}
}

func TestColorErrors(t *testing.T) {

	cases := []struct {
		name string
		text string
	}{
		{"unknown name", `10 dot 1 1 "mauve"`},
		{"index too large", "10 dot 1 1 16"},
		{"negative index", "10 dot 1 1 (0 - 1)"},
		{"float color", "10 dot 1 1 1.5"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := runSourceErr(t, c.text)

			if errKind(t, err) != ColorError {
				t.Errorf("got %v, want a ColorError", err)
			}
		})
	}
}

//
// The rasterized pixel set must not depend on endpoint order
//

func TestLineEndpointSymmetry(t *testing.T) {

	cases := [][4]int{
		{0, 0, 17, 9},
		{5, 20, 25, 3},
		{3, 3, 3, 12},
		{2, 2, 14, 2},
		{10, 1, 1, 10},
		{7, 7, 7, 7},
	}

	for _, c := range cases {
		sf1 := newSurface(40, 30)
		sf2 := newSurface(40, 30)

		sf1.line(c[0], c[1], c[2], c[3], colorRed)
		sf2.line(c[2], c[3], c[0], c[1], colorRed)

		surfacesEqual(t, sf1, sf2)
	}
}

func TestLineEndpointsDrawn(t *testing.T) {

	sf := newSurface(40, 30)

	sf.line(2, 3, 20, 11, colorAqua)

	if sf.pixelAt(2, 3) != palette[colorAqua] {
		t.Errorf("first endpoint not drawn")
	}

	if sf.pixelAt(20, 11) != palette[colorAqua] {
		t.Errorf("second endpoint not drawn")
	}
}

func TestLineStatement(t *testing.T) {

	runSource(t, `10 line {0, 0} {5, 5} "red"`)

	for i := 0; i <= 5; i++ {
		if g.surface.pixelAt(i, i) != palette[colorRed] {
			t.Errorf("pixel (%d,%d) not drawn", i, i)
		}
	}
}

//
// poly draws every edge including the closing one, as an outline
//

func TestPolyTriangle(t *testing.T) {

	sf := newSurface(40, 30)
	sf.poly([][2]int{{0, 0}, {0, 10}, {10, 0}}, colorRed)

	ref := newSurface(40, 30)
	ref.line(0, 0, 0, 10, colorRed)
	ref.line(0, 10, 10, 0, colorRed)
	ref.line(10, 0, 0, 0, colorRed)

	surfacesEqual(t, sf, ref)

	// a point on the closing edge

	if sf.pixelAt(5, 5) != palette[colorRed] {
		t.Errorf("closing edge not drawn")
	}
}

func TestPolyArrayForm(t *testing.T) {

	runSource(t, `10 poly {0, 0} {0, 10} {10, 0} 2`)
	inline := g.surface

	runSource(t, `10 poly {{0, 0}, {0, 10}, {10, 0}} 2`)

	surfacesEqual(t, g.surface, inline)
}

func TestPolyTooFewVertices(t *testing.T) {

	err := runSourceErr(t, `10 poly {{0, 0}} "red"`)

	if errKind(t, err) != EvalError {
		t.Errorf("got %v, want an EvalError", err)
	}
}

func TestPolyBadVertex(t *testing.T) {

	err := runSourceErr(t, `10 poly {0, 0} {1, 2, 3} "red"`)

	if errKind(t, err) != EvalError {
		t.Errorf("got %v, want an EvalError", err)
	}
}

func TestClsStatement(t *testing.T) {

	runSource(t, `
10 dot 3 4 "red"
20 cls "white"
`)

	for _, xy := range [][2]int{{0, 0}, {3, 4},
		{surfaceWidth - 1, surfaceHeight - 1}} {
		if got := g.surface.pixelAt(xy[0], xy[1]); got != palette[colorWhite] {
			t.Errorf("pixel (%d,%d) is %08x, want white", xy[0], xy[1], got)
		}
	}

	runSource(t, `10 cls`)

	if got := g.surface.pixelAt(0, 0); got != palette[colorBlack] {
		t.Errorf("bare cls cleared to %08x, want black", got)
	}
}

//
// Snapshots are copies: mutating the surface afterwards must not
// show through
//

func TestSnapshotIsCopy(t *testing.T) {

	resetInterp(t)

	grid := g.surface.snapshot()

	g.surface.pixel(0, 0, colorWhite)

	if grid[0][0] != palette[colorBlack] {
		t.Errorf("snapshot changed after a surface write")
	}
}

func TestWriteSurfacePNG(t *testing.T) {

	runSource(t, `10 cls "red"`)

	name := filepath.Join(t.TempDir(), "shot.png")

	if err := writeSurfacePNG(name); err != nil {
		t.Fatalf("writeSurfacePNG: %v", err)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != surfaceWidth || bounds.Dy() != surfaceHeight {
		t.Fatalf("image is %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(),
			surfaceWidth, surfaceHeight)
	}

	r, g8, b, a := img.At(0, 0).RGBA()
	rgba := uint32(r>>8)<<24 | uint32(g8>>8)<<16 |
		uint32(b>>8)<<8 | uint32(a>>8)

	if rgba != palette[colorRed] {
		t.Errorf("pixel (0,0) is %08x, want red", rgba)
	}
}
