package main

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// exportText writes the canvas exactly as rendered, minus cursor and
// styling, so it can be pasted into a report.
func (m *model) exportText(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	width := m.width
	if width < 1 {
		width = 120
	}
	height := m.height - 1
	if height < 1 {
		height = 40
	}

	lines := renderCanvas(
		m.diagram.Nodes(), m.diagram.Edges(), m.renderMode,
		width, height, m.panX, m.panY, -1, -1, false,
	)
	for _, line := range lines {
		fmt.Fprintln(file, stripStyles(line))
	}
	return nil
}

// stripStyles removes ANSI escape sequences left by the styled renderer.
func stripStyles(s string) string {
	out := make([]rune, 0, len(s))
	inEscape := false
	for _, r := range s {
		if inEscape {
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			inEscape = true
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// Pixel scale for PNG export: world units to pixels.
const pngScale = 0.6

var pngStatusColors = map[EquipmentStatus]color.RGBA{
	StatusRunning:     {0x2e, 0xb8, 0x5c, 0xff},
	StatusIdle:        {0xe6, 0xb8, 0x00, 0xff},
	StatusMaintenance: {0x33, 0x99, 0xe6, 0xff},
	StatusDown:        {0xe6, 0x33, 0x33, 0xff},
	StatusUnknown:     {0x99, 0x99, 0x99, 0xff},
}

// exportPNG renders the whole topology (not just the viewport) to an image.
func (m *model) exportPNG(filename string) error {
	nodes := m.diagram.Nodes()
	if len(nodes) == 0 {
		return fmt.Errorf("nothing to export")
	}

	minX, minY := nodes[0].X, nodes[0].Y
	maxX, maxY := nodes[0].X, nodes[0].Y
	for _, n := range nodes[1:] {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}

	const cardW = cardWidth * worldScaleX * pngScale
	const cardH = cardHeight * worldScaleY * pngScale
	padding := 60.0
	imageWidth := int((maxX-minX)*pngScale + cardW + 2*padding)
	imageHeight := int((maxY-minY)*pngScale + cardH + 2*padding)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    13,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	toPixel := func(x, y float64) (float64, float64) {
		return (x-minX)*pngScale + padding, (y-minY)*pngScale + padding
	}

	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	// Edges first so cards draw over them.
	for _, e := range m.diagram.Edges() {
		source, ok := byID[e.SourceID]
		if !ok {
			continue
		}
		target, ok := byID[e.TargetID]
		if !ok {
			continue
		}
		x1, y1 := toPixel(source.X, source.Y)
		x2, y2 := toPixel(target.X, target.Y)
		drawEdgePNG(dc, x1+cardW, y1+cardH/2, x2, y2+cardH/2)
	}

	for _, n := range nodes {
		x, y := toPixel(n.X, n.Y)
		dc.SetLineWidth(1.5)
		dc.SetColor(color.Black)
		dc.DrawRectangle(x, y, cardW, cardH)
		dc.Stroke()

		dc.SetColor(color.Black)
		dc.DrawString(n.Equipment.Code, x+10, y+22)
		dc.SetColor(color.RGBA{0x66, 0x66, 0x66, 0xff})
		dc.DrawString(n.Equipment.Name, x+10, y+42)

		sc, ok := pngStatusColors[n.Equipment.Status]
		if !ok {
			sc = pngStatusColors[StatusUnknown]
		}
		dc.SetColor(sc)
		dc.DrawCircle(x+cardW-16, y+16, 5)
		dc.Fill()
	}

	return dc.SavePNG(filename)
}

// drawEdgePNG draws a straight edge with an arrowhead at the target end.
func drawEdgePNG(dc *gg.Context, x1, y1, x2, y2 float64) {
	dc.SetLineWidth(1.0)
	dc.SetColor(color.RGBA{0x55, 0x55, 0x55, 0xff})
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()

	angle := math.Atan2(y2-y1, x2-x1)
	const arrowLen = 9.0
	dc.MoveTo(x2, y2)
	dc.LineTo(x2-arrowLen*math.Cos(angle-0.4), y2-arrowLen*math.Sin(angle-0.4))
	dc.LineTo(x2-arrowLen*math.Cos(angle+0.4), y2-arrowLen*math.Sin(angle+0.4))
	dc.ClosePath()
	dc.Fill()
}
