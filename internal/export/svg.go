// Package export renders stored runs as standalone SVG images.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/algosim/internal/sim"
	"github.com/san-kum/algosim/internal/storage"
	"github.com/san-kum/algosim/internal/viz"
)

const (
	background = "#0a0a0a"
	barColor   = "#5fafff"
	labelColor = "#8a8a8a"
	pad        = 16.0
	labelSpace = 18.0
)

var roleColors = map[string]string{
	"current": "#ffd700",
	"next":    "#ff87ff",
	"pivot":   "#ff5f5f",
	"left":    "#5fffd7",
	"right":   "#ff87ff",
	"mid":     "#ffd700",
	"merge":   "#5fff00",
	"found":   "#5fff00",
}

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// FrameToSVG draws one stored frame as a bar chart, highlighted elements in
// their role colors.
func FrameToSVG(f storage.FrameRecord, width, height int) string {
	var sb strings.Builder
	w, h := float64(width), float64(height)
	header(&sb, w, h)

	n := len(f.Values)
	if n == 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	lo, hi := 0.0, f.Values[0]
	for _, v := range f.Values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	roles := f.Roles()
	slot := (w - 2*pad) / float64(n)
	barW := slot * 0.8
	plotH := h - 2*pad - labelSpace

	for i, v := range f.Values {
		bh := max((v-lo)/span*plotH, 1)
		x := pad + float64(i)*slot + (slot-barW)/2
		y := pad + plotH - bh
		color := barColor
		if c, ok := roleColors[roles[i]]; ok {
			color = c
		}
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, x, y, barW, bh, color)
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11" text-anchor="middle">%s</text>
`, x+barW/2, h-pad, labelColor, strconv.FormatFloat(v, 'g', 4, 64))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per set dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", barColor)

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// LineToSVG plots values as a dotted polyline through a Braille canvas.
func LineToSVG(values []float64, cols, rows int, scale float64) string {
	c := viz.NewCanvas(cols, rows)
	c.Plot(sim.Sequence(values))
	return CanvasToSVG(c, scale)
}

// CountersToSVG draws comparisons and writes against frame index.
func CountersToSVG(frames []storage.FrameRecord, width, height int) string {
	var sb strings.Builder
	w, h := float64(width), float64(height)
	header(&sb, w, h)

	if len(frames) < 2 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	top := 1.0
	for _, f := range frames {
		top = max(top, float64(f.Comparisons), float64(f.Writes))
	}

	series := []struct {
		color string
		value func(storage.FrameRecord) int
	}{
		{roleColors["current"], func(f storage.FrameRecord) int { return f.Comparisons }},
		{roleColors["pivot"], func(f storage.FrameRecord) int { return f.Writes }},
	}

	last := float64(len(frames) - 1)
	for _, s := range series {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.color)
		for i, f := range frames {
			x := pad + float64(i)/last*(w-2*pad)
			y := h - pad - float64(s.value(f))/top*(h-2*pad)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
