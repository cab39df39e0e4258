package viz

import (
	"strings"

	"github.com/san-kum/algosim/internal/sim"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a grid of Braille cells addressed in sub-pixels: Width*2 by
// Height*4 dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(row))
	}
	return b.String()
}

// Plot draws values as a polyline across the canvas, index on the x axis
// and value on the y axis.
func (c *Canvas) Plot(values sim.Sequence) {
	if len(values) == 0 {
		return
	}
	w, h := c.Width*2, c.Height*4
	heights := barHeights(values, h-1)

	x := func(i int) int {
		if len(values) == 1 {
			return w / 2
		}
		return i * (w - 1) / (len(values) - 1)
	}
	y := func(i int) int { return h - 1 - heights[i] }

	for i := range values {
		if i == 0 {
			c.Set(x(0), y(0))
			continue
		}
		c.DrawLine(x(i-1), y(i-1), x(i), y(i))
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
