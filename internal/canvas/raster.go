package canvas

import (
	"image"
	"sort"
)

// The drawing functions below clip silently: any part of a shape that falls
// off the grid is skipped. Use Buffer.SetPixel for strict single-pixel writes.

// DrawLine draws a line from (x0, y0) to (x1, y1) inclusive using Bresenham's algorithm.
func DrawLine(b *Buffer, x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	x, y := x0, y0
	if dx > dy {
		e := dx / 2
		for x != x1 {
			b.plot(x, y, c)
			e -= dy
			if e < 0 {
				y += sy
				e += dx
			}
			x += sx
		}
	} else {
		e := dy / 2
		for y != y1 {
			b.plot(x, y, c)
			e -= dx
			if e < 0 {
				x += sx
				e += dy
			}
			y += sy
		}
	}
	b.plot(x, y, c)
}

// DrawCircle draws a circle of radius r centred on (cx, cy). When fill is
// non-nil the disk is painted first and the outline drawn over it.
func DrawCircle(b *Buffer, cx, cy, r int, outline Color, fill *Color) {
	if fill != nil {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy <= r*r {
					b.plot(cx+dx, cy+dy, *fill)
				}
			}
		}
	}
	for _, p := range circlePoints(cx, cy, r) {
		b.plot(p.X, p.Y, outline)
	}
}

// circlePoints returns the midpoint-circle outline with octant overlaps removed,
// sorted by row then column.
func circlePoints(cx, cy, r int) []image.Point {
	seen := make(map[image.Point]struct{})
	x, y := r, 0
	d := 1 - r
	for x >= y {
		for _, p := range [8]image.Point{
			{cx + x, cy + y}, {cx - x, cy + y}, {cx + x, cy - y}, {cx - x, cy - y},
			{cx + y, cy + x}, {cx - y, cy + x}, {cx + y, cy - x}, {cx - y, cy - x},
		} {
			seen[p] = struct{}{}
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}

	pts := make([]image.Point, 0, len(seen))
	for p := range seen {
		pts = append(pts, p)
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
	return pts
}

// DrawRectangle draws the rectangle spanned by two opposite corners given in
// any order. fill, when non-nil, covers only the interior inside the border.
func DrawRectangle(b *Buffer, x0, y0, x1, y1 int, outline Color, fill *Color) {
	left, right := min(x0, x1), max(x0, x1)
	top, bottom := min(y0, y1), max(y0, y1)

	if fill != nil {
		for y := top + 1; y < bottom; y++ {
			for x := left + 1; x < right; x++ {
				b.plot(x, y, *fill)
			}
		}
	}

	for x := left; x <= right; x++ {
		b.plot(x, top, outline)
		b.plot(x, bottom, outline)
	}
	for y := top; y <= bottom; y++ {
		b.plot(left, y, outline)
		b.plot(right, y, outline)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
