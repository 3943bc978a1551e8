package rectpack

import (
	"fmt"
	"math"
)

// epsilon is the tolerance used when comparing coordinates.
const epsilon = 1e-6

// Point describes a location in 2D space.
type Point struct {
	// X is the position on the horizontal x axis.
	X float64 `json:"x"`
	// Y is the position on the vertical y axis.
	Y float64 `json:"y"`
}

// NewPoint initializes a point with the given coordinates.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Eq reports whether the receiver and point hold the same values.
func (p Point) Eq(point Point) bool {
	return compareFloat(p.X, point.X) == 0 && compareFloat(p.Y, point.Y) == 0
}

// String returns the point as "[x, y]".
func (p Point) String() string {
	return fmt.Sprintf("[%v, %v]", p.X, p.Y)
}

// Size describes the extents of an entity in 2D space.
type Size struct {
	// Width is the extent on the horizontal x axis.
	Width float64 `json:"width"`
	// Height is the extent on the vertical y axis.
	Height float64 `json:"height"`
	// ID is a caller-defined token that follows the size through packing.
	ID int `json:"-"`
}

// NewSize creates a size with the given extents.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// NewSizeID creates a size with the given extents and identifier.
func NewSizeID(id int, width, height float64) Size {
	return Size{ID: id, Width: width, Height: height}
}

// Eq reports whether the receiver and size have the same extents. The ID is ignored.
func (sz Size) Eq(size Size) bool {
	return compareFloat(sz.Width, size.Width) == 0 && compareFloat(sz.Height, size.Height) == 0
}

// String returns the size as "[w, h]".
func (sz Size) String() string {
	return fmt.Sprintf("[%v, %v]", sz.Width, sz.Height)
}

// Area returns width * height.
func (sz Size) Area() float64 {
	return sz.Width * sz.Height
}

// Perimeter returns the total length of all sides.
func (sz Size) Perimeter() float64 {
	return 2 * (sz.Width + sz.Height)
}

// MaxSide returns the larger of width and height.
func (sz Size) MaxSide() float64 {
	return max(sz.Width, sz.Height)
}

// MinSide returns the smaller of width and height.
func (sz Size) MinSide() float64 {
	return min(sz.Width, sz.Height)
}

// Ratio returns width / height.
func (sz Size) Ratio() float64 {
	return sz.Width / sz.Height
}

// Rotate returns the size with width and height swapped.
func (sz Size) Rotate() Size {
	return Size{Width: sz.Height, Height: sz.Width, ID: sz.ID}
}

// Rect describes a location (top-left corner) and a size in 2D space.
type Rect struct {
	Point
	Size
	// Rotated reports that Width and Height are swapped relative to the input size.
	Rotated bool `json:"rotated,omitempty"`
}

// NewRect initializes a rectangle from a point and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{
		Point: Point{X: x, Y: y},
		Size:  Size{Width: w, Height: h},
	}
}

// NewRectLTRB initializes a rectangle from its left, top, right and bottom edges.
func NewRectLTRB(l, t, r, b float64) Rect {
	return Rect{
		Point: Point{X: l, Y: t},
		Size:  Size{Width: r - l, Height: b - t},
	}
}

// Eq reports whether both rectangles have the same location and size.
func (r Rect) Eq(rect Rect) bool {
	return r.Point.Eq(rect.Point) && r.Size.Eq(rect.Size)
}

// String returns the rectangle as "[x, y, w, h]".
func (r Rect) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", r.X, r.Y, r.Width, r.Height)
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// ContainsRect reports whether rect lies entirely within the receiver.
func (r Rect) ContainsRect(rect Rect) bool {
	return compareFloat(r.X, rect.X) <= 0 &&
		compareFloat(rect.Right(), r.Right()) <= 0 &&
		compareFloat(r.Y, rect.Y) <= 0 &&
		compareFloat(rect.Bottom(), r.Bottom()) <= 0
}

// Inflate pushes every edge outward by the given amounts.
func (r *Rect) Inflate(width, height float64) {
	r.X -= width
	r.Y -= height
	r.Width += 2 * width
	r.Height += 2 * height
}

// Intersects reports whether the two rectangles share any area. Touching edges do not count.
func (r Rect) Intersects(rect Rect) bool {
	return compareFloat(rect.X, r.Right()) < 0 &&
		compareFloat(r.X, rect.Right()) < 0 &&
		compareFloat(rect.Y, r.Bottom()) < 0 &&
		compareFloat(r.Y, rect.Bottom()) < 0
}

// padSize grows both extents by padding on each side.
func padSize(size Size, padding float64) Size {
	if padding <= 0 {
		return size
	}
	size.Width += 2 * padding
	size.Height += 2 * padding
	return size
}

// unpadRect strips the padding added by padSize back out of a placement.
func unpadRect(rect Rect, padding float64) Rect {
	if padding <= 0 {
		return rect
	}
	rect.Inflate(-padding, -padding)
	return rect
}

// validDimension reports whether v is a usable, strictly positive extent.
func validDimension(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// compareFloat compares a and b with a tolerance of epsilon.
func compareFloat(a, b float64) int {
	if math.Abs(a-b) < epsilon {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}
