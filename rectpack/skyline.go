package rectpack

import (
	"fmt"
	"slices"
)

// Segment is one horizontal run of the skyline: the half-open range [X, X+Width)
// is occupied up to Y.
type Segment struct {
	X     float64
	Width float64
	Y     float64
}

// Right returns the exclusive end of the segment.
func (s Segment) Right() float64 {
	return s.X + s.Width
}

func (s Segment) String() string {
	return fmt.Sprintf("Segment{x=%v, y=%v, w=%v}", s.X, s.Y, s.Width)
}

// Skyline tracks the lowest free y for every x across a bin of fixed width.
//
// The segments are ordered by X, contiguous, and cover [0, width) exactly.
// Neighbours never share the same Y; they are merged after every insertion.
// A Skyline belongs to a single packing attempt and is not safe for concurrent use.
type Skyline struct {
	width    float64
	segments []Segment
}

// NewSkyline returns a flat skyline spanning [0, width).
func NewSkyline(width float64) *Skyline {
	return &Skyline{
		width:    width,
		segments: []Segment{{X: 0, Width: width, Y: 0}},
	}
}

// Width returns the horizontal extent covered by the skyline.
func (s *Skyline) Width() float64 {
	return s.width
}

// Segments returns a copy of the current profile.
func (s *Skyline) Segments() []Segment {
	return slices.Clone(s.segments)
}

// FindPosition returns the placement for a width x height rectangle on the lowest
// segment at least width wide. Ties go to the leftmost segment. Height is not
// bounded here; it is the caller's job to check it against the bin.
func (s *Skyline) FindPosition(width, height float64) (Rect, bool) {
	best := -1
	for i, seg := range s.segments {
		if compareFloat(seg.Width, width) < 0 {
			continue
		}
		if best == -1 || compareFloat(seg.Y, s.segments[best].Y) < 0 {
			best = i
		}
	}
	if best == -1 {
		return Rect{}, false
	}
	seg := s.segments[best]
	return NewRect(seg.X, seg.Y, width, height), true
}

// AddRectangle raises the profile over [rect.X, rect.Right()) to rect.Bottom().
// Segments that straddle either edge of the rectangle are split so the parts
// outside keep their height.
func (s *Skyline) AddRectangle(rect Rect) {
	left, right := rect.X, rect.Right()
	top := rect.Bottom()

	next := make([]Segment, 0, len(s.segments)+2)
	inserted := false
	for _, seg := range s.segments {
		if compareFloat(seg.Right(), left) <= 0 || compareFloat(seg.X, right) >= 0 {
			if !inserted && compareFloat(seg.X, right) >= 0 {
				next = append(next, Segment{X: left, Width: right - left, Y: top})
				inserted = true
			}
			next = append(next, seg)
			continue
		}
		if compareFloat(seg.X, left) < 0 {
			next = append(next, Segment{X: seg.X, Width: left - seg.X, Y: seg.Y})
		}
		if !inserted {
			next = append(next, Segment{X: left, Width: right - left, Y: top})
			inserted = true
		}
		if compareFloat(seg.Right(), right) > 0 {
			next = append(next, Segment{X: right, Width: seg.Right() - right, Y: seg.Y})
		}
	}
	if !inserted {
		next = append(next, Segment{X: left, Width: right - left, Y: top})
	}
	s.segments = next
	s.mergeSegments()
}

// mergeSegments joins neighbours standing at the same height.
func (s *Skyline) mergeSegments() {
	for i := 0; i < len(s.segments)-1; i++ {
		if compareFloat(s.segments[i].Y, s.segments[i+1].Y) == 0 {
			s.segments[i].Width += s.segments[i+1].Width
			s.segments = slices.Delete(s.segments, i+1, i+2)
			i--
		}
	}
}
