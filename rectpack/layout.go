package rectpack

// layoutLine places sizes one after another along a single axis, largest area
// first. When horizontal is true the items share y = padding and advance
// along x; otherwise they share x = padding and advance along y.
func layoutLine(sizes []Size, padding float64, horizontal bool) []Rect {
	sorted := sortSizes(sizes, SortArea)
	rects := make([]Rect, 0, len(sorted))
	offset := padding
	for _, size := range sorted {
		rect := Rect{Size: size}
		if horizontal {
			rect.Point = NewPoint(offset, padding)
			offset += size.Width + padding
		} else {
			rect.Point = NewPoint(padding, offset)
			offset += size.Height + padding
		}
		rects = append(rects, rect)
	}
	return rects
}

// LayoutLeftRight arranges sizes in a single row.
func LayoutLeftRight(sizes []Size, padding float64) []Rect {
	return layoutLine(sizes, padding, true)
}

// LayoutTopBottom arranges sizes in a single column.
func LayoutTopBottom(sizes []Size, padding float64) []Rect {
	return layoutLine(sizes, padding, false)
}
