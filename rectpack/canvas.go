package rectpack

// OptimizeCanvas returns the smallest canvas covering every placed rectangle
// plus one padding margin past the right and bottom edges. An empty input
// yields a zero size.
func OptimizeCanvas(rects []Rect, padding float64) Size {
	if len(rects) == 0 {
		return Size{}
	}
	var size Size
	for _, rect := range rects {
		size.Width = max(size.Width, rect.Right())
		size.Height = max(size.Height, rect.Bottom())
	}
	size.Width += padding
	size.Height += padding
	return size
}
