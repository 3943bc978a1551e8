package rectpack

// Bin is the rectangular area items are packed into.
type Bin struct {
	// Width of the boundary.
	Width float64
	// Height of the boundary.
	Height float64
	// Padding is the gap kept free on every side of each placed item.
	Padding float64
}

// BinPacker places rectangles into a Bin through a Skyline.
type BinPacker struct {
	bin         Bin
	skyline     *Skyline
	allowRotate bool
}

// NewBinPacker returns a packer with a fresh skyline spanning the bin width.
func NewBinPacker(bin Bin, allowRotate bool) *BinPacker {
	return &BinPacker{
		bin:         bin,
		skyline:     NewSkyline(bin.Width),
		allowRotate: allowRotate,
	}
}

// Skyline returns the underlying profile.
func (p *BinPacker) Skyline() *Skyline {
	return p.skyline
}

// Insert finds room for a width x height item, commits it and returns the
// unpadded placement. The natural orientation is tried first; when it does not
// fit and rotation is allowed, the swapped orientation is tried and the result
// is marked Rotated.
//
// A false return means the item does not fit in this bin. It is not an error:
// the orchestrator grows the bin and starts over.
func (p *BinPacker) Insert(width, height float64) (Rect, bool) {
	padded := padSize(NewSize(width, height), p.bin.Padding)

	rect, ok := p.find(padded.Width, padded.Height)
	if !ok && p.allowRotate {
		rect, ok = p.find(padded.Height, padded.Width)
		rect.Rotated = ok
	}
	if !ok {
		return Rect{}, false
	}

	p.skyline.AddRectangle(rect)
	return unpadRect(rect, p.bin.Padding), true
}

// find asks the skyline for a position and rejects it when it would cross the
// bottom of the bin.
func (p *BinPacker) find(width, height float64) (Rect, bool) {
	rect, ok := p.skyline.FindPosition(width, height)
	if !ok || compareFloat(rect.Bottom(), p.bin.Height) > 0 {
		return Rect{}, false
	}
	return rect, true
}
