package rectpack

import (
	"context"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxAttempts caps the growth loop. At a 1.2 growth factor this
	// allows the bin to grow by a factor of roughly 10^5 before giving up.
	DefaultMaxAttempts = 64

	// DefaultGrowthFactor scales both bin extents after a failed attempt.
	DefaultGrowthFactor = 1.2

	// estimateSlack widens the first bin guess to make a first-try fit likely.
	estimateSlack = 1.3

	// targetAspect is the width / height ratio of the first bin guess.
	targetAspect = 1.0

	// minAspect keeps grown bins at least this much wider than tall.
	minAspect = 1.2
)

// Mode selects how items are arranged.
type Mode int

const (
	// ModeBinPacking packs items with the skyline packer.
	ModeBinPacking Mode = iota
	// ModeLeftRight lays items out in a single row.
	ModeLeftRight
	// ModeTopBottom lays items out in a single column.
	ModeTopBottom
)

var modeNames = map[Mode]string{
	ModeBinPacking: "bin-packing",
	ModeLeftRight:  "left-right",
	ModeTopBottom:  "top-bottom",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode resolves "bin-packing", "left-right" or "top-bottom".
func ParseMode(s string) (Mode, error) {
	for mode, name := range modeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return 0, New(ErrCodeInvalidInput, "unknown layout mode %q", s)
}

// Options configures a Packer.
type Options struct {
	// Padding is the gap kept around every item. Must be >= 0.
	Padding float64

	// Mode selects bin packing or one of the simple layouts.
	Mode Mode

	// AllowRotate lets the bin packer swap an item's extents to make it fit.
	AllowRotate bool

	// Sort orders items before bin packing. Nil means SortComposite.
	Sort SortFunc

	// MaxAttempts caps the number of bins tried before NonConvergence is
	// reported. Zero means DefaultMaxAttempts.
	MaxAttempts int

	// GrowthFactor scales the bin after a failed attempt. Zero means
	// DefaultGrowthFactor; otherwise it must be greater than 1.
	GrowthFactor float64

	// Speculative is the number of consecutive candidate bins attempted
	// concurrently. Values below 2 run attempts one at a time. The result is
	// the same either way.
	Speculative int

	// Logger receives debug output about attempts. Nil disables logging.
	Logger *log.Logger
}

// DefaultOptions returns bin packing with rotation and the composite sort.
func DefaultOptions() Options {
	return Options{
		Mode:         ModeBinPacking,
		AllowRotate:  true,
		Sort:         SortComposite,
		MaxAttempts:  DefaultMaxAttempts,
		GrowthFactor: DefaultGrowthFactor,
		Speculative:  1,
	}
}

// Result is the outcome of a successful packing run.
type Result struct {
	// Rects holds one placement per input size, in packing order.
	Rects []Rect
	// Bin is the final canvas size.
	Bin Size
	// Attempts is the number of bins tried before every item fit.
	Attempts int
	// Fallback reports that the tight repack missed and the placements of the
	// last successful growth attempt were kept instead.
	Fallback bool
}

// Used returns the ratio of item area to canvas area, between 0 and 1.
func (r Result) Used() float64 {
	total := r.Bin.Area()
	if total <= 0 {
		return 0
	}
	var used float64
	for _, rect := range r.Rects {
		used += rect.Area()
	}
	return used / total
}

// Map indexes the placements by size ID.
func (r Result) Map() map[int]Rect {
	mapping := make(map[int]Rect, len(r.Rects))
	for _, rect := range r.Rects {
		mapping[rect.ID] = rect
	}
	return mapping
}

// Packer arranges sizes onto a canvas. It holds no state between runs, so a
// single Packer may be shared by concurrent callers.
type Packer struct {
	opts   Options
	logger *log.Logger
}

// NewPacker validates opts and returns a Packer.
func NewPacker(opts Options) (*Packer, error) {
	if opts.Padding < 0 || math.IsNaN(opts.Padding) || math.IsInf(opts.Padding, 0) {
		return nil, New(ErrCodeInvalidInput, "padding must be a finite value >= 0 (given %v)", opts.Padding)
	}
	if _, ok := modeNames[opts.Mode]; !ok {
		return nil, New(ErrCodeInvalidInput, "unknown layout mode %d", opts.Mode)
	}
	if opts.Sort == nil {
		opts.Sort = SortComposite
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.MaxAttempts < 0 {
		return nil, New(ErrCodeInvalidInput, "max attempts must be positive (given %d)", opts.MaxAttempts)
	}
	if opts.GrowthFactor == 0 {
		opts.GrowthFactor = DefaultGrowthFactor
	}
	if !(opts.GrowthFactor > 1) || math.IsInf(opts.GrowthFactor, 0) {
		return nil, New(ErrCodeInvalidInput, "growth factor must be greater than 1 (given %v)", opts.GrowthFactor)
	}
	if opts.Speculative < 1 {
		opts.Speculative = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Packer{opts: opts, logger: logger}, nil
}

// Pack is a shorthand for NewPacker(opts) followed by Pack.
func Pack(ctx context.Context, sizes []Size, opts Options) (Result, error) {
	p, err := NewPacker(opts)
	if err != nil {
		return Result{}, err
	}
	return p.Pack(ctx, sizes)
}

// Options returns the effective options.
func (p *Packer) Options() Options {
	return p.opts
}

// Pack places every size and returns the placements with the final canvas.
// Nothing partial is returned: on error the Result is zero.
func (p *Packer) Pack(ctx context.Context, sizes []Size) (Result, error) {
	if err := validateSizes(sizes); err != nil {
		return Result{}, err
	}
	if len(sizes) == 0 {
		return Result{Rects: []Rect{}}, nil
	}

	switch p.opts.Mode {
	case ModeLeftRight:
		rects := LayoutLeftRight(sizes, p.opts.Padding)
		return Result{Rects: rects, Bin: OptimizeCanvas(rects, p.opts.Padding)}, nil
	case ModeTopBottom:
		rects := LayoutTopBottom(sizes, p.opts.Padding)
		return Result{Rects: rects, Bin: OptimizeCanvas(rects, p.opts.Padding)}, nil
	}
	return p.packBins(ctx, sortSizes(sizes, p.opts.Sort))
}

// packBins runs the grow-and-retry loop, then repacks into the tight canvas.
func (p *Packer) packBins(ctx context.Context, sorted []Size) (Result, error) {
	padding := p.opts.Padding
	bin := estimateBin(sorted, padding)
	p.logger.Debug("initial bin estimate", "width", bin.Width, "height", bin.Height, "items", len(sorted))

	var placed []Rect
	attempts := 0
	for placed == nil {
		if attempts >= p.opts.MaxAttempts {
			return Result{}, New(ErrCodeNonConvergence,
				"no fit after %d attempts (last bin %vx%v)", attempts, bin.Width, bin.Height)
		}
		if err := ctx.Err(); err != nil {
			return Result{}, Wrap(ErrCodeCanceled, err, "packing stopped after %d attempts", attempts)
		}

		candidates := make([]Bin, min(p.opts.Speculative, p.opts.MaxAttempts-attempts))
		candidates[0] = bin
		for i := 1; i < len(candidates); i++ {
			candidates[i] = growBin(candidates[i-1], p.opts.GrowthFactor)
		}

		rects, index, err := p.tryBins(ctx, sorted, candidates)
		if err != nil {
			return Result{}, Wrap(ErrCodeCanceled, err, "packing stopped after %d attempts", attempts)
		}
		if index < 0 {
			attempts += len(candidates)
			last := candidates[len(candidates)-1]
			bin = growBin(last, p.opts.GrowthFactor)
			p.logger.Debug("bin too small, growing",
				"width", last.Width, "height", last.Height, "next_width", bin.Width, "next_height", bin.Height)
			continue
		}
		attempts += index + 1
		bin = candidates[index]
		placed = rects
	}

	canvas := OptimizeCanvas(placed, padding)
	tight := Bin{Width: canvas.Width, Height: canvas.Height, Padding: padding}
	p.logger.Debug("repacking into tight bin", "width", tight.Width, "height", tight.Height, "attempts", attempts)

	result := Result{Bin: canvas, Attempts: attempts}
	result.Rects, result.Fallback = p.finalPack(sorted, placed, tight)
	return result, nil
}

// finalPack repacks sorted into the tight bin. When an item misses, the
// placements from the growth loop are returned instead and the second result
// is true.
func (p *Packer) finalPack(sorted []Size, placed []Rect, tight Bin) ([]Rect, bool) {
	if final, ok := attemptPack(sorted, tight, p.opts.AllowRotate); ok {
		return final, false
	}
	p.logger.Warn("tight repack missed, keeping growth placements",
		"tight_width", tight.Width, "tight_height", tight.Height, "items", len(sorted))
	return placed, true
}

// tryBins attempts every candidate and returns the placements of the first one,
// in candidate order, that holds all items. The index is -1 when none did.
func (p *Packer) tryBins(ctx context.Context, sorted []Size, candidates []Bin) ([]Rect, int, error) {
	if len(candidates) == 1 {
		rects, ok := attemptPack(sorted, candidates[0], p.opts.AllowRotate)
		if !ok {
			return nil, -1, nil
		}
		return rects, 0, nil
	}

	results := make([][]Rect, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	for i, bin := range candidates {
		i, bin := i, bin
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if rects, ok := attemptPack(sorted, bin, p.opts.AllowRotate); ok {
				results[i] = rects
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, -1, err
	}
	for i, rects := range results {
		if rects != nil {
			return rects, i, nil
		}
	}
	return nil, -1, nil
}

// attemptPack places sorted sizes into a brand-new packer for bin. It stops at
// the first item that does not fit.
func attemptPack(sorted []Size, bin Bin, allowRotate bool) ([]Rect, bool) {
	packer := NewBinPacker(bin, allowRotate)
	rects := make([]Rect, 0, len(sorted))
	for _, size := range sorted {
		rect, ok := packer.Insert(size.Width, size.Height)
		if !ok {
			return nil, false
		}
		rect.ID = size.ID
		rects = append(rects, rect)
	}
	return rects, true
}

// estimateBin sizes the first bin from the total padded item area.
func estimateBin(sizes []Size, padding float64) Bin {
	var area float64
	for _, size := range sizes {
		area += padSize(size, padding).Area()
	}
	return Bin{
		Width:   math.Ceil(math.Sqrt(area*targetAspect) * estimateSlack),
		Height:  math.Ceil(math.Sqrt(area / targetAspect)),
		Padding: padding,
	}
}

// growBin scales both extents and keeps the bin at least minAspect times
// wider than tall.
func growBin(bin Bin, factor float64) Bin {
	bin.Width = math.Ceil(bin.Width * factor)
	bin.Height = math.Ceil(bin.Height * factor)
	if bin.Width < minAspect*bin.Height {
		bin.Width = math.Ceil(minAspect * bin.Height)
	}
	return bin
}

// validateSizes rejects any size that is not strictly positive and finite.
func validateSizes(sizes []Size) error {
	for i, size := range sizes {
		if !validDimension(size.Width) {
			return New(ErrCodeInvalidInput, "item %d (id %d) has invalid width %v", i, size.ID, size.Width)
		}
		if !validDimension(size.Height) {
			return New(ErrCodeInvalidInput, "item %d (id %d) has invalid height %v", i, size.ID, size.Height)
		}
	}
	return nil
}
