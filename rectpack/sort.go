package rectpack

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// SortFunc compares two sizes for ordering before packing.
//
//	-1: a goes before b
//	 0: keep input order
//	 1: a goes after b
type SortFunc func(a, b Size) int

// SortComposite orders by perimeter * sqrt(area), largest first. Long thin
// items rank higher than a pure area sort would put them.
func SortComposite(a, b Size) int {
	return cmp.Compare(compositeKey(b), compositeKey(a))
}

func compositeKey(sz Size) float64 {
	return sz.Perimeter() * math.Sqrt(sz.Area())
}

// SortArea orders by area, largest first.
func SortArea(a, b Size) int {
	return cmp.Compare(b.Area(), a.Area())
}

// SortPerimeter orders by perimeter, largest first.
func SortPerimeter(a, b Size) int {
	return cmp.Compare(b.Perimeter(), a.Perimeter())
}

// SortDiff orders by |width - height|, largest first.
func SortDiff(a, b Size) int {
	return cmp.Compare(math.Abs(b.Width-b.Height), math.Abs(a.Width-a.Height))
}

// SortMinSide orders by the shorter side, largest first.
func SortMinSide(a, b Size) int {
	return cmp.Compare(b.MinSide(), a.MinSide())
}

// SortMaxSide orders by the longer side, largest first.
func SortMaxSide(a, b Size) int {
	return cmp.Compare(b.MaxSide(), a.MaxSide())
}

// SortRatio orders by width / height, largest first.
func SortRatio(a, b Size) int {
	return cmp.Compare(b.Ratio(), a.Ratio())
}

var sortFuncs = map[string]SortFunc{
	"composite": SortComposite,
	"area":      SortArea,
	"perimeter": SortPerimeter,
	"diff":      SortDiff,
	"minside":   SortMinSide,
	"maxside":   SortMaxSide,
	"ratio":     SortRatio,
}

// ResolveSort returns the comparator registered under name (case-insensitive).
func ResolveSort(name string) (SortFunc, error) {
	if fn, ok := sortFuncs[strings.ToLower(name)]; ok {
		return fn, nil
	}
	return nil, New(ErrCodeInvalidInput, "unknown sort %q", name)
}

// SortNames lists the names accepted by ResolveSort.
func SortNames() []string {
	names := make([]string, 0, len(sortFuncs))
	for name := range sortFuncs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// sortSizes returns a stably sorted copy of sizes.
func sortSizes(sizes []Size, compare SortFunc) []Size {
	sorted := slices.Clone(sizes)
	if compare != nil {
		slices.SortStableFunc(sorted, compare)
	}
	return sorted
}
