package rectpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutLeftRight(t *testing.T) {
	sizes := []Size{NewSizeID(0, 10, 10), NewSizeID(1, 30, 20), NewSizeID(2, 20, 5)}

	rects := LayoutLeftRight(sizes, 4)
	require.Len(t, rects, 3)
	assert.Equal(t, []int{1, 0, 2}, idsOf(rects))
	assert.Equal(t, NewPoint(4, 4), rects[0].Point)
	assert.Equal(t, NewPoint(38, 4), rects[1].Point)
	assert.Equal(t, NewPoint(52, 4), rects[2].Point)
	assert.Equal(t, NewSize(76, 28), OptimizeCanvas(rects, 4))
}

func TestLayoutTopBottom(t *testing.T) {
	sizes := []Size{NewSizeID(0, 10, 10), NewSizeID(1, 30, 20), NewSizeID(2, 20, 5)}

	rects := LayoutTopBottom(sizes, 4)
	require.Len(t, rects, 3)
	assert.Equal(t, []int{1, 0, 2}, idsOf(rects))
	assert.Equal(t, NewPoint(4, 4), rects[0].Point)
	assert.Equal(t, NewPoint(4, 28), rects[1].Point)
	assert.Equal(t, NewPoint(4, 42), rects[2].Point)
	assert.Equal(t, NewSize(38, 51), OptimizeCanvas(rects, 4))
}

func TestLayout_EqualAreasKeepInputOrder(t *testing.T) {
	sizes := []Size{NewSizeID(0, 10, 20), NewSizeID(1, 20, 10), NewSizeID(2, 5, 40)}
	assert.Equal(t, []int{0, 1, 2}, idsOf(LayoutLeftRight(sizes, 0)))
}

func TestLayout_NeverRotates(t *testing.T) {
	for _, rect := range LayoutTopBottom(randomSizes(11, 50), 1) {
		assert.False(t, rect.Rotated)
	}
}

func TestOptimizeCanvas(t *testing.T) {
	rects := []Rect{NewRect(10, 10, 100, 20), NewRect(50, 40, 10, 70)}
	assert.Equal(t, NewSize(120, 120), OptimizeCanvas(rects, 10))
	assert.Equal(t, NewSize(110, 110), OptimizeCanvas(rects, 0))
	assert.Equal(t, Size{}, OptimizeCanvas(nil, 10))
}
