package rectpack

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireProfile checks that segments are ordered, contiguous, cover
// [0, width) and that no neighbours share a height.
func requireProfile(t *testing.T, s *Skyline) {
	t.Helper()
	segs := s.Segments()
	require.NotEmpty(t, segs)
	assert.InDelta(t, 0, segs[0].X, epsilon)
	for i, seg := range segs {
		assert.Greater(t, seg.Width, 0.0, "segment %d has no width", i)
		if i == 0 {
			continue
		}
		assert.InDelta(t, segs[i-1].Right(), seg.X, epsilon, "gap or overlap before segment %d", i)
		assert.NotEqual(t, 0, compareFloat(segs[i-1].Y, seg.Y), "segments %d and %d not merged", i-1, i)
	}
	assert.InDelta(t, s.Width(), segs[len(segs)-1].Right(), epsilon)
}

func TestSkyline_New(t *testing.T) {
	s := NewSkyline(100)
	assert.Equal(t, []Segment{{X: 0, Width: 100, Y: 0}}, s.Segments())
}

func TestSkyline_PlaceAndMerge(t *testing.T) {
	s := NewSkyline(100)

	rect, ok := s.FindPosition(30, 10)
	require.True(t, ok)
	assert.Equal(t, NewRect(0, 0, 30, 10), rect)
	s.AddRectangle(rect)
	assert.Equal(t, []Segment{{0, 30, 10}, {30, 70, 0}}, s.Segments())

	rect, ok = s.FindPosition(50, 5)
	require.True(t, ok)
	assert.Equal(t, NewRect(30, 0, 50, 5), rect)
	s.AddRectangle(rect)
	assert.Equal(t, []Segment{{0, 30, 10}, {30, 50, 5}, {80, 20, 0}}, s.Segments())

	rect, ok = s.FindPosition(20, 5)
	require.True(t, ok)
	assert.Equal(t, NewRect(80, 0, 20, 5), rect)
	s.AddRectangle(rect)
	assert.Equal(t, []Segment{{0, 30, 10}, {30, 70, 5}}, s.Segments())

	_, ok = s.FindPosition(80, 1)
	assert.False(t, ok, "no single segment is 80 wide")

	s.AddRectangle(NewRect(30, 5, 70, 5))
	assert.Equal(t, []Segment{{0, 100, 10}}, s.Segments())
}

func TestSkyline_LeftmostAmongLowest(t *testing.T) {
	s := NewSkyline(100)
	s.AddRectangle(NewRect(20, 0, 20, 5))
	require.Equal(t, []Segment{{0, 20, 0}, {20, 20, 5}, {40, 60, 0}}, s.Segments())

	rect, ok := s.FindPosition(10, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, rect.X)

	rect, ok = s.FindPosition(30, 1)
	require.True(t, ok)
	assert.Equal(t, 40.0, rect.X, "only the right segment is wide enough")

	rect, ok = s.FindPosition(20, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, rect.X, "exact width fits")
}

func TestSkyline_HeightIsUnbounded(t *testing.T) {
	s := NewSkyline(10)
	rect, ok := s.FindPosition(10, 1e9)
	require.True(t, ok)
	assert.Equal(t, 1e9, rect.Height)

	_, ok = s.FindPosition(11, 1)
	assert.False(t, ok)
}

func TestSkyline_SplitsStraddledSegment(t *testing.T) {
	s := NewSkyline(100)
	s.AddRectangle(NewRect(40, 0, 20, 7))
	assert.Equal(t, []Segment{{0, 40, 0}, {40, 20, 7}, {60, 40, 0}}, s.Segments())
	requireProfile(t, s)
}

func TestSkyline_RandomInsertsKeepProfile(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewSkyline(512)
	for i := 0; i < 500; i++ {
		w := float64(rng.Intn(64) + 1)
		h := float64(rng.Intn(64) + 1)
		rect, ok := s.FindPosition(w, h)
		if !ok {
			continue
		}
		s.AddRectangle(rect)
		requireProfile(t, s)
	}
}
