package classify

import (
	"image"
	"testing"

	"github.com/classwatch/classwatch/server/vision"
	"github.com/stretchr/testify/require"
)

// makeRegion builds a width x height region whose pixels alternate between
// mean-spread and mean+spread, giving an exact mean of `mean` and a
// population standard deviation of `spread`.
func makeRegion(t *testing.T, width, height int, mean, spread byte) *vision.FaceRegion {
	t.Helper()
	pix := make([]byte, width*height)
	for i := range pix {
		if i%2 == 0 {
			pix[i] = mean - spread
		} else {
			pix[i] = mean + spread
		}
	}
	require.Equal(t, 0, len(pix)%2, "need an even pixel count for exact stats")
	return &vision.FaceRegion{
		Box:    image.Rect(0, 0, width, height),
		Width:  width,
		Height: height,
		Pix:    pix,
	}
}

func TestClassifyEmptyRegion(t *testing.T) {
	require.Equal(t, LabelNeutral, Classify(nil))
	require.Equal(t, LabelNeutral, Classify(&vision.FaceRegion{}))
	require.Equal(t, LabelNeutral, Classify(&vision.FaceRegion{Width: 10, Height: 10}))
}

func TestClassifySleepy(t *testing.T) {
	// Dim and flat: mean 50, stddev 10
	region := makeRegion(t, 40, 40, 50, 10)
	require.Equal(t, LabelSleepy, Classify(region))

	// Completely uniform region is as flat as it gets
	region = makeRegion(t, 40, 40, 60, 0)
	require.Equal(t, LabelSleepy, Classify(region))
}

func TestClassifyDistracted(t *testing.T) {
	// Bright enough to skip the sleepy rule, but the box is twice as wide
	// as it is tall
	region := makeRegion(t, 60, 30, 110, 50)
	require.Equal(t, LabelDistracted, Classify(region))

	// Tall and narrow
	region = makeRegion(t, 20, 40, 110, 50)
	require.Equal(t, LabelDistracted, Classify(region))
}

func TestClassifyAttentive(t *testing.T) {
	// Bright, high contrast, square: mean 110, stddev 50
	region := makeRegion(t, 40, 40, 110, 50)
	require.Equal(t, LabelAttentive, Classify(region))
}

func TestClassifyNeutralFallthrough(t *testing.T) {
	// Mean 90, stddev 35: not dim enough for sleepy, square so not
	// distracted, not bright enough for attentive
	region := makeRegion(t, 40, 40, 90, 35)
	require.Equal(t, LabelNeutral, Classify(region))

	// Bright but flat
	region = makeRegion(t, 40, 40, 150, 10)
	require.Equal(t, LabelNeutral, Classify(region))
}

func TestClassifyRuleOrder(t *testing.T) {
	// A region that is both dim/flat and extreme-aspect must come out
	// Sleepy: the sleepy rule is checked before the aspect rule.
	region := makeRegion(t, 60, 30, 50, 10)
	require.Equal(t, LabelSleepy, Classify(region))
}

func TestIntensityStats(t *testing.T) {
	mean, stddev := intensityStats(nil)
	require.Equal(t, 0.0, mean)
	require.Equal(t, 0.0, stddev)

	mean, stddev = intensityStats([]byte{60, 160, 60, 160})
	require.InDelta(t, 110, mean, 1e-9)
	require.InDelta(t, 50, stddev, 1e-9)

	mean, stddev = intensityStats([]byte{77, 77, 77})
	require.InDelta(t, 77, mean, 1e-9)
	require.InDelta(t, 0, stddev, 1e-9)
}
