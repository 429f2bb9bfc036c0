// Package classify buckets a detected face into one of four behavior labels
// using pixel-statistic heuristics.
//
// This is deliberately not a trained model. Brightness, contrast and aspect
// ratio are crude proxies for attention (a dim, flat region reads as eyes
// closed or head down; a strongly non-square box reads as a head turned away
// from the camera). The thresholds reproduce the behavior of the system this
// was calibrated against and are not tunable on the default classifier.
package classify

import (
	"math"

	"github.com/classwatch/classwatch/server/vision"
)

// Label is a per-face behavior classification.
type Label int

const (
	LabelAttentive Label = iota
	LabelSleepy
	LabelDistracted
	LabelNeutral
	NumLabels
)

func (l Label) String() string {
	switch l {
	case LabelAttentive:
		return "Attentive"
	case LabelSleepy:
		return "Sleepy"
	case LabelDistracted:
		return "Distracted"
	case LabelNeutral:
		return "Neutral"
	}
	return "Unknown"
}

// Classification thresholds. Rule order matters (see Classify).
const (
	sleepyMaxBrightness = 80
	sleepyMaxContrast   = 30

	distractedMinAspect = 0.6
	distractedMaxAspect = 1.4

	attentiveMinBrightness = 100
	attentiveMinContrast   = 40
	attentiveMinAspect     = 0.7
	attentiveMaxAspect     = 1.3
)

// Classify maps one face region to exactly one label. It is pure and total:
// every input yields a label, and anything unclassifiable is Neutral.
//
// Rules are evaluated in fixed priority order; the first match wins:
//  1. Empty region -> Neutral
//  2. brightness < 80 and contrast < 30 -> Sleepy
//  3. aspect < 0.6 or aspect > 1.4 -> Distracted
//  4. brightness > 100, contrast > 40, 0.7 < aspect < 1.3 -> Attentive
//  5. Otherwise -> Neutral
func Classify(region *vision.FaceRegion) Label {
	if region == nil || region.Empty() {
		return LabelNeutral
	}

	brightness, contrast := intensityStats(region.Pix)
	aspect := float64(region.Width) / float64(region.Height)

	if brightness < sleepyMaxBrightness && contrast < sleepyMaxContrast {
		return LabelSleepy
	}
	if aspect < distractedMinAspect || aspect > distractedMaxAspect {
		return LabelDistracted
	}
	if brightness > attentiveMinBrightness && contrast > attentiveMinContrast &&
		aspect > attentiveMinAspect && aspect < attentiveMaxAspect {
		return LabelAttentive
	}
	return LabelNeutral
}

// intensityStats returns the mean and population standard deviation of the
// pixel intensities.
func intensityStats(pix []byte) (mean, stddev float64) {
	if len(pix) == 0 {
		return 0, 0
	}
	sum := 0
	for _, p := range pix {
		sum += int(p)
	}
	mean = float64(sum) / float64(len(pix))

	variance := 0.0
	for _, p := range pix {
		d := float64(p) - mean
		variance += d * d
	}
	variance /= float64(len(pix))
	return mean, math.Sqrt(variance)
}
