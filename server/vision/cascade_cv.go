//go:build !nocv

package vision

import (
	"fmt"
	"image"
	"os"

	"github.com/cyclopcam/logs"
	"gocv.io/x/gocv"
)

// Haar cascade parameters. These match the reference detection setup, and they
// must stay fixed: detection counts are only deterministic if every frame goes
// through the identical pipeline.
const (
	cascadeScaleFactor  = 1.1
	cascadeMinNeighbors = 5
)

// Locations where distro packages typically install the OpenCV cascade data.
var defaultCascadePaths = []string{
	"/usr/share/opencv4/haarcascades/" + CascadeFilename,
	"/usr/local/share/opencv4/haarcascades/" + CascadeFilename,
	"/usr/share/opencv/haarcascades/" + CascadeFilename,
	"models/" + CascadeFilename,
}

// CascadeDetector finds frontal faces with OpenCV's Haar cascade classifier.
// Every frame is histogram-equalized before detection, and the returned face
// regions are cropped from that equalized plane.
//
// If the cascade data can't be loaded the detector runs degraded: it logs a
// warning once and then reports zero faces on every frame, rather than failing
// the whole processing run.
type CascadeDetector struct {
	log        logs.Log
	classifier gocv.CascadeClassifier
	minSize    image.Point
	degraded   bool
	closed     bool
}

// NewCascadeDetector loads the Haar cascade at cascadePath. An empty
// cascadePath searches the usual install locations. minSize is the smallest
// face that will be reported (DefaultMinFaceSize if zero).
func NewCascadeDetector(log logs.Log, cascadePath string, minSize image.Point) *CascadeDetector {
	if minSize.X <= 0 || minSize.Y <= 0 {
		minSize = DefaultMinFaceSize
	}
	d := &CascadeDetector{
		log:     log,
		minSize: minSize,
	}
	if cascadePath == "" {
		cascadePath = findCascadeFile()
	}
	if cascadePath == "" {
		log.Warnf("Haar cascade data not found. Face detection is disabled (zero faces will be reported)")
		d.degraded = true
		return d
	}
	d.classifier = gocv.NewCascadeClassifier()
	if !d.classifier.Load(cascadePath) {
		log.Warnf("Failed to load Haar cascade from %v. Face detection is disabled (zero faces will be reported)", cascadePath)
		d.classifier.Close()
		d.degraded = true
		return d
	}
	log.Infof("Loaded Haar cascade from %v", cascadePath)
	return d
}

func findCascadeFile() string {
	for _, path := range defaultCascadePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (d *CascadeDetector) DetectFaces(f *Frame) ([]FaceRegion, error) {
	if d.degraded {
		return nil, nil
	}
	mat, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8U, f.Pix)
	if err != nil {
		return nil, fmt.Errorf("wrapping frame for detection: %w", err)
	}
	defer mat.Close()

	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(mat, &equalized)

	boxes := d.classifier.DetectMultiScaleWithParams(
		equalized, cascadeScaleFactor, cascadeMinNeighbors, 0, d.minSize, image.Point{})
	if len(boxes) == 0 {
		return nil, nil
	}

	// Crop the face regions out of the equalized plane, not the raw frame,
	// so that classification sees the same normalization as detection.
	eqFrame := Frame{
		Width:  f.Width,
		Height: f.Height,
		Pix:    equalized.ToBytes(),
	}
	regions := make([]FaceRegion, 0, len(boxes))
	for _, box := range boxes {
		region := eqFrame.Crop(box)
		if region.Empty() {
			continue
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func (d *CascadeDetector) Close() {
	if d.closed {
		return
	}
	d.closed = true
	if !d.degraded {
		d.classifier.Close()
	}
}
