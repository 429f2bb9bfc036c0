//go:build nocv

package vision

// Stubs for builds without OpenCV. The processing engine reacts to
// ErrDependencyUnavailable by falling back to simulated results, so a binary
// built with -tags nocv still runs end to end.

import (
	"image"
	"io"

	"github.com/cyclopcam/logs"
)

// Available reports whether the OpenCV decoding backend was compiled in.
func Available() bool {
	return false
}

type FileSource struct{}

func NewFileSource(path string) (*FileSource, error) {
	return nil, ErrDependencyUnavailable
}

func (s *FileSource) FrameRate() float64 { return 0 }

func (s *FileSource) FrameCount() int { return 0 }

func (s *FileSource) Next() (*Frame, error) { return nil, io.EOF }

func (s *FileSource) Close() {}

type CascadeDetector struct{}

func NewCascadeDetector(log logs.Log, cascadePath string, minSize image.Point) *CascadeDetector {
	log.Warnf("Built without OpenCV: face detection is unavailable")
	return &CascadeDetector{}
}

func (d *CascadeDetector) DetectFaces(f *Frame) ([]FaceRegion, error) {
	return nil, ErrDependencyUnavailable
}

func (d *CascadeDetector) Close() {}
