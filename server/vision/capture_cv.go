//go:build !nocv

package vision

import (
	"fmt"
	"io"
	"math"
	"os"

	"gocv.io/x/gocv"
)

// Available reports whether the OpenCV decoding backend was compiled in.
func Available() bool {
	return true
}

// FileSource decodes a stored video file into a sequence of grayscale frames.
type FileSource struct {
	capture *gocv.VideoCapture
	bgr     gocv.Mat
	gray    gocv.Mat
	closed  bool
}

// NewFileSource opens the video container at path.
// Returns ErrSourceNotFound if the file does not exist, and ErrSourceUnreadable
// if OpenCV can't open the container.
func NewFileSource(path string) (*FileSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, path)
	}
	capture, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, path)
	}
	return &FileSource{
		capture: capture,
		bgr:     gocv.NewMat(),
		gray:    gocv.NewMat(),
	}, nil
}

func (s *FileSource) FrameRate() float64 {
	fps := s.capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 || math.IsNaN(fps) {
		return 0
	}
	return fps
}

func (s *FileSource) FrameCount() int {
	n := int(s.capture.Get(gocv.VideoCaptureFrameCount))
	if n < 0 {
		return 0
	}
	return n
}

func (s *FileSource) Next() (*Frame, error) {
	if s.closed {
		return nil, io.EOF
	}
	if ok := s.capture.Read(&s.bgr); !ok || s.bgr.Empty() {
		return nil, io.EOF
	}
	gocv.CvtColor(s.bgr, &s.gray, gocv.ColorBGRToGray)
	return &Frame{
		Width:  s.gray.Cols(),
		Height: s.gray.Rows(),
		Pix:    s.gray.ToBytes(),
	}, nil
}

func (s *FileSource) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.capture.Close()
	s.bgr.Close()
	s.gray.Close()
}
