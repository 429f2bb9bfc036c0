package vision

// vision provides frame-by-frame access to stored video footage, and face
// detection over those frames. The gocv-backed implementations live behind
// the FrameSource and FaceDetector interfaces so that the processing engine
// (and its tests) never touch OpenCV directly.

import (
	"errors"
	"image"
)

// CascadeFilename is the stock OpenCV frontal-face cascade we detect with.
const CascadeFilename = "haarcascade_frontalface_default.xml"

// DefaultMinFaceSize is the smallest face the detector reports by default.
var DefaultMinFaceSize = image.Pt(30, 30)

var (
	// ErrSourceNotFound means the input path does not exist.
	ErrSourceNotFound = errors.New("video file not found")

	// ErrSourceUnreadable means the file exists, but the decoder could not open it.
	ErrSourceUnreadable = errors.New("could not open video file")

	// ErrDependencyUnavailable means the decoding backend is not compiled in.
	// Callers are expected to fall back to simulated processing.
	ErrDependencyUnavailable = errors.New("video decoding backend not available")
)

// Frame is a single grayscale video frame.
// A Frame is ephemeral: it is owned by whoever pulled it from a FrameSource,
// for the duration of one loop iteration, and is never persisted.
type Frame struct {
	Width  int
	Height int
	Pix    []byte // Width * Height bytes, row-major
}

func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height),
	}
}

// Bounds returns the frame rectangle (0,0)-(Width,Height).
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// Crop copies the sub-region r out of the frame.
// r is clamped to the frame bounds, so the returned region's box is always
// fully contained in the frame, and a fully out-of-bounds r yields an empty region.
func (f *Frame) Crop(r image.Rectangle) FaceRegion {
	r = r.Intersect(f.Bounds())
	region := FaceRegion{
		Box:    r,
		Width:  r.Dx(),
		Height: r.Dy(),
	}
	if r.Empty() {
		return region
	}
	region.Pix = make([]byte, region.Width*region.Height)
	for y := 0; y < region.Height; y++ {
		src := (r.Min.Y+y)*f.Width + r.Min.X
		copy(region.Pix[y*region.Width:(y+1)*region.Width], f.Pix[src:src+region.Width])
	}
	return region
}

// FaceRegion is the grayscale crop of one detected face, together with its
// bounding box in frame coordinates.
type FaceRegion struct {
	Box    image.Rectangle
	Width  int
	Height int
	Pix    []byte
}

// Empty is true if the region has zero area.
func (r *FaceRegion) Empty() bool {
	return r.Width <= 0 || r.Height <= 0 || len(r.Pix) == 0
}

// FrameSource is a lazy, finite, forward-only sequence of frames decoded from
// a video container. Not restartable; reopen the source to read it again.
type FrameSource interface {
	// FrameRate returns frames per second, or 0 if the container doesn't say.
	FrameRate() float64
	// FrameCount returns the container's reported frame count, or 0 if unknown.
	// Some containers misreport this, so treat it as a hint only.
	FrameCount() int
	// Next returns the next frame, or io.EOF at end of stream.
	Next() (*Frame, error)
	// Close releases the underlying decoder. Safe to call more than once.
	Close()
}

// FaceDetector finds faces in one frame. Implementations are stateless from
// the caller's point of view: every call is independent, and the order of the
// returned regions is unspecified.
type FaceDetector interface {
	DetectFaces(f *Frame) ([]FaceRegion, error)
	Close()
}
