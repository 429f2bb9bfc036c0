// markfaces is a debugging tool: it runs face detection and behavior
// classification over a video and writes annotated PNG frames, so you can
// eyeball what the analysis engine is seeing.
package main

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/akamensky/argparse"
	"github.com/classwatch/classwatch/server/classify"
	"github.com/classwatch/classwatch/server/vision"
	"github.com/cyclopcam/logs"
	"github.com/fogleman/gg"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	parser := argparse.NewParser("markfaces", "Render detected faces and their behavior labels onto video frames")
	input := parser.String("i", "input", &argparse.Options{Help: "Input video file", Required: true})
	outDir := parser.String("o", "outdir", &argparse.Options{Help: "Directory for annotated PNG frames", Required: false, Default: "marked"})
	every := parser.Int("e", "every", &argparse.Options{Help: "Annotate every Nth frame", Required: false, Default: 30})
	maxFrames := parser.Int("n", "maxframes", &argparse.Options{Help: "Stop after writing this many frames (0 = no limit)", Required: false, Default: 0})
	cascade := parser.String("c", "cascade", &argparse.Options{Help: "Path to Haar cascade XML", Required: false, Default: ""})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	check(err)

	src, err := vision.NewFileSource(*input)
	check(err)
	defer src.Close()

	detector := vision.NewCascadeDetector(logger, *cascade, vision.DefaultMinFaceSize)
	defer detector.Close()

	check(os.MkdirAll(*outDir, 0770))

	frameIdx := 0
	written := 0
	for {
		frame, err := src.Next()
		if err == io.EOF {
			break
		}
		check(err)
		frameIdx++
		if (frameIdx-1)%*every != 0 {
			continue
		}

		regions, err := detector.DetectFaces(frame)
		check(err)

		outFile := filepath.Join(*outDir, fmt.Sprintf("frame-%06d.png", frameIdx))
		check(renderFrame(frame, regions, outFile))
		written++
		logger.Infof("Frame %v: %v faces -> %v", frameIdx, len(regions), outFile)

		if *maxFrames > 0 && written >= *maxFrames {
			break
		}
	}
	logger.Infof("Wrote %v annotated frames", written)
}

func renderFrame(frame *vision.Frame, regions []vision.FaceRegion, outFile string) error {
	gray := &image.Gray{
		Pix:    frame.Pix,
		Stride: frame.Width,
		Rect:   frame.Bounds(),
	}
	dc := gg.NewContext(frame.Width, frame.Height)
	dc.DrawImage(gray, 0, 0)

	for i := range regions {
		label := classify.Classify(&regions[i])
		box := regions[i].Box
		r, g, b := labelColor(label)
		dc.SetRGB(r, g, b)
		dc.SetLineWidth(2)
		dc.DrawRectangle(float64(box.Min.X), float64(box.Min.Y), float64(box.Dx()), float64(box.Dy()))
		dc.Stroke()
		dc.DrawStringAnchored(label.String(), float64(box.Min.X), float64(box.Min.Y)-4, 0, 0)
	}
	return dc.SavePNG(outFile)
}

func labelColor(label classify.Label) (r, g, b float64) {
	switch label {
	case classify.LabelAttentive:
		return 0, 0.9, 0
	case classify.LabelSleepy:
		return 0.9, 0, 0
	case classify.LabelDistracted:
		return 0.9, 0.7, 0
	default:
		return 0.7, 0.7, 0.7
	}
}
