// Package engine runs the video analysis pipeline: read frames, detect
// faces, classify each face, and flush aggregated counts to the database
// every save interval.
package engine

import (
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/classwatch/classwatch/server/classify"
	"github.com/classwatch/classwatch/server/engagedb"
	"github.com/classwatch/classwatch/server/vision"
	"github.com/cyclopcam/logs"
	"github.com/google/uuid"
)

// DefaultSaveInterval is how many frames we aggregate before flushing an
// engagement record. At 30 fps this is one record per second of video.
const DefaultSaveInterval = 30

// Sink receives the outputs of a processing run. engagedb.EngageDB is the
// production implementation; tests use an in-memory one.
type Sink interface {
	AddRecord(rec *engagedb.EngagementRecord) error
	SetUploadStatus(uploadID int64, status engagedb.ProcessingStatus) error
	MarkUploadCompleted(uploadID int64, totalFrames int64, durationSeconds float64) error
}

// Options tune a processing run. The zero value gives sensible defaults.
type Options struct {
	SaveInterval int         // frames per engagement record (default DefaultSaveInterval)
	MinFaceSize  image.Point // minimum face size in pixels (default vision.DefaultMinFaceSize)
	CascadePath  string      // cascade model file ("" = search standard locations)
}

// Engine turns videos into engagement records.
type Engine struct {
	log  logs.Log
	sink Sink
	opts Options
}

func New(log logs.Log, sink Sink, opts Options) *Engine {
	if opts.SaveInterval <= 0 {
		opts.SaveInterval = DefaultSaveInterval
	}
	if opts.MinFaceSize == (image.Point{}) {
		opts.MinFaceSize = vision.DefaultMinFaceSize
	}
	return &Engine{
		log:  log,
		sink: sink,
		opts: opts,
	}
}

// RunSummary describes one completed (or failed) processing run.
type RunSummary struct {
	RunID              string   `json:"runID"`
	Success            bool     `json:"success"`
	Simulated          bool     `json:"simulated"`
	Error              string   `json:"error,omitempty"`
	TotalFrames        int      `json:"totalFrames"`
	TotalFacesDetected int      `json:"totalFacesDetected"`
	RecordsCreated     int      `json:"recordsCreated"`
	ProcessingTime     float64  `json:"processingTime"` // seconds
	FinalStats         Snapshot `json:"finalStats"`
}

// RunVideo processes the video at path, writing engagement records for
// uploadID. If the vision stack is unavailable (built without OpenCV), the
// run falls back to simulated records so the rest of the system stays
// exercisable. Processing is synchronous; use Worker for background runs.
func (e *Engine) RunVideo(uploadID int64, path string) *RunSummary {
	runID := uuid.NewString()
	e.log.Infof("Run %v: analyzing video '%v' (upload %v)", runID, path, uploadID)
	if err := e.sink.SetUploadStatus(uploadID, engagedb.StatusProcessing); err != nil {
		e.log.Errorf("Run %v: failed to set status: %v", runID, err)
	}

	src, err := vision.NewFileSource(path)
	if err != nil {
		if errors.Is(err, vision.ErrDependencyUnavailable) {
			e.log.Warnf("Run %v: vision stack unavailable, generating simulated records", runID)
			return e.simulate(runID, uploadID)
		}
		return e.fail(runID, uploadID, nil, fmt.Errorf("failed to open video: %w", err))
	}

	detector := vision.NewCascadeDetector(e.log, e.opts.CascadePath, e.opts.MinFaceSize)
	defer detector.Close()

	return e.runOpened(runID, uploadID, src, detector)
}

// runOpened is the main analysis loop. It owns src and closes it.
func (e *Engine) runOpened(runID string, uploadID int64, src vision.FrameSource, detector vision.FaceDetector) *RunSummary {
	defer src.Close()

	start := time.Now()
	intervalStart := start
	tally := Tally{}
	summary := &RunSummary{RunID: runID}

	for {
		frame, err := src.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return e.fail(runID, uploadID, summary, fmt.Errorf("failed reading frame %v: %w", summary.TotalFrames+1, err))
		}
		summary.TotalFrames++

		regions, err := detector.DetectFaces(frame)
		if err != nil {
			return e.fail(runID, uploadID, summary, fmt.Errorf("face detection failed at frame %v: %w", summary.TotalFrames, err))
		}
		summary.TotalFacesDetected += len(regions)

		frameCounts := Counts{}
		for i := range regions {
			frameCounts.Add(classify.Classify(&regions[i]))
		}
		tally.RecordFrame(frameCounts)

		if summary.TotalFrames%e.opts.SaveInterval == 0 {
			if err := e.flush(uploadID, &tally, summary.TotalFrames, intervalStart, false); err != nil {
				return e.fail(runID, uploadID, summary, err)
			}
			summary.RecordsCreated++
			intervalStart = time.Now()
		}

		if summary.TotalFrames%100 == 0 {
			e.log.Infof("Run %v: processed %v frames, %v faces so far", runID, summary.TotalFrames, summary.TotalFacesDetected)
		}
	}

	// A trailing partial interval still becomes a record, but only if it saw
	// at least one face.
	if summary.TotalFrames%e.opts.SaveInterval != 0 && tally.SnapshotInterval().TotalStudents > 0 {
		if err := e.flush(uploadID, &tally, summary.TotalFrames, intervalStart, false); err != nil {
			return e.fail(runID, uploadID, summary, err)
		}
		summary.RecordsCreated++
	}

	duration := 0.0
	if fps := src.FrameRate(); fps > 0 {
		duration = float64(summary.TotalFrames) / fps
	}
	if err := e.sink.MarkUploadCompleted(uploadID, int64(summary.TotalFrames), duration); err != nil {
		return e.fail(runID, uploadID, summary, fmt.Errorf("failed to mark upload completed: %w", err))
	}

	summary.Success = true
	summary.ProcessingTime = time.Since(start).Seconds()
	summary.FinalStats = tally.SnapshotCumulative()
	e.log.Infof("Run %v: done. %v frames, %v faces, %v records in %.1fs",
		runID, summary.TotalFrames, summary.TotalFacesDetected, summary.RecordsCreated, summary.ProcessingTime)
	return summary
}

// flush writes the current interval tally as one engagement record, then
// resets the interval.
func (e *Engine) flush(uploadID int64, tally *Tally, frameNumber int, intervalStart time.Time, simulated bool) error {
	snap := tally.SnapshotInterval()
	rec := &engagedb.EngagementRecord{
		VideoUploadID:        uploadID,
		TotalStudents:        snap.TotalStudents,
		AttentiveCount:       snap.AttentiveCount,
		SleepyCount:          snap.SleepyCount,
		DistractedCount:      snap.DistractedCount,
		NeutralCount:         snap.NeutralCount,
		EngagementPercentage: snap.EngagementPercentage,
		FrameNumber:          int64(frameNumber),
		ProcessingTime:       time.Since(intervalStart).Seconds(),
		Simulated:            simulated,
	}
	if err := e.sink.AddRecord(rec); err != nil {
		return fmt.Errorf("failed to save engagement record: %w", err)
	}
	tally.ResetInterval()
	return nil
}

// fail marks the upload failed and returns a summary describing the error.
// Records written before the failure are left in place.
func (e *Engine) fail(runID string, uploadID int64, summary *RunSummary, cause error) *RunSummary {
	if summary == nil {
		summary = &RunSummary{RunID: runID}
	}
	e.log.Errorf("Run %v: %v (%v records already written)", runID, cause, summary.RecordsCreated)
	if err := e.sink.SetUploadStatus(uploadID, engagedb.StatusFailed); err != nil {
		e.log.Errorf("Run %v: failed to set failed status: %v", runID, err)
	}
	summary.Success = false
	summary.Error = cause.Error()
	return summary
}
