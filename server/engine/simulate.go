package engine

import (
	"math/rand"
	"time"

	"github.com/classwatch/classwatch/server/engagedb"
	"github.com/google/uuid"
)

// Simulate fabricates a plausible run for uploadID without touching any
// video file. This is the fallback when the vision stack isn't compiled in,
// and it's also handy for demos and load testing.
func (e *Engine) Simulate(uploadID int64) *RunSummary {
	return e.simulate(uuid.NewString(), uploadID)
}

func (e *Engine) simulate(runID string, uploadID int64) *RunSummary {
	start := time.Now()
	summary := &RunSummary{RunID: runID, Simulated: true}
	tally := Tally{}

	numRecords := 10 + rand.Intn(21)
	for i := 0; i < numRecords; i++ {
		total := 5 + rand.Intn(16)
		attentive := 2 + rand.Intn(total-1)
		sleepy := rand.Intn(total - attentive + 1)
		distracted := rand.Intn(total - attentive - sleepy + 1)
		neutral := total - attentive - sleepy - distracted

		counts := Counts{
			Attentive:  attentive,
			Sleepy:     sleepy,
			Distracted: distracted,
			Neutral:    neutral,
		}
		tally.RecordFrame(counts)

		snap := tally.SnapshotInterval()
		rec := &engagedb.EngagementRecord{
			VideoUploadID:        uploadID,
			TotalStudents:        snap.TotalStudents,
			AttentiveCount:       snap.AttentiveCount,
			SleepyCount:          snap.SleepyCount,
			DistractedCount:      snap.DistractedCount,
			NeutralCount:         snap.NeutralCount,
			EngagementPercentage: snap.EngagementPercentage,
			FrameNumber:          int64(i * 30),
			ProcessingTime:       0.5,
			Simulated:            true,
		}
		if err := e.sink.AddRecord(rec); err != nil {
			return e.fail(runID, uploadID, summary, err)
		}
		summary.RecordsCreated++
		tally.ResetInterval()
	}

	// No frame count or duration to report, so completion leaves those fields
	// untouched on the upload.
	if err := e.sink.MarkUploadCompleted(uploadID, 0, 0); err != nil {
		return e.fail(runID, uploadID, summary, err)
	}

	summary.Success = true
	summary.ProcessingTime = time.Since(start).Seconds()
	summary.FinalStats = tally.SnapshotCumulative()
	e.log.Infof("Run %v: simulated %v records for upload %v", runID, summary.RecordsCreated, uploadID)
	return summary
}
