package engagedb

import (
	"github.com/cyclopcam/dbh"
)

// BaseModel is our base class for a GORM model.
// The default GORM Model uses int, but we prefer int64
type BaseModel struct {
	ID int64 `gorm:"primaryKey" json:"id"`
}

// ProcessingStatus is the lifecycle state of an uploaded video.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"    // uploaded, not yet picked up
	StatusProcessing ProcessingStatus = "processing" // a run is underway
	StatusCompleted  ProcessingStatus = "completed"  // run finished normally
	StatusFailed     ProcessingStatus = "failed"     // run aborted
)

// VideoUpload is one uploaded CCTV recording.
type VideoUpload struct {
	BaseModel
	Title            string           `json:"title"`
	Path             string           `json:"path"` // location of the video file on disk
	UploadedAt       dbh.IntTime      `json:"uploadedAt"`
	Processed        bool             `json:"processed"`
	ProcessingStatus ProcessingStatus `json:"processingStatus"`
	DurationSeconds  float64          `json:"durationSeconds"` // 0 if the container didn't report a frame rate
	TotalFrames      int64            `json:"totalFrames"`
}

// EngagementRecord is one interval's aggregated classification counts.
// Records are insert-only: they are written once per interval flush and never
// mutated afterwards.
type EngagementRecord struct {
	BaseModel
	VideoUploadID        int64       `json:"videoUploadID"`
	Timestamp            dbh.IntTime `json:"timestamp"`
	TotalStudents        int         `json:"totalStudents"`
	AttentiveCount       int         `json:"attentiveCount"`
	SleepyCount          int         `json:"sleepyCount"`
	DistractedCount      int         `json:"distractedCount"`
	NeutralCount         int         `json:"neutralCount"`
	EngagementPercentage float64     `json:"engagementPercentage"`
	FrameNumber          int64       `json:"frameNumber"`
	ProcessingTime       float64     `json:"processingTime"` // seconds spent on this interval
	Simulated            bool        `json:"simulated"`      // true if fabricated by the simulation fallback
}
