package engagedb

import (
	"fmt"
	"time"

	"github.com/cyclopcam/dbh"
)

// CreateUpload registers a new uploaded video, in status 'pending'.
func (e *EngageDB) CreateUpload(title, path string) (*VideoUpload, error) {
	if title == "" {
		title = "CCTV Recording"
	}
	upload := &VideoUpload{
		Title:            title,
		Path:             path,
		UploadedAt:       dbh.MakeIntTime(time.Now()),
		ProcessingStatus: StatusPending,
	}
	if err := e.db.Create(upload).Error; err != nil {
		return nil, fmt.Errorf("Failed to create video upload: %w", err)
	}
	return upload, nil
}

func (e *EngageDB) GetUpload(uploadID int64) (*VideoUpload, error) {
	upload := &VideoUpload{}
	if err := e.db.First(upload, uploadID).Error; err != nil {
		return nil, err
	}
	return upload, nil
}

// SetUploadStatus moves an upload to the given lifecycle state.
func (e *EngageDB) SetUploadStatus(uploadID int64, status ProcessingStatus) error {
	return e.db.Model(&VideoUpload{}).Where("id = ?", uploadID).
		Update("processing_status", status).Error
}

// MarkUploadCompleted flags the upload as processed. totalFrames and
// durationSeconds are only written when known (non-zero frames); the
// simulation path completes an upload without them.
func (e *EngageDB) MarkUploadCompleted(uploadID int64, totalFrames int64, durationSeconds float64) error {
	updates := map[string]any{
		"processed":         true,
		"processing_status": StatusCompleted,
	}
	if totalFrames > 0 {
		updates["total_frames"] = totalFrames
		updates["duration_seconds"] = durationSeconds
	}
	return e.db.Model(&VideoUpload{}).Where("id = ?", uploadID).Updates(updates).Error
}

// AddRecord persists one engagement record. The engagement percentage is
// recomputed here so the stored value always satisfies
// percentage == attentive/total*100 (0 when total is 0), whatever the caller
// passed in.
func (e *EngageDB) AddRecord(rec *EngagementRecord) error {
	if rec.TotalStudents > 0 {
		rec.EngagementPercentage = float64(rec.AttentiveCount) / float64(rec.TotalStudents) * 100
	} else {
		rec.EngagementPercentage = 0
	}
	if rec.Timestamp == 0 {
		rec.Timestamp = dbh.MakeIntTime(time.Now())
	}
	return e.db.Create(rec).Error
}

// RecordsForUpload returns the upload's engagement records, newest first.
func (e *EngageDB) RecordsForUpload(uploadID int64) ([]EngagementRecord, error) {
	records := []EngagementRecord{}
	if err := e.db.Where("video_upload_id = ?", uploadID).
		Order("timestamp DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountRecords returns the number of engagement records for an upload.
func (e *EngageDB) CountRecords(uploadID int64) (int64, error) {
	count := int64(0)
	err := e.db.Model(&EngagementRecord{}).Where("video_upload_id = ?", uploadID).
		Count(&count).Error
	return count, err
}
