package engagedb

import (
	"github.com/BurntSushi/migration"
	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/logs"
)

func Migrations(log logs.Log) []migration.Migrator {
	migs := []migration.Migrator{}
	idx := 0

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		CREATE TABLE video_upload(
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			path TEXT NOT NULL,
			uploaded_at INT NOT NULL,
			processed INT NOT NULL DEFAULT 0,
			processing_status TEXT NOT NULL,
			duration_seconds REAL,
			total_frames INT
		);

		CREATE TABLE engagement_record(
			id INTEGER PRIMARY KEY,
			video_upload_id INT NOT NULL,
			timestamp INT NOT NULL,
			total_students INT NOT NULL,
			attentive_count INT NOT NULL,
			sleepy_count INT NOT NULL,
			distracted_count INT NOT NULL,
			neutral_count INT NOT NULL,
			engagement_percentage REAL NOT NULL,
			frame_number INT,
			processing_time REAL
		);

		CREATE INDEX idx_engagement_record_upload_timestamp ON engagement_record (video_upload_id, timestamp);
	`))

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		ALTER TABLE engagement_record ADD COLUMN simulated INT NOT NULL DEFAULT 0;
	`))

	return migs
}
