// Package engagedb stores uploaded-video metadata and the engagement records
// that the processing engine emits.
package engagedb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/logs"
	"gorm.io/gorm"
)

// EngageDB is the result sink for video analysis runs.
// All writes are individually atomic; a run is never wrapped in one big
// transaction, so records written before a mid-run failure survive it.
type EngageDB struct {
	log logs.Log
	db  *gorm.DB
}

// NewEngageDB opens or creates the engagement database at dbFilename.
func NewEngageDB(log logs.Log, dbFilename string) (*EngageDB, error) {
	if dir := filepath.Dir(dbFilename); dir != "." {
		os.MkdirAll(dir, 0770)
	}
	log.Infof("Opening engagement DB at '%v'", dbFilename)
	db, err := dbh.OpenDB(log, dbh.MakeSqliteConfig(dbFilename), Migrations(log), 0)
	if err != nil {
		return nil, fmt.Errorf("Failed to open engagement database %v: %w", dbFilename, err)
	}
	return &EngageDB{
		log: log,
		db:  db,
	}, nil
}
