package main

import (
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/akamensky/argparse"
	"github.com/classwatch/classwatch/pkg/kibi"
	"github.com/classwatch/classwatch/server/engagedb"
	"github.com/classwatch/classwatch/server/engine"
	"github.com/cyclopcam/logs"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	parser := argparse.NewParser("classwatch", "Analyze classroom engagement in recorded video")
	dbFile := parser.String("d", "db", &argparse.Options{Help: "Engagement database file", Required: false, Default: "classwatch.sqlite"})
	videos := parser.StringList("v", "video", &argparse.Options{Help: "Video file to analyze (repeatable)", Required: false})
	title := parser.String("t", "title", &argparse.Options{Help: "Title for the uploaded video(s)", Required: false, Default: ""})
	interval := parser.Int("i", "interval", &argparse.Options{Help: "Frames per engagement record", Required: false, Default: engine.DefaultSaveInterval})
	minFace := parser.Int("m", "minface", &argparse.Options{Help: "Minimum face size in pixels", Required: false, Default: 30})
	cascade := parser.String("c", "cascade", &argparse.Options{Help: "Path to Haar cascade XML (default: search standard locations)", Required: false, Default: ""})
	simulate := parser.Flag("s", "simulate", &argparse.Options{Help: "Generate simulated records instead of analyzing video", Required: false})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}
	if len(*videos) == 0 && !*simulate {
		fmt.Print(parser.Usage("need at least one --video, or --simulate"))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	check(err)

	db, err := engagedb.NewEngageDB(logger, *dbFile)
	check(err)

	eng := engine.New(logger, db, engine.Options{
		SaveInterval: *interval,
		MinFaceSize:  image.Pt(*minFace, *minFace),
		CascadePath:  *cascade,
	})

	summaries := []*engine.RunSummary{}

	if *simulate {
		upload, err := db.CreateUpload(*title, "")
		check(err)
		summaries = append(summaries, eng.Simulate(upload.ID))
	} else {
		worker := engine.NewWorker(logger, eng, len(*videos))
		pending := []<-chan *engine.RunSummary{}
		for _, path := range *videos {
			if stat, err := os.Stat(path); err == nil {
				logger.Infof("Queueing '%v' (%v)", path, kibi.Bytes(stat.Size()))
			}
			upload, err := db.CreateUpload(*title, path)
			check(err)
			pending = append(pending, worker.Submit(upload.ID, path))
		}
		for _, done := range pending {
			summaries = append(summaries, <-done)
		}
		worker.Close()
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	check(encoder.Encode(summaries))

	for _, s := range summaries {
		if !s.Success {
			os.Exit(1)
		}
	}
}
