package engine

import (
	"github.com/classwatch/classwatch/server/classify"
)

// Counts is a per-label face count, either for a single frame or accumulated
// over many frames.
type Counts struct {
	Attentive  int `json:"attentive"`
	Sleepy     int `json:"sleepy"`
	Distracted int `json:"distracted"`
	Neutral    int `json:"neutral"`
}

// Add bumps the bucket for one classified face.
func (c *Counts) Add(label classify.Label) {
	switch label {
	case classify.LabelAttentive:
		c.Attentive++
	case classify.LabelSleepy:
		c.Sleepy++
	case classify.LabelDistracted:
		c.Distracted++
	default:
		c.Neutral++
	}
}

func (c *Counts) add(other Counts) {
	c.Attentive += other.Attentive
	c.Sleepy += other.Sleepy
	c.Distracted += other.Distracted
	c.Neutral += other.Neutral
}

// Total is the number of classified faces in the tally. Every face gets
// exactly one label, so this always equals the sum of the four buckets.
func (c Counts) Total() int {
	return c.Attentive + c.Sleepy + c.Distracted + c.Neutral
}

// Snapshot is a read-only view of a tally at a point in time.
type Snapshot struct {
	TotalStudents        int     `json:"totalStudents"`
	AttentiveCount       int     `json:"attentiveCount"`
	SleepyCount          int     `json:"sleepyCount"`
	DistractedCount      int     `json:"distractedCount"`
	NeutralCount         int     `json:"neutralCount"`
	EngagementPercentage float64 `json:"engagementPercentage"`
}

// Tally accumulates classification counts for one processing run. The
// interval tally is flushed to a record and reset every save interval; the
// cumulative tally lives for the whole run.
//
// A Tally is owned exclusively by one run and needs no locking.
type Tally struct {
	interval   Counts
	cumulative Counts
}

// RecordFrame folds one frame's counts into both tallies.
func (t *Tally) RecordFrame(frame Counts) {
	t.interval.add(frame)
	t.cumulative.add(frame)
}

// SnapshotInterval returns the counts accumulated since the last reset.
// Calling it repeatedly without intervening writes returns identical results.
func (t *Tally) SnapshotInterval() Snapshot {
	return makeSnapshot(t.interval)
}

// SnapshotCumulative returns the counts accumulated since the run started.
func (t *Tally) SnapshotCumulative() Snapshot {
	return makeSnapshot(t.cumulative)
}

// ResetInterval zeroes the interval tally. The cumulative tally is untouched.
func (t *Tally) ResetInterval() {
	t.interval = Counts{}
}

func makeSnapshot(c Counts) Snapshot {
	total := c.Total()
	pct := 0.0
	if total > 0 {
		pct = float64(c.Attentive) / float64(total) * 100
	}
	return Snapshot{
		TotalStudents:        total,
		AttentiveCount:       c.Attentive,
		SleepyCount:          c.Sleepy,
		DistractedCount:      c.Distracted,
		NeutralCount:         c.Neutral,
		EngagementPercentage: pct,
	}
}
