package engine

import (
	"testing"

	"github.com/classwatch/classwatch/server/classify"
	"github.com/stretchr/testify/require"
)

func TestCountsAdd(t *testing.T) {
	c := Counts{}
	c.Add(classify.LabelAttentive)
	c.Add(classify.LabelAttentive)
	c.Add(classify.LabelSleepy)
	c.Add(classify.LabelDistracted)
	c.Add(classify.LabelNeutral)
	c.Add(classify.Label(99)) // unknown labels count as neutral

	require.Equal(t, Counts{Attentive: 2, Sleepy: 1, Distracted: 1, Neutral: 2}, c)
	require.Equal(t, 6, c.Total())
}

func TestTallyConservation(t *testing.T) {
	tally := Tally{}
	tally.RecordFrame(Counts{Attentive: 3, Sleepy: 1})
	tally.RecordFrame(Counts{Distracted: 2, Neutral: 4})

	snap := tally.SnapshotInterval()
	require.Equal(t, 10, snap.TotalStudents)
	require.Equal(t, snap.TotalStudents,
		snap.AttentiveCount+snap.SleepyCount+snap.DistractedCount+snap.NeutralCount)
	require.InDelta(t, 30.0, snap.EngagementPercentage, 1e-9)
}

func TestTallySnapshotIdempotent(t *testing.T) {
	tally := Tally{}
	tally.RecordFrame(Counts{Attentive: 1, Neutral: 1})
	first := tally.SnapshotInterval()
	second := tally.SnapshotInterval()
	require.Equal(t, first, second)
}

func TestTallyResetInterval(t *testing.T) {
	tally := Tally{}
	tally.RecordFrame(Counts{Attentive: 2, Sleepy: 1})
	tally.ResetInterval()

	interval := tally.SnapshotInterval()
	require.Equal(t, 0, interval.TotalStudents)
	require.Equal(t, 0.0, interval.EngagementPercentage)

	// Cumulative survives the reset
	cumulative := tally.SnapshotCumulative()
	require.Equal(t, 3, cumulative.TotalStudents)
	require.Equal(t, 2, cumulative.AttentiveCount)

	tally.RecordFrame(Counts{Neutral: 1})
	require.Equal(t, 1, tally.SnapshotInterval().TotalStudents)
	require.Equal(t, 4, tally.SnapshotCumulative().TotalStudents)
}

func TestTallyEmptyPercentage(t *testing.T) {
	tally := Tally{}
	require.Equal(t, 0.0, tally.SnapshotInterval().EngagementPercentage)
	require.Equal(t, 0.0, tally.SnapshotCumulative().EngagementPercentage)

	// Frames with no faces leave the percentage at 0, not NaN
	tally.RecordFrame(Counts{})
	require.Equal(t, 0.0, tally.SnapshotInterval().EngagementPercentage)
}
