package stats

import (
	"testing"

	"batchstats/utils"
)

func TestStreamStatistics(t *testing.T) {
	stream := NewStreamStatistics()

	utils.AssertEqual(t, stream.FirstArrivalTimestamp, int64(-1))
	utils.AssertEqual(t, stream.LastArrivalTimestamp, int64(-1))

	stream.Append(100, 10)
	stream.Append(250, 30)
	stream.Append(400, 20)

	utils.AssertEqual(t, stream.FirstArrivalTimestamp, int64(100))
	utils.AssertEqual(t, stream.LastArrivalTimestamp, int64(400))
	utils.AssertEqual(t, stream.NumBatches, uint64(3))
	utils.AssertEqual(t, stream.NumValues, uint64(60))
	utils.AssertEqual(t, stream.BatchSizeStats.Mean(), 20.0)
}
