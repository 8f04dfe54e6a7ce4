package stats

type StreamStatistics struct {
	FirstArrivalTimestamp int64
	LastArrivalTimestamp  int64
	NumBatches            uint64
	NumValues             uint64
	BatchSizeStats        *SufficientStats
}

func NewStreamStatistics() *StreamStatistics {
	return &StreamStatistics{
		FirstArrivalTimestamp: -1,
		LastArrivalTimestamp:  -1,
		NumBatches:            0,
		NumValues:             0,
		BatchSizeStats:        NewSufficientStats(),
	}
}

func (stream *StreamStatistics) Append(timestamp int64, batchSize int) {
	if stream.FirstArrivalTimestamp == -1 {
		stream.FirstArrivalTimestamp = timestamp
	}

	stream.BatchSizeStats.Observe(float64(batchSize))
	stream.NumBatches++
	stream.NumValues += uint64(batchSize)
	stream.LastArrivalTimestamp = timestamp
}
