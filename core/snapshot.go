package core

import (
	"batchstats/stats"

	"github.com/kelindar/binary"
	"github.com/pkg/errors"
)

// StreamSnapshot is the persisted form of one stream: the sufficient
// statistics plus arrival bookkeeping. It carries everything needed to
// reconstruct the stream without the raw observations.
type StreamSnapshot struct {
	StreamId              int64
	Name                  string
	Mean                  float64
	SumSqDev              float64
	SampleSize            uint64
	FirstArrivalTimestamp int64
	LastArrivalTimestamp  int64
	NumBatches            uint64
}

func SnapshotToBytes(snapshot *StreamSnapshot) ([]byte, error) {
	buf, err := binary.Marshal(snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "marshal stream snapshot")
	}
	return buf, nil
}

func BytesToSnapshot(buf []byte) (*StreamSnapshot, error) {
	snapshot := &StreamSnapshot{}
	if err := binary.Unmarshal(buf, snapshot); err != nil {
		return nil, errors.Wrap(err, "unmarshal stream snapshot")
	}
	return snapshot, nil
}

// DBSnapshot is the persisted registry: every stream id the DB has created
// and the counter the next id comes from.
type DBSnapshot struct {
	StreamIds    []int64
	NextStreamId int64
}

func DBSnapshotToBytes(snapshot *DBSnapshot) ([]byte, error) {
	buf, err := binary.Marshal(snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "marshal db snapshot")
	}
	return buf, nil
}

func BytesToDBSnapshot(buf []byte) (*DBSnapshot, error) {
	snapshot := &DBSnapshot{}
	if err := binary.Unmarshal(buf, snapshot); err != nil {
		return nil, errors.Wrap(err, "unmarshal db snapshot")
	}
	return snapshot, nil
}

// StreamMetadata is the per-stream registry entry: identity only, written
// once at stream creation. Statistics live in the snapshot.
type StreamMetadata struct {
	StreamId int64
	Name     string
}

func MetadataToBytes(meta *StreamMetadata) ([]byte, error) {
	buf, err := binary.Marshal(meta)
	if err != nil {
		return nil, errors.Wrap(err, "marshal stream metadata")
	}
	return buf, nil
}

func BytesToMetadata(buf []byte) (*StreamMetadata, error) {
	meta := &StreamMetadata{}
	if err := binary.Unmarshal(buf, meta); err != nil {
		return nil, errors.Wrap(err, "unmarshal stream metadata")
	}
	return meta, nil
}

func (snapshot *StreamSnapshot) RestoreStats() *stats.SufficientStats {
	return stats.Restore(snapshot.Mean, snapshot.SumSqDev, snapshot.SampleSize)
}
