package core

import (
	"math"
	"sync"
	"time"

	"batchstats/stats"
	"batchstats/storage"

	"github.com/pkg/errors"
)

// Stream owns the sufficient statistics of one logical data stream. Updates
// on a single stream are serialized by its mutex; distinct streams are
// independent and never share mutable state. After every fold the current
// snapshot is written through to the backing store, so a reopened DB picks
// up exactly where the stream left off, without the raw observations.
type Stream struct {
	streamId    int64
	name        string
	suffStats   *stats.SufficientStats
	streamStats *stats.StreamStatistics
	buffer      *IngestBuffer
	store       *BackingStore
	backendSet  bool
	mu          sync.Mutex
}

func NewStreamWithId(id int64, name string) *Stream {
	return &Stream{
		streamId:    id,
		name:        name,
		suffStats:   stats.NewSufficientStats(),
		streamStats: stats.NewStreamStatistics(),
		buffer:      nil,
		store:       nil,
		backendSet:  false,
	}
}

func (stream *Stream) SetConfig(config *StoreConfig) *Stream {
	if config.BufferSize > 0 {
		stream.buffer = NewIngestBuffer(config.BufferSize)
	}
	return stream
}

func (stream *Stream) SetBackend(backend storage.Backend, cacheEnabled bool) *Stream {
	stream.store = NewBackingStore(backend, cacheEnabled)
	stream.backendSet = true
	return stream
}

func (stream *Stream) Id() int64 {
	return stream.streamId
}

func (stream *Stream) Name() string {
	return stream.name
}

// PrimeUp restores the stream's statistics from its persisted snapshot.
// A stream with no snapshot yet stays in the empty state.
func (stream *Stream) PrimeUp() error {
	if !stream.backendSet {
		return errors.New("backend not set")
	}
	snapshot, err := stream.store.Get(stream.streamId)
	if err == storage.ErrSnapshotNotFound {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "prime up stream %d", stream.streamId)
	}
	stream.suffStats = snapshot.RestoreStats()
	stream.streamStats.FirstArrivalTimestamp = snapshot.FirstArrivalTimestamp
	stream.streamStats.LastArrivalTimestamp = snapshot.LastArrivalTimestamp
	stream.streamStats.NumBatches = snapshot.NumBatches
	stream.streamStats.NumValues = snapshot.SampleSize
	return nil
}

// Update folds one batch into the stream. Validation happens before any
// state changes: an empty batch or a non-finite value fails with
// stats.ErrInvalidInput and leaves the statistics untouched.
func (stream *Stream) Update(batch []float64) error {
	stream.mu.Lock()
	defer stream.mu.Unlock()

	if err := stream.suffStats.Update(batch); err != nil {
		return err
	}
	stream.streamStats.Append(time.Now().UnixNano(), len(batch))
	return stream.writeSnapshot()
}

// Append buffers a single observation; once the buffer holds a full batch
// it is folded in one Update step. With no buffer configured the value
// folds immediately.
func (stream *Stream) Append(value float64) error {
	stream.mu.Lock()
	defer stream.mu.Unlock()

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return stats.ErrInvalidInput
	}

	if stream.buffer == nil {
		stream.suffStats.Observe(value)
		stream.streamStats.Append(time.Now().UnixNano(), 1)
		return stream.writeSnapshot()
	}

	if !stream.buffer.Append(value) {
		// A previous fold failed and left the buffer full; retry it.
		if err := stream.foldBuffer(); err != nil {
			return err
		}
		stream.buffer.Append(value)
	}
	if stream.buffer.IsFull() {
		return stream.foldBuffer()
	}
	return nil
}

// Flush folds any partially filled ingest buffer and persists the snapshot.
func (stream *Stream) Flush() error {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	return stream.foldBuffer()
}

func (stream *Stream) foldBuffer() error {
	if stream.buffer == nil || stream.buffer.IsEmpty() {
		return nil
	}
	if err := stream.suffStats.Update(stream.buffer.Values()); err != nil {
		return err
	}
	stream.streamStats.Append(time.Now().UnixNano(), int(stream.buffer.Size))
	stream.buffer.Clear()
	return stream.writeSnapshot()
}

func (stream *Stream) writeSnapshot() error {
	if !stream.backendSet {
		return nil
	}
	snapshot := &StreamSnapshot{
		StreamId:              stream.streamId,
		Name:                  stream.name,
		Mean:                  stream.suffStats.Mean(),
		SumSqDev:              stream.suffStats.SumSquaredDev(),
		SampleSize:            stream.suffStats.Count(),
		FirstArrivalTimestamp: stream.streamStats.FirstArrivalTimestamp,
		LastArrivalTimestamp:  stream.streamStats.LastArrivalTimestamp,
		NumBatches:            stream.streamStats.NumBatches,
	}
	if err := stream.store.Put(stream.streamId, snapshot); err != nil {
		return errors.Wrapf(err, "persist stream %d", stream.streamId)
	}
	return nil
}

// Stats exposes the accumulator for read-only consumers such as the
// two-sample comparator.
func (stream *Stream) Stats() *stats.SufficientStats {
	return stream.suffStats
}

func (stream *Stream) StreamStats() *stats.StreamStatistics {
	return stream.streamStats
}

// Summary returns the stable four-field export view.
func (stream *Stream) Summary() stats.Summary {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	return stream.suffStats.Summary()
}
