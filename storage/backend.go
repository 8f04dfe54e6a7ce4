package storage

import (
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

const snapshotKeyTag byte = 's'

// GetSnapshotKey encodes the key under which a stream's snapshot lives:
// <1-byte kind tag> <8 bytes little-endian stream ID>. The tag keeps
// snapshots apart from metadata entries sharing the same badger DB.
func GetSnapshotKey(streamID int64) []byte {
	buf := make([]byte, 9)
	buf[0] = snapshotKeyTag
	binary.LittleEndian.PutUint64(buf[1:], uint64(streamID))
	return buf
}

func GetStreamIDFromKey(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf[1:9]))
}

// Backend persists one opaque snapshot blob per stream.
type Backend interface {
	Get(streamID int64) ([]byte, error)
	Put(streamID int64, buf []byte) error
	Delete(streamID int64) error
	IterateStreams(lambda func(streamID int64) error) error
	Close() error
}

type InMemoryBackend struct {
	snapshotMap      map[string][]byte
	snapshotMapMutex sync.Mutex
}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		snapshotMap: make(map[string][]byte),
	}
}

func (backend *InMemoryBackend) Get(streamID int64) ([]byte, error) {
	backend.snapshotMapMutex.Lock()
	defer backend.snapshotMapMutex.Unlock()
	buf, ok := backend.snapshotMap[string(GetSnapshotKey(streamID))]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return buf, nil
}

func (backend *InMemoryBackend) Put(streamID int64, buf []byte) error {
	backend.snapshotMapMutex.Lock()
	defer backend.snapshotMapMutex.Unlock()
	backend.snapshotMap[string(GetSnapshotKey(streamID))] = buf
	return nil
}

func (backend *InMemoryBackend) Delete(streamID int64) error {
	backend.snapshotMapMutex.Lock()
	defer backend.snapshotMapMutex.Unlock()
	delete(backend.snapshotMap, string(GetSnapshotKey(streamID)))
	return nil
}

func (backend *InMemoryBackend) IterateStreams(lambda func(streamID int64) error) error {
	backend.snapshotMapMutex.Lock()
	defer backend.snapshotMapMutex.Unlock()

	for k := range backend.snapshotMap {
		if err := lambda(GetStreamIDFromKey([]byte(k))); err != nil {
			return err
		}
	}
	return nil
}

func (backend *InMemoryBackend) Close() error {
	backend.snapshotMap = nil
	return nil
}
