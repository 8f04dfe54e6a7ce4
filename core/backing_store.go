package core

import (
	"batchstats/storage"

	"github.com/dgraph-io/ristretto"
)

// BackingStore is a write-through snapshot store: every Put lands in the
// backend, reads are served from a ristretto cache when enabled.
type BackingStore struct {
	backend       storage.Backend
	cacheEnabled  bool
	snapshotCache *ristretto.Cache
}

func NewBackingStore(backend storage.Backend, cacheEnabled bool) *BackingStore {
	snapshotCache, _ := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})

	return &BackingStore{
		backend:       backend,
		cacheEnabled:  cacheEnabled,
		snapshotCache: snapshotCache,
	}
}

func (store *BackingStore) Get(streamID int64) (*StreamSnapshot, error) {
	if store.cacheEnabled {
		snapshot, found := store.snapshotCache.Get(storage.GetSnapshotKey(streamID))
		if found {
			return snapshot.(*StreamSnapshot), nil
		}
	}
	buf, err := store.backend.Get(streamID)
	if err != nil {
		return nil, err
	}
	return BytesToSnapshot(buf)
}

func (store *BackingStore) Put(streamID int64, snapshot *StreamSnapshot) error {
	if store.cacheEnabled {
		store.snapshotCache.Set(storage.GetSnapshotKey(streamID), snapshot, 1)
	}
	buf, err := SnapshotToBytes(snapshot)
	if err != nil {
		return err
	}
	return store.backend.Put(streamID, buf)
}

func (store *BackingStore) Delete(streamID int64) error {
	if store.cacheEnabled {
		store.snapshotCache.Del(storage.GetSnapshotKey(streamID))
	}
	return store.backend.Delete(streamID)
}

func (store *BackingStore) IterateStreams(lambda func(streamID int64) error) error {
	return store.backend.IterateStreams(lambda)
}

func (store *BackingStore) Close() error {
	return store.backend.Close()
}
