package core

import (
	"sync"

	"batchstats/stats"
	"batchstats/storage"

	"github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"
)

// DB manages a set of named streams backed by one store. Each stream keeps
// O(1) state regardless of how much data has been folded into it; the DB
// adds registry persistence and cross-stream comparison on top.
type DB struct {
	backend      storage.Backend
	mds          storage.MetadataStore
	streams      map[int64]*Stream
	config       *StoreConfig
	nextStreamId int64
	mu           sync.Mutex
}

// New opens a DB at path. An empty path opens an in-memory badger instance,
// useful for tests and ephemeral streams.
func New(path string) (*DB, error) {
	return NewWithConfig(path, DefaultStoreConfig())
}

func NewWithConfig(path string, config *StoreConfig) (*DB, error) {
	badgerOptions := badger.DefaultOptions(path)
	if path == "" {
		badgerOptions = badgerOptions.WithInMemory(true)
	} else {
		badgerOptions = badgerOptions.WithTruncate(true)
	}
	badgerDb, err := badger.Open(badgerOptions)
	if err != nil {
		return nil, errors.Wrap(err, "open badger")
	}

	return &DB{
		backend:      storage.NewBadgerBackend(badgerDb),
		mds:          storage.NewBadgerMetadataStore(badgerDb),
		streams:      make(map[int64]*Stream),
		config:       config,
		nextStreamId: 0,
	}, nil
}

// NewWithBackend wires an explicit backend and metadata store, bypassing
// badger entirely.
func NewWithBackend(
	backend storage.Backend,
	mds storage.MetadataStore,
	config *StoreConfig) *DB {
	return &DB{
		backend:      backend,
		mds:          mds,
		streams:      make(map[int64]*Stream),
		config:       config,
		nextStreamId: 0,
	}
}

// Open opens the DB at path and restores every registered stream from its
// snapshot.
func Open(path string) (*DB, error) {
	db, err := New(path)
	if err != nil {
		return nil, err
	}
	if err := db.ReadDB(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) NewStream(name string) (*Stream, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	streamId := db.nextStreamId
	db.nextStreamId += 1

	stream := NewStreamWithId(streamId, name).
		SetConfig(db.config).
		SetBackend(db.backend, db.config.CacheEnabled)
	db.streams[streamId] = stream

	if err := db.writeDBAndStream(stream); err != nil {
		delete(db.streams, streamId)
		return nil, err
	}
	return stream, nil
}

func (db *DB) GetStream(streamId int64) (*Stream, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	stream, ok := db.streams[streamId]
	if !ok {
		return nil, errors.Errorf("stream %d not found", streamId)
	}
	return stream, nil
}

// DeleteStream drops a stream and its persisted snapshot. The registry is
// rewritten so the id is not resurrected on reopen.
func (db *DB) DeleteStream(streamId int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stream, ok := db.streams[streamId]
	if !ok {
		return errors.Errorf("stream %d not found", streamId)
	}
	if err := stream.store.Delete(streamId); err != nil {
		return errors.Wrapf(err, "delete stream %d snapshot", streamId)
	}
	delete(db.streams, streamId)

	dbBuf, err := DBSnapshotToBytes(db.registrySnapshot())
	if err != nil {
		return err
	}
	return db.mds.PutDB(dbBuf)
}

// Compare flushes both streams and runs the two-sample t-test on their
// sufficient statistics. Fails with stats.ErrInsufficientData unless both
// sides hold at least two observations.
func (db *DB) Compare(streamIdA, streamIdB int64) (*stats.TTestResult, error) {
	streamA, err := db.GetStream(streamIdA)
	if err != nil {
		return nil, err
	}
	streamB, err := db.GetStream(streamIdB)
	if err != nil {
		return nil, err
	}
	if err := streamA.Flush(); err != nil {
		return nil, err
	}
	if err := streamB.Flush(); err != nil {
		return nil, err
	}
	return stats.TTest(streamA.Stats(), streamB.Stats())
}

func (db *DB) Flush() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, stream := range db.streams {
		if err := stream.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) Close() error {
	if err := db.Flush(); err != nil {
		return err
	}
	return db.backend.Close()
}

func (db *DB) writeDBAndStream(stream *Stream) error {
	dbBuf, err := DBSnapshotToBytes(db.registrySnapshot())
	if err != nil {
		return err
	}
	streamBuf, err := MetadataToBytes(&StreamMetadata{
		StreamId: stream.streamId,
		Name:     stream.name,
	})
	if err != nil {
		return err
	}
	return db.mds.PutDBAndStream(dbBuf, stream.streamId, streamBuf)
}

func (db *DB) registrySnapshot() *DBSnapshot {
	streamIds := make([]int64, 0, len(db.streams))
	for id := range db.streams {
		streamIds = append(streamIds, id)
	}
	return &DBSnapshot{
		StreamIds:    streamIds,
		NextStreamId: db.nextStreamId,
	}
}

// ReadDB loads the stream registry and primes every stream from its
// persisted snapshot. A missing registry means a freshly created DB.
func (db *DB) ReadDB() error {
	buf, err := db.mds.GetDB()
	if err != nil {
		return nil
	}
	dbSnapshot, err := BytesToDBSnapshot(buf)
	if err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextStreamId = dbSnapshot.NextStreamId

	for _, streamId := range dbSnapshot.StreamIds {
		metaBuf, err := db.mds.GetStream(streamId)
		if err != nil {
			return errors.Wrapf(err, "read stream %d metadata", streamId)
		}
		meta, err := BytesToMetadata(metaBuf)
		if err != nil {
			return err
		}
		stream := NewStreamWithId(meta.StreamId, meta.Name).
			SetConfig(db.config).
			SetBackend(db.backend, db.config.CacheEnabled)
		if err := stream.PrimeUp(); err != nil {
			return err
		}
		db.streams[streamId] = stream
	}
	return nil
}
