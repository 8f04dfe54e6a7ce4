package core

type StoreConfig struct {
	// BufferSize is the IngestBuffer capacity used by Stream.Append.
	// Zero means unbuffered: each appended value folds immediately.
	BufferSize int64

	// CacheEnabled puts a ristretto cache in front of snapshot reads.
	CacheEnabled bool
}

func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		BufferSize:   1024,
		CacheEnabled: true,
	}
}
