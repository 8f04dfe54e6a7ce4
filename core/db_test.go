package core

import (
	"testing"

	"batchstats/stats"
	"batchstats/storage"
	"batchstats/utils"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func testDB() *DB {
	return NewWithBackend(
		storage.NewInMemoryBackend(),
		storage.NewSimpleMetadataStore(),
		&StoreConfig{BufferSize: 0, CacheEnabled: false})
}

func TestDB_NewStream(t *testing.T) {
	db := testDB()

	a, err := db.NewStream("treatment")
	assert.NoError(t, err)
	b, err := db.NewStream("control")
	assert.NoError(t, err)

	utils.AssertEqual(t, a.Id(), int64(0))
	utils.AssertEqual(t, b.Id(), int64(1))
	utils.AssertEqual(t, a.Name(), "treatment")

	got, err := db.GetStream(a.Id())
	assert.NoError(t, err)
	assert.Equal(t, a.Id(), got.Id())

	_, err = db.GetStream(42)
	assert.Error(t, err)
}

func TestDB_Compare(t *testing.T) {
	db := testDB()

	a, err := db.NewStream("treatment")
	assert.NoError(t, err)
	b, err := db.NewStream("control")
	assert.NoError(t, err)

	// Same data as the stats-level known-value test, fed in two batches.
	assert.NoError(t, a.Update([]float64{10.0, 12.5, 11.2}))
	assert.NoError(t, a.Update([]float64{13.1, 9.8, 12.2}))
	assert.NoError(t, b.Update([]float64{8.1, 9.0}))
	assert.NoError(t, b.Update([]float64{10.2, 8.7, 9.9}))

	result, err := db.Compare(a.Id(), b.Id())
	assert.NoError(t, err)
	utils.AssertClose(t, result.Statistic, 3.376975647358412, 1e-9)
	utils.AssertClose(t, result.DF, 8.514873199983507, 1e-9)
	utils.AssertClose(t, result.PValue, 0.00884360734567686, 1e-8)
}

func TestDB_CompareFlushesBuffers(t *testing.T) {
	db := NewWithBackend(
		storage.NewInMemoryBackend(),
		storage.NewSimpleMetadataStore(),
		&StoreConfig{BufferSize: 16, CacheEnabled: false})

	a, err := db.NewStream("a")
	assert.NoError(t, err)
	b, err := db.NewStream("b")
	assert.NoError(t, err)

	for _, v := range []float64{1, 2, 3, 4} {
		assert.NoError(t, a.Append(v))
	}
	for _, v := range []float64{2, 3, 4, 5} {
		assert.NoError(t, b.Append(v))
	}

	result, err := db.Compare(a.Id(), b.Id())
	assert.NoError(t, err)
	utils.AssertClose(t, result.Statistic, -1.0954451150103321, 1e-9)
	utils.AssertClose(t, result.PValue, 0.3153335962012299, 1e-8)
}

func TestDB_CompareInsufficientData(t *testing.T) {
	db := testDB()

	a, err := db.NewStream("a")
	assert.NoError(t, err)
	b, err := db.NewStream("b")
	assert.NoError(t, err)

	assert.NoError(t, a.Update([]float64{1}))
	assert.NoError(t, b.Update([]float64{1, 2}))

	_, err = db.Compare(a.Id(), b.Id())
	assert.Equal(t, stats.ErrInsufficientData, err)
}

func TestDB_Restore(t *testing.T) {
	backend := storage.NewInMemoryBackend()
	mds := storage.NewSimpleMetadataStore()
	config := &StoreConfig{BufferSize: 0, CacheEnabled: false}

	db := NewWithBackend(backend, mds, config)
	a, err := db.NewStream("treatment")
	assert.NoError(t, err)
	assert.NoError(t, a.Update([]float64{1, 2, 3, 4}))
	assert.NoError(t, a.Update([]float64{5, 6}))
	assert.NoError(t, db.Flush())

	reopened := NewWithBackend(backend, mds, config)
	assert.NoError(t, reopened.ReadDB())

	restored, err := reopened.GetStream(a.Id())
	assert.NoError(t, err)
	utils.AssertEqual(t, restored.Name(), "treatment")
	if diff := cmp.Diff(a.Summary(), restored.Summary()); diff != "" {
		t.Fatalf("restored stream differs:\n%s", diff)
	}

	// Fresh ids continue after the restored ones.
	b, err := reopened.NewStream("control")
	assert.NoError(t, err)
	utils.AssertEqual(t, b.Id(), int64(1))
}

func TestDB_DeleteStream(t *testing.T) {
	backend := storage.NewInMemoryBackend()
	mds := storage.NewSimpleMetadataStore()
	config := &StoreConfig{BufferSize: 0, CacheEnabled: false}

	db := NewWithBackend(backend, mds, config)
	a, err := db.NewStream("doomed")
	assert.NoError(t, err)
	assert.NoError(t, a.Update([]float64{1, 2, 3}))

	assert.NoError(t, db.DeleteStream(a.Id()))
	_, err = db.GetStream(a.Id())
	assert.Error(t, err)
	_, err = backend.Get(a.Id())
	assert.Equal(t, storage.ErrSnapshotNotFound, err)

	// Gone after reopen too.
	reopened := NewWithBackend(backend, mds, config)
	assert.NoError(t, reopened.ReadDB())
	_, err = reopened.GetStream(a.Id())
	assert.Error(t, err)
}

func TestDB_Badger(t *testing.T) {
	db, err := New("")
	assert.NoError(t, err)
	defer db.Close()

	a, err := db.NewStream("a")
	assert.NoError(t, err)
	b, err := db.NewStream("b")
	assert.NoError(t, err)

	assert.NoError(t, a.Update([]float64{1, 2, 3, 4}))
	assert.NoError(t, b.Update([]float64{2, 3, 4, 5}))

	result, err := db.Compare(a.Id(), b.Id())
	assert.NoError(t, err)
	utils.AssertClose(t, result.Statistic, -1.0954451150103321, 1e-9)
}
