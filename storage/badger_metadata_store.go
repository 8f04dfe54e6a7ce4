package storage

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v2"
)

const DbKey = "DBKEY"

const metadataKeyTag byte = 'm'

func GetMetadataKey(streamID int64) []byte {
	key := make([]byte, 9)
	key[0] = metadataKeyTag
	binary.LittleEndian.PutUint64(key[1:], uint64(streamID))
	return key
}

type BadgerMetadataStore struct {
	db *badger.DB
}

func NewBadgerMetadataStore(db *badger.DB) *BadgerMetadataStore {
	return &BadgerMetadataStore{db: db}
}

func (bms *BadgerMetadataStore) get(key []byte) ([]byte, error) {
	var buf []byte
	err := bms.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		buf, err = item.ValueCopy(nil)
		return err
	})
	return buf, err
}

func (bms *BadgerMetadataStore) put(key, buf []byte) error {
	return bms.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
}

func (bms *BadgerMetadataStore) PutDB(buf []byte) error {
	return bms.put([]byte(DbKey), buf)
}

func (bms *BadgerMetadataStore) GetDB() ([]byte, error) {
	return bms.get([]byte(DbKey))
}

func (bms *BadgerMetadataStore) PutStream(streamID int64, buf []byte) error {
	return bms.put(GetMetadataKey(streamID), buf)
}

func (bms *BadgerMetadataStore) GetStream(streamID int64) ([]byte, error) {
	return bms.get(GetMetadataKey(streamID))
}

func (bms *BadgerMetadataStore) PutDBAndStream(
	dbBuf []byte, streamID int64, streamBuf []byte) error {
	return bms.db.Update(func(txn *badger.Txn) error {
		err := txn.Set([]byte(DbKey), dbBuf)
		if err != nil {
			return err
		}
		return txn.Set(GetMetadataKey(streamID), streamBuf)
	})
}
