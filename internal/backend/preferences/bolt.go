package preferences

import (
	"bytes"
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

const preferencesBucket = "preferences"

// BoltStore keeps preferences in a single bbolt file.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(dbPath string) (*BoltStore, error) {
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(preferencesBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(_ context.Context, key string) (value string, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		// seek instead of Get so that empty values are reported as present
		k, data := tx.Bucket([]byte(preferencesBucket)).Cursor().Seek([]byte(key))
		if k != nil && bytes.Equal(k, []byte(key)) {
			// data is only valid inside the transaction
			value, ok = string(data), true
		}
		return nil
	})
	return value, ok, err
}

func (s *BoltStore) Set(_ context.Context, key string, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(preferencesBucket)).Put([]byte(key), []byte(value))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
