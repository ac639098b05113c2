package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const gameKeyPrefix = "game:"

var ErrRecordNotFound = errors.New("game record not found")

// GameRecord is the persisted form of a game: its seats and the plies played,
// in move notation, oldest first. Replaying Moves from the starting position
// rebuilds the game.
type GameRecord struct {
	ID        string    `json:"id"`
	White     string    `json:"white"`
	Black     string    `json:"black"`
	Moves     []string  `json:"moves"`
	Resolve   string    `json:"resolve,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Archive wraps BadgerDB for game records
type Archive struct {
	db *badger.DB
}

// Open opens the archive in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Archive, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable badger's own logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the database. Closing twice is a no-op.
func (a *Archive) Close() error {
	if a.db != nil && !a.db.IsClosed() {
		return a.db.Close()
	}
	return nil
}

func (a *Archive) Closed() bool {
	return a.db == nil || a.db.IsClosed()
}

// SaveGame writes rec, replacing any earlier record with the same id.
func (a *Archive) SaveGame(rec *GameRecord) error {
	if rec.ID == "" {
		return errors.New("game record has no id")
	}
	rec.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

// LoadGame returns the record for id, or ErrRecordNotFound.
func (a *Archive) LoadGame(id string) (*GameRecord, error) {
	rec := &GameRecord{}

	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRecordNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListGames returns every stored record, ordered by id.
func (a *Archive) ListGames() ([]*GameRecord, error) {
	records := make([]*GameRecord, 0)

	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gameKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			rec := &GameRecord{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}

// DeleteGame removes the record for id. Deleting a missing record is not an error.
func (a *Archive) DeleteGame(id string) error {
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
}

func gameKey(id string) []byte {
	return []byte(gameKeyPrefix + id)
}
