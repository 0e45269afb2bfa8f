package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/baekilha/baekilha/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	// Bucket names
	bucketMembers   = []byte("members")
	bucketParties   = []byte("parties")
	bucketSnapshots = []byte("snapshots")
	bucketViewState = []byte("view_state")
	bucketSync      = []byte("sync")
)

// BoltStore implements Store interface using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store. Each page process passes a
// distinct file name so their caches never contend for the bolt file lock.
func NewBoltStore(dataDir, name string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, name+".db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketMembers,
			bucketParties,
			bucketSnapshots,
			bucketViewState,
			bucketSync,
		}

		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Member operations. Name is the key: the feeds join on display name, so the
// cache does too.
func (s *BoltStore) SaveMember(member *types.Member) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMembers)
		data, err := json.Marshal(member)
		if err != nil {
			return err
		}
		return b.Put([]byte(member.Name), data)
	})
}

func (s *BoltStore) GetMemberByName(name string) (*types.Member, error) {
	var member types.Member
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMembers)
		data := b.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("member %s: %w", name, ErrNotFound)
		}
		return json.Unmarshal(data, &member)
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *BoltStore) ListMembers() ([]*types.Member, error) {
	var members []*types.Member
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMembers)
		return b.ForEach(func(k, v []byte) error {
			var member types.Member
			if err := json.Unmarshal(v, &member); err != nil {
				return err
			}
			members = append(members, &member)
			return nil
		})
	})
	return members, err
}

// ReplaceMembers swaps the cached roster wholesale after a reload.
func (s *BoltStore) ReplaceMembers(members []*types.Member) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketMembers); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketMembers)
		if err != nil {
			return err
		}
		for _, member := range members {
			data, err := json.Marshal(member)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(member.Name), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Party operations
func (s *BoltStore) SaveParty(party *types.Party) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketParties)
		data, err := json.Marshal(party)
		if err != nil {
			return err
		}
		return b.Put([]byte(party.Name), data)
	})
}

func (s *BoltStore) GetPartyByName(name string) (*types.Party, error) {
	var party types.Party
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketParties)
		data := b.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("party %s: %w", name, ErrNotFound)
		}
		return json.Unmarshal(data, &party)
	})
	if err != nil {
		return nil, err
	}
	return &party, nil
}

func (s *BoltStore) ListParties() ([]*types.Party, error) {
	var parties []*types.Party
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketParties)
		return b.ForEach(func(k, v []byte) error {
			var party types.Party
			if err := json.Unmarshal(v, &party); err != nil {
				return err
			}
			parties = append(parties, &party)
			return nil
		})
	})
	return parties, err
}

func (s *BoltStore) ReplaceParties(parties []*types.Party) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketParties); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketParties)
		if err != nil {
			return err
		}
		for _, party := range parties {
			data, err := json.Marshal(party)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(party.Name), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Snapshot operations. One cached original snapshot per entity kind, so reset
// to original never needs the network.
func (s *BoltStore) SaveOriginalSnapshot(snap *types.Snapshot) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSnapshots)
		data, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		return b.Put([]byte(snap.Kind), data)
	})
}

func (s *BoltStore) GetOriginalSnapshot(kind types.EntityKind) (*types.Snapshot, error) {
	var snap types.Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSnapshots)
		data := b.Get([]byte(kind))
		if data == nil {
			return fmt.Errorf("snapshot %s: %w", kind, ErrNotFound)
		}
		return json.Unmarshal(data, &snap)
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// View state operations
func (s *BoltStore) SaveViewState(page string, state *types.ViewState) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketViewState)
		data, err := json.Marshal(state)
		if err != nil {
			return err
		}
		return b.Put([]byte(page), data)
	})
}

func (s *BoltStore) GetViewState(page string) (*types.ViewState, error) {
	var state types.ViewState
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketViewState)
		data := b.Get([]byte(page))
		if data == nil {
			return fmt.Errorf("view state %s: %w", page, ErrNotFound)
		}
		return json.Unmarshal(data, &state)
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Sync cursor operations
func (s *BoltStore) SaveCursor(cursor *Cursor) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSync)
		data, err := json.Marshal(cursor)
		if err != nil {
			return err
		}
		return b.Put([]byte("cursor"), data)
	})
}

func (s *BoltStore) GetCursor() (*Cursor, error) {
	var cursor Cursor
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSync)
		data := b.Get([]byte("cursor"))
		if data == nil {
			return fmt.Errorf("cursor: %w", ErrNotFound)
		}
		return json.Unmarshal(data, &cursor)
	})
	if err != nil {
		return nil, err
	}
	return &cursor, nil
}
