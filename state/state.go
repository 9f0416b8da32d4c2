// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/rewardmill/rewardmill/kv"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/stackedmap"
)

const (
	// StorageBucket is the kv bucket holding committed contract storage.
	StorageBucket = kv.Bucket("s")

	defaultCacheSize = 4096
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr mill.Address
	key  mill.Bytes32
}

func (k storageKey) bytes() []byte {
	return append(k.addr.Bytes(), k.key.Bytes()...)
}

// State manages contract storage and the events emitted while mutating it.
// Writes are kept in memory until Commit, and can be reverted to any checkpoint.
type State struct {
	store  kv.Store
	cache  *lru.Cache
	sm     *stackedmap.StackedMap[storageKey, rlp.RawValue]
	events []*Event
	marks  []int
}

// New create state object over the given store.
func New(store kv.Store) *State {
	cache, _ := lru.New(defaultCacheSize)
	s := &State{
		store: StorageBucket.NewStore(store),
		cache: cache,
	}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.cacheGetter)
	s.events = nil
	s.marks = nil
	s.NewCheckpoint()
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key storageKey) (rlp.RawValue, bool, error) {
	if v, ok := s.cache.Get(key); ok {
		metricStorageReads().AddWithLabel(1, map[string]string{"source": "cache"})
		return v.(rlp.RawValue), true, nil
	}
	metricStorageReads().AddWithLabel(1, map[string]string{"source": "store"})

	raw, err := s.store.Get(key.bytes())
	if err != nil {
		if s.store.IsNotFound(err) {
			s.cache.Add(key, rlp.RawValue(nil))
			return nil, true, nil
		}
		return nil, false, err
	}
	s.cache.Add(key, rlp.RawValue(raw))
	return raw, true, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr mill.Address, key mill.Bytes32) (mill.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return mill.Bytes32{}, err
	}
	if len(raw) == 0 {
		return mill.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return mill.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// structured value, return hash of raw data
		return mill.Blake2b(raw), nil
	}
	return mill.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr mill.Address, key, value mill.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr mill.Address, key mill.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr mill.Address, key mill.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr mill.Address, key mill.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr mill.Address, key mill.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// CommittedSlots counts the non-empty storage slots of addr in the store, ignoring
// uncommitted writes.
func (s *State) CommittedSlots(addr mill.Address) (int, error) {
	it := s.store.Iterate(kv.Range{
		Start: addr.Bytes(),
		Limit: util.BytesPrefix(addr.Bytes()).Limit,
	})
	defer it.Release()

	n := 0
	for it.Next() {
		n++
	}
	if err := it.Error(); err != nil {
		return 0, &Error{err}
	}
	return n, nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	s.marks = append(s.marks, len(s.events))
	return s.sm.Push()
}

// RevertTo revert storage writes and events to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if revision < len(s.marks) {
		s.events = s.events[:s.marks[revision]]
		s.marks = s.marks[:revision]
	}
	if s.sm.Depth() == 0 {
		s.NewCheckpoint()
	}
}

// Commit writes all pending storage changes into the store in a single batch and
// returns the events emitted since the last commit.
func (s *State) Commit() ([]*Event, error) {
	var (
		changes = make(map[storageKey]rlp.RawValue)
		order   []storageKey
	)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = v
		return true
	})

	batch := s.store.NewBatch()
	for _, k := range order {
		v := changes[k]
		if len(v) == 0 {
			if err := batch.Delete(k.bytes()); err != nil {
				return nil, &Error{err}
			}
		} else if err := batch.Put(k.bytes(), v); err != nil {
			return nil, &Error{err}
		}
	}
	if batch.Len() > 0 {
		if err := batch.Write(); err != nil {
			return nil, &Error{err}
		}
	}
	for _, k := range order {
		s.cache.Add(k, changes[k])
	}
	metricCommittedKeys().Add(int64(len(order)))

	events := s.events
	s.reset()
	return events, nil
}
