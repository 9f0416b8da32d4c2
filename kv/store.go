// Copyright (c) 2019 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key/value storage the state is persisted in.
package kv

type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	// IsNotFound reports whether err is the missing-key error of Get.
	IsNotFound(err error) bool
}

type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Batch buffers puts and deletes until Write applies them atomically.
type Batch interface {
	Putter
	Len() int
	Write() error
}

// Iterator walks keys in ascending order. Key and Value are only valid until the next call to Next.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range selects keys in [Start, Limit). A nil Limit means no upper bound.
type Range struct {
	Start []byte
	Limit []byte
}

type Store interface {
	Getter
	Putter
	NewBatch() Batch
	Iterate(r Range) Iterator
}

type StoreCloser interface {
	Store
	Close() error
}
