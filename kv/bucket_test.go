// Copyright (c) 2021 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"bytes"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("not found")

type mem map[string]string

func (m mem) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errNotFound
}

func (m mem) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m mem) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m mem) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func (m mem) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

func (m mem) NewBatch() Batch {
	return &memBatch{m: m}
}

func (m mem) Iterate(r Range) Iterator {
	var keys []string
	for k := range m {
		if bytes.Compare([]byte(k), r.Start) >= 0 && (r.Limit == nil || bytes.Compare([]byte(k), r.Limit) < 0) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return &memIterator{m: m, keys: keys, i: -1}
}

type memBatch struct {
	m   mem
	ops []func()
}

func (b *memBatch) Put(k, v []byte) error {
	ks, vs := string(k), string(v)
	b.ops = append(b.ops, func() { b.m[ks] = vs })
	return nil
}

func (b *memBatch) Delete(k []byte) error {
	ks := string(k)
	b.ops = append(b.ops, func() { delete(b.m, ks) })
	return nil
}

func (b *memBatch) Len() int { return len(b.ops) }

func (b *memBatch) Write() error {
	for _, op := range b.ops {
		op()
	}
	return nil
}

type memIterator struct {
	m    mem
	keys []string
	i    int
}

func (it *memIterator) Next() bool {
	it.i++
	return it.i < len(it.keys)
}

func (it *memIterator) Key() []byte {
	return []byte(it.keys[it.i])
}

func (it *memIterator) Value() []byte {
	return []byte(it.m[it.keys[it.i]])
}

func (it *memIterator) Release() {}

func (it *memIterator) Error() error {
	return nil
}

func TestBucketGet(t *testing.T) {
	m := mem{"k1": "v1", "k2": "v2"}

	tests := []struct {
		b    Bucket
		key  string
		want string
		has  bool
	}{
		{Bucket(""), "k1", "v1", true},
		{Bucket("k"), "k1", "", false},
		{Bucket("k"), "1", "v1", true},
		{Bucket("k"), "2", "v2", true},
		{Bucket("k1"), "", "v1", true},
	}
	for _, tt := range tests {
		store := tt.b.NewStore(m)
		got, err := store.Get([]byte(tt.key))
		if tt.has {
			assert.NoError(t, err)
		} else {
			assert.True(t, store.IsNotFound(err))
		}
		assert.Equal(t, tt.want, string(got))

		has, _ := store.Has([]byte(tt.key))
		assert.Equal(t, tt.has, has)
	}
}

func TestBucketBatch(t *testing.T) {
	m := mem{"sb": "old"}
	store := Bucket("s").NewStore(m)

	batch := store.NewBatch()
	require.NoError(t, batch.Put([]byte("a"), []byte("1")))
	require.NoError(t, batch.Delete([]byte("b")))
	assert.Equal(t, 2, batch.Len())
	assert.Equal(t, mem{"sb": "old"}, m)

	require.NoError(t, batch.Write())
	assert.Equal(t, mem{"sa": "1"}, m)
}

func TestBucketIterate(t *testing.T) {
	m := mem{"pa": "1", "pb": "2", "pc": "3", "q": "x", "o": "y"}
	store := Bucket("p").NewStore(m)

	collect := func(r Range) (keys []string) {
		it := store.Iterate(r)
		defer it.Release()
		for it.Next() {
			keys = append(keys, string(it.Key()))
		}
		require.NoError(t, it.Error())
		return
	}
	assert.Equal(t, []string{"a", "b", "c"}, collect(Range{}))
	assert.Equal(t, []string{"b"}, collect(Range{Start: []byte("b"), Limit: []byte("c")}))
}
