// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/rewardmill/rewardmill/mill"
)

// Key is anything that can position a mapping entry.
type Key interface {
	Bytes() []byte
}

// Index is an integer mapping key.
type Index uint64

func (i Index) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(i))
}

// Topic renders the index as an event topic.
func (i Index) Topic() mill.Bytes32 {
	return mill.BytesToBytes32(i.Bytes())
}

// PairKey keys a mapping by an ordered pair of addresses.
type PairKey struct {
	A, B mill.Address
}

func (p PairKey) Bytes() []byte {
	return append(p.A.Bytes(), p.B.Bytes()...)
}

// AddressTopic renders an address as an event topic.
func AddressTopic(addr mill.Address) mill.Bytes32 {
	return mill.BytesToBytes32(addr.Bytes())
}
