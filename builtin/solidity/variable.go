// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/mill"
)

var errUnderflow = errors.New("uint256 underflow")

// Variable is a single rlp encoded value at a fixed slot.
type Variable[V any] struct {
	context *Context
	pos     mill.Bytes32
}

func NewVariable[V any](context *Context, pos mill.Bytes32) *Variable[V] {
	return &Variable[V]{context: context, pos: pos}
}

func (v *Variable[V]) Get() (value V, err error) {
	err = v.context.state.DecodeStorage(v.context.address, v.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (v *Variable[V]) Set(value V) error {
	return v.context.state.EncodeStorage(v.context.address, v.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
// If the provided uint exceeds 256 bits, it will be truncated to fit into mill.Bytes32
type Uint256 struct {
	context *Context
	pos     mill.Bytes32
}

func NewUint256(context *Context, slot mill.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint256) Set(value *big.Int) {
	u.context.state.SetStorage(u.context.address, u.pos, mill.BytesToBytes32(value.Bytes()))
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	u.Set(storage.Add(storage, value))
	return nil
}

// Sub fails instead of wrapping when value exceeds the stored amount.
func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if storage.Cmp(value) < 0 {
		return errUnderflow
	}
	u.Set(storage.Sub(storage, value))
	return nil
}

// Address is a wrapper for storage and retrieval of an address.
type Address struct {
	context *Context
	pos     mill.Bytes32
}

func NewAddress(context *Context, pos mill.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (mill.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return mill.Address{}, err
	}
	return mill.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr mill.Address) {
	a.context.state.SetStorage(a.context.address, a.pos, mill.BytesToBytes32(addr.Bytes()))
}
