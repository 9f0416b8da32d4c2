// Copyright (c) 2025 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/state"
)

// Context binds a built-in contract to its storage account and the time of the current call.
type Context struct {
	address mill.Address
	state   *state.State
	now     uint64
}

func NewContext(address mill.Address, state *state.State, now uint64) *Context {
	return &Context{
		address: address,
		state:   state,
		now:     now,
	}
}

func (c *Context) Address() mill.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Now returns the clock value of the current call, in seconds.
func (c *Context) Now() uint64 {
	return c.now
}

// Emit journals an event with data rendered as JSON.
func (c *Context) Emit(name string, data any, topics ...mill.Bytes32) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "encode %s event", name)
	}
	c.state.AddEvent(&state.Event{
		Address: c.address,
		Name:    name,
		Topics:  topics,
		Data:    raw,
	})
	return nil
}

// Slot derives a storage position from a variable name.
func Slot(name string) mill.Bytes32 {
	return mill.BytesToBytes32([]byte(name))
}
