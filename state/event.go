// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"encoding/json"

	"github.com/rewardmill/rewardmill/mill"
)

// Event is an observable side effect of a state transition.
type Event struct {
	Address mill.Address    `json:"address"`
	Name    string          `json:"name"`
	Topics  []mill.Bytes32  `json:"topics"`
	Data    json.RawMessage `json:"data"`
}

// AddEvent appends an event to the journal. It is dropped if the enclosing checkpoint
// is reverted.
func (s *State) AddEvent(ev *Event) {
	s.events = append(s.events, ev)
}

// Events returns events emitted since the last commit.
func (s *State) Events() []*Event {
	return s.events
}
