// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/state"
)

// MaxTopics is the number of indexed topics per event.
const MaxTopics = 4

// Event is a contract event as stored in db.
type Event struct {
	Seq       int64
	ReceiptID string
	Time      uint64
	Index     uint32
	Caller    mill.Address // who made the call
	Address   mill.Address // always a contract address
	Name      string
	Topics    [MaxTopics]*mill.Bytes32
	Data      []byte
}

func newEvent(receiptID string, time uint64, index uint32, caller mill.Address, ev *state.Event) *Event {
	out := &Event{
		ReceiptID: receiptID,
		Time:      time,
		Index:     index,
		Caller:    caller,
		Address:   ev.Address,
		Name:      ev.Name,
		Data:      ev.Data,
	}
	for i := 0; i < len(ev.Topics) && i < MaxTopics; i++ {
		out.Topics[i] = &ev.Topics[i]
	}
	return out
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive time range. A To below From leaves the range open ended.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *mill.Address // always a contract address
	Name    string
	Topics  [MaxTopics]*mill.Bytes32
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	ReceiptID   string
	AfterSeq    int64 // only events with a greater sequence number
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
