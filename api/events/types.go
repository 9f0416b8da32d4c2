// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"
	"math"

	"github.com/rewardmill/rewardmill/logdb"
	"github.com/rewardmill/rewardmill/mill"
)

type Range struct {
	From *uint64 `json:"from"`
	To   *uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventCriteria struct {
	Address *mill.Address `json:"address"`
	Name    string        `json:"name"`
	Topic0  *mill.Bytes32 `json:"topic0"`
	Topic1  *mill.Bytes32 `json:"topic1"`
	Topic2  *mill.Bytes32 `json:"topic2"`
	Topic3  *mill.Bytes32 `json:"topic3"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	ReceiptID   string           `json:"receiptID"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

// FilteredEvent is an indexed event as served by the API.
type FilteredEvent struct {
	Seq       int64           `json:"seq"`
	ReceiptID string          `json:"receiptID"`
	Time      uint64          `json:"time"`
	Index     uint32          `json:"index"`
	Caller    mill.Address    `json:"caller"`
	Address   mill.Address    `json:"address"`
	Name      string          `json:"name"`
	Topics    []*mill.Bytes32 `json:"topics"`
	Data      json.RawMessage `json:"data"`
}

// ConvertEvent converts an event from the log db.
func ConvertEvent(ev *logdb.Event) *FilteredEvent {
	out := &FilteredEvent{
		Seq:       ev.Seq,
		ReceiptID: ev.ReceiptID,
		Time:      ev.Time,
		Index:     ev.Index,
		Caller:    ev.Caller,
		Address:   ev.Address,
		Name:      ev.Name,
		Topics:    make([]*mill.Bytes32, 0, logdb.MaxTopics),
		Data:      json.RawMessage(ev.Data),
	}
	for _, topic := range ev.Topics {
		if topic != nil {
			out.Topics = append(out.Topics, topic)
		}
	}
	if len(out.Data) == 0 {
		out.Data = json.RawMessage("null")
	}
	return out
}

func convertFilter(f *EventFilter) *logdb.EventFilter {
	out := &logdb.EventFilter{
		ReceiptID: f.ReceiptID,
		Order:     f.Order,
	}
	for _, c := range f.CriteriaSet {
		out.CriteriaSet = append(out.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Name:    c.Name,
			Topics:  [logdb.MaxTopics]*mill.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3},
		})
	}
	if f.Range != nil {
		r := &logdb.Range{}
		if f.Range.From != nil {
			r.From = *f.Range.From
		}
		if f.Range.To != nil {
			r.To = *f.Range.To
		} else {
			r.To = math.MaxInt64
		}
		out.Range = r
	}
	if f.Options != nil {
		out.Options = &logdb.Options{Offset: f.Options.Offset, Limit: f.Options.Limit}
	}
	return out
}
