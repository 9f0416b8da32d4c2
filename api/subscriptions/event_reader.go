// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/rewardmill/rewardmill/api/events"
	"github.com/rewardmill/rewardmill/logdb"
)

// eventReader pages through indexed events that match a criteria, remembering the last
// sequence number it returned.
type eventReader struct {
	db       *logdb.LogDB
	criteria *logdb.EventCriteria
	seq      int64
	pageSize uint64
}

func newEventReader(db *logdb.LogDB, criteria *logdb.EventCriteria, position int64, pageSize uint64) *eventReader {
	return &eventReader{
		db:       db,
		criteria: criteria,
		seq:      position,
		pageSize: pageSize,
	}
}

// Read returns the next page of events, and whether more may be available right away.
func (er *eventReader) Read(ctx context.Context) ([]*events.FilteredEvent, bool, error) {
	filter := &logdb.EventFilter{
		AfterSeq: er.seq,
		Options:  &logdb.Options{Limit: er.pageSize},
	}
	if er.criteria != nil {
		filter.CriteriaSet = []*logdb.EventCriteria{er.criteria}
	}
	evs, err := er.db.FilterEvents(ctx, filter)
	if err != nil {
		return nil, false, err
	}
	msgs := make([]*events.FilteredEvent, 0, len(evs))
	for _, ev := range evs {
		msgs = append(msgs, events.ConvertEvent(ev))
		er.seq = ev.Seq
	}
	return msgs, uint64(len(evs)) == er.pageSize, nil
}
