// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for events
const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	receiptID text,
	time integer,
	eventIndex integer,
	caller blob(20),
	address blob(20),
	name text,
	topic0 blob(32),
	topic1 blob(32),
	topic2 blob(32),
	topic3 blob(32),
	data blob
);

CREATE INDEX if not exists eventTimeIndex on event(time);
CREATE INDEX if not exists eventAddressIndex on event(address, name);
CREATE INDEX if not exists eventReceiptIndex on event(receiptID);

CREATE INDEX if not exists eventTopicIndex0 on event(topic0);
CREATE INDEX if not exists eventTopicIndex1 on event(topic1);
CREATE INDEX if not exists eventTopicIndex2 on event(topic2);
CREATE INDEX if not exists eventTopicIndex3 on event(topic3);
`
