// Copyright (c) 2024 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/rewardmill/rewardmill/metrics"

var (
	metricStorageReads  = metrics.LazyLoadCounterVec("state_storage_reads_count", []string{"source"})
	metricCommittedKeys = metrics.LazyLoadCounter("state_committed_keys_count")
)
