// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/rewardmill/rewardmill/metrics"

var (
	metricTxCount    = metrics.LazyLoadCounterVec("tx_count", []string{"method", "status"})
	metricTxDuration = metrics.LazyLoadHistogramVec("tx_duration_ms", []string{"method"}, metrics.BucketExec)
	metricEventCount = metrics.LazyLoadCounter("tx_events_count")
)
