// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import "github.com/rewardmill/rewardmill/metrics"

var (
	metricPoolUpdates = metrics.LazyLoadCounter("rewards_pool_updates_count")
	metricPoolChanges = metrics.LazyLoadCounterVec("rewards_pool_changes_count", []string{"op"})
	metricStakeOps    = metrics.LazyLoadCounterVec("rewards_stake_ops_count", []string{"op"})
	metricPayouts     = metrics.LazyLoadCounter("rewards_payouts_count")
)
