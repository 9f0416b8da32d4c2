// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import "github.com/rewardmill/rewardmill/metrics"

var (
	metricVaultOps   = metrics.LazyLoadCounterVec("vault_ops_count", []string{"op"})
	metricSharePrice = metrics.LazyLoadGauge("vault_share_price_micros")
)
