// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package swap

import "github.com/rewardmill/rewardmill/metrics"

var metricSwaps = metrics.LazyLoadCounter("swap_trades_count")
