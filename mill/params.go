// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mill

// Protocol constants.
const (
	// BasisPoints is the denominator of every ratio expressed in bps.
	BasisPoints = 10000

	// MaxBridgeDepth bounds the number of bridge hops a conversion may walk.
	MaxBridgeDepth = 3

	// SecondsPerYear is used to annualise vault price samples.
	SecondsPerYear = 365 * 24 * 60 * 60

	// DefaultSamplingInterval is the minimum spacing of vault price samples.
	DefaultSamplingInterval = 24 * 60 * 60
)
