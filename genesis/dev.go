// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/rewardmill/rewardmill/mill"
)

// DevAccounts are funded by DevConfig. The first one owns the deployment.
var DevAccounts = []mill.Address{
	mill.NameToAddress("dev-owner"),
	mill.NameToAddress("dev-alice"),
	mill.NameToAddress("dev-bob"),
}

// DevConfig returns the deployment used when no config file is given.
func DevConfig() *Config {
	owner := DevAccounts[0]

	balances := func(amount string) []Balance {
		out := make([]Balance, 0, len(DevAccounts))
		for _, acc := range DevAccounts {
			out = append(out, Balance{Account: acc, Amount: NewAmount(amount)})
		}
		return out
	}

	return &Config{
		Owner:       owner,
		RewardToken: "MILL",
		BaseToken:   "WETH",
		Tokens: []Token{
			{Symbol: "MILL", Balances: balances("10000000000000000000000000")},
			{Symbol: "WETH", Balances: balances("1000000000000000000000000")},
			{Symbol: "USDC", Balances: balances("1000000000000000000000000")},
			{Symbol: "DAI", Balances: balances("1000000000000000000000000")},
		},
		Emission: Emission{
			Mode:           "decay",
			EpochLength:    7 * 24 * 60 * 60,
			StartingAmount: NewAmount("1000000000000000000000000"),
			DecayBase:      NewAmount("900000000000000000"),
		},
		EmergencyPolicy:  "forfeit",
		VestingRatio:     2000,
		SamplingInterval: mill.DefaultSamplingInterval,
		Pairs: []Pair{
			{TokenA: "MILL", TokenB: "WETH", AmountA: NewAmount("100000000000000000000000"), AmountB: NewAmount("100000000000000000000")},
			{TokenA: "USDC", TokenB: "WETH", AmountA: NewAmount("200000000000000000000000"), AmountB: NewAmount("100000000000000000000")},
			{TokenA: "DAI", TokenB: "USDC", AmountA: NewAmount("100000000000000000000000"), AmountB: NewAmount("100000000000000000000000")},
		},
		Pools: []Pool{
			{Asset: "MILL/WETH", Points: 40},
			{Asset: "USDC/WETH", Points: 30},
			{Asset: "DAI/USDC", Points: 20},
			{Asset: "USDC", Points: 10},
		},
		Bridges: []Bridge{
			{Token: "DAI", Bridge: "USDC"},
		},
	}
}
